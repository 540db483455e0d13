package domain

type LoanInput struct {
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"` // annual, percent
	TermMonths   int     `json:"term_months"`
}

type LoanResult struct {
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
}

// ScheduleEntry is one period of an amortization schedule. PrincipalComponent
// is negative when the payment did not cover the period's interest.
type ScheduleEntry struct {
	Period             int     `json:"period"`
	Payment            float64 `json:"payment"`
	InterestComponent  float64 `json:"interest_component"`
	PrincipalComponent float64 `json:"principal_component"`
	RemainingBalance   float64 `json:"remaining_balance"`
}

type Schedule []ScheduleEntry

type AmortizationResult struct {
	LoanResult
	Schedule Schedule `json:"schedule"`
}

type PrepaymentInput struct {
	LoanInput
	ExtraMonthlyPayment float64 `json:"extra_monthly_payment"`
}

type PrepaymentResult struct {
	MonthlyPayment         float64  `json:"monthly_payment"`
	TotalInterest          float64  `json:"total_interest"`
	TotalInterestWithExtra float64  `json:"total_interest_with_extra"`
	MonthsWithExtra        int      `json:"months_with_extra"`
	InterestSaved          float64  `json:"interest_saved"`
	MonthsSaved            int      `json:"months_saved"`
	Schedule               Schedule `json:"schedule"`
}

type LoanOffer struct {
	Name         string  `json:"name"`
	Amount       float64 `json:"amount"`
	InterestRate float64 `json:"interest_rate"`
	TermMonths   int     `json:"term_months"`
	ClosingCosts float64 `json:"closing_costs"`
}

type LoanComparisonInput struct {
	Current  LoanOffer `json:"current"`
	Proposed LoanOffer `json:"proposed"`
}

type LoanComparisonResult struct {
	Current        LoanResult `json:"current"`
	Proposed       LoanResult `json:"proposed"`
	MonthlySavings float64    `json:"monthly_savings"`
	InterestSaved  float64    `json:"interest_saved"`
	// BreakEvenMonths is nil when the proposed offer never recovers its costs.
	BreakEvenMonths *float64 `json:"break_even_months"`
}

type PrequalInput struct {
	MonthlyIncome       float64 `json:"monthly_income"`
	ExistingMonthlyDebt float64 `json:"existing_monthly_debt"`
	TargetDTIPercent    float64 `json:"target_dti_percent"`
	InterestRate        float64 `json:"interest_rate"`
	TermMonths          int     `json:"term_months"`
}

type PrequalResult struct {
	MaxMonthlyPayment float64 `json:"max_monthly_payment"`
	MaxLoanAmount     float64 `json:"max_loan_amount"`
}

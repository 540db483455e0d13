package service

import (
	"math"

	"payoff-engine/domain"
)

type LoanService struct{}

// NewLoanService creates a new LoanService.
func NewLoanService() *LoanService {
	return &LoanService{}
}

// levelPayment is the reducing-balance annuity payment for a monthly rate r
// over n periods. A zero rate degenerates to straight-line repayment.
func levelPayment(principal, r float64, n int) float64 {
	if r == 0 {
		return principal / float64(n)
	}
	return principal * (r / (1 - math.Pow(1+r, -float64(n))))
}

func validateLoan(input domain.LoanInput) error {
	if err := checkAmount("amount", input.Amount, 0, MaxLoanAmount, true); err != nil {
		return err
	}
	if err := checkAmount("interest_rate", input.InterestRate, 0, MaxInterestRate, false); err != nil {
		return err
	}
	if input.TermMonths < MinTermMonths {
		return invalid("term_months", "must be at least %d", MinTermMonths)
	}
	if input.TermMonths > MaxTermMonths {
		return invalid("term_months", "exceeds the maximum of %d months", MaxTermMonths)
	}
	return nil
}

// CalculateLoan calculates the level monthly payment and totals for a loan.
func (s *LoanService) CalculateLoan(
	input domain.LoanInput,
) (domain.LoanResult, error) {
	if err := validateLoan(input); err != nil {
		return domain.LoanResult{}, err
	}

	payment := levelPayment(input.Amount, input.InterestRate/1200, input.TermMonths)
	total := payment * float64(input.TermMonths)

	return domain.LoanResult{
		MonthlyPayment: roundTo2Decimals(payment),
		TotalPayment:   roundTo2Decimals(total),
		TotalInterest:  roundTo2Decimals(total - input.Amount),
	}, nil
}

// amortize runs a reducing-balance schedule of n level payments. The last
// period settles whatever floating residue is left so the balance ends at 0.
func amortize(principal, r, payment float64, n, firstPeriod int) (domain.Schedule, float64) {
	schedule := make(domain.Schedule, 0, n)
	balance := principal
	totalInterest := 0.0

	for i := 0; i < n && balance > 0; i++ {
		interest := balance * r
		paid := payment
		principalPaid := paid - interest
		if i == n-1 || principalPaid >= balance {
			principalPaid = balance
			paid = balance + interest
		}
		balance -= principalPaid
		totalInterest += interest

		schedule = append(schedule, domain.ScheduleEntry{
			Period:             firstPeriod + i,
			Payment:            paid,
			InterestComponent:  interest,
			PrincipalComponent: principalPaid,
			RemainingBalance:   balance,
		})
	}
	return schedule, totalInterest
}

// AmortizationSchedule returns the full period-by-period schedule of a loan.
func (s *LoanService) AmortizationSchedule(
	input domain.LoanInput,
) (domain.AmortizationResult, error) {
	if err := validateLoan(input); err != nil {
		return domain.AmortizationResult{}, err
	}

	r := input.InterestRate / 1200
	payment := levelPayment(input.Amount, r, input.TermMonths)
	schedule, interest := amortize(input.Amount, r, payment, input.TermMonths, 1)

	return domain.AmortizationResult{
		LoanResult: domain.LoanResult{
			MonthlyPayment: roundTo2Decimals(payment),
			TotalPayment:   roundTo2Decimals(input.Amount + interest),
			TotalInterest:  roundTo2Decimals(interest),
		},
		Schedule: roundSchedule(schedule),
	}, nil
}

// CalculatePrepayment pays the level payment plus a fixed extra amount every
// month and reports how much interest and time that saves.
func (s *LoanService) CalculatePrepayment(
	input domain.PrepaymentInput,
) (domain.PrepaymentResult, error) {
	if err := validateLoan(input.LoanInput); err != nil {
		return domain.PrepaymentResult{}, err
	}
	if err := checkAmount("extra_monthly_payment", input.ExtraMonthlyPayment, 0, MaxLoanAmount, false); err != nil {
		return domain.PrepaymentResult{}, err
	}

	r := input.InterestRate / 1200
	n := input.TermMonths
	payment := levelPayment(input.Amount, r, n)
	baseInterest := payment*float64(n) - input.Amount

	balance := input.Amount
	months := 0
	interestWithExtra := 0.0
	schedule := domain.Schedule{}

	for balance > DebtBalanceTolerance && months < MaxTermMonths {
		interest := balance * r
		paid := math.Min(balance+interest, payment+input.ExtraMonthlyPayment)
		principalPaid := paid - interest
		balance = math.Max(0, balance-principalPaid)
		interestWithExtra += interest
		months++

		schedule = append(schedule, roundEntry(domain.ScheduleEntry{
			Period:             months,
			Payment:            paid,
			InterestComponent:  interest,
			PrincipalComponent: principalPaid,
			RemainingBalance:   balance,
		}))
	}

	return domain.PrepaymentResult{
		MonthlyPayment:         roundTo2Decimals(payment),
		TotalInterest:          roundTo2Decimals(baseInterest),
		TotalInterestWithExtra: roundTo2Decimals(interestWithExtra),
		MonthsWithExtra:        months,
		InterestSaved:          roundTo2Decimals(math.Max(0, baseInterest-interestWithExtra)),
		MonthsSaved:            max(0, n-months),
		Schedule:               schedule,
	}, nil
}

// CompareLoans puts two offers side by side. For a refinance the break-even
// point is the proposed offer's closing costs divided by the monthly savings.
func (s *LoanService) CompareLoans(
	input domain.LoanComparisonInput,
) (domain.LoanComparisonResult, error) {
	offers := []domain.LoanOffer{input.Current, input.Proposed}
	results := make([]domain.LoanResult, len(offers))
	payments := make([]float64, len(offers))

	for i, offer := range offers {
		loan := domain.LoanInput{
			Amount:       offer.Amount,
			InterestRate: offer.InterestRate,
			TermMonths:   offer.TermMonths,
		}
		if err := checkAmount("closing_costs", offer.ClosingCosts, 0, MaxLoanAmount, false); err != nil {
			return domain.LoanComparisonResult{}, err
		}
		result, err := s.CalculateLoan(loan)
		if err != nil {
			return domain.LoanComparisonResult{}, err
		}
		results[i] = result
		payments[i] = levelPayment(loan.Amount, loan.InterestRate/1200, loan.TermMonths)
	}

	savings := math.Max(0, payments[0]-payments[1])
	comparison := domain.LoanComparisonResult{
		Current:        results[0],
		Proposed:       results[1],
		MonthlySavings: roundTo2Decimals(savings),
		InterestSaved:  roundTo2Decimals(results[0].TotalInterest - results[1].TotalInterest),
	}
	if savings > 0 {
		breakEven := roundTo2Decimals(input.Proposed.ClosingCosts / savings)
		comparison.BreakEvenMonths = &breakEven
	}
	return comparison, nil
}

// MaxLoanAmount estimates the largest loan whose payment fits under the target
// debt-to-income ratio, by discounting the allowed payment over the term.
func (s *LoanService) MaxLoanAmount(
	input domain.PrequalInput,
) (domain.PrequalResult, error) {
	if err := checkAmount("monthly_income", input.MonthlyIncome, 0, MaxLoanAmount, true); err != nil {
		return domain.PrequalResult{}, err
	}
	if err := checkAmount("existing_monthly_debt", input.ExistingMonthlyDebt, 0, MaxLoanAmount, false); err != nil {
		return domain.PrequalResult{}, err
	}
	if err := checkAmount("target_dti_percent", input.TargetDTIPercent, 0, 100, true); err != nil {
		return domain.PrequalResult{}, err
	}
	if err := checkAmount("interest_rate", input.InterestRate, 0, MaxInterestRate, false); err != nil {
		return domain.PrequalResult{}, err
	}
	if input.TermMonths < MinTermMonths || input.TermMonths > MaxTermMonths {
		return domain.PrequalResult{}, invalid("term_months", "must be between %d and %d", MinTermMonths, MaxTermMonths)
	}

	maxPayment := input.MonthlyIncome*input.TargetDTIPercent/100 - input.ExistingMonthlyDebt
	if maxPayment <= 0 {
		return domain.PrequalResult{}, nil
	}

	r := input.InterestRate / 1200
	n := float64(input.TermMonths)
	pv := maxPayment * n
	if r > 0 {
		pv = maxPayment * (1 - math.Pow(1+r, -n)) / r
	}

	return domain.PrequalResult{
		MaxMonthlyPayment: roundTo2Decimals(maxPayment),
		MaxLoanAmount:     roundTo2Decimals(pv),
	}, nil
}

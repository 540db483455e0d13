package domain

type InterestOnlyInput struct {
	Principal          float64 `json:"principal"`
	AnnualRatePercent  float64 `json:"annual_rate_percent"`
	TermMonths         int     `json:"term_months"`
	InterestOnlyMonths int     `json:"interest_only_months"`
}

type InterestOnlyResult struct {
	InterestOnlyPayment float64  `json:"interest_only_payment"`
	StepUpPayment       float64  `json:"step_up_payment"`
	PercentIncrease     float64  `json:"percent_increase"`
	StepUpRisk          bool     `json:"step_up_risk"`
	BalloonPayment      float64  `json:"balloon_payment,omitempty"`
	TotalPayment        float64  `json:"total_payment"`
	TotalInterest       float64  `json:"total_interest"`
	Schedule            Schedule `json:"schedule"`
}

type InstallmentInput struct {
	Principal        float64 `json:"principal"`
	InstallmentCount int     `json:"installment_count"`
	LateFee          float64 `json:"late_fee"`
	// MissedInstallment is the 1-based installment that is skipped; 0 means
	// every installment is paid on time.
	MissedInstallment          int     `json:"missed_installment,omitempty"`
	PostPromotionalRatePercent float64 `json:"post_promotional_rate_percent,omitempty"`
}

type InstallmentResult struct {
	InstallmentPayment float64  `json:"installment_payment"`
	LateFees           float64  `json:"late_fees"`
	Interest           float64  `json:"interest"`
	TotalCost          float64  `json:"total_cost"`
	PromotionLapsed    bool     `json:"promotion_lapsed"`
	ConvertedPayment   float64  `json:"converted_payment,omitempty"`
	Schedule           Schedule `json:"schedule"`
}

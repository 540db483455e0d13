package domain

// Band is an upper bound (inclusive, percent) with the label a ratio at or
// below it receives.
type Band struct {
	MaxPercent float64 `json:"max_percent"`
	Label      string  `json:"label"`
}

type AffordabilityInput struct {
	MonthlyPayments    []float64 `json:"monthly_payments"`
	GrossMonthlyIncome float64   `json:"gross_monthly_income"`
	Bands              []Band    `json:"bands"`
	// OverflowLabel is used when the ratio exceeds every band.
	OverflowLabel string `json:"overflow_label,omitempty"`
}

type AffordabilityResult struct {
	TotalPayments float64 `json:"total_payments"`
	RatioPercent  float64 `json:"ratio_percent"`
	Band          string  `json:"band"`
}

type DTIInput struct {
	GrossMonthlyIncome float64   `json:"gross_monthly_income"`
	AdditionalIncome   float64   `json:"additional_income"`
	Housing            float64   `json:"housing"`
	OtherDebts         []float64 `json:"other_debts"`
	Bands              []Band    `json:"bands"`
	OverflowLabel      string    `json:"overflow_label,omitempty"`
	// CapacityPercent is the threshold used for RemainingCapacity.
	CapacityPercent float64 `json:"capacity_percent"`
}

type DebtAtThreshold struct {
	ThresholdPercent float64 `json:"threshold_percent"`
	MaxMonthlyDebt   float64 `json:"max_monthly_debt"`
}

type DTIResult struct {
	TotalMonthlyIncome float64           `json:"total_monthly_income"`
	TotalMonthlyDebts  float64           `json:"total_monthly_debts"`
	FrontEndPercent    float64           `json:"front_end_percent"`
	BackEndPercent     float64           `json:"back_end_percent"`
	Status             string            `json:"status"`
	MaxDebt            []DebtAtThreshold `json:"max_debt"`
	RemainingCapacity  float64           `json:"remaining_capacity"`
}

package domain

type Category string

const (
	CategoryStandard     Category = "standard"
	CategoryInterestOnly Category = "interest_only"
	CategoryInstallment  Category = "installment"
)

// Obligation is one interest-bearing or installment debt as entered by the
// user. Simulations copy it; they never write back into it.
type Obligation struct {
	Name              string   `json:"name"`
	Category          Category `json:"category"`
	Principal         float64  `json:"principal"`
	AnnualRatePercent float64  `json:"annual_rate_percent"`
	MinPayment        float64  `json:"min_payment"`

	// Revolving credit: when MinPaymentPercent is set the minimum is
	// recomputed each month as max(floor, balance*percent/100 + interest).
	// A zero floor means the card default.
	MinPaymentPercent float64 `json:"min_payment_percent,omitempty"`
	MinPaymentFloor   float64 `json:"min_payment_floor,omitempty"`

	// Standard and interest-only.
	TermMonths         int `json:"term_months,omitempty"`
	InterestOnlyMonths int `json:"interest_only_months,omitempty"`

	// Installment.
	InstallmentCount           int     `json:"installment_count,omitempty"`
	LateFee                    float64 `json:"late_fee,omitempty"`
	PostPromotionalRatePercent float64 `json:"post_promotional_rate_percent,omitempty"`
}

// MonthlyRate returns the periodic rate as a fraction.
func (o Obligation) MonthlyRate() float64 {
	return o.AnnualRatePercent / 1200
}

// EffectiveCategory treats an empty category as standard.
func (o Obligation) EffectiveCategory() Category {
	if o.Category == "" {
		return CategoryStandard
	}
	return o.Category
}

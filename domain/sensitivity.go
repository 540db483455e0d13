package domain

// SensitivityInput sweeps an extra monthly amount added on top of the base
// budget. Values takes precedence over BaselineExtra/Multipliers.
type SensitivityInput struct {
	Obligations   []Obligation `json:"obligations"`
	MonthlyBudget float64      `json:"monthly_budget"`
	Strategy      Strategy     `json:"strategy"`
	MaxMonths     int          `json:"max_months,omitempty"`
	BaselineExtra float64      `json:"baseline_extra"`
	Multipliers   []float64    `json:"multipliers,omitempty"`
	Values        []float64    `json:"values,omitempty"`
}

type LoanSensitivityInput struct {
	LoanInput
	BaselineExtra float64   `json:"baseline_extra"`
	Multipliers   []float64 `json:"multipliers,omitempty"`
	Values        []float64 `json:"values,omitempty"`
}

type SensitivityPoint struct {
	ParameterValue float64 `json:"parameter_value"`
	TotalInterest  float64 `json:"total_interest"`
	MonthsToPayoff *int    `json:"months_to_payoff"`
	Incomplete     bool    `json:"incomplete"`
	InterestSaved  float64 `json:"interest_saved"`
}

type SensitivityResult struct {
	Parameter string             `json:"parameter"`
	Points    []SensitivityPoint `json:"points"`
}

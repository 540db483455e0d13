package domain

type Strategy string

const (
	StrategyAvalanche Strategy = "avalanche" // highest rate first
	StrategySnowball  Strategy = "snowball"  // smallest balance first
	StrategyCompare   Strategy = "compare"
)

type DebtExitInput struct {
	Obligations   []Obligation `json:"obligations"`
	MonthlyBudget float64      `json:"monthly_budget"`
	Strategy      Strategy     `json:"strategy"`
	MaxMonths     int          `json:"max_months,omitempty"`
}

// ObligationMonth is one obligation's line in a simulated month.
type ObligationMonth struct {
	Name string `json:"name"`
	ScheduleEntry
	ExtraApplied float64 `json:"extra_applied"`
	PaidOff      bool    `json:"paid_off"`
}

type PayoffMonth struct {
	ScheduleEntry
	UnallocatedBudget float64           `json:"unallocated_budget"`
	Obligations       []ObligationMonth `json:"obligations"`
}

type Payoff struct {
	Name  string `json:"name"`
	Month int    `json:"month"`
}

type Summary struct {
	Strategy Strategy `json:"strategy"`

	// MonthsToPayoff is nil when the safety cap stopped the run first.
	MonthsToPayoff       *int          `json:"months_to_payoff"`
	MonthsSimulated      int           `json:"months_simulated"`
	Incomplete           bool          `json:"incomplete"`
	TotalDebt            float64       `json:"total_debt"`
	TotalInterestPaid    float64       `json:"total_interest_paid"`
	TotalPaid            float64       `json:"total_paid"`
	RemainingBalance     float64       `json:"remaining_balance"`
	IsBudgetTooLow       bool          `json:"is_budget_too_low"`
	NegativeAmortization bool          `json:"negative_amortization"`
	PayoffOrder          []Payoff      `json:"payoff_order"`
	ScheduleSample       []PayoffMonth `json:"schedule_sample"`
}

type PayoffResult struct {
	Summary  Summary       `json:"summary"`
	Schedule []PayoffMonth `json:"schedule"`
}

type StrategyResult struct {
	TotalInterestPaid float64 `json:"total_interest_paid"`
	MonthsToPayoff    *int    `json:"months_to_payoff"`
	Incomplete        bool    `json:"incomplete"`
}

type Comparison struct {
	Snowball  StrategyResult `json:"snowball"`
	Avalanche StrategyResult `json:"avalanche"`
	Savings   struct {
		InterestSaved float64 `json:"interest_saved"`
		MonthsSaved   int     `json:"months_saved"`
	} `json:"savings"`
}

// MinimumComparison sets the plan against paying only the minimums. Savings
// are floored at zero; MonthsSaved counts the capped run's simulated months
// when the minimum-only run never finishes.
type MinimumComparison struct {
	MinimumOnly   StrategyResult `json:"minimum_only"`
	WithBudget    StrategyResult `json:"with_budget"`
	InterestSaved float64        `json:"interest_saved"`
	MonthsSaved   int            `json:"months_saved"`
}

type DebtExitResult struct {
	Summary        Summary            `json:"summary"`
	Schedule       []PayoffMonth      `json:"schedule,omitempty"`
	Comparison     *Comparison        `json:"comparison,omitempty"`
	VersusMinimums *MinimumComparison `json:"versus_minimums,omitempty"`

	// AdviceSession is polled for the generated explanation.
	AdviceSession string `json:"advice_session,omitempty"`
}

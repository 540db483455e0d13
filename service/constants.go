package service

const (
	MaxLoanAmount        = 1_000_000_000.0 // 1 billion
	MaxInterestRate      = 1000.0          // 1000% annual
	MaxTermMonths        = 600             // 50 years
	MinTermMonths        = 1
	MaxDebtAmount        = 100_000_000.0 // 100 million
	MaxDebtsPerRequest   = 50
	MaxDebtPayoffMonths  = 600  // hard ceiling for any simulation cap
	DefaultPayoffMonths  = 360  // simulation cap when the caller sets none
	DefaultSampleEvery   = 6    // months between schedule samples
	DebtBalanceTolerance = 0.01 // balance at or below this is paid off
	MaxInstallments      = 120

	// Card minimum when only a percentage of the balance is given.
	DefaultCardMinimumFloor = 25.0

	// Term recommendation limits.
	MaxTermRangeMonths = 120 // widest term range evaluated (10 years)

	MaxSweepValues = 64
)

// DefaultSweepMultipliers are applied to a baseline extra payment when the
// caller supplies no explicit sweep values.
var DefaultSweepMultipliers = []float64{0, 0.5, 1, 1.5, 2, 3, 5}

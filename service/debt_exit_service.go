package service

import (
	"fmt"
	"log"
	"math"

	"payoff-engine/domain"
)

const debtPlanAdviceContext = "Debt Payoff Plan"

// AdviceScheduler accepts advice work without blocking the caller.
type AdviceScheduler interface {
	Submit(session string, req domain.AdviceRequest) (domain.AdviceStatus, error)
}

type DebtExitService struct {
	advice AdviceScheduler
}

// NewDebtExitService creates the payoff planner. advice may be nil, in which
// case plans are returned without an advice session.
func NewDebtExitService(advice AdviceScheduler) *DebtExitService {
	return &DebtExitService{advice: advice}
}

func validateDebtExit(input domain.DebtExitInput) error {
	if err := ValidateObligations(input.Obligations); err != nil {
		return err
	}
	names := make(map[string]bool, len(input.Obligations))
	for _, o := range input.Obligations {
		if o.Name == "" {
			continue
		}
		if names[o.Name] {
			return invalid("name", "duplicate obligation name %q", o.Name)
		}
		names[o.Name] = true
	}
	return nil
}

// Simulate runs a single strategy and returns the full month-by-month result.
func (s *DebtExitService) Simulate(
	input domain.DebtExitInput,
	sampleEvery int,
) (domain.PayoffResult, error) {
	if err := validateDebtExit(input); err != nil {
		return domain.PayoffResult{}, err
	}
	return Simulate(input.Obligations, input.MonthlyBudget, input.Strategy, SimulationOptions{
		MaxMonths:   input.MaxMonths,
		SampleEvery: sampleEvery,
	})
}

// CalculateDebtExitPlan runs snowball, avalanche or both ("compare"). When
// comparing, the strategy paying less interest becomes the main result. The
// plan summary is handed to the advice scheduler; the caller polls the
// returned session for the text.
func (s *DebtExitService) CalculateDebtExitPlan(
	input domain.DebtExitInput,
	session string,
) (domain.DebtExitResult, error) {
	if err := validateDebtExit(input); err != nil {
		return domain.DebtExitResult{}, err
	}
	if input.Strategy != domain.StrategyCompare && !validStrategy(input.Strategy) {
		return domain.DebtExitResult{}, fmt.Errorf("%w: %q", ErrInvalidStrategy, input.Strategy)
	}

	opts := SimulationOptions{MaxMonths: input.MaxMonths}
	var result domain.DebtExitResult

	if input.Strategy == domain.StrategyCompare {
		snowball, err := Simulate(input.Obligations, input.MonthlyBudget, domain.StrategySnowball, opts)
		if err != nil {
			return domain.DebtExitResult{}, err
		}
		avalanche, err := Simulate(input.Obligations, input.MonthlyBudget, domain.StrategyAvalanche, opts)
		if err != nil {
			return domain.DebtExitResult{}, err
		}

		best := snowball
		if avalanche.Summary.TotalInterestPaid <= snowball.Summary.TotalInterestPaid {
			best = avalanche
		}
		result = domain.DebtExitResult{
			Summary:    best.Summary,
			Schedule:   best.Schedule,
			Comparison: compareStrategies(snowball.Summary, avalanche.Summary),
		}
	} else {
		single, err := Simulate(input.Obligations, input.MonthlyBudget, input.Strategy, opts)
		if err != nil {
			return domain.DebtExitResult{}, err
		}
		result = domain.DebtExitResult{Summary: single.Summary, Schedule: single.Schedule}
	}

	versus, err := compareWithMinimums(input, result.Summary)
	if err != nil {
		return domain.DebtExitResult{}, err
	}
	result.VersusMinimums = versus

	if s.advice != nil {
		status, err := s.advice.Submit(session, domain.AdviceRequest{
			Context: debtPlanAdviceContext,
			Data:    planAdviceData(input, result),
		})
		if err != nil {
			log.Printf("Warning: failed to schedule debt plan advice: %v", err)
		} else {
			result.AdviceSession = status.Session
		}
	}

	return result, nil
}

func strategyResult(s domain.Summary) domain.StrategyResult {
	return domain.StrategyResult{
		TotalInterestPaid: s.TotalInterestPaid,
		MonthsToPayoff:    s.MonthsToPayoff,
		Incomplete:        s.Incomplete,
	}
}

func compareStrategies(snowball, avalanche domain.Summary) *domain.Comparison {
	comparison := &domain.Comparison{
		Snowball:  strategyResult(snowball),
		Avalanche: strategyResult(avalanche),
	}
	comparison.Savings.InterestSaved = roundTo2Decimals(
		math.Max(0, snowball.TotalInterestPaid-avalanche.TotalInterestPaid),
	)
	if snowball.MonthsToPayoff != nil && avalanche.MonthsToPayoff != nil {
		comparison.Savings.MonthsSaved = *snowball.MonthsToPayoff - *avalanche.MonthsToPayoff
	}
	return comparison
}

// compareWithMinimums re-runs the obligations with a zero budget, so only the
// minimums are paid. That run is capped at MaxDebtPayoffMonths unless the
// caller set a cap.
func compareWithMinimums(input domain.DebtExitInput, plan domain.Summary) (*domain.MinimumComparison, error) {
	maxMonths := input.MaxMonths
	if maxMonths == 0 {
		maxMonths = MaxDebtPayoffMonths
	}
	minimumOnly, err := Simulate(input.Obligations, 0, plan.Strategy, SimulationOptions{MaxMonths: maxMonths})
	if err != nil {
		return nil, err
	}

	floor := minimumOnly.Summary
	versus := &domain.MinimumComparison{
		MinimumOnly:   strategyResult(floor),
		WithBudget:    strategyResult(plan),
		InterestSaved: roundTo2Decimals(math.Max(0, floor.TotalInterestPaid-plan.TotalInterestPaid)),
	}
	if plan.MonthsToPayoff != nil && floor.MonthsSimulated > *plan.MonthsToPayoff {
		versus.MonthsSaved = floor.MonthsSimulated - *plan.MonthsToPayoff
	}
	return versus, nil
}

// planAdviceData is the plain summary handed to the advice collaborator. The
// schedule is left out to keep the prompt small.
func planAdviceData(input domain.DebtExitInput, result domain.DebtExitResult) map[string]any {
	debts := make([]map[string]any, len(input.Obligations))
	for i, o := range input.Obligations {
		debts[i] = map[string]any{
			"name":                o.Name,
			"principal":           o.Principal,
			"annual_rate_percent": o.AnnualRatePercent,
			"min_payment":         o.MinPayment,
		}
	}

	summary := result.Summary
	summary.ScheduleSample = nil
	data := map[string]any{
		"monthly_budget": input.MonthlyBudget,
		"obligations":    debts,
		"summary":        summary,
	}
	if result.Comparison != nil {
		data["comparison"] = result.Comparison
	}
	if result.VersusMinimums != nil {
		data["versus_minimums"] = result.VersusMinimums
	}
	return data
}

package service

import (
	"sort"

	"payoff-engine/domain"
)

const (
	ParameterExtraPayment     = "extra_monthly_payment"
	ParameterLoanExtraPayment = "loan_extra_monthly_payment"
)

type SensitivityService struct {
	loanService *LoanService
}

func NewSensitivityService(loanService *LoanService) *SensitivityService {
	return &SensitivityService{loanService: loanService}
}

// sweepValues resolves the swept amounts: explicit values when given,
// otherwise baseline × multipliers. Values are rounded to cents,
// deduplicated and sorted ascending.
func sweepValues(values []float64, baseline float64, multipliers []float64) ([]float64, error) {
	if len(values) == 0 {
		if err := checkAmount("baseline_extra", baseline, 0, MaxDebtAmount, false); err != nil {
			return nil, err
		}
		if len(multipliers) == 0 {
			multipliers = DefaultSweepMultipliers
		}
		values = make([]float64, len(multipliers))
		for i, m := range multipliers {
			if err := checkAmount("multipliers", m, 0, 1000, false); err != nil {
				return nil, err
			}
			values[i] = baseline * m
		}
	}
	if len(values) > MaxSweepValues {
		return nil, invalid("values", "at most %d sweep values", MaxSweepValues)
	}

	seen := make(map[float64]bool, len(values))
	swept := make([]float64, 0, len(values))
	for _, v := range values {
		if err := checkAmount("values", v, 0, MaxDebtAmount, false); err != nil {
			return nil, err
		}
		v = roundTo2Decimals(v)
		if seen[v] {
			continue
		}
		seen[v] = true
		swept = append(swept, v)
	}
	sort.Float64s(swept)
	return swept, nil
}

// SweepExtraPayment re-runs the payoff simulation once per extra monthly
// amount added on top of the base budget. Every run starts from the caller's
// obligations; nothing carries over between runs.
func (s *SensitivityService) SweepExtraPayment(
	input domain.SensitivityInput,
) (domain.SensitivityResult, error) {
	values, err := sweepValues(input.Values, input.BaselineExtra, input.Multipliers)
	if err != nil {
		return domain.SensitivityResult{}, err
	}

	opts := SimulationOptions{MaxMonths: input.MaxMonths}
	points := make([]domain.SensitivityPoint, 0, len(values))
	for _, v := range values {
		run, err := Simulate(input.Obligations, input.MonthlyBudget+v, input.Strategy, opts)
		if err != nil {
			return domain.SensitivityResult{}, err
		}
		points = append(points, domain.SensitivityPoint{
			ParameterValue: v,
			TotalInterest:  run.Summary.TotalInterestPaid,
			MonthsToPayoff: run.Summary.MonthsToPayoff,
			Incomplete:     run.Summary.Incomplete,
		})
	}

	return domain.SensitivityResult{
		Parameter: ParameterExtraPayment,
		Points:    withSavings(points),
	}, nil
}

// SweepLoanExtraPayment does the same for a single amortizing loan.
func (s *SensitivityService) SweepLoanExtraPayment(
	input domain.LoanSensitivityInput,
) (domain.SensitivityResult, error) {
	values, err := sweepValues(input.Values, input.BaselineExtra, input.Multipliers)
	if err != nil {
		return domain.SensitivityResult{}, err
	}

	points := make([]domain.SensitivityPoint, 0, len(values))
	for _, v := range values {
		run, err := s.loanService.CalculatePrepayment(domain.PrepaymentInput{
			LoanInput:           input.LoanInput,
			ExtraMonthlyPayment: v,
		})
		if err != nil {
			return domain.SensitivityResult{}, err
		}
		months := run.MonthsWithExtra
		points = append(points, domain.SensitivityPoint{
			ParameterValue: v,
			TotalInterest:  run.TotalInterestWithExtra,
			MonthsToPayoff: &months,
		})
	}

	return domain.SensitivityResult{
		Parameter: ParameterLoanExtraPayment,
		Points:    withSavings(points),
	}, nil
}

// withSavings fills InterestSaved relative to the smallest swept value.
func withSavings(points []domain.SensitivityPoint) []domain.SensitivityPoint {
	if len(points) == 0 {
		return points
	}
	base := points[0].TotalInterest
	for i := range points {
		points[i].InterestSaved = roundTo2Decimals(base - points[i].TotalInterest)
	}
	return points
}

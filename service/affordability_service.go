package service

import (
	"payoff-engine/domain"
)

const defaultOverflowLabel = "over_limit"

// AffordabilityService scores payment streams against income. It holds no
// policy of its own: every band comes from the caller.
type AffordabilityService struct{}

func NewAffordabilityService() *AffordabilityService {
	return &AffordabilityService{}
}

func validateBands(bands []domain.Band) error {
	if len(bands) == 0 {
		return invalid("bands", "at least one band is required")
	}
	for i, b := range bands {
		if err := checkAmount("bands.max_percent", b.MaxPercent, 0, 1000, false); err != nil {
			return err
		}
		if b.Label == "" {
			return invalid("bands.label", "band %d has no label", i)
		}
		if i > 0 && b.MaxPercent <= bands[i-1].MaxPercent {
			return invalid("bands", "thresholds must be strictly ascending")
		}
	}
	return nil
}

// classify returns the label of the first band whose bound covers ratio.
// Ratios are compared after rounding to cents so a boundary value lands in
// the band it is displayed in.
func classify(ratio float64, bands []domain.Band, overflow string) string {
	for _, b := range bands {
		if ratio <= b.MaxPercent {
			return b.Label
		}
	}
	if overflow == "" {
		return defaultOverflowLabel
	}
	return overflow
}

func sumPayments(field string, payments []float64) (float64, error) {
	total := 0.0
	for _, p := range payments {
		if err := checkAmount(field, p, 0, MaxDebtAmount, false); err != nil {
			return 0, err
		}
		total += p
	}
	return total, nil
}

// Score computes payments / income × 100 and places it in a band.
func (s *AffordabilityService) Score(
	input domain.AffordabilityInput,
) (domain.AffordabilityResult, error) {
	if err := checkAmount("gross_monthly_income", input.GrossMonthlyIncome, 0, MaxLoanAmount, true); err != nil {
		return domain.AffordabilityResult{}, err
	}
	if err := validateBands(input.Bands); err != nil {
		return domain.AffordabilityResult{}, err
	}
	total, err := sumPayments("monthly_payments", input.MonthlyPayments)
	if err != nil {
		return domain.AffordabilityResult{}, err
	}

	ratio := roundTo2Decimals(total / input.GrossMonthlyIncome * 100)
	return domain.AffordabilityResult{
		TotalPayments: roundTo2Decimals(total),
		RatioPercent:  ratio,
		Band:          classify(ratio, input.Bands, input.OverflowLabel),
	}, nil
}

// DTI splits the ratio into front-end (housing only) and back-end (all
// debts), and reports the monthly debt each band would allow.
func (s *AffordabilityService) DTI(input domain.DTIInput) (domain.DTIResult, error) {
	if err := checkAmount("gross_monthly_income", input.GrossMonthlyIncome, 0, MaxLoanAmount, false); err != nil {
		return domain.DTIResult{}, err
	}
	if err := checkAmount("additional_income", input.AdditionalIncome, 0, MaxLoanAmount, false); err != nil {
		return domain.DTIResult{}, err
	}
	income := input.GrossMonthlyIncome + input.AdditionalIncome
	if income <= 0 {
		return domain.DTIResult{}, invalid("gross_monthly_income", "total income must be greater than 0")
	}
	if err := checkAmount("housing", input.Housing, 0, MaxDebtAmount, false); err != nil {
		return domain.DTIResult{}, err
	}
	if err := validateBands(input.Bands); err != nil {
		return domain.DTIResult{}, err
	}
	other, err := sumPayments("other_debts", input.OtherDebts)
	if err != nil {
		return domain.DTIResult{}, err
	}

	capacity := input.CapacityPercent
	if capacity == 0 {
		capacity = input.Bands[len(input.Bands)-1].MaxPercent
	}
	if err := checkAmount("capacity_percent", capacity, 0, 1000, true); err != nil {
		return domain.DTIResult{}, err
	}

	debts := input.Housing + other
	backEnd := roundTo2Decimals(debts / income * 100)

	maxDebt := make([]domain.DebtAtThreshold, len(input.Bands))
	for i, b := range input.Bands {
		maxDebt[i] = domain.DebtAtThreshold{
			ThresholdPercent: b.MaxPercent,
			MaxMonthlyDebt:   roundTo2Decimals(income * b.MaxPercent / 100),
		}
	}

	return domain.DTIResult{
		TotalMonthlyIncome: roundTo2Decimals(income),
		TotalMonthlyDebts:  roundTo2Decimals(debts),
		FrontEndPercent:    roundTo2Decimals(input.Housing / income * 100),
		BackEndPercent:     backEnd,
		Status:             classify(backEnd, input.Bands, input.OverflowLabel),
		MaxDebt:            maxDebt,
		RemainingCapacity:  roundTo2Decimals(income*capacity/100 - debts),
	}, nil
}

package service

import (
	"payoff-engine/domain"
)

// PhasedLoanService handles loans whose payment changes over their life:
// interest-only loans that step up into amortization, and fixed-installment
// plans whose promotion can lapse.
type PhasedLoanService struct{}

func NewPhasedLoanService() *PhasedLoanService {
	return &PhasedLoanService{}
}

func validateInterestOnly(input domain.InterestOnlyInput) error {
	if err := checkAmount("principal", input.Principal, 0, MaxLoanAmount, true); err != nil {
		return err
	}
	// A zero rate has no interest-only phase to speak of.
	if err := checkAmount("annual_rate_percent", input.AnnualRatePercent, 0, MaxInterestRate, true); err != nil {
		return err
	}
	if input.TermMonths < MinTermMonths || input.TermMonths > MaxTermMonths {
		return invalid("term_months", "must be between %d and %d", MinTermMonths, MaxTermMonths)
	}
	if input.InterestOnlyMonths < 1 || input.InterestOnlyMonths > input.TermMonths {
		return invalid("interest_only_months", "must be between 1 and term_months (%d)", input.TermMonths)
	}
	return nil
}

// InterestOnly builds the schedule of an interest-only loan. After the
// interest-only months a fresh level payment is computed on the remaining
// balance over the remaining term; when no months remain the principal falls
// due as a balloon in the last period.
func (s *PhasedLoanService) InterestOnly(
	input domain.InterestOnlyInput,
) (domain.InterestOnlyResult, error) {
	if err := validateInterestOnly(input); err != nil {
		return domain.InterestOnlyResult{}, err
	}

	r := input.AnnualRatePercent / 1200
	io := input.InterestOnlyMonths
	ioPayment := input.Principal * r

	schedule := make(domain.Schedule, 0, input.TermMonths)
	for m := 1; m <= io; m++ {
		schedule = append(schedule, domain.ScheduleEntry{
			Period:            m,
			Payment:           ioPayment,
			InterestComponent: ioPayment,
			RemainingBalance:  input.Principal,
		})
	}
	totalInterest := ioPayment * float64(io)

	result := domain.InterestOnlyResult{
		InterestOnlyPayment: roundTo2Decimals(ioPayment),
	}

	if remaining := input.TermMonths - io; remaining > 0 {
		stepUp := levelPayment(input.Principal, r, remaining)
		amortized, interest := amortize(input.Principal, r, stepUp, remaining, io+1)
		schedule = append(schedule, amortized...)
		totalInterest += interest

		result.StepUpPayment = roundTo2Decimals(stepUp)
		result.PercentIncrease = roundTo2Decimals((stepUp - ioPayment) / ioPayment * 100)
		result.StepUpRisk = stepUp > ioPayment
	} else {
		last := &schedule[len(schedule)-1]
		last.Payment += input.Principal
		last.PrincipalComponent = input.Principal
		last.RemainingBalance = 0

		result.BalloonPayment = roundTo2Decimals(input.Principal)
		result.StepUpRisk = true
	}

	result.TotalInterest = roundTo2Decimals(totalInterest)
	result.TotalPayment = roundTo2Decimals(input.Principal + totalInterest)
	result.Schedule = roundSchedule(schedule)
	return result, nil
}

func validateInstallment(input domain.InstallmentInput) error {
	if err := checkAmount("principal", input.Principal, 0, MaxLoanAmount, true); err != nil {
		return err
	}
	if input.InstallmentCount <= 0 {
		return invalid("installment_count", "must be greater than 0")
	}
	if input.InstallmentCount > MaxInstallments {
		return invalid("installment_count", "exceeds the maximum of %d", MaxInstallments)
	}
	if err := checkAmount("late_fee", input.LateFee, 0, MaxLoanAmount, false); err != nil {
		return err
	}
	if input.MissedInstallment < 0 || input.MissedInstallment > input.InstallmentCount {
		return invalid("missed_installment", "must be between 0 and installment_count (%d)", input.InstallmentCount)
	}
	return checkAmount("post_promotional_rate_percent", input.PostPromotionalRatePercent, 0, MaxInterestRate, false)
}

// Installment builds a fixed-installment, zero-interest plan. A missed
// installment is charged the late fee and carried into the next period; if a
// post-promotional rate is set, the miss ends the promotion and the remaining
// balance is re-amortized at that rate over the installments still owed.
func (s *PhasedLoanService) Installment(
	input domain.InstallmentInput,
) (domain.InstallmentResult, error) {
	if err := validateInstallment(input); err != nil {
		return domain.InstallmentResult{}, err
	}

	count := input.InstallmentCount
	payment := input.Principal / float64(count)
	missed := input.MissedInstallment
	balance := input.Principal
	schedule := make(domain.Schedule, 0, count+1)

	result := domain.InstallmentResult{
		InstallmentPayment: roundTo2Decimals(payment),
	}

	pay := func(period int, amount float64) {
		if amount > balance || period >= count {
			amount = balance
		}
		balance -= amount
		schedule = append(schedule, domain.ScheduleEntry{
			Period:             period,
			Payment:            amount,
			PrincipalComponent: amount,
			RemainingBalance:   balance,
		})
	}

	if missed == 0 {
		for period := 1; period <= count; period++ {
			pay(period, payment)
		}
		result.TotalCost = roundTo2Decimals(input.Principal)
		result.Schedule = roundSchedule(schedule)
		return result, nil
	}

	for period := 1; period < missed; period++ {
		pay(period, payment)
	}
	schedule = append(schedule, domain.ScheduleEntry{
		Period:           missed,
		Payment:          input.LateFee,
		RemainingBalance: balance,
	})
	result.LateFees = roundTo2Decimals(input.LateFee)

	owed := count - missed + 1
	if input.PostPromotionalRatePercent > 0 {
		r := input.PostPromotionalRatePercent / 1200
		converted := levelPayment(balance, r, owed)
		tail, interest := amortize(balance, r, converted, owed, missed+1)
		schedule = append(schedule, tail...)

		result.PromotionLapsed = true
		result.ConvertedPayment = roundTo2Decimals(converted)
		result.Interest = roundTo2Decimals(interest)
		result.TotalCost = roundTo2Decimals(input.Principal + input.LateFee + interest)
		result.Schedule = roundSchedule(schedule)
		return result, nil
	}

	// The missed installment rides along with the next one.
	carried := payment
	for period := missed + 1; balance > 0; period++ {
		pay(period, payment+carried)
		carried = 0
	}
	result.TotalCost = roundTo2Decimals(input.Principal + input.LateFee)
	result.Schedule = roundSchedule(schedule)
	return result, nil
}

package service

import (
	"fmt"
	"math"
	"sort"

	"payoff-engine/domain"
)

type SimulationOptions struct {
	MaxMonths   int // 0 means DefaultPayoffMonths
	SampleEvery int // 0 means DefaultSampleEvery
}

func (o SimulationOptions) withDefaults() (SimulationOptions, error) {
	if o.MaxMonths == 0 {
		o.MaxMonths = DefaultPayoffMonths
	}
	if o.MaxMonths < 1 || o.MaxMonths > MaxDebtPayoffMonths {
		return o, invalid("max_months", "must be between 1 and %d", MaxDebtPayoffMonths)
	}
	if o.SampleEvery == 0 {
		o.SampleEvery = DefaultSampleEvery
	}
	if o.SampleEvery < 1 {
		return o, invalid("sample_every", "must be positive")
	}
	return o, nil
}

func validStrategy(strategy domain.Strategy) bool {
	return strategy == domain.StrategyAvalanche || strategy == domain.StrategySnowball
}

// ValidateObligations rejects any obligation the simulator cannot run
// without producing NaN or Inf.
func ValidateObligations(obligations []domain.Obligation) error {
	if len(obligations) == 0 {
		return ErrNoObligations
	}
	if len(obligations) > MaxDebtsPerRequest {
		return fmt.Errorf("%w: at most %d", ErrTooManyDebts, MaxDebtsPerRequest)
	}
	for i, o := range obligations {
		if err := validateObligation(o); err != nil {
			return fmt.Errorf("obligation %d (%q): %w", i, o.Name, err)
		}
	}
	return nil
}

func validateObligation(o domain.Obligation) error {
	if err := checkAmount("principal", o.Principal, 0, MaxDebtAmount, true); err != nil {
		return err
	}
	if err := checkAmount("annual_rate_percent", o.AnnualRatePercent, 0, MaxInterestRate, false); err != nil {
		return err
	}
	if err := checkAmount("min_payment", o.MinPayment, 0, MaxDebtAmount, false); err != nil {
		return err
	}
	if err := checkAmount("min_payment_percent", o.MinPaymentPercent, 0, 100, false); err != nil {
		return err
	}
	if err := checkAmount("min_payment_floor", o.MinPaymentFloor, 0, MaxDebtAmount, false); err != nil {
		return err
	}
	if o.MinPaymentPercent > 0 {
		if o.EffectiveCategory() != domain.CategoryStandard {
			return invalid("min_payment_percent", "only standard obligations take a percentage minimum")
		}
		if o.MinPayment > 0 {
			return invalid("min_payment_percent", "set either min_payment or min_payment_percent")
		}
	} else if o.MinPaymentFloor > 0 {
		return invalid("min_payment_floor", "requires min_payment_percent")
	}
	if o.TermMonths < 0 || o.TermMonths > MaxTermMonths {
		return invalid("term_months", "must be between 0 and %d", MaxTermMonths)
	}

	switch o.EffectiveCategory() {
	case domain.CategoryStandard:
	case domain.CategoryInterestOnly:
		if o.AnnualRatePercent == 0 {
			return invalid("annual_rate_percent", "interest-only obligations need a positive rate")
		}
		if o.TermMonths == 0 {
			return invalid("term_months", "required for interest-only obligations")
		}
		if o.InterestOnlyMonths < 1 || o.InterestOnlyMonths > o.TermMonths {
			return invalid("interest_only_months", "must be between 1 and term_months (%d)", o.TermMonths)
		}
	case domain.CategoryInstallment:
		if o.InstallmentCount <= 0 {
			return invalid("installment_count", "must be greater than 0")
		}
		if o.InstallmentCount > MaxInstallments {
			return invalid("installment_count", "exceeds the maximum of %d", MaxInstallments)
		}
	default:
		return invalid("category", "unknown category %q", o.Category)
	}
	return nil
}

// debtState is the simulator's private, mutable view of one obligation.
type debtState struct {
	index   int
	name    string
	annual  float64
	rate    float64
	balance float64
	paidOff bool

	// Contractual minimum inputs.
	fixedMin  float64
	category  domain.Category
	ioMonths  int
	stepUp    float64
	balloonAt int
	percent   float64
	floor     float64
}

func newDebtState(index int, o domain.Obligation) *debtState {
	s := &debtState{
		index:    index,
		name:     o.Name,
		annual:   o.AnnualRatePercent,
		rate:     o.MonthlyRate(),
		balance:  o.Principal,
		category: o.EffectiveCategory(),
		fixedMin: o.MinPayment,
		percent:  o.MinPaymentPercent,
		floor:    o.MinPaymentFloor,
	}
	if s.name == "" {
		s.name = fmt.Sprintf("obligation-%d", index+1)
	}
	if s.percent > 0 && s.floor == 0 {
		s.floor = DefaultCardMinimumFloor
	}
	if o.MinPayment > 0 || s.percent > 0 {
		return s
	}

	switch s.category {
	case domain.CategoryStandard:
		if o.TermMonths > 0 {
			s.fixedMin = levelPayment(o.Principal, s.rate, o.TermMonths)
		}
	case domain.CategoryInterestOnly:
		s.ioMonths = o.InterestOnlyMonths
		if remaining := o.TermMonths - o.InterestOnlyMonths; remaining > 0 {
			s.stepUp = levelPayment(o.Principal, s.rate, remaining)
		} else {
			s.balloonAt = o.TermMonths
		}
	case domain.CategoryInstallment:
		s.fixedMin = o.Principal / float64(o.InstallmentCount)
	}
	return s
}

// minimum is the payment owed in month m on a start-of-month balance.
func (s *debtState) minimum(m int, balance float64) float64 {
	if s.percent > 0 {
		return math.Max(s.floor, balance*s.percent/100+balance*s.rate)
	}
	if s.fixedMin > 0 || s.category != domain.CategoryInterestOnly {
		return s.fixedMin
	}
	interest := balance * s.rate
	switch {
	case m <= s.ioMonths && m != s.balloonAt:
		return interest
	case s.balloonAt > 0:
		return balance + interest
	default:
		return s.stepUp
	}
}

type rankEntry struct {
	index   int
	rate    float64
	balance float64
}

// rankActive orders a fresh snapshot of the still-owing obligations by
// strategy. Ties fall back to the other criterion, then to input order.
func rankActive(entries []rankEntry, strategy domain.Strategy) []rankEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if strategy == domain.StrategySnowball {
			if a.balance != b.balance {
				return a.balance < b.balance
			}
			if a.rate != b.rate {
				return a.rate > b.rate
			}
			return a.index < b.index
		}
		if a.rate != b.rate {
			return a.rate > b.rate
		}
		if a.balance != b.balance {
			return a.balance < b.balance
		}
		return a.index < b.index
	})
	return entries
}

// Simulate runs a month-by-month payoff of the obligations under a monthly
// budget. Each obligation pays its own minimum, capped at what it owes;
// whatever budget is left over the minimums actually paid goes to the single
// top-ranked obligation. The run stops
// once every obligation is at or below DebtBalanceTolerance, or at the safety
// cap, in which case the result is reported incomplete.
//
// Simulate never mutates its arguments.
func Simulate(
	obligations []domain.Obligation,
	monthlyBudget float64,
	strategy domain.Strategy,
	opts SimulationOptions,
) (domain.PayoffResult, error) {
	if err := ValidateObligations(obligations); err != nil {
		return domain.PayoffResult{}, err
	}
	if err := checkAmount("monthly_budget", monthlyBudget, 0, MaxDebtAmount, false); err != nil {
		return domain.PayoffResult{}, err
	}
	if !validStrategy(strategy) {
		return domain.PayoffResult{}, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}
	opts, err := opts.withDefaults()
	if err != nil {
		return domain.PayoffResult{}, err
	}

	states := make([]*debtState, len(obligations))
	totalDebt := 0.0
	firstMonthMinimums := 0.0
	for i, o := range obligations {
		states[i] = newDebtState(i, o)
		totalDebt += o.Principal
		firstMonthMinimums += states[i].minimum(1, o.Principal)
	}

	summary := domain.Summary{
		Strategy:       strategy,
		TotalDebt:      roundTo2Decimals(totalDebt),
		IsBudgetTooLow: monthlyBudget < firstMonthMinimums,
		PayoffOrder:    []domain.Payoff{},
	}
	schedule := make([]domain.PayoffMonth, 0, opts.MaxMonths)
	totalInterest := 0.0
	totalPaid := 0.0
	active := len(states)

	for month := 1; month <= opts.MaxMonths && active > 0; month++ {
		lines := make(map[int]*domain.ObligationMonth, active)
		minimums := 0.0

		for _, s := range states {
			if s.paidOff {
				continue
			}
			interest := s.balance * s.rate
			paid := math.Min(s.minimum(month, s.balance), s.balance+interest)
			minimums += paid
			principal := paid - interest
			s.balance -= principal
			if principal < 0 {
				summary.NegativeAmortization = true
			}
			totalInterest += interest
			totalPaid += paid

			lines[s.index] = &domain.ObligationMonth{
				Name: s.name,
				ScheduleEntry: domain.ScheduleEntry{
					Period:             month,
					Payment:            paid,
					InterestComponent:  interest,
					PrincipalComponent: principal,
				},
			}
		}

		extraBudget := math.Max(0, monthlyBudget-minimums)
		unallocated := extraBudget

		ranking := make([]rankEntry, 0, active)
		for _, s := range states {
			if !s.paidOff && s.balance > DebtBalanceTolerance {
				ranking = append(ranking, rankEntry{index: s.index, rate: s.annual, balance: s.balance})
			}
		}
		if ranked := rankActive(ranking, strategy); len(ranked) > 0 && extraBudget > 0 {
			top := states[ranked[0].index]
			extra := math.Min(top.balance, extraBudget)
			top.balance -= extra
			totalPaid += extra
			unallocated -= extra

			line := lines[top.index]
			line.ExtraApplied = extra
			line.Payment += extra
			line.PrincipalComponent += extra
		}

		snapshot := domain.PayoffMonth{
			ScheduleEntry:     domain.ScheduleEntry{Period: month},
			UnallocatedBudget: roundTo2Decimals(unallocated),
			Obligations:       make([]domain.ObligationMonth, 0, len(lines)),
		}
		for _, s := range states {
			line, ok := lines[s.index]
			if !ok {
				continue
			}
			if s.balance <= DebtBalanceTolerance {
				s.paidOff = true
				active--
				line.PaidOff = true
				summary.PayoffOrder = append(summary.PayoffOrder, domain.Payoff{Name: s.name, Month: month})
			} else {
				snapshot.RemainingBalance += s.balance
			}
			line.RemainingBalance = s.balance

			snapshot.Payment += line.Payment
			snapshot.InterestComponent += line.InterestComponent
			snapshot.PrincipalComponent += line.PrincipalComponent

			line.ScheduleEntry = roundEntry(line.ScheduleEntry)
			line.ExtraApplied = roundTo2Decimals(line.ExtraApplied)
			snapshot.Obligations = append(snapshot.Obligations, *line)
		}
		snapshot.ScheduleEntry = roundEntry(snapshot.ScheduleEntry)
		schedule = append(schedule, snapshot)
	}

	months := len(schedule)
	summary.MonthsSimulated = months
	if active == 0 {
		summary.MonthsToPayoff = &months
	} else {
		summary.Incomplete = true
		remaining := 0.0
		for _, s := range states {
			if !s.paidOff {
				remaining += s.balance
			}
		}
		summary.RemainingBalance = roundTo2Decimals(remaining)
	}
	summary.TotalInterestPaid = roundTo2Decimals(totalInterest)
	summary.TotalPaid = roundTo2Decimals(totalPaid)
	summary.ScheduleSample = sampleSchedule(schedule, opts.SampleEvery)

	return domain.PayoffResult{Summary: summary, Schedule: schedule}, nil
}

// sampleSchedule keeps every nth month plus the final one.
func sampleSchedule(schedule []domain.PayoffMonth, every int) []domain.PayoffMonth {
	sample := []domain.PayoffMonth{}
	for i, m := range schedule {
		if m.Period%every == 0 || i == len(schedule)-1 {
			sample = append(sample, m)
		}
	}
	return sample
}

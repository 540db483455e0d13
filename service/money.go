package service

import (
	"github.com/shopspring/decimal"

	"payoff-engine/domain"
)

// roundTo2Decimals rounds to cents, half away from zero.
func roundTo2Decimals(value float64) float64 {
	if !finite(value) {
		return value
	}
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// formatMoney renders a value with exactly two decimals.
func formatMoney(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

func roundEntry(e domain.ScheduleEntry) domain.ScheduleEntry {
	e.Payment = roundTo2Decimals(e.Payment)
	e.InterestComponent = roundTo2Decimals(e.InterestComponent)
	e.PrincipalComponent = roundTo2Decimals(e.PrincipalComponent)
	e.RemainingBalance = roundTo2Decimals(e.RemainingBalance)
	return e
}

func roundSchedule(schedule domain.Schedule) domain.Schedule {
	for i := range schedule {
		schedule[i] = roundEntry(schedule[i])
	}
	return schedule
}

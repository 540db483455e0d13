package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payoff-engine/domain"
)

func testBands() []domain.Band {
	return []domain.Band{
		{MaxPercent: 28, Label: "good"},
		{MaxPercent: 36, Label: "fair"},
		{MaxPercent: 43, Label: "stretched"},
	}
}

func TestScore_Bands(t *testing.T) {
	svc := NewAffordabilityService()

	tests := []struct {
		name     string
		payments []float64
		income   float64
		overflow string
		ratio    float64
		band     string
	}{
		{"inside first band", []float64{500, 300}, 4000, "", 20, "good"},
		{"on the boundary", []float64{1120}, 4000, "", 28, "good"},
		{"third band", []float64{500, 300}, 2000, "", 40, "stretched"},
		{"default overflow", []float64{900}, 2000, "", 45, defaultOverflowLabel},
		{"custom overflow", []float64{900}, 2000, "unaffordable", 45, "unaffordable"},
		{"no payments", nil, 2000, "", 0, "good"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Score(domain.AffordabilityInput{
				MonthlyPayments:    tt.payments,
				GrossMonthlyIncome: tt.income,
				Bands:              testBands(),
				OverflowLabel:      tt.overflow,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.ratio, result.RatioPercent)
			assert.Equal(t, tt.band, result.Band)
		})
	}
}

func TestScore_Invalid(t *testing.T) {
	svc := NewAffordabilityService()

	for _, input := range []domain.AffordabilityInput{
		{MonthlyPayments: []float64{100}, GrossMonthlyIncome: 0, Bands: testBands()},
		{MonthlyPayments: []float64{-1}, GrossMonthlyIncome: 1000, Bands: testBands()},
		{MonthlyPayments: []float64{100}, GrossMonthlyIncome: 1000},
		{MonthlyPayments: []float64{100}, GrossMonthlyIncome: 1000, Bands: []domain.Band{{MaxPercent: 36, Label: "a"}, {MaxPercent: 28, Label: "b"}}},
		{MonthlyPayments: []float64{100}, GrossMonthlyIncome: 1000, Bands: []domain.Band{{MaxPercent: 36}}},
	} {
		_, err := svc.Score(input)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestDTI(t *testing.T) {
	svc := NewAffordabilityService()

	result, err := svc.DTI(domain.DTIInput{
		GrossMonthlyIncome: 5000,
		AdditionalIncome:   1000,
		Housing:            1500,
		OtherDebts:         []float64{300, 200},
		Bands:              testBands(),
	})
	require.NoError(t, err)

	assert.Equal(t, 6000.0, result.TotalMonthlyIncome)
	assert.Equal(t, 2000.0, result.TotalMonthlyDebts)
	assert.Equal(t, 25.0, result.FrontEndPercent)
	assert.Equal(t, 33.33, result.BackEndPercent)
	assert.Equal(t, "fair", result.Status)
	assert.Equal(t, []domain.DebtAtThreshold{
		{ThresholdPercent: 28, MaxMonthlyDebt: 1680},
		{ThresholdPercent: 36, MaxMonthlyDebt: 2160},
		{ThresholdPercent: 43, MaxMonthlyDebt: 2580},
	}, result.MaxDebt)
	assert.Equal(t, 580.0, result.RemainingCapacity)

	custom, err := svc.DTI(domain.DTIInput{
		GrossMonthlyIncome: 5000,
		AdditionalIncome:   1000,
		Housing:            1500,
		OtherDebts:         []float64{300, 200},
		Bands:              testBands(),
		CapacityPercent:    30,
	})
	require.NoError(t, err)
	assert.Equal(t, -200.0, custom.RemainingCapacity)
}

func TestDTI_NoIncome(t *testing.T) {
	svc := NewAffordabilityService()

	_, err := svc.DTI(domain.DTIInput{Housing: 100, Bands: testBands()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

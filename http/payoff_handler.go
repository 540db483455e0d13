package http

import (
	"net/http"
	"strconv"

	"payoff-engine/domain"
	"payoff-engine/service"
)

const adviceSessionHeader = "X-Advice-Session"

// SimulationDefaults fill in what a request leaves at zero.
type SimulationDefaults struct {
	MaxMonths   int
	SampleEvery int
}

type PayoffHandler struct {
	plans       *service.DebtExitService
	sensitivity *service.SensitivityService
	defaults    SimulationDefaults
}

func NewPayoffHandler(
	plans *service.DebtExitService,
	sensitivity *service.SensitivityService,
	defaults SimulationDefaults,
) *PayoffHandler {
	return &PayoffHandler{plans: plans, sensitivity: sensitivity, defaults: defaults}
}

// Simulate returns the full month-by-month schedule for one strategy. The
// sample interval may be overridden with ?sample_every=N.
func (h *PayoffHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var input domain.DebtExitInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.MaxMonths == 0 {
		input.MaxMonths = h.defaults.MaxMonths
	}

	sampleEvery := h.defaults.SampleEvery
	if raw := r.URL.Query().Get("sample_every"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "sample_every must be a positive integer", "sample_every")
			return
		}
		sampleEvery = n
	}

	result, err := h.plans.Simulate(input, sampleEvery)
	if err != nil {
		writeServiceError(w, "payoff simulation", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Plan runs a debt exit plan and schedules advice for it. The advice session
// is taken from the X-Advice-Session header when present.
func (h *PayoffHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var input domain.DebtExitInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.MaxMonths == 0 {
		input.MaxMonths = h.defaults.MaxMonths
	}

	result, err := h.plans.CalculateDebtExitPlan(input, r.Header.Get(adviceSessionHeader))
	if err != nil {
		writeServiceError(w, "debt exit plan", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PayoffHandler) Sensitivity(w http.ResponseWriter, r *http.Request) {
	var input domain.SensitivityInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.MaxMonths == 0 {
		input.MaxMonths = h.defaults.MaxMonths
	}

	result, err := h.sensitivity.SweepExtraPayment(input)
	if err != nil {
		writeServiceError(w, "payoff sensitivity", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *PayoffHandler) LoanSensitivity(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanSensitivityInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.sensitivity.SweepLoanExtraPayment(input)
	if err != nil {
		writeServiceError(w, "loan sensitivity", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

package http

import (
	"net/http"

	"payoff-engine/domain"
	"payoff-engine/service"
)

type LoanHandler struct {
	loans  *service.LoanService
	phased *service.PhasedLoanService
	terms  *service.TermRecommendationService
}

func NewLoanHandler(
	loans *service.LoanService,
	phased *service.PhasedLoanService,
	terms *service.TermRecommendationService,
) *LoanHandler {
	return &LoanHandler{loans: loans, phased: phased, terms: terms}
}

func (h *LoanHandler) CalculateLoan(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.loans.CalculateLoan(input)
	if err != nil {
		writeServiceError(w, "loan calculation", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LoanHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.loans.AmortizationSchedule(input)
	if err != nil {
		writeServiceError(w, "amortization schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LoanHandler) Prepayment(w http.ResponseWriter, r *http.Request) {
	var input domain.PrepaymentInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.loans.CalculatePrepayment(input)
	if err != nil {
		writeServiceError(w, "prepayment calculation", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LoanHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var input domain.LoanComparisonInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.loans.CompareLoans(input)
	if err != nil {
		writeServiceError(w, "loan comparison", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LoanHandler) Prequal(w http.ResponseWriter, r *http.Request) {
	var input domain.PrequalInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.loans.MaxLoanAmount(input)
	if err != nil {
		writeServiceError(w, "prequalification", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LoanHandler) InterestOnly(w http.ResponseWriter, r *http.Request) {
	var input domain.InterestOnlyInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.phased.InterestOnly(input)
	if err != nil {
		writeServiceError(w, "interest-only calculation", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LoanHandler) Installment(w http.ResponseWriter, r *http.Request) {
	var input domain.InstallmentInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.phased.Installment(input)
	if err != nil {
		writeServiceError(w, "installment plan", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *LoanHandler) RecommendTerm(w http.ResponseWriter, r *http.Request) {
	var input domain.TermRecommendationInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.terms.RecommendTerm(input)
	if err != nil {
		writeServiceError(w, "term recommendation", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

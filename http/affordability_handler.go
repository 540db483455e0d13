package http

import (
	"net/http"

	"payoff-engine/domain"
	"payoff-engine/service"
)

type AffordabilityHandler struct {
	service *service.AffordabilityService
}

func NewAffordabilityHandler(service *service.AffordabilityService) *AffordabilityHandler {
	return &AffordabilityHandler{service: service}
}

func (h *AffordabilityHandler) Score(w http.ResponseWriter, r *http.Request) {
	var input domain.AffordabilityInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.Score(input)
	if err != nil {
		writeServiceError(w, "affordability score", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AffordabilityHandler) DTI(w http.ResponseWriter, r *http.Request) {
	var input domain.DTIInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.service.DTI(input)
	if err != nil {
		writeServiceError(w, "debt-to-income", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payoff-engine/domain"
	"payoff-engine/service"
)

type fakeTracker struct {
	submitted map[string]domain.AdviceRequest
	err       error
}

func (f *fakeTracker) Submit(session string, req domain.AdviceRequest) (domain.AdviceStatus, error) {
	if f.err != nil {
		return domain.AdviceStatus{}, f.err
	}
	f.submitted[session] = req
	return domain.AdviceStatus{Session: session, State: domain.AdvicePending, Fingerprint: "fp"}, nil
}

func (f *fakeTracker) Status(session string) domain.AdviceStatus {
	if _, ok := f.submitted[session]; !ok {
		return domain.AdviceStatus{Session: session, State: domain.AdviceUnknown}
	}
	return domain.AdviceStatus{Session: session, State: domain.AdviceReady, Text: "- do it"}
}

func newTestRouter(t *testing.T, tracker *fakeTracker, limiter *RateLimiter) http.Handler {
	t.Helper()

	loans := service.NewLoanService()
	handlers := Handlers{
		Loans: NewLoanHandler(loans, service.NewPhasedLoanService(), service.NewTermRecommendationService(loans)),
		Payoff: NewPayoffHandler(service.NewDebtExitService(tracker), service.NewSensitivityService(loans), SimulationDefaults{
			MaxMonths:   360,
			SampleEvery: 6,
		}),
		Affordability: NewAffordabilityHandler(service.NewAffordabilityService()),
		Advice:        NewAdviceHandler(tracker),
	}
	return NewRouter(handlers, RouterOptions{CORSOrigins: []string{"*"}, RateLimiter: limiter})
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

func TestCalculateLoanHandler_OK(t *testing.T) {
	router := newTestRouter(t, &fakeTracker{submitted: map[string]domain.AdviceRequest{}}, nil)

	w := do(t, router, http.MethodPost, "/api/loans/payment", `{"amount": 10000, "interest_rate": 12, "term_months": 24}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	result := decode[domain.LoanResult](t, w)
	assert.InDelta(t, 470.73, result.MonthlyPayment, 0.01)
}

func TestCalculateLoanHandler_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, &fakeTracker{submitted: map[string]domain.AdviceRequest{}}, nil)

	w := do(t, router, http.MethodGet, "/api/loans/payment", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestCalculateLoanHandler_BadRequest(t *testing.T) {
	router := newTestRouter(t, &fakeTracker{submitted: map[string]domain.AdviceRequest{}}, nil)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{invalid-json}`},
		{"unknown field", `{"monto": 10000, "tasa_anual": 12, "plazo_meses": 24}`},
		{"trailing data", `{"amount": 1, "interest_rate": 1, "term_months": 1} {}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/loans/payment", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandlers_ValidationErrorNamesField(t *testing.T) {
	router := newTestRouter(t, &fakeTracker{submitted: map[string]domain.AdviceRequest{}}, nil)

	w := do(t, router, http.MethodPost, "/api/loans/payment", `{"amount": -5, "interest_rate": 12, "term_months": 24}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp := decode[errorResponse](t, w)
	assert.Equal(t, "amount", resp.Field)
	assert.Contains(t, resp.Error, "invalid amount")
}

func TestHandlers_UnsupportedMediaType(t *testing.T) {
	router := newTestRouter(t, &fakeTracker{submitted: map[string]domain.AdviceRequest{}}, nil)

	w := do(t, router, http.MethodPost, "/api/loans/payment", `amount=1`, "Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestLoanEndpoints(t *testing.T) {
	router := newTestRouter(t, &fakeTracker{submitted: map[string]domain.AdviceRequest{}}, nil)

	endpoints := []struct {
		path string
		body string
	}{
		{"/api/loans/schedule", `{"amount": 1200, "interest_rate": 0, "term_months": 12}`},
		{"/api/loans/prepayment", `{"amount": 10000, "interest_rate": 12, "term_months": 24, "extra_monthly_payment": 100}`},
		{"/api/loans/compare", `{"current": {"amount": 200000, "interest_rate": 7, "term_months": 360}, "proposed": {"amount": 200000, "interest_rate": 5, "term_months": 360, "closing_costs": 3000}}`},
		{"/api/loans/prequal", `{"monthly_income": 5000, "existing_monthly_debt": 500, "target_dti_percent": 36, "interest_rate": 6, "term_months": 360}`},
		{"/api/loans/interest-only", `{"principal": 300000, "annual_rate_percent": 6, "term_months": 360, "interest_only_months": 120}`},
		{"/api/loans/installment", `{"principal": 1500, "installment_count": 4, "late_fee": 25, "missed_installment": 2}`},
		{"/api/loans/recommend-term", `{"amount": 10000, "interest_rate": 12, "min_term_months": 12, "max_term_months": 36, "max_monthly_payment": 600, "preference": "balanced"}`},
		{"/api/loans/sensitivity", `{"amount": 10000, "interest_rate": 12, "term_months": 24, "values": [0, 100]}`},
		{"/api/affordability/score", `{"monthly_payments": [500, 300], "gross_monthly_income": 4000, "bands": [{"max_percent": 28, "label": "good"}]}`},
		{"/api/affordability/dti", `{"gross_monthly_income": 6000, "housing": 1500, "other_debts": [500], "bands": [{"max_percent": 36, "label": "ok"}]}`},
	}

	for _, ep := range endpoints {
		t.Run(ep.path, func(t *testing.T) {
			w := do(t, router, http.MethodPost, ep.path, ep.body)
			assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		})
	}
}

func TestInstallmentHandler_MissedTotal(t *testing.T) {
	router := newTestRouter(t, &fakeTracker{submitted: map[string]domain.AdviceRequest{}}, nil)

	w := do(t, router, http.MethodPost, "/api/loans/installment", `{"principal": 1500, "installment_count": 4, "late_fee": 25, "missed_installment": 2}`)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[domain.InstallmentResult](t, w)
	assert.Equal(t, 1525.0, result.TotalCost)
}

const twoCardsBody = `{
	"obligations": [
		{"name": "card-a", "principal": 5200, "annual_rate_percent": 24.99, "min_payment": 150},
		{"name": "card-b", "principal": 1850, "annual_rate_percent": 29.99, "min_payment": 60}
	],
	"monthly_budget": 600,
	"strategy": "%s"
}`

func TestPayoffSimulateHandler(t *testing.T) {
	router := newTestRouter(t, &fakeTracker{submitted: map[string]domain.AdviceRequest{}}, nil)

	w := do(t, router, http.MethodPost, "/api/payoff/simulate?sample_every=5", strings.Replace(twoCardsBody, "%s", "avalanche", 1))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decode[domain.PayoffResult](t, w)
	require.NotNil(t, result.Summary.MonthsToPayoff)
	assert.Equal(t, 15, *result.Summary.MonthsToPayoff)
	assert.Len(t, result.Schedule, 15)
	assert.Len(t, result.Summary.ScheduleSample, 3)

	w = do(t, router, http.MethodPost, "/api/payoff/simulate?sample_every=zero", strings.Replace(twoCardsBody, "%s", "avalanche", 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayoffPlanHandler_SchedulesAdvice(t *testing.T) {
	tracker := &fakeTracker{submitted: map[string]domain.AdviceRequest{}}
	router := newTestRouter(t, tracker, nil)

	w := do(t, router, http.MethodPost, "/api/payoff/plan", strings.Replace(twoCardsBody, "%s", "compare", 1), adviceSessionHeader, "abc")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decode[domain.DebtExitResult](t, w)
	assert.Equal(t, "abc", result.AdviceSession)
	require.NotNil(t, result.Comparison)
	require.NotNil(t, result.VersusMinimums)
	assert.Greater(t, result.VersusMinimums.InterestSaved, 0.0)
	assert.Contains(t, tracker.submitted, "abc")

	w = do(t, router, http.MethodGet, "/api/advice/abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[domain.AdviceStatus](t, w)
	assert.Equal(t, domain.AdviceReady, status.State)
}

func TestPayoffPlanHandler_BadStrategy(t *testing.T) {
	router := newTestRouter(t, &fakeTracker{submitted: map[string]domain.AdviceRequest{}}, nil)

	w := do(t, router, http.MethodPost, "/api/payoff/plan", strings.Replace(twoCardsBody, "%s", "random", 1))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPayoffSensitivityHandler(t *testing.T) {
	router := newTestRouter(t, &fakeTracker{submitted: map[string]domain.AdviceRequest{}}, nil)

	body := strings.Replace(twoCardsBody, `"strategy": "%s"`, `"strategy": "snowball", "values": [0, 100]`, 1)
	w := do(t, router, http.MethodPost, "/api/payoff/sensitivity", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	result := decode[domain.SensitivityResult](t, w)
	require.Len(t, result.Points, 2)
	assert.Greater(t, result.Points[1].InterestSaved, 0.0)
}

func TestAdviceHandlers(t *testing.T) {
	tracker := &fakeTracker{submitted: map[string]domain.AdviceRequest{}}
	router := newTestRouter(t, tracker, nil)

	w := do(t, router, http.MethodGet, "/api/advice/nobody", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, http.MethodPost, "/api/advice/s1", `{"context": "Budget", "data": {"income": 4000}}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	status := decode[domain.AdviceStatus](t, w)
	assert.Equal(t, domain.AdvicePending, status.State)

	w = do(t, router, http.MethodPost, "/api/advice/", `{"context": "Budget", "data": 2}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	created := decode[domain.AdviceStatus](t, w)
	_, err := uuid.Parse(created.Session)
	assert.NoError(t, err)

	w = do(t, router, http.MethodPost, "/api/advice/s2", `{"data": {}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	tracker.err = service.ErrDebouncerStopped
	w = do(t, router, http.MethodPost, "/api/advice/s3", `{"context": "Budget", "data": 1}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	router := newTestRouter(t, &fakeTracker{submitted: map[string]domain.AdviceRequest{}}, limiter)

	body := `{"amount": 1200, "interest_rate": 0, "term_months": 12}`
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/loans/payment", body).Code)
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodPost, "/api/loans/payment", body).Code)

	w := do(t, router, http.MethodPost, "/api/loans/payment", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Health checks are not limited.
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, "/healthz", "").Code)
}

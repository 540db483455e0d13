package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Loans         *LoanHandler
	Payoff        *PayoffHandler
	Affordability *AffordabilityHandler
	Advice        *AdviceHandler
}

type RouterOptions struct {
	CORSOrigins []string
	// Nil disables rate limiting.
	RateLimiter *RateLimiter
}

// NewRouter wires every endpoint. All calculation routes are POST with a JSON
// body; advice status is polled with GET.
func NewRouter(h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", adviceSessionHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimiter != nil {
			r.Use(RateLimitMiddleware(opts.RateLimiter))
		}

		r.Route("/loans", func(r chi.Router) {
			r.Post("/payment", h.Loans.CalculateLoan)
			r.Post("/schedule", h.Loans.Schedule)
			r.Post("/prepayment", h.Loans.Prepayment)
			r.Post("/compare", h.Loans.Compare)
			r.Post("/prequal", h.Loans.Prequal)
			r.Post("/interest-only", h.Loans.InterestOnly)
			r.Post("/installment", h.Loans.Installment)
			r.Post("/recommend-term", h.Loans.RecommendTerm)
			r.Post("/sensitivity", h.Payoff.LoanSensitivity)
		})

		r.Route("/payoff", func(r chi.Router) {
			r.Post("/simulate", h.Payoff.Simulate)
			r.Post("/plan", h.Payoff.Plan)
			r.Post("/sensitivity", h.Payoff.Sensitivity)
		})

		r.Route("/affordability", func(r chi.Router) {
			r.Post("/score", h.Affordability.Score)
			r.Post("/dti", h.Affordability.DTI)
		})

		r.Route("/advice", func(r chi.Router) {
			r.Post("/", h.Advice.Create)
			r.Post("/{session}", h.Advice.Submit)
			r.Get("/{session}", h.Advice.Status)
		})
	})

	return r
}

package service

import (
	"log"
	"sort"

	"payoff-engine/domain"
)

type TermRecommendationService struct {
	loanService *LoanService
}

func NewTermRecommendationService(loanService *LoanService) *TermRecommendationService {
	return &TermRecommendationService{loanService: loanService}
}

// termWeights splits a 0-10 score between interest cost, payment size and
// term length. Each row sums to 1.
type termWeights struct {
	interest, payment, term float64
	reason                  string
}

var termPreferences = map[string]termWeights{
	"minimize_interest": {0.6, 0.2, 0.2, "Term chosen to minimize total interest cost"},
	"minimize_payment":  {0.2, 0.6, 0.2, "Term chosen to minimize the monthly payment"},
	"balanced":          {0.4, 0.4, 0.2, "Balance between monthly payment and total cost"},
}

// termBounds holds the normalization ranges for one recommendation request.
// Interest is bounded by simple interest over the shortest and longest term;
// payment by principal spread over the longest term and the caller's cap.
type termBounds struct {
	interestLow, interestSpan float64
	paymentLow, paymentSpan   float64
	termLow, termSpan         int
}

func newTermBounds(in domain.TermRecommendationInput) termBounds {
	yearly := in.Amount * (in.InterestRate / 100)
	b := termBounds{
		interestLow: yearly * float64(in.MinTermMonths) / 12,
		paymentLow:  in.Amount / float64(in.MaxTermMonths),
		termLow:     in.MinTermMonths,
		termSpan:    in.MaxTermMonths - in.MinTermMonths,
	}
	b.interestSpan = yearly*float64(in.MaxTermMonths)/12 - b.interestLow
	b.paymentSpan = in.MaxMonthlyPayment - b.paymentLow
	return b
}

// normalized maps v onto 10 at low and 0 at low+span. A degenerate span
// scores empty.
func normalized(v, low, span, empty float64) float64 {
	if span <= 0 {
		return empty
	}
	return 10 * (1 - (v-low)/span)
}

func (b termBounds) score(w termWeights, loan domain.LoanResult, term int) float64 {
	interest := normalized(loan.TotalInterest, b.interestLow, b.interestSpan, 0)
	payment := normalized(loan.MonthlyPayment, b.paymentLow, b.paymentSpan, 0)
	length := normalized(float64(term), float64(b.termLow), float64(b.termSpan), 10)
	return roundTo2Decimals(w.interest*interest + w.payment*payment + w.term*length)
}

func validateTermRange(in domain.TermRecommendationInput) error {
	switch {
	case in.MinTermMonths <= 0 || in.MaxTermMonths <= 0:
		return invalid("term_months", "min and max terms must be positive")
	case in.MinTermMonths > in.MaxTermMonths:
		return invalid("term_months", "minimum term is greater than maximum term")
	case in.MaxTermMonths > MaxTermMonths:
		return invalid("max_term_months", "exceeds the limit of %d months", MaxTermMonths)
	case in.MaxTermMonths-in.MinTermMonths > MaxTermRangeMonths:
		return invalid("term_months", "range exceeds the maximum of %d months", MaxTermRangeMonths)
	}
	return nil
}

// RecommendTerm prices every term in [MinTermMonths, MaxTermMonths], drops the
// ones whose payment is over MaxMonthlyPayment and ranks the rest by the
// caller's preference.
func (s *TermRecommendationService) RecommendTerm(
	in domain.TermRecommendationInput,
) (domain.TermRecommendationResult, error) {
	if err := checkAmount("amount", in.Amount, 0, MaxLoanAmount, true); err != nil {
		return domain.TermRecommendationResult{}, err
	}
	if err := checkAmount("interest_rate", in.InterestRate, 0, MaxInterestRate, false); err != nil {
		return domain.TermRecommendationResult{}, err
	}
	if err := validateTermRange(in); err != nil {
		return domain.TermRecommendationResult{}, err
	}
	if err := checkAmount("max_monthly_payment", in.MaxMonthlyPayment, 0, MaxLoanAmount, true); err != nil {
		return domain.TermRecommendationResult{}, err
	}
	weights, ok := termPreferences[in.Preference]
	if !ok {
		return domain.TermRecommendationResult{}, ErrInvalidPreference
	}

	bounds := newTermBounds(in)
	var ranked []domain.TermRecommendation
	for term := in.MinTermMonths; term <= in.MaxTermMonths; term++ {
		loan, err := s.loanService.CalculateLoan(domain.LoanInput{
			Amount:       in.Amount,
			InterestRate: in.InterestRate,
			TermMonths:   term,
		})
		if err != nil {
			log.Printf("Warning: skipping term %d: %v", term, err)
			continue
		}
		if loan.MonthlyPayment > in.MaxMonthlyPayment {
			continue
		}
		ranked = append(ranked, domain.TermRecommendation{
			TermMonths:     term,
			MonthlyPayment: loan.MonthlyPayment,
			TotalInterest:  loan.TotalInterest,
			Score:          bounds.score(weights, loan, term),
			Reason:         weights.reason,
		})
	}
	if len(ranked) == 0 {
		return domain.TermRecommendationResult{}, ErrNoViableTerm
	}

	// Shorter terms win ties.
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	return domain.TermRecommendationResult{
		RecommendedTerm: ranked[0].TermMonths,
		Recommendations: ranked,
	}, nil
}

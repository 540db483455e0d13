package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"payoff-engine/domain"
	"payoff-engine/repository"
)

const (
	AdviceFallback = "Advice is currently unavailable."

	defaultAdviceURL   = "https://api.openai.com/v1/chat/completions"
	defaultAdviceModel = "gpt-4o-mini"
	adviceCachePrefix  = "advice:"
)

var ErrAdvisorUnavailable = errors.New("advisor unavailable")

// Advisor turns a plan summary into human-readable guidance.
type Advisor interface {
	Advise(ctx context.Context, data any, contextLabel string) (string, error)
}

type OpenAIAdvisor struct {
	apiKey     string
	apiURL     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

type OpenAIRequest struct {
	Model     string    `json:"model"`
	Messages  []Message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenAIResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

type OpenAIAdvisorOptions struct {
	APIKey    string
	APIURL    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

func NewOpenAIAdvisor(opts OpenAIAdvisorOptions) *OpenAIAdvisor {
	if opts.APIURL == "" {
		opts.APIURL = defaultAdviceURL
	}
	if opts.Model == "" {
		opts.Model = defaultAdviceModel
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 300
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &OpenAIAdvisor{
		apiKey:    opts.APIKey,
		apiURL:    opts.APIURL,
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// Advise sends one chat completion request. Without an API key it fails
// immediately with ErrAdvisorUnavailable.
func (a *OpenAIAdvisor) Advise(ctx context.Context, data any, contextLabel string) (string, error) {
	if a.apiKey == "" {
		return "", ErrAdvisorUnavailable
	}

	prompt, err := advicePrompt(data, contextLabel)
	if err != nil {
		return "", err
	}

	reqBody := OpenAIRequest{
		Model: a.model,
		Messages: []Message{
			{
				Role:    "system",
				Content: "You are a careful personal finance assistant. You explain debt repayment plans in plain language, quote the numbers you are given, and never invent figures.",
			},
			{
				Role:    "user",
				Content: prompt,
			},
		},
		MaxTokens: a.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.apiKey))

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var openAIResp OpenAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&openAIResp); err != nil {
		return "", err
	}

	if len(openAIResp.Choices) == 0 {
		return "", fmt.Errorf("no response from advisor")
	}

	text := strings.TrimSpace(openAIResp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty response from advisor")
	}
	return text, nil
}

func advicePrompt(data any, contextLabel string) (string, error) {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode advice data: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Context: %s\n\n", contextLabel)
	if summary, ok := moneyHighlights(data); ok {
		b.WriteString(summary)
		b.WriteString("\n")
	}
	b.WriteString("Data:\n")
	b.Write(payload)
	b.WriteString("\n\nGive exactly 3 concise, actionable bullet points for this person. ")
	b.WriteString("Refer to the amounts above and keep each bullet to one sentence.")
	return b.String(), nil
}

// moneyHighlights pulls the headline totals out of a plan map so the model
// sees them formatted to the cent.
func moneyHighlights(data any) (string, bool) {
	m, ok := data.(map[string]any)
	if !ok {
		return "", false
	}
	var lines []string
	if budget, ok := m["monthly_budget"].(float64); ok {
		lines = append(lines, "Monthly budget: "+formatMoney(budget))
	}
	if summary, ok := m["summary"].(domain.Summary); ok {
		lines = append(lines,
			"Total debt: "+formatMoney(summary.TotalDebt),
			"Total interest: "+formatMoney(summary.TotalInterestPaid),
		)
		if summary.MonthsToPayoff != nil {
			lines = append(lines, "Months to payoff: "+strconv.Itoa(*summary.MonthsToPayoff))
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n") + "\n", true
}

// Fingerprint identifies an advice request by its content. Equal data and
// label always give the same value.
func Fingerprint(data any, contextLabel string) (string, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode advice data: %w", err)
	}
	h := xxhash.New()
	_, _ = h.WriteString(contextLabel)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(payload)
	return strconv.FormatUint(h.Sum64(), 16), nil
}

// AdviceService wraps an Advisor with a cache and the fallback text. It never
// returns an error to the caller.
type AdviceService struct {
	advisor Advisor
	cache   repository.CacheRepository
	ttl     time.Duration
	timeout time.Duration
}

func NewAdviceService(
	advisor Advisor,
	cache repository.CacheRepository,
	ttl time.Duration,
	timeout time.Duration,
) *AdviceService {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &AdviceService{
		advisor: advisor,
		cache:   cache,
		ttl:     ttl,
		timeout: timeout,
	}
}

// GetAdvice returns cached or fresh advice, or AdviceFallback on any failure.
// Fallback text is never cached.
func (s *AdviceService) GetAdvice(ctx context.Context, data any, contextLabel string) string {
	key := ""
	if fp, err := Fingerprint(data, contextLabel); err == nil {
		key = adviceCachePrefix + fp
	} else {
		log.Printf("Warning: advice fingerprint failed: %v", err)
	}

	if key != "" && s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached
		}
	}

	if s.advisor == nil {
		return AdviceFallback
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.advisor.Advise(ctx, data, contextLabel)
	if err != nil {
		if !errors.Is(err, ErrAdvisorUnavailable) && !errors.Is(err, context.Canceled) {
			log.Printf("Error calling advisor for %q: %v", contextLabel, err)
		}
		return AdviceFallback
	}

	if key != "" && s.cache != nil {
		if err := s.cache.Set(ctx, key, text, s.ttl); err != nil {
			log.Printf("Warning: failed to cache advice: %v", err)
		}
	}
	return text
}

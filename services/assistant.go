package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Assistant answers a single free-text prompt.
type Assistant interface {
	Ask(ctx context.Context, prompt string, temperature float64) (string, error)
}

// OpenAICompatAssistant talks to any chat-completions endpoint that speaks
// the OpenAI wire format. Answers are cached per prompt for CacheTTL.
type OpenAICompatAssistant struct {
	BaseURL   string
	Model     string
	APIKey    string
	MaxTokens int
	CacheTTL  time.Duration
	Client    *http.Client

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	value string
	exp   time.Time
}

// RateLimitError is returned on HTTP 429.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (r RateLimitError) Error() string {
	if r.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", r.RetryAfter)
	}
	return "rate limited"
}

// NewOpenAICompatAssistant returns an assistant with a 60s answer cache.
func NewOpenAICompatAssistant(baseURL, model, apiKey string) *OpenAICompatAssistant {
	return &OpenAICompatAssistant{
		BaseURL:   baseURL,
		Model:     model,
		APIKey:    apiKey,
		MaxTokens: 256,
		CacheTTL:  60 * time.Second,
	}
}

func (a *OpenAICompatAssistant) Ask(ctx context.Context, prompt string, temperature float64) (string, error) {
	if strings.TrimSpace(a.BaseURL) == "" {
		return "", errors.New("assistant base url is not set")
	}
	if strings.TrimSpace(a.Model) == "" {
		return "", errors.New("assistant model is not set")
	}

	if v, ok := a.cacheGet(prompt); ok {
		return v, nil
	}

	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	payload := struct {
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature,omitempty"`
		MaxTokens   int     `json:"max_tokens,omitempty"`
		Messages    []msg   `json:"messages"`
	}{
		Model:       a.Model,
		Temperature: temperature,
		MaxTokens:   a.MaxTokens,
		Messages:    []msg{{Role: "user", Content: prompt}},
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	url := strings.TrimRight(a.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(a.APIKey) != "" {
		req.Header.Set("Authorization", "Bearer "+a.APIKey)
	}

	client := a.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return "", errors.New("assistant request timed out")
		}
		return "", fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		var retry time.Duration
		if s := resp.Header.Get("Retry-After"); s != "" {
			retry, _ = time.ParseDuration(s + "s")
		}
		return "", RateLimitError{RetryAfter: retry}
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("assistant http error: %s", resp.Status)
	}

	var res struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode assistant response: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", errors.New("empty assistant response")
	}
	answer := strings.TrimSpace(res.Choices[0].Message.Content)
	a.cacheSet(prompt, answer)
	return answer, nil
}

func (a *OpenAICompatAssistant) cacheGet(key string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok := a.cache[key]; ok {
		if time.Now().Before(e.exp) {
			return e.value, true
		}
		delete(a.cache, key)
	}
	return "", false
}

func (a *OpenAICompatAssistant) cacheSet(key, value string) {
	if a.CacheTTL <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cache == nil {
		a.cache = map[string]cacheEntry{}
	}
	a.cache[key] = cacheEntry{value: value, exp: time.Now().Add(a.CacheTTL)}
}

// MockAssistant returns canned answers keyed by prompt substring.
type MockAssistant struct {
	Answers map[string]string
	Err     error
	Calls   int
}

func (m *MockAssistant) Ask(_ context.Context, prompt string, _ float64) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	for k, v := range m.Answers {
		if strings.Contains(prompt, k) {
			return v, nil
		}
	}
	return "", errors.New("no answer")
}

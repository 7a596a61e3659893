package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	key         string
	baseURL     string
	model       string
	maxTokens   int
	temperature float64
	limiter     *rate.Limiter
	httpc       *http.Client
	log         zerolog.Logger
	dryRun      bool
}

type Option func(*Client)

func WithTemperature(t float64) Option { return func(c *Client) { c.temperature = t } }

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithRateLimit(rps, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

func WithLogger(log zerolog.Logger) Option { return func(c *Client) { c.log = log } }

// WithDryRun makes Chat return a canned completion without any API call.
func WithDryRun(on bool) Option { return func(c *Client) { c.dryRun = on } }

// New looks the short model name up in the registry and returns a
// configured client, or an UnknownModelError.
func New(name, apiKey string, opts ...Option) (*Client, error) {
	cfg, ok := Models[name]
	if !ok {
		return nil, &UnknownModelError{Name: name}
	}
	c := &Client{
		key:         apiKey,
		baseURL:     DefaultBaseURL,
		model:       cfg.ModelID,
		maxTokens:   defaultMaxTokens,
		temperature: defaultTemperature,
		httpc:       http.DefaultClient,
		log:         zerolog.Nop(),
	}
	if cfg.BaseURL != "" {
		c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.MaxTokens > 0 {
		c.maxTokens = cfg.MaxTokens
	}
	if cfg.Temperature > 0 {
		c.temperature = cfg.Temperature
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Model() string { return c.model }

func (c *Client) Chat(ctx context.Context, msgs []Message) (string, error) {
	if c.dryRun {
		log := c.log.With().Str("model", c.model).Logger()
		log.Info().Msg("llm_dry_run_enabled")
		return `{"action":"done","result":"simulated answer"}`, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	body := map[string]any{
		"model":       c.model,
		"messages":    msgs,
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}
	b, _ := json.Marshal(body)
	log := c.log.With().Str("model", c.model).Int("body_len", len(b)).Logger()

	req, _ := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(b))
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	t0 := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Error().Err(err).Msg("chat_request_failed")
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	// redact the API key before anything from this response hits the log
	if c.key != "" {
		raw = bytes.ReplaceAll(raw, []byte(c.key), []byte("REDACTED"))
	}
	log.Debug().Int("status_code", resp.StatusCode).Int("body_len", len(raw)).Msg("chat_response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Str("status", resp.Status).Bytes("body", raw).Msg("chat_http_error")
		return "", errors.New("openrouter http " + resp.Status)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	_ = json.Unmarshal(raw, &out)
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", errors.New("openrouter: empty completion")
	}

	log.Debug().Int("latency_ms", int(time.Since(t0)/time.Millisecond)).Msg("chat_done")
	return out.Choices[0].Message.Content, nil
}

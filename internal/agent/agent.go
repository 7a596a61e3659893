// Package agent runs a browser-driving LLM loop: the model is shown the
// task plus the latest page observation and replies with one JSON action
// per turn until it finishes or runs out of steps.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/emandor/docvet/internal/browser"
	"github.com/emandor/docvet/internal/llm"
)

// LLM is the chat model driving the loop.
type LLM interface {
	Chat(ctx context.Context, msgs []llm.Message) (string, error)
}

// Browser is the subset of browser.Session the agent operates.
type Browser interface {
	Navigate(url string) error
	Page() (browser.Page, error)
	Links() ([]browser.Link, error)
}

const defaultMaxSteps = 20

const systemPrompt = `You are a documentation research agent operating a real web browser.
Reply with ONE single-line JSON object per turn and nothing else. Actions:
{"action":"navigate","url":"https://..."} - open a page
{"action":"read"} - get the visible text of the current page
{"action":"links"} - list the links on the current page
{"action":"done","result":"<final answer text>"} - finish
You have a limited number of steps. When you finish, put the COMPLETE final
answer in "result", formatted exactly as the task asks.`

type Agent struct {
	Task     string
	LLM      LLM
	Browser  Browser
	MaxSteps int
	Log      zerolog.Logger
}

type Step struct {
	Action      string `json:"action"`
	URL         string `json:"url,omitempty"`
	Observation string `json:"observation,omitempty"`
}

// Result is what a finished run produced. A nil Result means total failure.
type Result struct {
	RunID string
	Steps []Step
	Final string
}

// FinalText returns the agent's final extracted text, or "" when there is
// no usable result.
func (r *Result) FinalText() string {
	if r == nil {
		return ""
	}
	return r.Final
}

func (a *Agent) Run(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := a.Log.With().Str("run_id", runID).Logger()

	maxSteps := a.MaxSteps
	if maxSteps <= 0 {
		maxSteps = defaultMaxSteps
	}

	msgs := []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: a.Task},
	}
	res := &Result{RunID: runID}

	for step := 0; step < maxSteps; step++ {
		reply, err := a.LLM.Chat(ctx, msgs)
		if err != nil {
			return nil, fmt.Errorf("agent step %d: %w", step, err)
		}
		msgs = append(msgs, llm.Message{Role: "assistant", Content: reply})

		act, err := decodeAction(reply)
		if err != nil {
			log.Warn().Err(err).Str("reply", clip(reply, 300)).Msg("agent_bad_action")
			msgs = append(msgs, llm.Message{Role: "user",
				Content: "Could not parse that as an action. Reply with exactly one JSON action object."})
			continue
		}

		if act.Action == "done" {
			res.Final = act.Result
			log.Info().Int("steps", step+1).Msg("agent_done")
			return res, nil
		}

		obs := a.execute(act, log)
		res.Steps = append(res.Steps, Step{Action: act.Action, URL: act.URL, Observation: clip(obs, 200)})
		msgs = append(msgs, llm.Message{Role: "user", Content: obs})
	}

	log.Warn().Int("steps", maxSteps).Msg("agent_step_budget_exhausted")
	return nil, errors.New("agent: step budget exhausted without a final answer")
}

type action struct {
	Action string `json:"action"`
	URL    string `json:"url"`
	Result string `json:"result"`
}

func decodeAction(reply string) (action, error) {
	var act action
	s := firstJSONObject(reply)
	if s == "" {
		return act, errors.New("no JSON object in reply")
	}
	if err := json.Unmarshal([]byte(s), &act); err != nil {
		return act, err
	}
	if act.Action == "" {
		return act, errors.New(`missing "action" field`)
	}
	return act, nil
}

func firstJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	level := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// execute runs one browser action; failures come back as observations so
// the model can route around them.
func (a *Agent) execute(act action, log zerolog.Logger) string {
	switch act.Action {
	case "navigate":
		if act.URL == "" {
			return `the "navigate" action needs a "url"`
		}
		if err := a.Browser.Navigate(act.URL); err != nil {
			log.Warn().Err(err).Str("url", act.URL).Msg("agent_navigate_failed")
			return "navigation to " + act.URL + " failed: " + err.Error()
		}
		return a.readPage("Opened " + act.URL)
	case "read":
		return a.readPage("Current page")
	case "links":
		links, err := a.Browser.Links()
		if err != nil {
			log.Warn().Err(err).Msg("agent_links_failed")
			return "could not list links: " + err.Error()
		}
		var b strings.Builder
		b.WriteString("Links on the current page:\n")
		for _, l := range links {
			b.WriteString("- ")
			b.WriteString(l.Text)
			b.WriteString(" : ")
			b.WriteString(l.URL)
			b.WriteByte('\n')
		}
		return b.String()
	default:
		return "unknown action " + act.Action + `; use "navigate", "read", "links" or "done"`
	}
}

func (a *Agent) readPage(prefix string) string {
	p, err := a.Browser.Page()
	if err != nil {
		return prefix + ", but the page could not be read: " + err.Error()
	}
	return fmt.Sprintf("%s\nURL: %s\nTitle: %s\n\n%s", prefix, p.URL, p.Title, p.Text)
}

func clip(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}

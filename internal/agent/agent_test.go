package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/emandor/docvet/internal/browser"
	"github.com/emandor/docvet/internal/llm"
)

// scriptedLLM replies with a fixed sequence, one reply per Chat call.
type scriptedLLM struct {
	replies []string
	calls   int
	lastMsg string
}

func (s *scriptedLLM) Chat(_ context.Context, msgs []llm.Message) (string, error) {
	s.lastMsg = msgs[len(msgs)-1].Content
	if s.calls >= len(s.replies) {
		return "", errors.New("script exhausted")
	}
	r := s.replies[s.calls]
	s.calls++
	return r, nil
}

type fakeBrowser struct {
	navigated []string
	pageText  string
	pageErr   error
}

func (f *fakeBrowser) Navigate(url string) error {
	f.navigated = append(f.navigated, url)
	return nil
}

func (f *fakeBrowser) Page() (browser.Page, error) {
	if f.pageErr != nil {
		return browser.Page{}, f.pageErr
	}
	return browser.Page{URL: "https://docs.example.com", Title: "Docs", Text: f.pageText}, nil
}

func (f *fakeBrowser) Links() ([]browser.Link, error) {
	return []browser.Link{{Text: "Connector Guide", URL: "https://docs.example.com/connectors"}}, nil
}

func TestRunNavigateReadDone(t *testing.T) {
	mock := &scriptedLLM{replies: []string{
		`{"action":"navigate","url":"https://docs.example.com"}`,
		`{"action":"links"}`,
		`{"action":"done","result":"final answer text"}`,
	}}
	fb := &fakeBrowser{pageText: "incremental import is supported by REST connectors"}

	a := &Agent{Task: "validate question 7", LLM: mock, Browser: fb, MaxSteps: 5, Log: zerolog.Nop()}
	res, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.FinalText() != "final answer text" {
		t.Errorf("unexpected final text %q", res.FinalText())
	}
	if len(fb.navigated) != 1 || fb.navigated[0] != "https://docs.example.com" {
		t.Errorf("unexpected navigations %v", fb.navigated)
	}
	if len(res.Steps) != 2 {
		t.Errorf("expected 2 recorded steps, got %d", len(res.Steps))
	}
	if res.RunID == "" {
		t.Error("expected a run id")
	}
	if !strings.Contains(mock.lastMsg, "Connector Guide") {
		t.Errorf("links observation not fed back, last message: %q", mock.lastMsg)
	}
}

func TestRunRecoversFromBadAction(t *testing.T) {
	mock := &scriptedLLM{replies: []string{
		"Sure! Let me think about that first.",
		`{"action":"done","result":"ok"}`,
	}}
	a := &Agent{Task: "t", LLM: mock, Browser: &fakeBrowser{}, MaxSteps: 5, Log: zerolog.Nop()}
	res, err := a.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.FinalText() != "ok" {
		t.Errorf("unexpected final text %q", res.FinalText())
	}
}

func TestRunStepBudgetExhausted(t *testing.T) {
	mock := &scriptedLLM{replies: []string{
		`{"action":"read"}`,
		`{"action":"read"}`,
	}}
	a := &Agent{Task: "t", LLM: mock, Browser: &fakeBrowser{pageText: "x"}, MaxSteps: 2, Log: zerolog.Nop()}
	res, err := a.Run(context.Background())
	if err == nil {
		t.Error("expected an error when the budget runs out without a final answer")
	}
	if res != nil {
		t.Errorf("expected a nil result, got %+v", res)
	}
	// a nil result still answers FinalText with ""
	if res.FinalText() != "" {
		t.Error("nil result must yield empty final text")
	}
}

func TestRunLLMError(t *testing.T) {
	mock := &scriptedLLM{} // first call already fails
	a := &Agent{Task: "t", LLM: mock, Browser: &fakeBrowser{}, MaxSteps: 3, Log: zerolog.Nop()}
	if _, err := a.Run(context.Background()); err == nil {
		t.Error("expected the chat error to surface")
	}
}

func TestRunUnknownActionIsObserved(t *testing.T) {
	mock := &scriptedLLM{replies: []string{
		`{"action":"teleport"}`,
		`{"action":"done","result":"ok"}`,
	}}
	a := &Agent{Task: "t", LLM: mock, Browser: &fakeBrowser{}, MaxSteps: 5, Log: zerolog.Nop()}
	if _, err := a.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(mock.lastMsg, "unknown action") {
		t.Errorf("expected an unknown-action observation, got %q", mock.lastMsg)
	}
}

func TestDecodeActionEmbedded(t *testing.T) {
	act, err := decodeAction("Here you go: {\"action\":\"navigate\",\"url\":\"https://x\"} thanks")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if act.Action != "navigate" || act.URL != "https://x" {
		t.Errorf("unexpected action %+v", act)
	}
}

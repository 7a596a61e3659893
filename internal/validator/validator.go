// Package validator orchestrates one question validation: build the task,
// run the browser agent, normalize whatever comes back.
package validator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/emandor/docvet/internal/agent"
	"github.com/emandor/docvet/internal/browser"
	"github.com/emandor/docvet/internal/exam"
)

type Options struct {
	DocsURL  string
	MaxSteps int
	Browser  browser.Options
}

type Validator struct {
	llm      agent.LLM
	browser  *browser.Session
	docsURL  string
	maxSteps int
	log      zerolog.Logger
}

// New acquires the browser session. Callers must Close the validator on
// every exit path.
func New(ctx context.Context, opts Options, client agent.LLM, log zerolog.Logger) (*Validator, error) {
	sess, err := browser.New(ctx, opts.Browser, log)
	if err != nil {
		return nil, err
	}
	return &Validator{
		llm:      client,
		browser:  sess,
		docsURL:  opts.DocsURL,
		maxSteps: opts.MaxSteps,
		log:      log,
	}, nil
}

// ValidateQuestion always returns a usable record: the agent-updated
// question when the run parsed, otherwise the original unmodified. The
// context is the cancellation token; it is consulted once, after the
// in-flight agent run returns.
func (v *Validator) ValidateQuestion(ctx context.Context, q exam.Question) exam.Question {
	log := v.log.With().Int("question_id", q.ID).Logger()
	log.Info().Msg("validation_start")

	task := BuildTask(q, v.docsURL)
	log.Debug().Int("task_len", len(task)).Msg("task_built")

	ag := &agent.Agent{
		Task:     task,
		LLM:      v.llm,
		Browser:  v.browser,
		MaxSteps: v.maxSteps,
		Log:      log,
	}

	res, err := ag.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("agent_run_failed")
		return q
	}

	if ctx.Err() != nil {
		log.Info().Msg("shutdown_requested_gracefully_stopping")
	}

	updated, ok := Normalize(res, q, log)
	if !ok {
		log.Warn().Msg("keeping_original_question")
		return q
	}
	log.Info().Msg("question_updated_from_agent_response")
	return updated
}

// Close releases the browser exactly once.
func (v *Validator) Close() {
	v.log.Info().Msg("cleaning_up_resources")
	v.browser.Close()
}

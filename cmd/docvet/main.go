// Command docvet validates one exam question against an online
// documentation site using a browser-driving LLM agent.
//
//	docvet [flags] <question_id>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/emandor/docvet/internal/browser"
	"github.com/emandor/docvet/internal/config"
	"github.com/emandor/docvet/internal/exam"
	"github.com/emandor/docvet/internal/llm"
	"github.com/emandor/docvet/internal/telemetry"
	"github.com/emandor/docvet/internal/validator"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	model := flag.String("model", "", "LLM model to use ("+strings.Join(llm.ModelNames(), ", ")+")")
	temperature := flag.Float64("temperature", 0.7, "temperature for LLM sampling (0.0-1.0)")
	headless := flag.Bool("headless", false, "run the browser headless")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <question_id>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	questionID, err := strconv.Atoi(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "question_id must be an integer")
		os.Exit(2)
	}

	cfg := config.Load()
	applyOverrides(cfg, flag.CommandLine, *model, *temperature, *headless)

	level := "info"
	if *debug {
		level = "debug"
	}
	log := telemetry.New(telemetry.Config{
		Level: level,
		File:  fmt.Sprintf("question_%d_validation.log", questionID),
	})

	// every error is logged and swallowed here; the only failure signal is
	// the absence of the output file
	if err := run(questionID, cfg, log); err != nil {
		log.Error().Err(err).Msg("validation_failed")
	}
	log.Info().Msg("validation_process_completed")
}

// applyOverrides copies only the flags the user actually passed onto the
// config, so env-provided values survive flag defaults.
func applyOverrides(cfg *config.Config, fs *flag.FlagSet, model string, temperature float64, headless bool) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "model":
			cfg.Model = model
		case "temperature":
			cfg.Temperature = temperature
		case "headless":
			cfg.Headless = headless
		}
	})
}

func run(questionID int, cfg *config.Config, log zerolog.Logger) error {
	client, err := llm.New(cfg.Model, cfg.OpenRouterKey,
		llm.WithTemperature(cfg.Temperature),
		llm.WithRateLimit(cfg.LLMRPS, cfg.LLMBurst),
		llm.WithDryRun(cfg.LLMDryRun),
		llm.WithLogger(log),
	)
	if err != nil {
		return err
	}

	log.Info().Str("file", cfg.ExamFile).Msg("loading_exam")
	ex, err := exam.Load(cfg.ExamFile)
	if err != nil {
		return err
	}
	q, err := ex.Find(questionID)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// the browser outlives a shutdown signal: cancellation is only
	// consulted after the in-flight agent run returns
	v, err := validator.New(context.Background(), validator.Options{
		DocsURL:  cfg.DocsURL,
		MaxSteps: cfg.AgentMaxSteps,
		Browser: browser.Options{
			Headless: cfg.Headless,
			Width:    cfg.BrowserWidth,
			Height:   cfg.BrowserHeight,
		},
	}, client, log)
	if err != nil {
		return err
	}
	defer v.Close()

	log.Info().Int("question_id", questionID).Str("model", cfg.Model).Msg("starting_validation")
	validated := v.ValidateQuestion(ctx, q)

	if err := exam.Validate(validated); err != nil {
		log.Error().Err(err).Msg("validated_question_failed_schema_check")
		return nil // save skipped, no output file
	}

	out := fmt.Sprintf("validated_question_%d.json", questionID)
	if err := exam.Save(out, ex.Name, validated); err != nil {
		return err
	}
	log.Info().Str("file", out).Msg("validated_question_saved")
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-application-form/internal/delivery/cli"
	"go-application-form/internal/sink"
	"go-application-form/internal/usecase"
	"go-application-form/pkg/logger"
	"go-application-form/pkg/validation"
)

func main() {
	var (
		answersFlag        = flag.String("answers", "", "Optional YAML file that pre-fills the form")
		nonInteractiveFlag = flag.Bool("non-interactive", false, "Submit the answers file as-is without prompting")
		logLevelFlag       = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	// Logs go to stderr so the prompts own stdout
	logger.InitWriter(os.Stderr, *logLevelFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	form := usecase.NewFormController(sink.NewLogSink(logger.Log), validation.New(), logger.Log)

	if *answersFlag != "" {
		f, err := os.Open(*answersFlag)
		if err != nil {
			log.Fatalf("open answers: %v", err)
		}
		record, err := cli.LoadAnswers(f)
		_ = f.Close()
		if err != nil {
			log.Fatalf("load answers: %v", err)
		}
		if err := cli.Apply(form, record); err != nil {
			log.Fatalf("apply answers: %v", err)
		}
	} else if *nonInteractiveFlag {
		log.Fatal("-non-interactive requires -answers")
	}

	runner := cli.NewRunner(form, cli.NewSurveyDriver(os.Stdout))

	if *nonInteractiveFlag {
		ok, err := runner.Submit(ctx)
		if err != nil {
			log.Fatalf("submit: %v", err)
		}
		if !ok {
			os.Exit(1)
		}
		return
	}

	if err := runner.Run(ctx); err != nil {
		if errors.Is(err, cli.ErrAborted) {
			os.Exit(130)
		}
		log.Fatalf("run: %v", err)
	}
}

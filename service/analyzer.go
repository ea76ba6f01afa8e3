package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sharanry/legal-assistant/model"
	"github.com/sharanry/legal-assistant/pkg/logger"
)

// Analyzer runs the contract analysis pipeline for a single job:
// fetch the uploaded PDF, extract its text, query the model, and
// parse the response into a structured result.
type Analyzer struct {
	store     *JobStore
	artifacts ArtifactStore
	extractor TextExtractor
	completer Completer
	timeout   time.Duration
}

func NewAnalyzer(store *JobStore, artifacts ArtifactStore, extractor TextExtractor, completer Completer, timeout time.Duration) *Analyzer {
	return &Analyzer{
		store:     store,
		artifacts: artifacts,
		extractor: extractor,
		completer: completer,
		timeout:   timeout,
	}
}

// Run executes the pipeline for the given job in the calling goroutine.
// It always leaves the job in a terminal state and removes the uploaded
// artifact once the job is settled. A panic anywhere in the pipeline is
// contained and recorded as a job failure.
func (a *Analyzer) Run(ctx context.Context, jobID, artifactKey string) {
	ctx = logger.WithJobID(ctx, jobID)
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "Analysis pipeline panicked", "panic", r)
			a.store.Fail(jobID, "internal error during analysis")
		}
		a.cleanup(jobID, artifactKey)
	}()

	result, err := a.analyze(ctx, artifactKey)
	if err != nil {
		logger.Error(ctx, "Analysis failed", "error", err)
		a.store.Fail(jobID, userMessage(err))
		return
	}

	logger.Info(ctx, "Analysis completed", "clauses", len(result.Clauses))
	a.store.Complete(jobID, result)
}

func (a *Analyzer) analyze(ctx context.Context, artifactKey string) (*model.AnalysisResult, error) {
	data, err := a.artifacts.Get(ctx, artifactKey)
	if err != nil {
		return nil, &ExtractionError{Reason: "uploaded file is no longer available", Err: err}
	}

	text, err := a.extractor.Extract(data)
	if err != nil {
		return nil, err
	}
	logger.Debug(ctx, "Extracted contract text", "chars", len(text))

	prompt := BuildPrompt(text, AnalysisFormat)

	raw, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := ParseAnalysis(raw)
	if err != nil {
		return nil, err
	}
	return parsed, nil
}

// cleanup removes the uploaded artifact. Deletion is idempotent, so
// racing with an earlier cleanup for the same key is harmless.
func (a *Analyzer) cleanup(jobID, artifactKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.artifacts.Delete(ctx, artifactKey); err != nil {
		logger.Warn(ctx, "Failed to remove uploaded artifact",
			"job_id", jobID, "key", artifactKey, "error", err)
	}
}

// userMessage maps pipeline errors to the message stored on the job,
// which is what pollers of the status endpoint will see.
func userMessage(err error) string {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return fmt.Sprintf("Failed to read the PDF: %s", ee.Reason)
	}
	var me *ModelUnavailableError
	if errors.As(err, &me) {
		return fmt.Sprintf("Analysis service unavailable: %s", me.Reason)
	}
	var se *SchemaViolationError
	if errors.As(err, &se) {
		return "The analysis could not be completed: the model returned an unusable response"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Analysis timed out"
	}
	return "Error analyzing contract"
}

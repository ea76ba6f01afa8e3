package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sharanry/legal-assistant/model"
)

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(data []byte) (string, error) {
	return s.text, s.err
}

type stubCompleter struct {
	fn    func(ctx context.Context, prompt string) (string, error)
	calls int
}

func (s *stubCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.fn(ctx, prompt)
}

func newTestAnalyzer(t *testing.T, completer Completer, extractor TextExtractor) (*Analyzer, *JobStore, *LocalArtifactStore) {
	t.Helper()
	store := NewJobStore(5*time.Minute, 100)
	artifacts, err := NewLocalArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create artifact store: %v", err)
	}
	if extractor == nil {
		extractor = &stubExtractor{text: "This agreement is made between parties."}
	}
	return NewAnalyzer(store, artifacts, extractor, completer, time.Minute), store, artifacts
}

func seedJob(t *testing.T, store *JobStore, artifacts *LocalArtifactStore, id string) *model.Job {
	t.Helper()
	key := id + ".pdf"
	if err := artifacts.Put(context.Background(), key, []byte("%PDF-1.4 test")); err != nil {
		t.Fatalf("Failed to store artifact: %v", err)
	}
	job := &model.Job{ID: id, FileName: "contract.pdf", ArtifactKey: key}
	store.Create(job)
	return job
}

func TestAnalyzerCompletesJob(t *testing.T) {
	completer := &stubCompleter{fn: func(ctx context.Context, prompt string) (string, error) {
		if !strings.Contains(prompt, "This agreement is made between parties.") {
			t.Error("Expected contract text in prompt")
		}
		return validAnalysisJSON, nil
	}}
	analyzer, store, artifacts := newTestAnalyzer(t, completer, nil)
	job := seedJob(t, store, artifacts, "job-ok")

	analyzer.Run(context.Background(), job.ID, job.ArtifactKey)

	got, err := store.Get(job.ID)
	if err != nil {
		t.Fatalf("Job disappeared: %v", err)
	}
	if got.Status != model.StatusCompleted {
		t.Fatalf("Expected completed, got %s (%s)", got.Status, got.ErrorMsg)
	}
	if got.Result == nil || got.Result.Metadata.ContractType != "SaaS Agreement" {
		t.Error("Expected parsed result on the job")
	}
}

func TestAnalyzerRemovesArtifactWhenDone(t *testing.T) {
	completer := &stubCompleter{fn: func(ctx context.Context, prompt string) (string, error) {
		return validAnalysisJSON, nil
	}}
	analyzer, store, artifacts := newTestAnalyzer(t, completer, nil)
	job := seedJob(t, store, artifacts, "job-cleanup")

	analyzer.Run(context.Background(), job.ID, job.ArtifactKey)

	if _, err := artifacts.Get(context.Background(), job.ArtifactKey); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected artifact to be removed, got %v", err)
	}
}

func TestAnalyzerModelFailure(t *testing.T) {
	completer := &stubCompleter{fn: func(ctx context.Context, prompt string) (string, error) {
		return "", &ModelUnavailableError{Reason: "model endpoint returned status 503"}
	}}
	analyzer, store, artifacts := newTestAnalyzer(t, completer, nil)
	job := seedJob(t, store, artifacts, "job-model-down")

	analyzer.Run(context.Background(), job.ID, job.ArtifactKey)

	got, _ := store.Get(job.ID)
	if got.Status != model.StatusError {
		t.Fatalf("Expected error status, got %s", got.Status)
	}
	if !strings.Contains(got.ErrorMsg, "Analysis service unavailable") {
		t.Errorf("Unexpected error message: %s", got.ErrorMsg)
	}
}

func TestAnalyzerExtractionFailureSkipsModel(t *testing.T) {
	completer := &stubCompleter{fn: func(ctx context.Context, prompt string) (string, error) {
		return validAnalysisJSON, nil
	}}
	extractor := &stubExtractor{err: &ExtractionError{Reason: "no text extracted from PDF"}}
	analyzer, store, artifacts := newTestAnalyzer(t, completer, extractor)
	job := seedJob(t, store, artifacts, "job-no-text")

	analyzer.Run(context.Background(), job.ID, job.ArtifactKey)

	got, _ := store.Get(job.ID)
	if got.Status != model.StatusError {
		t.Fatalf("Expected error status, got %s", got.Status)
	}
	if !strings.Contains(got.ErrorMsg, "Failed to read the PDF") {
		t.Errorf("Unexpected error message: %s", got.ErrorMsg)
	}
	if completer.calls != 0 {
		t.Errorf("Model should not be called when extraction fails, got %d calls", completer.calls)
	}
}

func TestAnalyzerUnusableModelResponse(t *testing.T) {
	completer := &stubCompleter{fn: func(ctx context.Context, prompt string) (string, error) {
		return "I cannot help with that.", nil
	}}
	analyzer, store, artifacts := newTestAnalyzer(t, completer, nil)
	job := seedJob(t, store, artifacts, "job-bad-response")

	analyzer.Run(context.Background(), job.ID, job.ArtifactKey)

	got, _ := store.Get(job.ID)
	if got.Status != model.StatusError {
		t.Fatalf("Expected error status, got %s", got.Status)
	}
	if !strings.Contains(got.ErrorMsg, "unusable response") {
		t.Errorf("Unexpected error message: %s", got.ErrorMsg)
	}
}

func TestAnalyzerMissingArtifact(t *testing.T) {
	completer := &stubCompleter{fn: func(ctx context.Context, prompt string) (string, error) {
		return validAnalysisJSON, nil
	}}
	analyzer, store, _ := newTestAnalyzer(t, completer, nil)
	job := &model.Job{ID: "job-gone", FileName: "contract.pdf", ArtifactKey: "missing.pdf"}
	store.Create(job)

	analyzer.Run(context.Background(), job.ID, job.ArtifactKey)

	got, _ := store.Get(job.ID)
	if got.Status != model.StatusError {
		t.Fatalf("Expected error status, got %s", got.Status)
	}
	if completer.calls != 0 {
		t.Error("Model should not be called when the artifact is missing")
	}
}

func TestAnalyzerContainsPanic(t *testing.T) {
	completer := &stubCompleter{fn: func(ctx context.Context, prompt string) (string, error) {
		panic("boom")
	}}
	analyzer, store, artifacts := newTestAnalyzer(t, completer, nil)
	job := seedJob(t, store, artifacts, "job-panic")

	analyzer.Run(context.Background(), job.ID, job.ArtifactKey)

	got, err := store.Get(job.ID)
	if err != nil {
		t.Fatalf("Job disappeared after panic: %v", err)
	}
	if got.Status != model.StatusError {
		t.Fatalf("Expected error status after panic, got %s", got.Status)
	}
	if got.ErrorMsg != "internal error during analysis" {
		t.Errorf("Unexpected error message: %s", got.ErrorMsg)
	}
}

func TestAnalyzerJobsAreIsolated(t *testing.T) {
	store := NewJobStore(5*time.Minute, 100)
	artifacts, err := NewLocalArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create artifact store: %v", err)
	}
	extractor := &stubExtractor{text: "some contract text"}

	okCompleter := &stubCompleter{fn: func(ctx context.Context, prompt string) (string, error) {
		return validAnalysisJSON, nil
	}}
	badCompleter := &stubCompleter{fn: func(ctx context.Context, prompt string) (string, error) {
		return "", &ModelUnavailableError{Reason: "connection refused"}
	}}

	good := NewAnalyzer(store, artifacts, extractor, okCompleter, time.Minute)
	bad := NewAnalyzer(store, artifacts, extractor, badCompleter, time.Minute)

	jobGood := seedJob(t, store, artifacts, "job-good")
	jobBad := seedJob(t, store, artifacts, "job-bad")

	done := make(chan struct{}, 2)
	go func() { good.Run(context.Background(), jobGood.ID, jobGood.ArtifactKey); done <- struct{}{} }()
	go func() { bad.Run(context.Background(), jobBad.ID, jobBad.ArtifactKey); done <- struct{}{} }()
	<-done
	<-done

	g, _ := store.Get(jobGood.ID)
	b, _ := store.Get(jobBad.ID)
	if g.Status != model.StatusCompleted {
		t.Errorf("Expected good job completed, got %s (%s)", g.Status, g.ErrorMsg)
	}
	if b.Status != model.StatusError {
		t.Errorf("Expected bad job errored, got %s", b.Status)
	}
}

func TestAnalyzerTimeout(t *testing.T) {
	completer := &stubCompleter{fn: func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	store := NewJobStore(5*time.Minute, 100)
	artifacts, err := NewLocalArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create artifact store: %v", err)
	}
	analyzer := NewAnalyzer(store, artifacts, &stubExtractor{text: "text"}, completer, 20*time.Millisecond)
	job := seedJob(t, store, artifacts, "job-slow")

	analyzer.Run(context.Background(), job.ID, job.ArtifactKey)

	got, _ := store.Get(job.ID)
	if got.Status != model.StatusError {
		t.Fatalf("Expected error status, got %s", got.Status)
	}
	if got.ErrorMsg != "Analysis timed out" {
		t.Errorf("Unexpected error message: %s", got.ErrorMsg)
	}
}

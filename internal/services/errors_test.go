package services_test

import (
	"errors"
	"strings"
	"testing"

	"showtag/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrWrite, "applying", "write tags", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrWrite) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"applying", "write tags", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToWrite(t *testing.T) {
	err := services.Wrap(nil, "applying", "", "", nil)
	if !errors.Is(err, services.ErrWrite) {
		t.Fatalf("expected ErrWrite marker, got %v", err)
	}
}

func TestNeedsReview(t *testing.T) {
	matchErr := services.Wrap(services.ErrMatch, "matching", "lookup", "no candidates", nil)
	if !services.NeedsReview(matchErr) {
		t.Fatalf("expected match failure to need review: %v", matchErr)
	}
	ambiguousErr := services.Wrap(services.ErrAmbiguous, "matching", "lookup", "two candidates", nil)
	if !services.NeedsReview(ambiguousErr) {
		t.Fatalf("expected ambiguous failure to need review: %v", ambiguousErr)
	}
	writeErr := services.Wrap(services.ErrWrite, "applying", "write tags", "io", errors.New("disk full"))
	if services.NeedsReview(writeErr) {
		t.Fatalf("expected write failure to be retryable: %v", writeErr)
	}
	if services.NeedsReview(nil) {
		t.Fatal("expected nil error to not need review")
	}
}

// Package services defines shared utilities consumed by the tagging pipeline
// stages.
//
// Key responsibilities:
//   - Context helpers that stamp folder names, stage names, and run
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     consistently (needs-review vs retryable).
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services

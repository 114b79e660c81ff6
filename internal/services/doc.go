// Package services defines shared utilities consumed by the pipeline
// capabilities and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp input IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate capability
//     failures into a consistent taxonomy the pipeline can classify.
//
// Use these helpers when wiring new capability logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services

// Package pipeline sequences the transcription, summarization, and delivery
// stages for one audio input.
//
// Each stage wraps exactly one capability call with uniform timing, optional
// timeout, and failure classification; the Orchestrator runs the three stages
// in fixed order, feeding each success output into the next stage verbatim
// and short-circuiting on the first failure. A run always terminates in an
// Outcome; faults never escape the orchestrator boundary.
package pipeline

// Package diagnostic provides structured warnings and errors for the
// adapter generator.
//
// Key capabilities:
//   - Per-type synthesis failures that skip one type and keep the run going
//   - Engine defects (unresolved adapters) that abort the run
//   - Model validation reports with "did you mean" suggestions
//   - Dispatch warnings such as duplicate subtype tags
package diagnostic

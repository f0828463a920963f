// Package tasks runs long character sheet operations with real-time progress reporting.
//
// # Core Operations
//
//  1. [SheetEngine.BulkImport] : Save many drafts concurrently
//     - Validates and saves each draft through the data service
//     - Runs a bounded worker pool throttled by a shared rate limiter
//     - Reports per-draft success or failure without stopping the batch
//
//  2. [SheetEngine.Export] : Write every sheet to a file
//     - Refreshes the collection from the server
//     - Encodes it with the formatter package (JSON, YAML, CSV, Markdown, text)
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
package tasks

// Package tasks orchestrates long-running library operations with real-time progress reporting.
//
// # Core Operations
//
// [LibraryEngine] implements two operations:
//
//  1. [LibraryEngine.BulkDownload] : Fetch many book payloads concurrently
//     - Worker pool with a shared rate limiter honoring backend limits
//     - Payloads written to disk as {content_id}.epub
//     - Downloaded paths recorded in the local book cache
//     - Partial failures collected per book, never fatal
//
//  2. [LibraryEngine.SyncPositions] : Two-way position synchronization
//     - Pushes locally modified positions to the remote API
//     - Pulls the shelf, mirroring books and positions into the cache
//     - The remote value wins on conflict
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Cache Interfaces
//
// [BookCacher] and [PositionCacher] abstract the local SQLite repositories
// so the engine can run cache-less (downloads only) and tests can script
// persistence failures.
package tasks

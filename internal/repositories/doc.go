// Package repositories implements SQLite persistence for the local cache.
//
// Each repository handles CRUD operations with atomic sequence generation for stable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [BookRepository] : Library metadata cache with content-id lookups and download tracking
//   - [PositionRepository] : Last-known reading positions with upsert semantics and sync bookkeeping
//
// The cache is subordinate to the remote content API: rows mirror remote
// state for offline reads, and the remote value wins on conflict during sync.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories

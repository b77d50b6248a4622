// Package models defines domain entities and persistence interfaces for the folio content client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing reading session and API data
//   - [Book] : A fetched document with its binary payload
//   - [TocEntry] / [FlatTocEntry] : Canonical table-of-contents tree and its flattened form
//   - [ReadingPosition] : Global progress fraction plus current chapter heading
//   - [DisplaySettings] : Session-scoped font scale and theme
//   - [LibraryEntry] : Shelf listing item from the content API
//   - [Annotation] / [Bookmark] : Location-anchored highlights and marks
//
// 2. Persistent Entities: Cache-backed models with full lifecycle management
//   - [CachedBook] : Library metadata with optional downloaded payload path
//   - [CachedPosition] : Last-known reading position mirrored from the remote API
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models

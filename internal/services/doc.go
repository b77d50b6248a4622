// Package services defines the [Library] interface for the content
// aggregation backend and implements it over its JSON envelope protocol.
//
// # Library Interface
//
// [LibraryService] covers the full remote surface the reading client needs:
// shelf listing, book detail with TOC and stored progress, binary payload
// download, position load/save, and the annotation and bookmark collections.
//
// It also embeds [reader.Store], so a [reader.Session] can be pointed
// straight at the backend without an adapter.
//
// # Envelope Protocol
//
// Every JSON response is wrapped as {"code": 0, "data": ..., "message": "ok"}.
// A non-zero code or an HTTP error status is a failure; binary payloads are
// served raw. Authentication is a static X-API-Key header, omitted when no
// key is configured.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ErrNetwork] : transport failure before a response arrived
//   - [shared.ErrNotFound] : HTTP 404, including never-opened positions
//   - [shared.ErrAPIRequest] : any other HTTP or envelope-level failure
//
// # Raw Passthrough
//
// [APIService] exposes unwrapped GET/POST/PUT/DELETE for the CLI api
// command, returning status, headers, and the undecoded body.
package services

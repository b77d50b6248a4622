// Package reader implements the paginated reading session engine.
//
// A [Session] owns one fetched document for its lifetime and orchestrates the
// pieces around it:
//
//  1. [Store] : fetches the binary payload and reads/writes the remote position
//  2. [Engine] / [Document] : the pagination engine, depended on by contract only
//  3. [NormalizeTOC] / [BuildChapterIndex] : table-of-contents resolution and
//     section-to-chapter labeling with nearest-at-or-before fallback
//  4. [Progress] : converts relocation events into a global fraction weighted
//     by per-section byte sizes
//  5. [Saver] : debounced position persistence with forced flush on hide/close
//  6. [StyleManager] : re-applies font scale and theme to every materialized page
//  7. [Dispatcher] : routes keys, click zones, and swipes into next/prev
//
// The session is an explicit state machine (new → opening → active → closing
// → closed, with error terminal from opening). All mutation is serialized
// behind the session mutex, the Go stand-in for the single UI event loop this
// design comes from. Engines emit relocation and section-load events as
// synchronous callbacks; any engine satisfying the [Engine] contract is
// substitutable, which is how the tests script page turns without a real
// renderer.
package reader

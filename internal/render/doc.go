// Package render opens EPUB payloads into the paginated document form the
// reading session drives.
//
// [Engine] parses an archive with github.com/simp-lee/epub, extracts the
// plain text of every spine chapter, and lays it out as fixed-geometry
// pages:
//
//  1. Each spine chapter becomes one section; its byte size is the length
//     of its extracted text.
//  2. Text is wrapped to the configured page width and grouped into pages
//     of the configured height. Empty chapters still yield one page.
//  3. Navigation targets from the book's navigation map resolve to section
//     indices, with URL fragments ignored.
//
// The resulting [document] reports relocations and page loads through the
// callbacks the session registers, so progress tracking and restyling work
// the same way here as with any other engine implementation.
package render

// Package jsondelta diffs and patches structured documents. It compares two
// JSON or YAML document trees, describes every divergence as a path-addressed
// record, and can later reconstruct the modified document by applying those
// records back onto the original
//
// A line-oriented diff knows nothing about the shape of the data it cuts
// through, so a reformatted document looks entirely changed to it. jsondelta
// walks the parsed structure instead: whitespace and key formatting never
// register, and each change is reported at the path where it occurred,
// e.g. root['users'][2]['email']
//
// The comparison is a lock-step recursive walk: mappings are matched by key,
// sequences by position. A node whose runtime type differs between the two
// documents is reported as a single type change for the whole subtree. The
// walk is deliberately simple and deterministic; it never searches for moved
// or reordered content, so a reordered sequence surfaces as paired removals
// and additions
//
// Instead of operating on encoded bytes directly, jsondelta operates on Node
// trees that preserve mapping key order and number literals, so a document
// survives a decode/encode round trip without spurious diffs
//
// Diffs serialize to a committed JSON interchange format, grouped by change
// category with metadata and per-category counts. Serialized diffs can be
// parsed back and applied later, possibly on another machine; applying is
// best-effort, reporting records that no longer fit the document as warnings
// rather than failing outright
//
// jsondelta also exports diffs as RFC 6902 JSON Patch documents and renders
// human-readable categorized reports, see documentation for details
package jsondelta

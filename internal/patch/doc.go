// Package patch edits generated rule documents in place of a full
// re-generation: spec id, unit, arbitrary keys, parameter removal.
//
// Edits go through gjson/sjson on the raw bytes, so keys the tools do not
// know about survive and key order is kept. Output is re-indented with
// two spaces to match what rulegen writes.
package patch

// Package registry tracks which input identifiers have been fully processed.
//
// The registry is a JSON file mapping input id to completion timestamp,
// loaded in full at startup and rewritten in full (atomically, via a temp
// file rename) on every successful mark. A crash immediately after Mark
// returns therefore never loses the record, and a crash before it never
// marks an unprocessed item as processed.
//
// A missing file is an empty registry. A corrupt file is ErrCorrupt and
// must be surfaced to the operator, never treated as empty.
package registry

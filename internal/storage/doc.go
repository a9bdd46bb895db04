// Package storage provides the scoped key-value persistence surface for
// locally materialized tasks, client profiles, and the process-intent queue.
//
// The surface has two layers:
//
//   - Backend: a minimal get/set/delete string KV interface. The production
//     implementation is SQLite (single writer, WAL); tests use the in-memory
//     backend.
//   - Store: a typed JSON layer on top of a Backend. Store never panics or
//     returns bare errors across its public boundary - every operation
//     returns a tagged result whose error carries a machine-distinguishable
//     code so callers can decide whether to retry.
//
// # Error taxonomy
//
//   - json_error: payload could not be encoded or decoded. Non-retryable;
//     indicates a data-shape bug in the caller.
//   - storage_error: the underlying backend rejected the read or write
//     (locked database, full disk). Retryable.
//
// Malformed or type-mismatched persisted payloads degrade to "absent" on
// read rather than propagating a parse failure; a payload whose embedded
// scope does not match the requested scope is likewise treated as not found,
// not as corruption escalated to the caller. That filtering happens in the
// domain packages (recon, profile) which know their payload shapes.
//
// # Concurrency
//
// Read-modify-write sequences built on this surface are not safe against
// concurrent writers from separate processes: last write wins, no merge.
// Within one process the SQLite backend serializes access on a single
// connection.
package storage

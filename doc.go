// Package txcore implements the transactional concurrency core of an
// embeddable, multi-version storage engine: transaction lifecycles,
// hierarchical change-grouping via journals, snapshot-isolated
// visibility bound to a monotonic logical sequencer, and per-record
// lock acquisition with timeouts and FIFO wakeups.
//
// A Storage is opened against a backing file (or NewMemoryStorage, for
// tests) and hands out Transactions. A Transaction spawns Journals,
// which lock and create versions on VersionedRecords; Submit turns a
// Journal into an Annals appended to the Transaction. Commit moves a
// Transaction into a Rubicon, whose finalize — explicit or on
// Close/garbage collection — stamps a commit Snapshot into the
// Transaction's Anchor, after which every Snapshot at or after that
// clock observes the Transaction's versions.
//
// Out of scope: the on-disk page allocator and B+Tree/WAL layout
// (package header implements only the four-field superblock the core
// reads as external metadata), SQL or any other query layer, CLI and
// configuration surfaces beyond EngineConfig, distributed or
// cross-process coordination, and deadlock detection — contended locks
// use timeouts instead.
package txcore

// Package store provides the SQLite-backed persistence layer for
// episodic, semantic, and procedural memories.
//
// It owns schema creation, CRUD, substring search, structured
// filtering, statistics, backup, and JSON import/export. A single
// sync.RWMutex serializes writes against SQLite's single-writer
// limitation while allowing concurrent reads.
package store

package store

// SchemaVersion identifies the current on-disk layout. Bumped only for
// additive changes; the store never migrates data destructively.
const SchemaVersion = 1

// CoreSchema creates the three memory tables plus the bookkeeping table
// that records which schema version produced them. Every primary key is
// an autoincrementing integer, scoped per table and never recycled.
const CoreSchema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version    INTEGER PRIMARY KEY,
	applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS episodic_memories (
	id                  INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp           TEXT NOT NULL,
	duration_seconds    REAL,
	event_description   TEXT NOT NULL,
	context             TEXT,
	participants        TEXT NOT NULL DEFAULT '[]',
	location            TEXT,
	sensory_data        TEXT,
	observations        TEXT,
	importance_score    REAL NOT NULL DEFAULT 50.0,
	emotional_valence   REAL NOT NULL DEFAULT 0.0,
	tags                TEXT NOT NULL DEFAULT '[]',
	categories          TEXT NOT NULL DEFAULT '[]',
	associated_concepts TEXT NOT NULL DEFAULT '[]',
	retrieval_count     INTEGER NOT NULL DEFAULT 0,
	last_accessed       TEXT,
	created_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at          TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_episodic_timestamp ON episodic_memories(timestamp);
CREATE INDEX IF NOT EXISTS idx_episodic_importance ON episodic_memories(importance_score);

CREATE TABLE IF NOT EXISTS semantic_memories (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	concept_name     TEXT NOT NULL UNIQUE,
	definition       TEXT NOT NULL,
	properties       TEXT,
	relationships    TEXT,
	confidence_score REAL NOT NULL DEFAULT 0.5,
	source           TEXT,
	evidence         TEXT,
	tags             TEXT NOT NULL DEFAULT '[]',
	categories       TEXT NOT NULL DEFAULT '[]',
	linked_episodes  TEXT NOT NULL DEFAULT '[]',
	created_at       TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_semantic_concept_name ON semantic_memories(concept_name);

CREATE TABLE IF NOT EXISTS procedural_memories (
	id                       INTEGER PRIMARY KEY AUTOINCREMENT,
	procedure_name           TEXT NOT NULL UNIQUE,
	description              TEXT NOT NULL,
	purpose                  TEXT,
	steps                    TEXT NOT NULL DEFAULT '[]',
	parameters               TEXT,
	success_rate             REAL NOT NULL DEFAULT 0.0,
	execution_count          INTEGER NOT NULL DEFAULT 0,
	average_duration_seconds REAL,
	prerequisites            TEXT NOT NULL DEFAULT '[]',
	dependencies             TEXT,
	tags                     TEXT NOT NULL DEFAULT '[]',
	categories               TEXT NOT NULL DEFAULT '[]',
	last_executed            TEXT,
	created_at               TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at               TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_procedural_name ON procedural_memories(procedure_name);
`

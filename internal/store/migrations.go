package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	source_message_id TEXT NOT NULL DEFAULT '',
	group_id          INTEGER NOT NULL,
	group_name        TEXT NOT NULL DEFAULT '',
	sender_id         INTEGER,
	text              TEXT NOT NULL DEFAULT '',
	has_media         INTEGER NOT NULL DEFAULT 0 CHECK(has_media IN (0, 1)),
	created_at        DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS alerts (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	message_ref_id INTEGER NOT NULL REFERENCES messages(id),
	group_id       INTEGER NOT NULL,
	kind           TEXT NOT NULL CHECK(kind IN ('text', 'image')),
	brand          TEXT NOT NULL,
	content        TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_group_id ON messages(group_id);
CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at);
CREATE INDEX IF NOT EXISTS idx_alerts_message_ref_id ON alerts(message_ref_id);
CREATE INDEX IF NOT EXISTS idx_alerts_brand ON alerts(brand);
CREATE INDEX IF NOT EXISTS idx_alerts_created_at ON alerts(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_alerts_kind ON alerts(kind);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

package database

type migration struct {
	id          MigrationId
	description string
	query       string
}

var migrations = []migration{
	{
		id:          0,
		description: "Initial Tables",
		query: `
			CREATE TABLE category (
			    seq INTEGER PRIMARY KEY,
			    id TEXT NOT NULL,
			    name TEXT NOT NULL COLLATE NOCASE,
			    is_system INTEGER NOT NULL DEFAULT 0,
			    created_at TEXT NOT NULL,
			    updated_at TEXT NOT NULL,

			    UNIQUE (id),
			    UNIQUE (name)
			);

			CREATE TABLE game (
			    id INTEGER PRIMARY KEY,
			    title TEXT NOT NULL,
			    category_id TEXT,

			    FOREIGN KEY(category_id) REFERENCES category(id) ON DELETE SET NULL
			);

			CREATE INDEX game_category_idx ON game (category_id);
		`,
	},
}

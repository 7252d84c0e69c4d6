package storage

// schema lists the tables in creation order; each DDL statement runs on its own.
var schema = []struct {
	name string
	ddl  string
}{
	{"user_stats", `
		CREATE TABLE IF NOT EXISTS user_stats (
			user_id TEXT PRIMARY KEY,
			completed_count INTEGER NOT NULL DEFAULT 0,
			in_progress_count INTEGER NOT NULL DEFAULT 0,
			streak INTEGER NOT NULL DEFAULT 0,
			last_review_date TEXT
		)
	`},
	{"materials", `
		CREATE TABLE IF NOT EXISTS materials (
			user_id TEXT NOT NULL REFERENCES user_stats(user_id),
			seq INTEGER NOT NULL,
			id TEXT NOT NULL,
			content TEXT NOT NULL,
			review_schedule TEXT NOT NULL,
			current_step INTEGER NOT NULL DEFAULT 0,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			created_date TEXT NOT NULL,
			last_reviewed_date TEXT,
			PRIMARY KEY (user_id, seq)
		)
	`},
	{"achievements", `
		CREATE TABLE IF NOT EXISTS achievements (
			user_id TEXT NOT NULL REFERENCES user_stats(user_id),
			seq INTEGER NOT NULL,
			badge TEXT NOT NULL,
			PRIMARY KEY (user_id, seq)
		)
	`},
}

package sqlite

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS jobs (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL DEFAULT '',
		company      TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL,
		industry     TEXT DEFAULT '',
		company_size TEXT DEFAULT '',
		role_type    TEXT DEFAULT '',
		source_url   TEXT DEFAULT '',
		description  TEXT DEFAULT '',
		notes        TEXT DEFAULT '',
		salary_range TEXT DEFAULT '',
		location     TEXT DEFAULT '',
		created_at   DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs(created_at);
	CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);

	CREATE TABLE IF NOT EXISTS interviews (
		id         TEXT PRIMARY KEY,
		job_id     TEXT NOT NULL,
		outcome    TEXT DEFAULT '',
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interviews_job ON interviews(job_id);

	CREATE TABLE IF NOT EXISTS status_history (
		id          TEXT PRIMARY KEY,
		job_id      TEXT NOT NULL,
		from_status TEXT DEFAULT '',
		to_status   TEXT NOT NULL,
		changed_at  DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_status_history_job ON status_history(job_id);
	CREATE INDEX IF NOT EXISTS idx_status_history_changed ON status_history(changed_at);

	CREATE TABLE IF NOT EXISTS application_packages (
		id              TEXT PRIMARY KEY,
		job_id          TEXT NOT NULL,
		resume_id       TEXT DEFAULT '',
		cover_letter_id TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_packages_job ON application_packages(job_id);

	CREATE TABLE IF NOT EXISTS goals (
		id           TEXT PRIMARY KEY,
		goal_type    TEXT NOT NULL,
		target_value REAL NOT NULL,
		time_period  TEXT NOT NULL,
		start_date   DATETIME NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := migrateInterviewOutcome(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// migrateInterviewOutcome adds interviews.outcome to database files created
// before the column existed. CREATE TABLE IF NOT EXISTS leaves those alone.
func migrateInterviewOutcome(db *sql.DB) error {
	var colCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('interviews') WHERE name = 'outcome'`).Scan(&colCount); err != nil {
		return fmt.Errorf("inspect interviews columns: %w", err)
	}
	if colCount > 0 {
		return nil
	}
	if _, err := db.Exec(`ALTER TABLE interviews ADD COLUMN outcome TEXT DEFAULT ''`); err != nil {
		return fmt.Errorf("add interviews.outcome: %w", err)
	}
	log.Printf("migrated interviews table: added outcome column")
	return nil
}

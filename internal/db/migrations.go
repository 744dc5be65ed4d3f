package db

import (
	"database/sql"
	"fmt"

	"taskathlete/internal/domain"
)

// baseSchema creates the four tables if they don't already exist, with
// the full column set this module's schema version expects. Init then
// runs the additive migration pass below so a database file created by
// an older schema version still ends up with every column this version
// reads.
const baseSchema = `
CREATE TABLE IF NOT EXISTS exercises (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	name            TEXT NOT NULL,
	type            TEXT NOT NULL,
	muscles         TEXT,
	log_weight      INTEGER NOT NULL DEFAULT 0,
	log_reps        INTEGER NOT NULL DEFAULT 0,
	log_duration    INTEGER NOT NULL DEFAULT 0,
	log_distance    INTEGER NOT NULL DEFAULT 0,
	deleted         INTEGER NOT NULL DEFAULT 0,
	last_edited     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS workouts (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp        TEXT NOT NULL,
	exercise_name    TEXT NOT NULL,
	sets             INTEGER NOT NULL DEFAULT 1,
	reps             INTEGER,
	weight           REAL,
	bodyweight       REAL,
	duration_minutes REAL,
	distance         REAL,
	notes            TEXT,
	deleted          INTEGER NOT NULL DEFAULT 0,
	last_edited      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS aliases (
	alias_name      TEXT PRIMARY KEY,
	exercise_name   TEXT NOT NULL,
	deleted         INTEGER NOT NULL DEFAULT 0,
	last_edited     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS bodyweights (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp       TEXT NOT NULL,
	weight          REAL NOT NULL,
	deleted         INTEGER NOT NULL DEFAULT 0,
	last_edited     TEXT NOT NULL
);
`

const indexSchema = `
CREATE INDEX IF NOT EXISTS idx_workouts_timestamp ON workouts(timestamp);
CREATE INDEX IF NOT EXISTS idx_workouts_exercise_name ON workouts(exercise_name);
CREATE INDEX IF NOT EXISTS idx_aliases_exercise_name ON aliases(exercise_name);
CREATE INDEX IF NOT EXISTS idx_bodyweights_timestamp ON bodyweights(timestamp);
`

// columnSpec is one column an additive migration pass must ensure exists.
type columnSpec struct {
	table      string
	name       string
	ddlType    string // type + default used in the ALTER TABLE statement
	backfillTo string // non-empty: SQL expression used to backfill existing rows
}

// additiveColumns lists every column introduced after the original
// four-table schema, so an older database file gets patched up to the
// current column set without losing data.
var additiveColumns = []columnSpec{
	{"exercises", "muscles", "TEXT", ""},
	{"exercises", "log_weight", "INTEGER NOT NULL DEFAULT 0", ""},
	{"exercises", "log_reps", "INTEGER NOT NULL DEFAULT 0", ""},
	{"exercises", "log_duration", "INTEGER NOT NULL DEFAULT 0", ""},
	{"exercises", "log_distance", "INTEGER NOT NULL DEFAULT 0", ""},
	{"exercises", "deleted", "INTEGER NOT NULL DEFAULT 0", ""},
	{"exercises", "last_edited", "TEXT", "datetime('now')"},

	{"workouts", "bodyweight", "REAL", ""},
	{"workouts", "distance", "REAL", ""},
	{"workouts", "deleted", "INTEGER NOT NULL DEFAULT 0", ""},
	{"workouts", "last_edited", "TEXT", "datetime('now')"},

	{"aliases", "deleted", "INTEGER NOT NULL DEFAULT 0", ""},
	{"aliases", "last_edited", "TEXT", "datetime('now')"},

	{"bodyweights", "deleted", "INTEGER NOT NULL DEFAULT 0", ""},
	{"bodyweights", "last_edited", "TEXT", "datetime('now')"},
}

// Init creates the schema if missing and runs the additive migration
// pass. It is safe to call on every process start.
func Init(sqlDB *sql.DB) error {
	if _, err := sqlDB.Exec(baseSchema); err != nil {
		return domain.NewStorageFailure("init-schema", err)
	}

	for _, table := range []string{"exercises", "workouts", "aliases", "bodyweights"} {
		existing, err := existingColumns(sqlDB, table)
		if err != nil {
			return domain.NewStorageFailure("introspect-"+table, err)
		}
		for _, col := range additiveColumns {
			if col.table != table {
				continue
			}
			if existing[col.name] {
				continue
			}
			if err := addColumn(sqlDB, col); err != nil {
				return domain.NewStorageFailure("migrate-"+table+"."+col.name, err)
			}
		}
	}

	if _, err := sqlDB.Exec(indexSchema); err != nil {
		return domain.NewStorageFailure("init-indexes", err)
	}

	return nil
}

// existingColumns introspects a table's current column set via
// PRAGMA table_info, the SQLite equivalent of the additive "detect by
// column introspection" migration strategy.
func existingColumns(sqlDB *sql.DB, table string) (map[string]bool, error) {
	rows, err := sqlDB.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid        int
			name       string
			ctype      string
			notNull    int
			defaultVal sql.NullString
			pk         int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &defaultVal, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

func addColumn(sqlDB *sql.DB, col columnSpec) error {
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", col.table, col.name, col.ddlType)
	if _, err := sqlDB.Exec(stmt); err != nil {
		return err
	}
	if col.backfillTo != "" {
		backfill := fmt.Sprintf("UPDATE %s SET %s = %s WHERE %s IS NULL", col.table, col.name, col.backfillTo, col.name)
		if _, err := sqlDB.Exec(backfill); err != nil {
			return err
		}
	}
	return nil
}


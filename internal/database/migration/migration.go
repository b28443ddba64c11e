package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// Ids are app-generated sortable strings, so every primary key is TEXT.
// Child tables cascade on parent delete; the storage layer relies on it.
var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         TEXT        PRIMARY KEY,
  name       TEXT        NOT NULL,
  email      TEXT        NOT NULL,
  password   TEXT        NOT NULL,
  role       TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_unique_index_users_email",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email));`,
	},
	{
		Name: "create_table_carousels",
		SQL: `CREATE TABLE IF NOT EXISTS carousels (
  id         TEXT        PRIMARY KEY,
  title      TEXT        NOT NULL,
  subtitle   TEXT        NOT NULL DEFAULT '',
  image_url  TEXT        NOT NULL,
  "order"    INTEGER     NOT NULL DEFAULT 0,
  is_active  BOOLEAN     NOT NULL DEFAULT true,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_projects",
		SQL: `CREATE TABLE IF NOT EXISTS projects (
  id         TEXT        PRIMARY KEY,
  title      TEXT        NOT NULL,
  category   TEXT        NOT NULL,
  "order"    INTEGER     NOT NULL DEFAULT 0,
  is_active  BOOLEAN     NOT NULL DEFAULT true,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_project_images",
		SQL: `CREATE TABLE IF NOT EXISTS project_images (
  id         TEXT        PRIMARY KEY,
  project_id TEXT        NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
  image_url  TEXT        NOT NULL,
  "order"    INTEGER     NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_project_images_project_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_project_images_project_id ON project_images (project_id);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id         TEXT        PRIMARY KEY,
  project_id TEXT        REFERENCES projects (id) ON DELETE CASCADE,
  title      TEXT        NOT NULL,
  file_url   TEXT        NOT NULL,
  category   TEXT        NOT NULL DEFAULT '',
  is_active  BOOLEAN     NOT NULL DEFAULT true,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_project_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_project_id ON documents (project_id);`,
	},
	{
		Name: "create_table_handbooks",
		SQL: `CREATE TABLE IF NOT EXISTS handbooks (
  id         TEXT        PRIMARY KEY,
  project_id TEXT        REFERENCES projects (id) ON DELETE CASCADE,
  title      TEXT        NOT NULL,
  password   TEXT        NOT NULL,
  "order"    INTEGER     NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_handbooks_project_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_handbooks_project_id ON handbooks (project_id);`,
	},
	{
		Name: "create_table_handbook_files",
		SQL: `CREATE TABLE IF NOT EXISTS handbook_files (
  id          TEXT        PRIMARY KEY,
  handbook_id TEXT        NOT NULL REFERENCES handbooks (id) ON DELETE CASCADE,
  title       TEXT        NOT NULL,
  file_url    TEXT        NOT NULL,
  file_type   TEXT        NOT NULL DEFAULT '',
  "order"     INTEGER     NOT NULL DEFAULT 0,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_handbook_files_handbook_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_handbook_files_handbook_id ON handbook_files (handbook_id);`,
	},
	{
		Name: "create_table_contacts",
		SQL: `CREATE TABLE IF NOT EXISTS contacts (
  id         TEXT        PRIMARY KEY,
  name       TEXT        NOT NULL,
  email      TEXT        NOT NULL,
  message    TEXT        NOT NULL,
  status     TEXT        NOT NULL DEFAULT 'new',
  archived   BOOLEAN     NOT NULL DEFAULT false,
  reply      TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_contacts_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_contacts_status ON contacts (status);`,
	},
	{
		Name: "create_table_site_settings",
		SQL: `CREATE TABLE IF NOT EXISTS site_settings (
  id         TEXT        PRIMARY KEY,
  type       TEXT        NOT NULL,
  key        TEXT        NOT NULL,
  value      TEXT        NOT NULL DEFAULT '',
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (type, key)
);`,
	},
}

// EnsureMigrated checks if the 'users' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.users') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}

// Package postgres mirrors the local snapshot to a PostgreSQL database.
// The mirror is best effort: the board never blocks on it, and a missing or
// unreachable database degrades to local-only operation.
package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/sprintdeck/internal/constants"
	"github.com/julianstephens/sprintdeck/internal/logger"
	"github.com/julianstephens/sprintdeck/internal/models"
)

// Mirror replicates full snapshots into Postgres, scoped to a workspace so
// several boards can share one database.
type Mirror struct {
	connStr   string
	workspace string
	db        *sql.DB
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
	ErrNotConnected            = errors.New("mirror is not connected")
)

func New(connStr, workspace string) *Mirror {
	if workspace == "" {
		workspace = "default"
	}
	m := &Mirror{
		connStr:   connStr,
		workspace: workspace,
	}
	m.ensureSearchPath()
	return m
}

func (m *Mirror) ensureSearchPath() {
	if strings.HasPrefix(m.connStr, "postgres://") || strings.HasPrefix(m.connStr, "postgresql://") {
		u, err := url.Parse(m.connStr)
		if err != nil {
			logger.Warn("failed to parse connection string", "err", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			m.connStr = u.String()
		}
	} else if !hasParam(m.connStr, "search_path") {
		m.connStr = strings.TrimSpace(m.connStr) + " search_path=" + constants.AppName
	}
}

func hasParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

// ValidateConnString checks a connection string (URI or DSN) and rejects
// embedded passwords; credentials belong in the environment or .pgpass.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}
	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
	}
	if strings.HasPrefix(connStr, "postgres://") || strings.HasPrefix(connStr, "postgresql://") {
		u, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := u.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
	} else {
		for _, pair := range strings.Fields(connStr) {
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) == 2 && strings.EqualFold(strings.TrimSpace(kv[0]), "password") {
				return false, ErrEmbeddedCredentials
			}
		}
	}
	return true, nil
}

// Connect opens the database, creates the schema and tables when missing and
// ensures the workspace row exists.
func (m *Mirror) Connect() error {
	db, err := sql.Open("postgres", m.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		db.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}
	m.db = db

	if err := m.db.Ping(); err != nil {
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasParam(m.connStr, "sslmode") {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := m.createTables(); err != nil {
		return err
	}
	return m.ensureWorkspace()
}

func (m *Mirror) createTables() error {
	_, err := m.db.Exec(`
		CREATE TABLE IF NOT EXISTS workspaces (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE IF NOT EXISTS sprints (
			id TEXT NOT NULL,
			workspace_id TEXT NOT NULL REFERENCES workspaces(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			position INTEGER NOT NULL,
			is_active BOOLEAN NOT NULL,
			archived BOOLEAN NOT NULL DEFAULT FALSE,
			layout TEXT NOT NULL,
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (workspace_id, id)
		);
		CREATE TABLE IF NOT EXISTS stories (
			id TEXT NOT NULL,
			workspace_id TEXT NOT NULL,
			sprint_id TEXT NOT NULL,
			number TEXT NOT NULL,
			title TEXT NOT NULL,
			prompt TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			tags JSONB NOT NULL DEFAULT '[]',
			status TEXT NOT NULL,
			priority TEXT NOT NULL,
			assignee TEXT NOT NULL DEFAULT '',
			estimated_hours DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			completed_at TIMESTAMPTZ,
			position INTEGER NOT NULL,
			PRIMARY KEY (workspace_id, id),
			FOREIGN KEY (workspace_id, sprint_id) REFERENCES sprints(workspace_id, id) ON DELETE CASCADE
		);
		CREATE TABLE IF NOT EXISTS settings (
			workspace_id TEXT PRIMARY KEY REFERENCES workspaces(id) ON DELETE CASCADE,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

func (m *Mirror) ensureWorkspace() error {
	_, err := m.db.Exec(
		"INSERT INTO workspaces (id) VALUES ($1) ON CONFLICT (id) DO NOTHING",
		m.workspace,
	)
	if err != nil {
		return fmt.Errorf("failed to ensure workspace: %w", err)
	}
	return nil
}

// Available reports whether the mirror can currently reach the database.
func (m *Mirror) Available() bool {
	if m.db == nil {
		return false
	}
	return m.db.Ping() == nil
}

func (m *Mirror) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *Mirror) Workspace() string { return m.workspace }

// Replicate replaces the workspace's remote rows with the snapshot in a
// single transaction. Delete then reinsert keeps the remote an exact copy
// without diffing.
func (m *Mirror) Replicate(snap *models.Snapshot) error {
	if m.db == nil {
		return ErrNotConnected
	}
	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin replication: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM sprints WHERE workspace_id = $1", m.workspace); err != nil {
		return fmt.Errorf("failed to clear sprints: %w", err)
	}

	if err := m.insertSprints(tx, snap.Sprints, false); err != nil {
		return err
	}
	if err := m.insertSprints(tx, snap.ArchivedSprints, true); err != nil {
		return err
	}

	settings := snap.Settings
	settings.OpenAIAPIKey = ""
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO settings (workspace_id, data, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (workspace_id) DO UPDATE SET data = excluded.data, updated_at = now()`,
		m.workspace, settingsJSON)
	if err != nil {
		return fmt.Errorf("failed to replicate settings: %w", err)
	}

	return tx.Commit()
}

func (m *Mirror) insertSprints(tx *sql.Tx, sprints []models.Sprint, archived bool) error {
	sprintStmt, err := tx.Prepare(`
		INSERT INTO sprints (
			id, workspace_id, name, description, type, position, is_active,
			archived, layout, start_date, end_date, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`)
	if err != nil {
		return err
	}
	defer sprintStmt.Close()

	storyStmt, err := tx.Prepare(`
		INSERT INTO stories (
			id, workspace_id, sprint_id, number, title, prompt, description, tags,
			status, priority, assignee, estimated_hours, created_at, updated_at,
			completed_at, position
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`)
	if err != nil {
		return err
	}
	defer storyStmt.Close()

	for i := range sprints {
		sp := &sprints[i]
		_, err := sprintStmt.Exec(
			sp.ID, m.workspace, sp.Name, sp.Description, sp.Type, sp.Position,
			sp.IsActive, archived, sp.Layout, nullTime(sp.StartDate), nullTime(sp.EndDate), sp.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to replicate sprint %s: %w", sp.ID, err)
		}
		for j := range sp.Stories {
			st := &sp.Stories[j]
			tags, err := json.Marshal(st.Tags)
			if err != nil {
				return fmt.Errorf("failed to serialize tags for story %s: %w", st.ID, err)
			}
			var estimate sql.NullFloat64
			if st.EstimatedHours > 0 {
				estimate = sql.NullFloat64{Float64: st.EstimatedHours, Valid: true}
			}
			_, err = storyStmt.Exec(
				st.ID, m.workspace, sp.ID, st.Number, st.Title, st.Prompt, st.Description,
				tags, st.Status, st.Priority, st.Assignee, estimate,
				st.CreatedAt, st.UpdatedAt, nullTime(st.CompletedAt), j,
			)
			if err != nil {
				return fmt.Errorf("failed to replicate story %s: %w", st.Number, err)
			}
		}
	}
	return nil
}

// Load reads the workspace's remote snapshot. (nil, nil) when the remote
// holds nothing yet.
func (m *Mirror) Load() (*models.Snapshot, error) {
	if m.db == nil {
		return nil, ErrNotConnected
	}

	rows, err := m.db.Query(`
		SELECT id, name, description, type, position, is_active, archived,
		       layout, start_date, end_date, created_at
		FROM sprints WHERE workspace_id = $1 ORDER BY position`, m.workspace)
	if err != nil {
		return nil, fmt.Errorf("failed to read sprints: %w", err)
	}
	defer rows.Close()

	var active, archived []models.Sprint
	for rows.Next() {
		var sp models.Sprint
		var isArchived bool
		var startDate, endDate sql.NullTime
		err := rows.Scan(
			&sp.ID, &sp.Name, &sp.Description, &sp.Type, &sp.Position, &sp.IsActive,
			&isArchived, &sp.Layout, &startDate, &endDate, &sp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if startDate.Valid {
			sp.StartDate = &startDate.Time
		}
		if endDate.Valid {
			sp.EndDate = &endDate.Time
		}
		sp.Stories, err = m.loadStories(sp.ID)
		if err != nil {
			return nil, err
		}
		if isArchived {
			archived = append(archived, sp)
		} else {
			active = append(active, sp)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(active) == 0 && len(archived) == 0 {
		return nil, nil
	}

	snap := &models.Snapshot{
		Sprints:         active,
		ArchivedSprints: archived,
		Settings:        models.DefaultSettings(),
		LastSaved:       time.Now(),
		Version:         constants.SnapshotVersion,
	}
	var settingsJSON []byte
	err = m.db.QueryRow("SELECT data FROM settings WHERE workspace_id = $1", m.workspace).Scan(&settingsJSON)
	if err == nil {
		var settings models.Settings
		if err := json.Unmarshal(settingsJSON, &settings); err == nil {
			snap.Settings = models.MergeSettings(settings)
		}
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	snap.Normalize()
	return snap, nil
}

func (m *Mirror) loadStories(sprintID string) ([]models.Story, error) {
	rows, err := m.db.Query(`
		SELECT id, number, title, prompt, description, tags, status, priority,
		       assignee, estimated_hours, created_at, updated_at, completed_at
		FROM stories WHERE workspace_id = $1 AND sprint_id = $2 ORDER BY position`,
		m.workspace, sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to read stories: %w", err)
	}
	defer rows.Close()

	stories := []models.Story{}
	for rows.Next() {
		var st models.Story
		var tags []byte
		var estimate sql.NullFloat64
		var completedAt sql.NullTime
		err := rows.Scan(
			&st.ID, &st.Number, &st.Title, &st.Prompt, &st.Description, &tags,
			&st.Status, &st.Priority, &st.Assignee, &estimate,
			&st.CreatedAt, &st.UpdatedAt, &completedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(tags, &st.Tags); err != nil {
			st.Tags = []string{}
		}
		if estimate.Valid {
			st.EstimatedHours = estimate.Float64
		}
		if completedAt.Valid {
			st.CompletedAt = &completedAt.Time
		}
		st.SprintID = sprintID
		stories = append(stories, st)
	}
	return stories, rows.Err()
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

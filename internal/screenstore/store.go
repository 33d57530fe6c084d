// Package screenstore is a local, SQLite-backed store of saved screens. It mirrors the analytics web server's screens table so that screens can be saved and diffed offline.
package screenstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codalotl/screendiff/internal/logging"
	"github.com/codalotl/screendiff/internal/screenconfig"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when no screen has the requested name.
	ErrNotFound = errors.New("screen not found")

	// ErrDuplicateName is returned by Create when a screen with the (normalized) name already exists.
	ErrDuplicateName = errors.New("screen name already exists")
)

const schema = `
CREATE TABLE IF NOT EXISTS screens (
	name TEXT PRIMARY KEY,
	screen_type TEXT NOT NULL,
	config TEXT NOT NULL,
	created_by TEXT,
	updated_by TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS screens_screen_type ON screens(screen_type);
CREATE INDEX IF NOT EXISTS screens_created_at ON screens(created_at);
`

// Store is a screen store backed by one SQLite database file. It is safe for concurrent use.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger

	// now returns the current time. Tests replace it.
	now func() time.Time
}

// Open opens (creating if needed) the store at path. Parent directories are created. A nil logger disables logging.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("screenstore: create directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("screenstore: open database: %w", err)
	}
	// A single connection serializes writers, so concurrent callers never see SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("screenstore: initialize schema: %w", err)
	}
	return &Store{db: db, path: path, logger: logging.OrNop(logger), now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Create inserts a new screen. The name is normalized (see screenconfig.NormalizeName) and then validated; the screen type must be known. A nil config is stored as {}. The created
// screen is returned.
func (s *Store) Create(ctx context.Context, name string, screenType string, config screenconfig.Snapshot, by string) (*screenconfig.Screen, error) {
	name = screenconfig.NormalizeName(name)
	if err := screenconfig.ValidateName(name); err != nil {
		return nil, err
	}
	if _, err := screenconfig.ParseScreenType(screenType); err != nil {
		return nil, err
	}
	if config == nil {
		config = screenconfig.Snapshot{}
	}
	cfgJSON, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("screenstore: encode config: %w", err)
	}

	now := formatTime(s.now())
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO screens (name, screen_type, config, created_by, updated_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, screenType, string(cfgJSON), nullString(by), nullString(by), now, now)
	if err != nil {
		return nil, fmt.Errorf("screenstore: insert %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("%w: screen with name '%s' already exists", ErrDuplicateName, name)
	}
	s.logger.Info("created screen", zap.String("name", name), zap.String("screen_type", screenType))
	return s.Get(ctx, name)
}

// Get returns the screen named name, or an error wrapping ErrNotFound.
func (s *Store) Get(ctx context.Context, name string) (*screenconfig.Screen, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT name, screen_type, config, created_by, updated_by, created_at, updated_at FROM screens WHERE name = ?`, name)
	screen, err := scanScreen(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: screen '%s' not found", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("screenstore: get %q: %w", name, err)
	}
	return screen, nil
}

// Update replaces the configuration of the screen named name and returns the updated screen.
func (s *Store) Update(ctx context.Context, name string, config screenconfig.Snapshot, by string) (*screenconfig.Screen, error) {
	if config == nil {
		config = screenconfig.Snapshot{}
	}
	cfgJSON, err := json.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("screenstore: encode config: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE screens SET config = ?, updated_by = ?, updated_at = ? WHERE name = ?`,
		string(cfgJSON), nullString(by), formatTime(s.now()), name)
	if err != nil {
		return nil, fmt.Errorf("screenstore: update %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("%w: screen '%s' not found", ErrNotFound, name)
	}
	s.logger.Info("updated screen", zap.String("name", name))
	return s.Get(ctx, name)
}

// Delete removes the screen named name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM screens WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("screenstore: delete %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: screen '%s' not found", ErrNotFound, name)
	}
	s.logger.Info("deleted screen", zap.String("name", name))
	return nil
}

// List returns all screens ordered by name.
func (s *Store) List(ctx context.Context) ([]screenconfig.Screen, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, screen_type, config, created_by, updated_by, created_at, updated_at FROM screens ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("screenstore: list: %w", err)
	}
	defer rows.Close()

	var screens []screenconfig.Screen
	for rows.Next() {
		screen, err := scanScreen(rows)
		if err != nil {
			return nil, fmt.Errorf("screenstore: list: %w", err)
		}
		screens = append(screens, *screen)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("screenstore: list: %w", err)
	}
	return screens, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanScreen(row scanner) (*screenconfig.Screen, error) {
	var (
		screen               screenconfig.Screen
		cfgJSON              string
		createdBy, updatedBy sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&screen.Name, &screen.ScreenType, &cfgJSON, &createdBy, &updatedBy, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(cfgJSON), &screen.Config); err != nil {
		return nil, fmt.Errorf("decode config of %q: %w", screen.Name, err)
	}
	screen.CreatedBy = createdBy.String
	screen.UpdatedBy = updatedBy.String
	screen.CreatedAt = parseTime(createdAt)
	screen.UpdatedAt = parseTime(updatedAt)
	return &screen, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) *time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &t
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

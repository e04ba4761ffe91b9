package auth

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	_ "modernc.org/sqlite"
)

// Store persists the current connection and the per-resource token cache in
// a local SQLite database.
type Store struct {
	db *sql.DB
}

// Connection is the single signed-in state of the CLI.
type Connection struct {
	SiteURL     string
	ClientID    string
	Authority   string
	ConnectedAt time.Time
}

// DefaultStorePath returns the token database location under the user home.
func DefaultStorePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".office365-cli", "office365-cli.db"), nil
}

func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open token store: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping token store: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS connection (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	site_url TEXT NOT NULL,
	client_id TEXT NOT NULL,
	authority TEXT NOT NULL,
	connected_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS tokens (
	resource TEXT PRIMARY KEY,
	access_token TEXT NOT NULL,
	refresh_token TEXT NOT NULL DEFAULT '',
	token_type TEXT NOT NULL DEFAULT 'Bearer',
	expires_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create store schema: %w", err)
	}
	return nil
}

// SaveConnection replaces the current connection.
func (s *Store) SaveConnection(conn Connection) error {
	const stmt = `
INSERT INTO connection (id, site_url, client_id, authority, connected_at)
VALUES (1, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	site_url = excluded.site_url,
	client_id = excluded.client_id,
	authority = excluded.authority,
	connected_at = excluded.connected_at;`

	_, err := s.db.Exec(stmt, conn.SiteURL, conn.ClientID, conn.Authority, conn.ConnectedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save connection: %w", err)
	}
	return nil
}

// Connection returns the current connection; the second return value is
// false when the CLI is not connected.
func (s *Store) Connection() (Connection, bool, error) {
	const query = `SELECT site_url, client_id, authority, connected_at FROM connection WHERE id = 1;`

	var (
		conn        Connection
		connectedAt string
	)
	err := s.db.QueryRow(query).Scan(&conn.SiteURL, &conn.ClientID, &conn.Authority, &connectedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Connection{}, false, nil
		}
		return Connection{}, false, fmt.Errorf("query connection: %w", err)
	}

	conn.ConnectedAt, err = time.Parse(time.RFC3339, connectedAt)
	if err != nil {
		return Connection{}, false, fmt.Errorf("parse connected_at %q: %w", connectedAt, err)
	}
	return conn, true, nil
}

// SaveToken upserts the cached token for a resource.
func (s *Store) SaveToken(resource string, token *oauth2.Token) error {
	if token == nil {
		return errors.New("token must not be nil")
	}

	const stmt = `
INSERT INTO tokens (resource, access_token, refresh_token, token_type, expires_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(resource) DO UPDATE SET
	access_token = excluded.access_token,
	refresh_token = CASE WHEN excluded.refresh_token != '' THEN excluded.refresh_token ELSE tokens.refresh_token END,
	token_type = excluded.token_type,
	expires_at = excluded.expires_at;`

	_, err := s.db.Exec(
		stmt,
		resource,
		token.AccessToken,
		token.RefreshToken,
		token.TokenType,
		token.Expiry.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save token for %s: %w", resource, err)
	}
	return nil
}

// Token returns the cached token for a resource; false when none is cached.
func (s *Store) Token(resource string) (*oauth2.Token, bool, error) {
	const query = `SELECT access_token, refresh_token, token_type, expires_at FROM tokens WHERE resource = ?;`

	var (
		token     oauth2.Token
		expiresAt string
	)
	err := s.db.QueryRow(query, resource).Scan(&token.AccessToken, &token.RefreshToken, &token.TokenType, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("query token for %s: %w", resource, err)
	}

	token.Expiry, err = time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, false, fmt.Errorf("parse token expiry %q: %w", expiresAt, err)
	}
	return &token, true, nil
}

// AnyRefreshToken returns one cached refresh token, used to mint tokens for
// resources the user has not called yet within the same sign-in.
func (s *Store) AnyRefreshToken() (string, bool, error) {
	const query = `SELECT refresh_token FROM tokens WHERE refresh_token != '' LIMIT 1;`

	var refreshToken string
	err := s.db.QueryRow(query).Scan(&refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("query refresh token: %w", err)
	}
	return refreshToken, true, nil
}

// Clear removes the connection and every cached token.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM tokens;`); err != nil {
		return fmt.Errorf("clear tokens: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM connection;`); err != nil {
		return fmt.Errorf("clear connection: %w", err)
	}
	return nil
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"reelgate/internal/config"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// FindOrCreateTitle atomically resolves a lookup key to a title record,
// inserting one when absent. Display fields of an existing record are never
// overwritten; the boolean reports whether a new record was created.
func (s *Store) FindOrCreateTitle(ctx context.Context, lookupKey, year, displayTitle string) (*Title, bool, error) {
	if lookupKey == "" {
		return nil, false, errors.New("lookup key is empty")
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO titles (display_title, year, lookup_key, created_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (lookup_key) DO NOTHING`,
		displayTitle,
		nullableString(year),
		lookupKey,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert title: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+titleColumns+` FROM titles WHERE lookup_key = ?`, lookupKey)
	title, err := scanTitle(row)
	if err != nil {
		return nil, false, fmt.Errorf("select title: %w", err)
	}
	return title, inserted > 0, nil
}

// GetTitle fetches a title by identifier. Returns nil when absent.
func (s *Store) GetTitle(ctx context.Context, id int64) (*Title, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+titleColumns+` FROM titles WHERE id = ?`, id)
	title, err := scanTitle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get title: %w", err)
	}
	return title, nil
}

// TitlesByPattern returns titles whose lookup key matches a LIKE pattern,
// ordered by key, page-limited.
func (s *Store) TitlesByPattern(ctx context.Context, pattern string, limit, offset int) ([]*Title, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+titleColumns+` FROM titles WHERE lookup_key LIKE ? ESCAPE '\' ORDER BY lookup_key LIMIT ? OFFSET ?`,
		pattern,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("query titles by pattern: %w", err)
	}
	defer rows.Close()

	var titles []*Title
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// CountTitlesByPattern returns the total number of titles matching a pattern.
func (s *Store) CountTitlesByPattern(ctx context.Context, pattern string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM titles WHERE lookup_key LIKE ? ESCAPE '\'`, pattern)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count titles by pattern: %w", err)
	}
	return count, nil
}

// AllTitles returns every title ordered by lookup key. Used as the fuzzy
// suggestion corpus; catalogs are small enough to scan in full.
func (s *Store) AllTitles(ctx context.Context) ([]*Title, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+titleColumns+` FROM titles ORDER BY lookup_key`)
	if err != nil {
		return nil, fmt.Errorf("query all titles: %w", err)
	}
	defer rows.Close()

	var titles []*Title
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			return nil, err
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// UpsertVariant inserts or replaces the deliverable for a (title, quality,
// language) triple. On conflict the payload fields are overwritten: the most
// recent ingestion wins.
func (s *Store) UpsertVariant(ctx context.Context, titleID int64, quality, language, fileRef string, chatID, messageID int64) (*Variant, error) {
	if titleID == 0 {
		return nil, errors.New("title id is zero")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO variants (title_id, quality, language, file_ref, chat_id, message_id, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)
         ON CONFLICT (title_id, quality, language) DO UPDATE SET
             file_ref = excluded.file_ref,
             chat_id = excluded.chat_id,
             message_id = excluded.message_id,
             updated_at = excluded.updated_at`,
		titleID,
		quality,
		language,
		fileRef,
		chatID,
		messageID,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert variant: %w", err)
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+variantColumns+` FROM variants WHERE title_id = ? AND quality = ? AND language = ?`,
		titleID,
		quality,
		language,
	)
	variant, err := scanVariant(row)
	if err != nil {
		return nil, fmt.Errorf("select variant: %w", err)
	}
	return variant, nil
}

// GetVariant fetches a variant by identifier. Returns nil when absent.
func (s *Store) GetVariant(ctx context.Context, id int64) (*Variant, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+variantColumns+` FROM variants WHERE id = ?`, id)
	variant, err := scanVariant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get variant: %w", err)
	}
	return variant, nil
}

// VariantsByTitle returns a title's variants ordered by quality then language.
func (s *Store) VariantsByTitle(ctx context.Context, titleID int64) ([]*Variant, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+variantColumns+` FROM variants WHERE title_id = ? ORDER BY quality, language`,
		titleID,
	)
	if err != nil {
		return nil, fmt.Errorf("query variants: %w", err)
	}
	defer rows.Close()

	var variants []*Variant
	for rows.Next() {
		variant, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		variants = append(variants, variant)
	}
	return variants, rows.Err()
}

// DeleteTitleCascade removes a title and all of its variants.
func (s *Store) DeleteTitleCascade(ctx context.Context, titleID int64) (titlesDeleted, variantsDeleted int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM variants WHERE title_id = ?`, titleID)
	if err != nil {
		return 0, 0, fmt.Errorf("delete variants: %w", err)
	}
	variantsDeleted, err = res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("rows affected: %w", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM titles WHERE id = ?`, titleID)
	if err != nil {
		return 0, 0, fmt.Errorf("delete title: %w", err)
	}
	titlesDeleted, err = res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit delete: %w", err)
	}
	return titlesDeleted, variantsDeleted, nil
}

// Wipe removes every title and variant from the catalog.
func (s *Store) Wipe(ctx context.Context) (titlesDeleted, variantsDeleted int64, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin wipe tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM variants`)
	if err != nil {
		return 0, 0, fmt.Errorf("wipe variants: %w", err)
	}
	variantsDeleted, err = res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("rows affected: %w", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM titles`)
	if err != nil {
		return 0, 0, fmt.Errorf("wipe titles: %w", err)
	}
	titlesDeleted, err = res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("rows affected: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit wipe: %w", err)
	}
	return titlesDeleted, variantsDeleted, nil
}

// Stats returns aggregate catalog counts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{}
	queries := []struct {
		sql  string
		dest *int
	}{
		{`SELECT COUNT(1) FROM titles`, &stats.Titles},
		{`SELECT COUNT(1) FROM variants`, &stats.Variants},
		{`SELECT COUNT(1) FROM users`, &stats.Users},
		{`SELECT COUNT(1) FROM channels`, &stats.Channels},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.sql).Scan(q.dest); err != nil {
			return Stats{}, fmt.Errorf("catalog stats: %w", err)
		}
	}
	return stats, nil
}

const titleColumns = "id, display_title, year, lookup_key, created_at"

const variantColumns = "id, title_id, quality, language, file_ref, chat_id, message_id, created_at, updated_at"

func scanTitle(scanner interface{ Scan(dest ...any) error }) (*Title, error) {
	var (
		id         int64
		display    string
		year       sql.NullString
		lookupKey  string
		createdRaw string
	)
	if err := scanner.Scan(&id, &display, &year, &lookupKey, &createdRaw); err != nil {
		return nil, err
	}

	title := &Title{
		ID:           id,
		DisplayTitle: display,
		Year:         year.String,
		LookupKey:    lookupKey,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		title.CreatedAt = created
	}
	return title, nil
}

func scanVariant(scanner interface{ Scan(dest ...any) error }) (*Variant, error) {
	var (
		id         int64
		titleID    int64
		quality    string
		language   string
		fileRef    string
		chatID     int64
		messageID  int64
		createdRaw string
		updatedRaw string
	)
	if err := scanner.Scan(&id, &titleID, &quality, &language, &fileRef, &chatID, &messageID, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	variant := &Variant{
		ID:        id,
		TitleID:   titleID,
		Quality:   quality,
		Language:  language,
		FileRef:   fileRef,
		ChatID:    chatID,
		MessageID: messageID,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		variant.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		variant.UpdatedAt = updated
	}
	return variant, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}

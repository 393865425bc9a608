// Package store is the durable persistence layer: a translation history table
// with an application-enforced soft-unique key on (original text, target
// language), and the singleton settings row holding the user's source language.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"
)

// DefaultSourceLanguage seeds the settings row on first run.
const DefaultSourceLanguage = "en"

// settingsID is the fixed identity of the singleton settings row.
const settingsID = 1

// TranslationRecord is one persisted pipeline result. Records are inserted
// once and deleted individually; they are never updated in place.
type TranslationRecord struct {
	ID             int64
	OriginalText   string
	Language       string // target-language code the translation is in
	TranslatedText string
	CreatedAt      time.Time
}

// Settings is the singleton user-preferences row.
type Settings struct {
	ID       int64
	Language string // source/native language code
}

// HistoryStats summarises the translation history table.
type HistoryStats struct {
	TotalRecords int
	Languages    int
}

type Store struct {
	db *sql.DB
}

// New opens (creating if needed) the database at dbPath and applies the
// schema. Safe to call on every process start.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initialize creates both tables when absent. Schema changes must stay
// additive-only: there is no versioned migration beyond CREATE IF NOT EXISTS.
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		original_text TEXT NOT NULL,
		language TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		language TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_translations_lookup ON translations(original_text, language);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SeedDefaults inserts the default settings row when the settings table is
// empty. Must run after New and before any settings read. Idempotent.
func (s *Store) SeedDefaults(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (id, language) VALUES (?, ?)`,
		settingsID, DefaultSourceLanguage)
	return err
}

// FindTranslation returns the record matching (originalText, language)
// exactly, or nil when absent. Lookup has no side effects. The original text
// is NFC-normalized the same way InsertTranslation stores it.
func (s *Store) FindTranslation(ctx context.Context, originalText, language string) (*TranslationRecord, error) {
	var rec TranslationRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, original_text, language, translated_text, created_at
		 FROM translations WHERE original_text = ? AND language = ?`,
		normalizeText(originalText), language).Scan(
		&rec.ID, &rec.OriginalText, &rec.Language, &rec.TranslatedText, &rec.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// InsertTranslation always creates a new row and returns it with the assigned
// id. It does not enforce uniqueness; callers are expected to check
// FindTranslation first, or use SaveUnique.
func (s *Store) InsertTranslation(ctx context.Context, originalText, language, translatedText string) (*TranslationRecord, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO translations (original_text, language, translated_text, created_at) VALUES (?, ?, ?, ?)`,
		normalizeText(originalText), language, translatedText, now)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &TranslationRecord{
		ID:             id,
		OriginalText:   normalizeText(originalText),
		Language:       language,
		TranslatedText: translatedText,
		CreatedAt:      now,
	}, nil
}

// SaveUnique performs the dedup lookup and the insert inside one transaction
// so concurrent check-then-insert calls for the same pair cannot interleave.
// The returned bool reports whether an existing record was reused.
func (s *Store) SaveUnique(ctx context.Context, originalText, language, translatedText string) (*TranslationRecord, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	var rec TranslationRecord
	err = tx.QueryRowContext(ctx,
		`SELECT id, original_text, language, translated_text, created_at
		 FROM translations WHERE original_text = ? AND language = ?`,
		normalizeText(originalText), language).Scan(
		&rec.ID, &rec.OriginalText, &rec.Language, &rec.TranslatedText, &rec.CreatedAt)
	if err == nil {
		return &rec, true, tx.Commit()
	}
	if err != sql.ErrNoRows {
		return nil, false, err
	}

	now := time.Now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO translations (original_text, language, translated_text, created_at) VALUES (?, ?, ?, ?)`,
		normalizeText(originalText), language, translatedText, now)
	if err != nil {
		return nil, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}
	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	return &TranslationRecord{
		ID:             id,
		OriginalText:   normalizeText(originalText),
		Language:       language,
		TranslatedText: translatedText,
		CreatedAt:      now,
	}, false, nil
}

// ListTranslations returns the full history, most recent first. An empty
// table yields an empty slice, never an error.
func (s *Store) ListTranslations(ctx context.Context) ([]TranslationRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, original_text, language, translated_text, created_at
		 FROM translations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]TranslationRecord, 0)
	for rows.Next() {
		var rec TranslationRecord
		if err := rows.Scan(&rec.ID, &rec.OriginalText, &rec.Language, &rec.TranslatedText, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteTranslation removes one record by id. Deleting a missing id is a
// no-op, not an error.
func (s *Store) DeleteTranslation(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM translations WHERE id = ?`, id)
	return err
}

// GetSettings returns the singleton settings row. When the row is somehow
// absent after seeding, an in-memory default is returned rather than an error.
func (s *Store) GetSettings(ctx context.Context) (Settings, error) {
	var cfg Settings
	err := s.db.QueryRowContext(ctx,
		`SELECT id, language FROM settings WHERE id = ?`, settingsID).Scan(&cfg.ID, &cfg.Language)
	if err == sql.ErrNoRows {
		return Settings{ID: settingsID, Language: DefaultSourceLanguage}, nil
	}
	if err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// UpdateSettings replaces the language of the singleton settings row.
func (s *Store) UpdateSettings(ctx context.Context, language string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (id, language) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET language = excluded.language`,
		settingsID, language)
	return err
}

// Stats returns summary counts for the translations table.
func (s *Store) Stats(ctx context.Context) (*HistoryStats, error) {
	stats := &HistoryStats{}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT language) FROM translations`).Scan(
		&stats.TotalRecords, &stats.Languages)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization so
// the soft-unique key compares consistently across runs.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

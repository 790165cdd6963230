package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"recut/internal/config"
)

// ErrAmbiguousOrMissingRecording marks a locator lookup that matched zero or
// more than one catalog row. The pipeline must abort on it.
var ErrAmbiguousOrMissingRecording = errors.New("ambiguous or missing recording")

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

	dbPath := cfg.Paths.CatalogDB
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create catalog directory: %w", err)
	}
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

const recordColumns = "chan_id, start_time, title, subtitle, basename, storage_group, program_id, air_date, season, episode, commflagged, transcoded, filesize"

// GetRecording resolves a (channel, start-time) pair to exactly one catalog
// row. Zero or multiple matches return ErrAmbiguousOrMissingRecording.
func (s *Store) GetRecording(ctx context.Context, chanID, startTime string) (*Record, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+recordColumns+` FROM recordings WHERE chan_id = ? AND start_time = ?`,
		chanID,
		startTime,
	)
	if err != nil {
		return nil, fmt.Errorf("query recording: %w", err)
	}
	defer rows.Close()

	var matches []*Record
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recordings: %w", err)
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return nil, fmt.Errorf("%w: no recording for chan_id=%s start_time=%s", ErrAmbiguousOrMissingRecording, chanID, startTime)
	default:
		return nil, fmt.Errorf("%w: %d recordings for chan_id=%s start_time=%s", ErrAmbiguousOrMissingRecording, len(matches), chanID, startTime)
	}
}

// InsertRecording adds a catalog row. Primarily used by tests and import tooling.
func (s *Store) InsertRecording(ctx context.Context, record *Record) error {
	if record == nil {
		return errors.New("record is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO recordings (`+recordColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ChanID,
		record.StartTime,
		record.Title,
		record.Subtitle,
		record.Basename,
		record.StorageGroup,
		record.ProgramID,
		record.AirDate,
		record.Season,
		record.Episode,
		int(record.FlagStatus),
		boolToInt(record.Transcoded),
		record.Filesize,
	)
	if err != nil {
		return fmt.Errorf("insert recording: %w", err)
	}
	return nil
}

// SetFlagStatus updates only the commercial-flag status for one recording.
func (s *Store) SetFlagStatus(ctx context.Context, chanID, startTime string, status FlagStatus) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE recordings SET commflagged = ? WHERE chan_id = ? AND start_time = ?`,
		int(status),
		chanID,
		startTime,
	)
	if err != nil {
		return fmt.Errorf("update flag status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: no recording for chan_id=%s start_time=%s", ErrAmbiguousOrMissingRecording, chanID, startTime)
	}
	return nil
}

// UpdateArtifact records an artifact substitution: basename, filesize, and the
// transcoded flag change together in a single write.
func (s *Store) UpdateArtifact(ctx context.Context, chanID, startTime, basename string, filesize int64, transcoded bool) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE recordings SET basename = ?, filesize = ?, transcoded = ? WHERE chan_id = ? AND start_time = ?`,
		basename,
		filesize,
		boolToInt(transcoded),
		chanID,
		startTime,
	)
	if err != nil {
		return fmt.Errorf("update artifact: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: no recording for chan_id=%s start_time=%s", ErrAmbiguousOrMissingRecording, chanID, startTime)
	}
	return nil
}

// PurgeDerived deletes the seek-index and bookmark rows for one recording.
// The catalog must never serve stale seek offsets for a file that changed
// byte-for-byte.
func (s *Store) PurgeDerived(ctx context.Context, chanID, startTime string) (seekRows, markupRows int64, err error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recorded_seek WHERE chan_id = ? AND start_time = ?`, chanID, startTime)
	if err != nil {
		return 0, 0, fmt.Errorf("purge seek rows: %w", err)
	}
	seekRows, _ = res.RowsAffected()

	res, err = s.db.ExecContext(ctx, `DELETE FROM recorded_markup WHERE chan_id = ? AND start_time = ?`, chanID, startTime)
	if err != nil {
		return seekRows, 0, fmt.Errorf("purge markup rows: %w", err)
	}
	markupRows, _ = res.RowsAffected()
	return seekRows, markupRows, nil
}

// AddSeekEntry inserts one seek-index row. Used by tests and import tooling.
func (s *Store) AddSeekEntry(ctx context.Context, chanID, startTime string, mark, byteOffset int64) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO recorded_seek (chan_id, start_time, mark, byte_offset, type) VALUES (?, ?, ?, ?, 9)`,
		chanID, startTime, mark, byteOffset,
	)
	if err != nil {
		return fmt.Errorf("insert seek entry: %w", err)
	}
	return nil
}

// AddMarkupEntry inserts one bookmark/markup row. Used by tests and import tooling.
func (s *Store) AddMarkupEntry(ctx context.Context, chanID, startTime string, mark int64, markType int) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO recorded_markup (chan_id, start_time, mark, type, data) VALUES (?, ?, ?, ?, 0)`,
		chanID, startTime, mark, markType,
	)
	if err != nil {
		return fmt.Errorf("insert markup entry: %w", err)
	}
	return nil
}

// DerivedRowCounts reports how many seek and markup rows exist for a recording.
func (s *Store) DerivedRowCounts(ctx context.Context, chanID, startTime string) (seekRows, markupRows int64, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM recorded_seek WHERE chan_id = ? AND start_time = ?`, chanID, startTime)
	if err := row.Scan(&seekRows); err != nil {
		return 0, 0, fmt.Errorf("count seek rows: %w", err)
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM recorded_markup WHERE chan_id = ? AND start_time = ?`, chanID, startTime)
	if err := row.Scan(&markupRows); err != nil {
		return seekRows, 0, fmt.Errorf("count markup rows: %w", err)
	}
	return seekRows, markupRows, nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		chanID       string
		startTime    string
		title        sql.NullString
		subtitle     sql.NullString
		basename     sql.NullString
		storageGroup sql.NullString
		programID    sql.NullString
		airDate      sql.NullString
		season       sql.NullInt64
		episode      sql.NullInt64
		commflagged  sql.NullInt64
		transcoded   sql.NullInt64
		filesize     sql.NullInt64
	)

	if err := scanner.Scan(
		&chanID,
		&startTime,
		&title,
		&subtitle,
		&basename,
		&storageGroup,
		&programID,
		&airDate,
		&season,
		&episode,
		&commflagged,
		&transcoded,
		&filesize,
	); err != nil {
		return nil, fmt.Errorf("scan recording: %w", err)
	}

	status, err := ParseFlagStatus(int(commflagged.Int64))
	if err != nil {
		return nil, fmt.Errorf("recording chan_id=%s start_time=%s: %w", chanID, startTime, err)
	}

	return &Record{
		ChanID:       chanID,
		StartTime:    startTime,
		Title:        title.String,
		Subtitle:     subtitle.String,
		Basename:     basename.String,
		StorageGroup: storageGroup.String,
		ProgramID:    programID.String,
		AirDate:      airDate.String,
		Season:       int(season.Int64),
		Episode:      int(episode.Int64),
		FlagStatus:   status,
		Transcoded:   transcoded.Int64 != 0,
		Filesize:     filesize.Int64,
	}, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

package catalog

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS recordings (
        chan_id TEXT NOT NULL,
        start_time TEXT NOT NULL,
        title TEXT NOT NULL DEFAULT '',
        subtitle TEXT NOT NULL DEFAULT '',
        basename TEXT NOT NULL DEFAULT '',
        storage_group TEXT NOT NULL DEFAULT 'Default',
        program_id TEXT NOT NULL DEFAULT '',
        air_date TEXT NOT NULL DEFAULT '',
        season INTEGER NOT NULL DEFAULT 0,
        episode INTEGER NOT NULL DEFAULT 0,
        commflagged INTEGER NOT NULL DEFAULT 0,
        transcoded INTEGER NOT NULL DEFAULT 0,
        filesize INTEGER NOT NULL DEFAULT 0
    )`,
	`CREATE INDEX IF NOT EXISTS idx_recordings_key ON recordings (chan_id, start_time)`,
	`CREATE TABLE IF NOT EXISTS recorded_markup (
        chan_id TEXT NOT NULL,
        start_time TEXT NOT NULL,
        mark INTEGER NOT NULL DEFAULT 0,
        type INTEGER NOT NULL DEFAULT 0,
        data INTEGER NOT NULL DEFAULT 0
    )`,
	`CREATE INDEX IF NOT EXISTS idx_recorded_markup_key ON recorded_markup (chan_id, start_time)`,
	`CREATE TABLE IF NOT EXISTS recorded_seek (
        chan_id TEXT NOT NULL,
        start_time TEXT NOT NULL,
        mark INTEGER NOT NULL DEFAULT 0,
        byte_offset INTEGER NOT NULL DEFAULT 0,
        type INTEGER NOT NULL DEFAULT 0
    )`,
	`CREATE INDEX IF NOT EXISTS idx_recorded_seek_key ON recorded_seek (chan_id, start_time)`,
}

func (s *Store) applyMigrations(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
	}
	return nil
}

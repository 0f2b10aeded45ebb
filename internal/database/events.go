package database

import (
	"fmt"
	"time"
)

// LogEvent stores a channel event
func (db *DB) LogEvent(eventType, channel, nick, content string) error {
	query := `
		INSERT INTO events (timestamp, event_type, channel, nick, content)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := db.conn.Exec(query, time.Now().UTC(), eventType, channel, nick, content); err != nil {
		return fmt.Errorf("failed to log event: %w", err)
	}
	return nil
}

// PruneEvents deletes events recorded before cutoff and returns how many
// were removed
func (db *DB) PruneEvents(cutoff time.Time) (int64, error) {
	result, err := db.conn.Exec("DELETE FROM events WHERE timestamp < ?", cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return removed, nil
}

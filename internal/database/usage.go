package database

import (
	"fmt"
	"time"
)

// CommandCount is the number of times a command was used
type CommandCount struct {
	Command string
	Count   int64
}

// RecordCommand records that nick ran command
func (db *DB) RecordCommand(command, nick string) error {
	_, err := db.conn.Exec(
		"INSERT INTO command_usage (timestamp, command, nick) VALUES (?, ?, ?)",
		time.Now().UTC(),
		command,
		nick,
	)
	if err != nil {
		return fmt.Errorf("failed to record command usage: %w", err)
	}
	return nil
}

// CommandCounts returns usage per command, most used first
func (db *DB) CommandCounts() ([]CommandCount, error) {
	rows, err := db.conn.Query(`
		SELECT command, COUNT(*) AS uses
		FROM command_usage
		GROUP BY command
		ORDER BY uses DESC, command ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query command usage: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var counts []CommandCount
	for rows.Next() {
		var c CommandCount
		if err := rows.Scan(&c.Command, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan command usage: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating command usage: %w", err)
	}

	return counts, nil
}

package database

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvents_RoundTrip(t *testing.T) {
	db := NewTestDB(t)

	require.NoError(t, db.LogEvent("JOIN", "global", "alice", ""))
	require.NoError(t, db.LogEvent("TOPIC", "global", "", "Welcome!"))
	require.NoError(t, db.LogEvent("QUIT", "global", "alice", "Client quit"))

	events, err := recentEvents(db, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, "QUIT", events[0].EventType)
	assert.Equal(t, "alice", events[0].Nick)
	assert.Equal(t, "Client quit", events[0].Content)
	assert.Equal(t, "TOPIC", events[1].EventType)
	assert.Equal(t, "Welcome!", events[1].Content)
	assert.WithinDuration(t, time.Now(), events[0].Timestamp, time.Minute)
}

func TestPruneEvents(t *testing.T) {
	db := NewTestDB(t)

	require.NoError(t, db.LogEvent("JOIN", "global", "alice", ""))
	require.NoError(t, db.LogEvent("PART", "global", "alice", "bye"))

	removed, err := db.PruneEvents(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, removed, "recent events are kept")

	removed, err = db.PruneEvents(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	events, err := recentEvents(db, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCommandCounts(t *testing.T) {
	db, err := NewTest()
	require.NoError(t, err)
	defer db.Close()

	for _, cmd := range []string{"slap", "joke", "slap", "hello", "slap", "joke"} {
		require.NoError(t, db.RecordCommand(cmd, "alice"))
	}

	counts, err := db.CommandCounts()
	require.NoError(t, err)
	assert.Equal(t, []CommandCount{
		{Command: "slap", Count: 3},
		{Command: "joke", Count: 2},
		{Command: "hello", Count: 1},
	}, counts)
}

func TestNew_InMemoryDefault(t *testing.T) {
	db, err := New("")
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, ":memory:", db.Path())
	require.NoError(t, db.LogEvent("JOIN", "global", "bob", ""))

	events, err := recentEvents(db, 10)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestNew_ReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "events.db")

	db, err := New(path)
	require.NoError(t, err)
	require.NoError(t, db.RecordCommand("hello", "alice"))
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()

	version, err := db.getCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, version)

	counts, err := db.CommandCounts()
	require.NoError(t, err)
	assert.Equal(t, []CommandCount{{Command: "hello", Count: 1}}, counts)
}

func TestLoadMigrations_Sorted(t *testing.T) {
	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, 1, migrations[0].Version)
	assert.Equal(t, "events", migrations[0].Name)
	assert.Equal(t, 2, migrations[1].Version)
	assert.Equal(t, "command_usage", migrations[1].Name)
}

type event struct {
	ID        int64
	Timestamp time.Time
	EventType string // JOIN, PART, QUIT or TOPIC
	Channel   string
	Nick      string
	Content   string
}

// recentEvents returns up to limit events, newest first
func recentEvents(db *DB, limit int) ([]*event, error) {
	query := `
		SELECT id, timestamp, event_type, channel, nick, content
		FROM events
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := db.conn.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var events []*event
	for rows.Next() {
		e := &event{}
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.EventType, &e.Channel, &e.Nick, &e.Content); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

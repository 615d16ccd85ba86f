package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pitchside/matchtrack/internal/domains/entities"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

const snapshotKey = "tracker"

// SaveSnapshot serializes the whole state object and upserts it as one
// row. The single-row write is transactional, so a crash mid-save leaves
// the previous snapshot intact rather than a torn one.
func (client *Client) SaveSnapshot(ctx context.Context, snap entities.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	_, err = client.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`, snapshotKey, string(data))
	if err != nil {
		return fmt.Errorf("failed to put snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads the persisted state object back, if one exists.
func (client *Client) LoadSnapshot(ctx context.Context) (entities.Snapshot, error) {
	var data string
	err := client.db.QueryRowContext(ctx, `
		SELECT data FROM snapshots WHERE key = ?
	`, snapshotKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Snapshot{}, ErrSnapshotNotFound
	}
	if err != nil {
		return entities.Snapshot{}, err
	}
	var snap entities.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return entities.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}

package catalog

import (
	"context"
	"fmt"
	"time"
)

// AddChannel authorizes a source channel. Returns false when the channel was
// already present.
func (s *Store) AddChannel(ctx context.Context, channelID int64) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO channels (id, added_at) VALUES (?, ?) ON CONFLICT (id) DO NOTHING`,
		channelID,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("add channel: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// RemoveChannel revokes a source channel. Returns false when it was unknown.
func (s *Store) RemoveChannel(ctx context.Context, channelID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM channels WHERE id = ?`, channelID)
	if err != nil {
		return false, fmt.Errorf("remove channel: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Channels returns the authorized channel identifiers in insertion order.
func (s *Store) Channels(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM channels ORDER BY added_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query channels: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IsChannelAllowed reports whether media from a channel should be ingested.
func (s *Store) IsChannelAllowed(ctx context.Context, channelID int64) (bool, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM channels WHERE id = ?`, channelID)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("check channel: %w", err)
	}
	return count > 0, nil
}

// SeedChannels inserts the configured source channels if absent. Runtime
// additions via /addchannel persist alongside them.
func (s *Store) SeedChannels(ctx context.Context, channelIDs []int64) error {
	for _, id := range channelIDs {
		if _, err := s.AddChannel(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// RememberUser records a user on first contact. Returns true for new users.
func (s *Store) RememberUser(ctx context.Context, userID int64, name string) (bool, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO users (id, name, first_seen) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING`,
		userID,
		nullableString(name),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return false, fmt.Errorf("remember user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

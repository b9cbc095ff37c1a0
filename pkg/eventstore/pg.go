package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// tableName matches the goose migration shipped under migrations/.
const tableName = "longpoll_events"

// PGStore implements Store on top of a PostgreSQL pool. Offset assignment
// uses the table's identity sequence, which serializes concurrent appends
// across processes without any in-process locking.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore returns a Store backed by the given connection pool.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	if pool == nil {
		panic("eventstore: pool cannot be nil")
	}
	return &PGStore{pool: pool}
}

func (s *PGStore) Append(ctx context.Context, channelID, eventType string, payload Payload) (Event, error) {
	if channelID == "" {
		return Event{}, ErrEmptyChannelID
	}
	if eventType == "" {
		eventType = DefaultType
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, errors.Join(ErrFailedToEncodePayload, err)
	}

	event := Event{
		ChannelID: channelID,
		Type:      eventType,
		Payload:   payload,
	}

	query := fmt.Sprintf(`INSERT INTO %s (channel_id, type, event) VALUES ($1, $2, $3) RETURNING id, created_at`, tableName)
	if err := s.pool.QueryRow(ctx, query, channelID, eventType, body).Scan(&event.ID, &event.CreatedAt); err != nil {
		return Event{}, errors.Join(ErrFailedToAppendEvent, err)
	}

	return event, nil
}

func (s *PGStore) Updates(ctx context.Context, channelID string, fromOffset int64, limit int, types ...string) ([]Event, error) {
	if channelID == "" {
		return nil, ErrEmptyChannelID
	}

	query := fmt.Sprintf(`SELECT id, channel_id, type, event, created_at FROM %s WHERE channel_id = $1 AND id > $2`, tableName)
	args := []any{channelID, fromOffset}
	if len(types) > 0 {
		args = append(args, types)
		query += fmt.Sprintf(" AND type = ANY($%d)", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY id ASC LIMIT $%d", len(args))

	return s.queryEvents(ctx, query, args...)
}

func (s *PGStore) LastOffset(ctx context.Context, channelID string, types ...string) (int64, error) {
	if channelID == "" {
		return 0, ErrEmptyChannelID
	}

	query := fmt.Sprintf(`SELECT COALESCE(MAX(id), 0) FROM %s WHERE channel_id = $1`, tableName)
	args := []any{channelID}
	if len(types) > 0 {
		args = append(args, types)
		query += fmt.Sprintf(" AND type = ANY($%d)", len(args))
	}

	var offset int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&offset); err != nil {
		return 0, errors.Join(ErrFailedToQueryEvents, err)
	}
	return offset, nil
}

func (s *PGStore) LastEvents(ctx context.Context, channelID string, count int, types ...string) ([]Event, error) {
	if channelID == "" {
		return nil, ErrEmptyChannelID
	}

	query := fmt.Sprintf(`SELECT id, channel_id, type, event, created_at FROM %s WHERE channel_id = $1`, tableName)
	args := []any{channelID}
	if len(types) > 0 {
		args = append(args, types)
		query += fmt.Sprintf(" AND type = ANY($%d)", len(args))
	}
	args = append(args, count)
	query += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args))

	events, err := s.queryEvents(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	// Rows arrive newest-first; callers expect ascending offsets.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}

func (s *PGStore) Delete(ctx context.Context, f Filter) (int64, error) {
	var (
		conds []string
		args  []any
	)
	if f.ChannelID != "" {
		args = append(args, f.ChannelID)
		conds = append(conds, fmt.Sprintf("channel_id = $%d", len(args)))
	}
	if len(f.Types) > 0 {
		args = append(args, f.Types)
		conds = append(conds, fmt.Sprintf("type = ANY($%d)", len(args)))
	}
	if !f.OlderThan.IsZero() {
		args = append(args, f.OlderThan)
		conds = append(conds, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := fmt.Sprintf("DELETE FROM %s", tableName)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, errors.Join(ErrFailedToDeleteEvents, err)
	}
	return tag.RowsAffected(), nil
}

func (s *PGStore) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Join(ErrFailedToQueryEvents, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			event Event
			body  []byte
		)
		if err := rows.Scan(&event.ID, &event.ChannelID, &event.Type, &body, &event.CreatedAt); err != nil {
			return nil, errors.Join(ErrFailedToQueryEvents, err)
		}
		if len(body) > 0 {
			if err := json.Unmarshal(body, &event.Payload); err != nil {
				return nil, errors.Join(ErrFailedToDecodePayload, err)
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrFailedToQueryEvents, err)
	}
	return events, nil
}

package postgres

import (
	"context"
	"database/sql"

	"ridehail/internal/domain"
)

// MessageRepository is a PostgreSQL implementation of repository.MessageRepository.
type MessageRepository struct {
	q Querier
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{q: db}
}

func NewMessageRepositoryWithTx(tx *sql.Tx) *MessageRepository {
	return &MessageRepository{q: tx}
}

// Create appends a chat line.
func (r *MessageRepository) Create(ctx context.Context, msg *domain.RideMessage) error {
	query := `
		INSERT INTO ride_messages (id, ride_id, sender_id, message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.ExecContext(ctx, query, msg.ID, msg.RideID, msg.SenderID, msg.Message, msg.CreatedAt, msg.UpdatedAt)
	return err
}

// ListByRide returns the ride's chat, oldest first.
func (r *MessageRepository) ListByRide(ctx context.Context, rideID string) ([]*domain.RideMessage, error) {
	query := `
		SELECT id, ride_id, sender_id, message, created_at, updated_at
		FROM ride_messages WHERE ride_id = $1 ORDER BY created_at ASC
	`
	rows, err := r.q.QueryContext(ctx, query, rideID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*domain.RideMessage{}
	for rows.Next() {
		var m domain.RideMessage
		if err := rows.Scan(&m.ID, &m.RideID, &m.SenderID, &m.Message, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &m)
	}
	return messages, rows.Err()
}

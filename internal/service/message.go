package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ridehail/internal/domain"
)

// MaxMessageLength bounds one chat line.
const MaxMessageLength = 1000

// SendMessage appends a chat line to a ride the caller is party to.
func (s *RideService) SendMessage(ctx context.Context, rideID, senderID, text string) (*domain.RideMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > MaxMessageLength {
		return nil, ErrInvalidMessage
	}

	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !domain.CanMessage(ride, senderID) {
		return nil, ErrNotRideParty
	}

	now := s.clock.Now()
	msg := &domain.RideMessage{
		ID:        uuid.New().String(),
		RideID:    rideID,
		SenderID:  senderID,
		Message:   text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repos.Messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}

// ListMessages returns a ride's chat, oldest first.
func (s *RideService) ListMessages(ctx context.Context, rideID, userID string) ([]*domain.RideMessage, error) {
	if _, err := s.GetRide(ctx, rideID, userID); err != nil {
		return nil, err
	}
	return s.repos.Messages.ListByRide(ctx, rideID)
}

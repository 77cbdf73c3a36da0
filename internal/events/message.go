package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tinoosan/finsight/internal/errs"
)

// Entities the finance backend announces changes for. EntityAll is a
// broadcast after bulk changes and carries no user.
const (
	EntityAccount     = "account"
	EntityTransaction = "transaction"
	EntityCategory    = "category"
	EntityAll         = "all"
)

// ChangeMessage announces that one of a user's records changed upstream.
type ChangeMessage struct {
	UserID    uuid.UUID `json:"user_id"`
	Entity    string    `json:"entity"`
	Timestamp time.Time `json:"timestamp"`
}

// Broadcast reports whether the message covers every user.
func (m ChangeMessage) Broadcast() bool { return m.Entity == EntityAll }

// DecodeChange parses and validates a change notification.
func DecodeChange(data []byte) (ChangeMessage, error) {
	var m ChangeMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ChangeMessage{}, fmt.Errorf("%w: change message: %v", errs.ErrInvalid, err)
	}
	switch m.Entity {
	case EntityAll:
		if m.UserID != uuid.Nil {
			return ChangeMessage{}, fmt.Errorf("%w: change message: broadcast must not name a user", errs.ErrInvalid)
		}
		return m, nil
	case EntityAccount, EntityTransaction, EntityCategory:
		if m.UserID == uuid.Nil {
			return ChangeMessage{}, fmt.Errorf("%w: change message: user_id required", errs.ErrInvalid)
		}
	default:
		return ChangeMessage{}, fmt.Errorf("%w: change message: unknown entity %q", errs.ErrInvalid, m.Entity)
	}
	return m, nil
}

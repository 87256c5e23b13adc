package model

import (
	"time"

	"gorm.io/datatypes"
)

// IdentityEvent is an audit row for every identity-provider webhook delivery
// that passed signature verification, stored with its raw payload so
// desynchronized users can be replayed by hand.
type IdentityEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	EventID   string         `json:"event_id" gorm:"index"`
	Type      string         `json:"type" gorm:"index"`
	SubjectID string         `json:"subject_id" gorm:"size:64;index"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

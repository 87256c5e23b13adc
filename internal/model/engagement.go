package model

import "time"

// Wishlist is a tenant's saved-property entry. One row per tenant/property
// pair; duplicates are rejected before insert.
type Wishlist struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	TenantID   string    `json:"tenant_id" gorm:"size:64;uniqueIndex:idx_tenant_property"`
	PropertyID string    `json:"property_id" gorm:"size:36;uniqueIndex:idx_tenant_property"`
	CreatedAt  time.Time `json:"created_at"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

type VisitStatus string

const (
	VisitStatusPending   VisitStatus = "pending"
	VisitStatusConfirmed VisitStatus = "confirmed"
	VisitStatusCancelled VisitStatus = "cancelled"
	VisitStatusDone      VisitStatus = "done"
)

// VisitSchedule is a booked viewing appointment.
type VisitSchedule struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	TenantID      string      `json:"tenant_id" gorm:"size:64;index"`
	PropertyID    string      `json:"property_id" gorm:"size:36;index"`
	ScheduledDate time.Time   `json:"scheduled_date"`
	Status        VisitStatus `json:"status" gorm:"default:'pending'"`
	Note          string      `json:"note"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusClosed    LeadStatus = "closed"
)

// Lead is a recorded expression of interest in a property. TenantID is set
// when the caller was signed in; walk-in inquiries leave it empty.
type Lead struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	PropertyID string     `json:"property_id" gorm:"size:36;index"`
	TenantID   *string    `json:"tenant_id,omitempty" gorm:"size:64;index"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Message    string     `json:"message" gorm:"type:text"`
	Status     LeadStatus `json:"status" gorm:"default:'new'"`
	ReadStatus bool       `json:"read_status" gorm:"default:false"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

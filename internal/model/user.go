package model

import "time"

type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

// User mirrors an identity-provider account. Rows are written only by the
// provider webhook (and the self-service profile update); the id is the
// provider's subject id, never generated locally.
type User struct {
	ID         string `json:"id" gorm:"primaryKey;size:64"`
	Email      string `json:"email" gorm:"index"`
	Phone      string `json:"phone"`
	FullName   string `json:"full_name"`
	AvatarURL  string `json:"avatar_url"`
	Role       Role   `json:"role" gorm:"default:'tenant'"`
	IsVerified bool   `json:"is_verified" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Properties []Property      `json:"properties,omitempty" gorm:"foreignKey:LandlordID"`
	Wishlist   []Wishlist      `json:"wishlist,omitempty" gorm:"foreignKey:TenantID"`
	Visits     []VisitSchedule `json:"visits,omitempty" gorm:"foreignKey:TenantID"`
	Leads      []Lead          `json:"leads,omitempty" gorm:"foreignKey:TenantID"`
}

// PublicProfile is the reduced landlord summary embedded in search results.
func (u *User) PublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":          u.ID,
		"full_name":   u.FullName,
		"avatar_url":  u.AvatarURL,
		"is_verified": u.IsVerified,
	}
}

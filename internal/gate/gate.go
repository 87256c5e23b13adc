// Package gate decides whether an actor may mutate a listing. The actor id
// is passed in explicitly on every call; nothing is read from ambient state.
package gate

import (
	"errors"

	"gorm.io/gorm"

	"urbankey_backend/internal/model"
)

type Action string

const (
	ActionUpdate       Action = "update"
	ActionDelete       Action = "delete"
	ActionToggleActive Action = "toggle_active"
)

var (
	// ErrUnauthenticated maps to 401: no resolved identity at all.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden maps to 403: known identity, insufficient rights.
	ErrForbidden = errors.New("forbidden")
)

// Authorize evaluates the rule table in order, first match wins:
//
//  1. no actor                               -> ErrUnauthenticated
//  2. update/delete by the owner             -> permit
//  3. update/delete by an admin              -> permit
//  4. toggle_active by the owner             -> permit (no admin override)
//  5. otherwise                              -> ErrForbidden
//
// A missing local user row after successful token verification is a
// desynchronization state and counts as a deny, not an error.
func Authorize(db *gorm.DB, actorID string, action Action, resource *model.Property) error {
	if actorID == "" {
		return ErrUnauthenticated
	}

	switch action {
	case ActionUpdate, ActionDelete:
		if actorID == resource.LandlordID {
			return nil
		}
		var actor model.User
		if err := db.First(&actor, "id = ?", actorID).Error; err != nil {
			return ErrForbidden
		}
		if actor.Role == model.RoleAdmin {
			return nil
		}
	case ActionToggleActive:
		if actorID == resource.LandlordID {
			return nil
		}
	}

	return ErrForbidden
}

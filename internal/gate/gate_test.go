package gate

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"urbankey_backend/internal/model"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}))
	return db
}

func TestAuthorize(t *testing.T) {
	db := openTestDB(t)
	for _, u := range []model.User{
		{ID: "owner", Role: model.RoleLandlord},
		{ID: "admin", Role: model.RoleAdmin},
		{ID: "stranger", Role: model.RoleTenant},
	} {
		require.NoError(t, db.Create(&u).Error)
	}

	listing := &model.Property{ID: "prop_1", LandlordID: "owner"}

	cases := []struct {
		name    string
		actorID string
		action  Action
		wantErr error
	}{
		{"no actor update", "", ActionUpdate, ErrUnauthenticated},
		{"no actor toggle", "", ActionToggleActive, ErrUnauthenticated},
		{"owner update", "owner", ActionUpdate, nil},
		{"owner delete", "owner", ActionDelete, nil},
		{"owner toggle", "owner", ActionToggleActive, nil},
		{"admin update", "admin", ActionUpdate, nil},
		{"admin delete", "admin", ActionDelete, nil},
		{"admin toggle", "admin", ActionToggleActive, ErrForbidden},
		{"stranger update", "stranger", ActionUpdate, ErrForbidden},
		{"stranger delete", "stranger", ActionDelete, ErrForbidden},
		{"stranger toggle", "stranger", ActionToggleActive, ErrForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(db, tc.actorID, tc.action, listing)
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestAuthorizeMissingUserRowDenies(t *testing.T) {
	db := openTestDB(t)
	listing := &model.Property{ID: "prop_1", LandlordID: "owner"}

	// A verified token whose subject was never synced locally: denied, not
	// an internal error.
	err := Authorize(db, "user_never_synced", ActionUpdate, listing)
	assert.ErrorIs(t, err, ErrForbidden)
}

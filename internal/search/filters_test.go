package search

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

	require.NoError(t, db.AutoMigrate(&model.Property{}, &model.PropertyImage{}))
	return db
}

func seedListings(t *testing.T, db *gorm.DB) {
	t.Helper()
	dist := 1.2
	listings := []model.Property{
		{
			ID: "prop_delhi_2bhk", Title: "a", City: "New Delhi", Rent: 18000,
			BHK: model.BHK2, Furnishing: model.FurnishingSemi,
			TenantType: model.TenantTypeFamily, HasWater247: true,
			DistanceToMetroKm: &dist, LandlordID: "u1", IsActive: true,
		},
		{
			ID: "prop_delhi_3bhk", Title: "b", City: "new delhi", Rent: 35000,
			BHK: model.BHK3, Furnishing: model.FurnishingFully,
			TenantType: model.TenantTypeBachelors, HasPowerBackup: true,
			IsBroker: true, LandlordID: "u1", IsActive: true,
		},
		{
			ID: "prop_mumbai_1bhk", Title: "c", City: "Mumbai", Rent: 22000,
			BHK: model.BHK1, Furnishing: model.FurnishingNone,
			TenantType: model.TenantTypeBoth, HasIglPipeline: true,
			LandlordID: "u2", IsActive: true,
		},
	}
	for _, l := range listings {
		l := l
		require.NoError(t, db.Create(&l).Error)
	}
}

func ids(t *testing.T, db *gorm.DB, f Filters) []string {
	t.Helper()
	var out []string
	require.NoError(t, f.Apply(db.Model(&model.Property{})).
		Order("id ASC").Pluck("id", &out).Error)
	return out
}

func intPtr(v int) *int { return &v }

func TestFiltersApply(t *testing.T) {
	db := openTestDB(t)
	seedListings(t, db)

	all := []string{"prop_delhi_2bhk", "prop_delhi_3bhk", "prop_mumbai_1bhk"}
	tenantFamily := model.TenantTypeFamily

	cases := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"empty filters match everything", Filters{}, all},
		{"city is case-insensitive substring", Filters{City: "DELHI"},
			[]string{"prop_delhi_2bhk", "prop_delhi_3bhk"}},
		{"min rent", Filters{MinRent: intPtr(20000)},
			[]string{"prop_delhi_3bhk", "prop_mumbai_1bhk"}},
		{"max rent", Filters{MaxRent: intPtr(22000)},
			[]string{"prop_delhi_2bhk", "prop_mumbai_1bhk"}},
		{"rent bounds are inclusive", Filters{MinRent: intPtr(22000), MaxRent: intPtr(22000)},
			[]string{"prop_mumbai_1bhk"}},
		{"bhk set", Filters{BHK: []model.BHK{model.BHK1, model.BHK3}},
			[]string{"prop_delhi_3bhk", "prop_mumbai_1bhk"}},
		{"furnishing set", Filters{Furnishing: []model.Furnishing{model.FurnishingSemi}},
			[]string{"prop_delhi_2bhk"}},
		{"tenant type", Filters{TenantType: &tenantFamily},
			[]string{"prop_delhi_2bhk"}},
		{"water 24x7", Filters{HasWater247: true}, []string{"prop_delhi_2bhk"}},
		{"power backup", Filters{HasPowerBackup: true}, []string{"prop_delhi_3bhk"}},
		{"igl pipeline", Filters{HasIglPipeline: true}, []string{"prop_mumbai_1bhk"}},
		{"direct owner only", Filters{DirectOwnerOnly: true},
			[]string{"prop_delhi_2bhk", "prop_mumbai_1bhk"}},
		{"near metro", Filters{NearMetro: true}, []string{"prop_delhi_2bhk"}},
		{"filters combine with AND",
			Filters{City: "delhi", MinRent: intPtr(30000)},
			[]string{"prop_delhi_3bhk"}},
		{"contradictory filters match nothing",
			Filters{MinRent: intPtr(40000), MaxRent: intPtr(10000)}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(t, db, tc.filters))
		})
	}
}

func TestPaginationNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Pagination
		want Pagination
	}{
		{"valid passes through", Pagination{Page: 3, Limit: 25}, Pagination{Page: 3, Limit: 25}},
		{"zero page clamps to one", Pagination{Page: 0, Limit: 5}, Pagination{Page: 1, Limit: 5}},
		{"negative page clamps to one", Pagination{Page: -2, Limit: 5}, Pagination{Page: 1, Limit: 5}},
		{"zero limit falls back", Pagination{Page: 2, Limit: 0}, Pagination{Page: 2, Limit: DefaultLimit}},
		{"negative limit falls back", Pagination{Page: 2, Limit: -1}, Pagination{Page: 2, Limit: DefaultLimit}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 10, Pagination{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 6, Pagination{Page: 3, Limit: 3}.Offset())
}

func TestPaginationTotalPages(t *testing.T) {
	p := Pagination{Page: 1, Limit: 3}
	assert.EqualValues(t, 0, p.TotalPages(0))
	assert.EqualValues(t, 1, p.TotalPages(3))
	assert.EqualValues(t, 2, p.TotalPages(4))
	assert.EqualValues(t, 3, p.TotalPages(7))
}

package controller

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urbankey_backend/internal/model"
	"urbankey_backend/pkg/database"
)

func TestPropertyViewRollup(t *testing.T) {
	resetTables(t)
	landlord := seedUser(t, "user_views", model.RoleLandlord)
	property := seedProperty(t, landlord.ID, nil)

	db := database.GetDB()
	for _, ip := range []string{"10.0.0.1", "10.0.0.1", "10.0.0.2"} {
		recordPropertyView(property.ID, "", ip, "test-agent")
	}

	var stats model.PropertyStats
	require.NoError(t, db.First(&stats, "property_id = ?", property.ID).Error)
	assert.EqualValues(t, 3, stats.TotalViews)
	assert.EqualValues(t, 2, stats.UniqueViews, "same IP within 24h counts once")
	assert.EqualValues(t, 3, stats.DailyViews)
}

func TestGetDashboardStats(t *testing.T) {
	resetTables(t)
	app := buildTestApp()
	landlord := seedUser(t, "user_dash", model.RoleLandlord)
	other := seedUser(t, "user_dash_other", model.RoleLandlord)

	active := seedProperty(t, landlord.ID, nil)
	seedProperty(t, landlord.ID, func(p *model.Property) { p.IsActive = false })
	foreign := seedProperty(t, other.ID, nil)

	db := database.GetDB()
	recordPropertyView(active.ID, "", "10.0.0.1", "test-agent")
	recordPropertyView(active.ID, "", "10.0.0.2", "test-agent")
	recordPropertyView(foreign.ID, "", "10.0.0.3", "test-agent")

	require.NoError(t, db.Create(&model.Lead{PropertyID: active.ID, Name: "A"}).Error)
	require.NoError(t, db.Create(&model.Lead{
		PropertyID: active.ID, Name: "B", ReadStatus: true,
	}).Error)
	require.NoError(t, db.Create(&model.Lead{PropertyID: foreign.ID, Name: "C"}).Error)

	resp, body := doRequest(t, app, jsonRequest(t, http.MethodGet,
		"/api/dashboard/stats", signTestToken(t, landlord.ID), nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats DashboardStats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.EqualValues(t, 2, stats.TotalListings)
	assert.EqualValues(t, 1, stats.ActiveListings)
	assert.EqualValues(t, 2, stats.TotalViews)
	assert.EqualValues(t, 2, stats.UniqueViews)
	assert.EqualValues(t, 2, stats.TotalLeads)
	assert.EqualValues(t, 1, stats.UnreadLeads)
}

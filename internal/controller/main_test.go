package controller

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"urbankey_backend/internal/middleware"
	"urbankey_backend/internal/model"
	"urbankey_backend/pkg/database"
	"urbankey_backend/pkg/utils/token"
)

var testPrivateKey *rsa.PrivateKey

func TestMain(m *testing.M) {
	if err := database.Init(sqlite.Open(":memory:")); err != nil {
		log.Fatal("could not open test database:", err)
	}
	// A single connection keeps every session on the same in-memory DB.
	if sqlDB, err := database.GetDB().DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := database.Migrate(
		&model.User{},
		&model.Property{},
		&model.PropertyImage{},
		&model.Wishlist{},
		&model.VisitSchedule{},
		&model.Lead{},
		&model.PropertyView{},
		&model.PropertyStats{},
		&model.IdentityEvent{},
	); err != nil {
		log.Fatal("could not migrate test database:", err)
	}

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		log.Fatal("could not generate test key:", err)
	}
	testPrivateKey = key

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		log.Fatal("could not marshal test key:", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	if err := token.Init(string(pemKey)); err != nil {
		log.Fatal("could not init token verification:", err)
	}

	os.Exit(m.Run())
}

// buildTestApp wires the same routes the server exposes.
func buildTestApp() *fiber.App {
	app := fiber.New()

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/webhook", HandleIdentityWebhook)

	properties := api.Group("/properties")
	properties.Get("/", ListProperties)
	properties.Get("/search", SearchProperties)
	properties.Get("/:id", middleware.OptionalAuth(), GetProperty)
	properties.Post("/:id/leads", middleware.OptionalAuth(), CreateLead)
	properties.Post("/", middleware.AuthMiddleware(), CreateProperty)
	properties.Put("/:id", middleware.AuthMiddleware(), UpdateProperty)
	properties.Delete("/:id", middleware.AuthMiddleware(), DeleteProperty)
	properties.Patch("/:id/toggle", middleware.AuthMiddleware(), ToggleProperty)
	properties.Post("/:id/visits", middleware.AuthMiddleware(), ScheduleVisit)

	users := api.Group("/users", middleware.AuthMiddleware())
	users.Get("/me", GetMe)
	users.Put("/me", UpdateMe)
	users.Delete("/me", DeleteMe)
	users.Get("/:userId", GetUserByID)
	users.Get("/:userId/properties", GetUserProperties)
	users.Get("/:userId/wishlist", GetUserWishlist)
	users.Get("/:userId/visits", GetUserVisits)
	users.Get("/:userId/leads", GetUserLeads)

	wishlist := api.Group("/wishlist", middleware.AuthMiddleware())
	wishlist.Post("/", AddToWishlist)
	wishlist.Delete("/:propertyId", RemoveFromWishlist)

	leads := api.Group("/leads", middleware.AuthMiddleware())
	leads.Get("/", GetMyLeads)
	leads.Put("/:id/read", MarkLeadAsRead)

	dashboard := api.Group("/dashboard", middleware.AuthMiddleware())
	dashboard.Get("/stats", GetDashboardStats)

	return app
}

func resetTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{
		"identity_events", "property_stats", "property_views", "leads",
		"visit_schedules", "wishlists", "property_images", "properties", "users",
	} {
		if err := database.GetDB().Exec("DELETE FROM " + table).Error; err != nil {
			t.Fatalf("could not reset %s: %v", table, err)
		}
	}
}

func signTestToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(testPrivateKey)
	if err != nil {
		t.Fatalf("could not sign test token: %v", err)
	}
	return signed
}

func jsonRequest(t *testing.T, method, target, bearer string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("could not marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("could not read response body: %v", err)
	}
	resp.Body.Close()
	return resp, body
}

func seedUser(t *testing.T, id string, role model.Role) model.User {
	t.Helper()
	user := model.User{
		ID:       id,
		Email:    id + "@example.com",
		Phone:    "+911234567890",
		FullName: "Test " + id,
		Role:     role,
	}
	if err := database.GetDB().Create(&user).Error; err != nil {
		t.Fatalf("could not seed user %s: %v", id, err)
	}
	return user
}

func seedProperty(t *testing.T, landlordID string, mutate func(*model.Property)) model.Property {
	t.Helper()
	property := model.Property{
		Title:        "Test listing",
		BHK:          model.BHK2,
		Furnishing:   model.FurnishingSemi,
		TenantType:   model.TenantTypeFamily,
		Rent:         20000,
		AddressLine1: "12 Test Lane",
		City:         "New Delhi",
		State:        "Delhi",
		Pincode:      "110001",
		IsActive:     true,
		LandlordID:   landlordID,
	}
	if mutate != nil {
		mutate(&property)
	}
	if err := database.GetDB().Create(&property).Error; err != nil {
		t.Fatalf("could not seed property: %v", err)
	}
	return property
}

type searchEnvelope struct {
	Data       []model.Property `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int64            `json:"totalPages"`
}

func decodeEnvelope(t *testing.T, body []byte) searchEnvelope {
	t.Helper()
	var env searchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("could not decode search envelope: %v", err)
	}
	return env
}

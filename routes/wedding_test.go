package routes

import (
	"fmt"
	"testing"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12/httptest"
)

func TestCreateWedding(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	owner := createTestUser(t, "Owner", "owner@venue.test", models.RoleSuperAdmin)
	ownerCookie := sessionFor(t, owner)

	body := map[string]interface{}{"name": "Alice & Bob", "subdomain": "alice-and-bob"}

	e.POST("/api/wedding").WithJSON(body).
		Expect().Status(httptest.StatusUnauthorized)

	guest := createTestUser(t, "G", "g@w.test", models.RoleGuest)
	e.POST("/api/wedding").
		WithCookie(utils.SessionCookieName, sessionFor(t, guest)).
		WithJSON(body).
		Expect().Status(httptest.StatusForbidden)

	e.POST("/api/wedding").
		WithCookie(utils.SessionCookieName, ownerCookie).
		WithJSON(body).
		Expect().Status(httptest.StatusCreated)

	var wedding models.Wedding
	if err := storage.DB.Where("subdomain = ?", "alice-and-bob").First(&wedding).Error; err != nil {
		t.Fatalf("created wedding missing: %v", err)
	}
	if wedding.SuperAdminID != owner.ID {
		t.Errorf("wedding owner = %d, want %d", wedding.SuperAdminID, owner.ID)
	}
	if wedding.Code == "" {
		t.Error("wedding code not generated")
	}

	// The owner is a member of their own wedding from the start.
	var members int64
	storage.DB.Model(&models.WeddingMember{}).
		Where("wedding_id = ? AND user_id = ?", wedding.ID, owner.ID).Count(&members)
	if members != 1 {
		t.Errorf("owner membership rows = %d, want 1", members)
	}

	// Same subdomain again, case-folded, conflicts with the active wedding.
	e.POST("/api/wedding").
		WithCookie(utils.SessionCookieName, ownerCookie).
		WithJSON(map[string]interface{}{"name": "Copycat", "subdomain": "Alice-And-Bob"}).
		Expect().Status(httptest.StatusConflict)
}

func TestCreateWeddingInactiveSubdomainConflict(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	owner := createTestUser(t, "Owner", "owner@venue.test", models.RoleSuperAdmin)
	cookie := sessionFor(t, owner)
	body := map[string]interface{}{"name": "First", "subdomain": "taken-name"}

	e.POST("/api/wedding").
		WithCookie(utils.SessionCookieName, cookie).
		WithJSON(body).
		Expect().Status(httptest.StatusCreated)

	// A deactivated wedding slips past the active-only pre-check but still
	// holds the unique index; the insert must surface as a conflict, not a
	// server error.
	storage.DB.Model(&models.Wedding{}).Where("subdomain = ?", "taken-name").Update("is_active", false)

	e.POST("/api/wedding").
		WithCookie(utils.SessionCookieName, cookie).
		WithJSON(body).
		Expect().Status(httptest.StatusConflict)
}

func TestCreateWeddingSubdomainValidation(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	owner := createTestUser(t, "Owner", "owner@venue.test", models.RoleSuperAdmin)
	cookie := sessionFor(t, owner)

	for _, subdomain := range []string{"ab", "admin", "Bad_Name", "-alice", "alice-"} {
		e.POST("/api/wedding").
			WithCookie(utils.SessionCookieName, cookie).
			WithJSON(map[string]interface{}{"name": "W", "subdomain": subdomain}).
			Expect().Status(httptest.StatusBadRequest)
	}

	var count int64
	storage.DB.Model(&models.Wedding{}).Count(&count)
	if count != 0 {
		t.Errorf("invalid subdomains created %d weddings", count)
	}
}

func TestWeddingAdminManagement(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	owner := createTestUser(t, "Owner", "owner@venue.test", models.RoleSuperAdmin)
	helper := createTestUser(t, "Helper", "helper@w.test", models.RoleGuest)
	outsider := createTestUser(t, "Out", "out@w.test", models.RoleGuest)
	wedding := createTestWedding(t, owner, "smith2026")
	addTestMember(t, wedding, helper)

	ownerCookie := sessionFor(t, owner)
	adminsPath := fmt.Sprintf("/api/wedding/%d/admins", wedding.ID)

	// Only the owner manages the admin set.
	e.POST(adminsPath).
		WithCookie(utils.SessionCookieName, sessionFor(t, helper)).
		WithJSON(map[string]interface{}{"userID": helper.ID}).
		Expect().Status(httptest.StatusForbidden)

	// Non-members cannot be promoted.
	e.POST(adminsPath).
		WithCookie(utils.SessionCookieName, ownerCookie).
		WithJSON(map[string]interface{}{"userID": outsider.ID}).
		Expect().Status(httptest.StatusNotFound)

	e.POST(adminsPath).
		WithCookie(utils.SessionCookieName, ownerCookie).
		WithJSON(map[string]interface{}{"userID": helper.ID}).
		Expect().Status(httptest.StatusOK)

	var reloaded models.Wedding
	storage.DB.First(&reloaded, wedding.ID)
	if !reloaded.IsAdministeredBy(helper.ID) {
		t.Error("helper not in admin set after promotion")
	}

	var helperRow models.User
	storage.DB.First(&helperRow, helper.ID)
	if helperRow.Role != models.RoleAdmin {
		t.Errorf("helper role = %q, want admin", helperRow.Role)
	}

	e.DELETE(fmt.Sprintf("%s/%d", adminsPath, helper.ID)).
		WithCookie(utils.SessionCookieName, ownerCookie).
		Expect().Status(httptest.StatusOK)

	storage.DB.First(&reloaded, wedding.ID)
	if reloaded.IsAdministeredBy(helper.ID) {
		t.Error("helper still in admin set after removal")
	}
}

func TestTenantLookup(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	owner := createTestUser(t, "Owner", "owner@venue.test", models.RoleSuperAdmin)
	wedding := createTestWedding(t, owner, "our-big-day")

	e.GET("/api/wedding/by-subdomain/our-big-day").Expect().Status(httptest.StatusOK)
	e.GET("/api/wedding/by-code/" + wedding.Code).Expect().Status(httptest.StatusOK)
	e.GET("/w/our-big-day").Expect().Status(httptest.StatusOK)

	e.GET("/api/wedding/by-subdomain/no-such-tenant").Expect().Status(httptest.StatusNotFound)
	e.GET("/w/no-such-tenant").Expect().Status(httptest.StatusNotFound)

	// Deactivated weddings disappear from public lookup.
	storage.DB.Model(&models.Wedding{}).Where("id = ?", wedding.ID).Update("is_active", false)
	e.GET("/api/wedding/by-subdomain/our-big-day").Expect().Status(httptest.StatusNotFound)
}

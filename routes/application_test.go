package routes

import (
	"fmt"
	"testing"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12/httptest"
)

func TestApplicationReviewFlow(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	reviewer := createTestUser(t, "Platform Ops", "ops@platform.test", models.RoleApplicationAdmin)
	reviewerCookie := sessionFor(t, reviewer)

	e.POST("/api/applications").WithJSON(map[string]interface{}{
		"business_name":  "Acme Venue",
		"contact_person": "Jo",
		"email":          "Jo@acme.test",
	}).Expect().Status(httptest.StatusCreated)

	// A second application for the same email stays blocked while the first
	// one is pending.
	e.POST("/api/applications").WithJSON(map[string]interface{}{
		"business_name":  "Acme Venue Again",
		"contact_person": "Jo",
		"email":          "jo@acme.test",
	}).Expect().Status(httptest.StatusConflict)

	var app models.SuperAdminApplication
	if err := storage.DB.Where("email = ?", "jo@acme.test").First(&app).Error; err != nil {
		t.Fatalf("load submitted application: %v", err)
	}
	if app.Status != models.ApplicationPending {
		t.Fatalf("submitted application status = %q, want pending", app.Status)
	}

	// Reviewing is gated: no cookie is 401, a non-reviewer role is 403.
	reviewPath := fmt.Sprintf("/api/applications/%d/review", app.ID)
	e.GET("/api/applications").Expect().Status(httptest.StatusUnauthorized)

	guest := createTestUser(t, "G", "g@w.test", models.RoleGuest)
	e.GET("/api/applications").
		WithCookie(utils.SessionCookieName, sessionFor(t, guest)).
		Expect().Status(httptest.StatusForbidden)
	e.POST(reviewPath).
		WithCookie(utils.SessionCookieName, sessionFor(t, guest)).
		WithJSON(map[string]interface{}{"status": "approved"}).
		Expect().Status(httptest.StatusForbidden)

	e.GET("/api/applications").WithQuery("status", "pending").
		WithCookie(utils.SessionCookieName, reviewerCookie).
		Expect().Status(httptest.StatusOK)

	e.POST(reviewPath).
		WithCookie(utils.SessionCookieName, reviewerCookie).
		WithJSON(map[string]interface{}{"status": "bogus"}).
		Expect().Status(httptest.StatusBadRequest)

	e.POST(reviewPath).
		WithCookie(utils.SessionCookieName, reviewerCookie).
		WithJSON(map[string]interface{}{"status": "approved", "payment_verified": true}).
		Expect().Status(httptest.StatusOK)

	if err := storage.DB.First(&app, app.ID).Error; err != nil {
		t.Fatalf("reload application: %v", err)
	}
	if app.Status != models.ApplicationApproved {
		t.Errorf("application status = %q, want approved", app.Status)
	}
	if !app.PaymentVerified {
		t.Error("payment_verified not recorded")
	}
	if app.ReviewedBy == nil || *app.ReviewedBy != reviewer.ID {
		t.Errorf("reviewed_by = %v, want %d", app.ReviewedBy, reviewer.ID)
	}

	// Approval provisions the applicant as a super_admin with an active plan.
	var promoted models.User
	if err := storage.DB.Where("email = ?", "jo@acme.test").First(&promoted).Error; err != nil {
		t.Fatalf("promoted user missing: %v", err)
	}
	if promoted.Role != models.RoleSuperAdmin {
		t.Errorf("promoted role = %q, want super_admin", promoted.Role)
	}
	if promoted.SubscriptionStatus != "active" {
		t.Errorf("subscription status = %q, want active", promoted.SubscriptionStatus)
	}

	// The transition happened; a second review of any kind conflicts.
	e.POST(reviewPath).
		WithCookie(utils.SessionCookieName, reviewerCookie).
		WithJSON(map[string]interface{}{"status": "rejected"}).
		Expect().Status(httptest.StatusConflict)
}

func TestReviewPromotesExistingUserInPlace(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	reviewer := createTestUser(t, "Ops", "ops@platform.test", models.RoleApplicationAdmin)
	existing := createTestUser(t, "Sam", "sam@venue.test", models.RoleGuest)

	e.POST("/api/applications").WithJSON(map[string]interface{}{
		"business_name":  "Sam Weddings",
		"contact_person": "Sam",
		"email":          "sam@venue.test",
		"plan":           "premium",
	}).Expect().Status(httptest.StatusCreated)

	var app models.SuperAdminApplication
	storage.DB.Where("email = ?", "sam@venue.test").First(&app)

	e.POST(fmt.Sprintf("/api/applications/%d/review", app.ID)).
		WithCookie(utils.SessionCookieName, sessionFor(t, reviewer)).
		WithJSON(map[string]interface{}{"status": "approved", "payment_verified": true}).
		Expect().Status(httptest.StatusOK)

	var reloaded models.User
	if err := storage.DB.First(&reloaded, existing.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if reloaded.Role != models.RoleSuperAdmin {
		t.Errorf("existing user role = %q, want super_admin", reloaded.Role)
	}
	if reloaded.SubscriptionPlan != "premium" {
		t.Errorf("subscription plan = %q, want premium", reloaded.SubscriptionPlan)
	}

	var users int64
	storage.DB.Model(&models.User{}).Where("email = ?", "sam@venue.test").Count(&users)
	if users != 1 {
		t.Errorf("user rows for applicant = %d, want 1 (promoted in place)", users)
	}
}

func TestReviewKeepsHigherRoles(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	reviewer := createTestUser(t, "Ops", "ops@platform.test", models.RoleApplicationAdmin)
	colleague := createTestUser(t, "Col", "col@platform.test", models.RoleApplicationAdmin)

	e.POST("/api/applications").WithJSON(map[string]interface{}{
		"business_name":  "Side Venture",
		"contact_person": "Col",
		"email":          "col@platform.test",
	}).Expect().Status(httptest.StatusCreated)

	var app models.SuperAdminApplication
	storage.DB.Where("email = ?", "col@platform.test").First(&app)

	e.POST(fmt.Sprintf("/api/applications/%d/review", app.ID)).
		WithCookie(utils.SessionCookieName, sessionFor(t, reviewer)).
		WithJSON(map[string]interface{}{"status": "approved", "payment_verified": true}).
		Expect().Status(httptest.StatusOK)

	// The applicant keeps their platform tier; approval only activates the
	// subscription, it never rewrites application_admin to super_admin.
	var reloaded models.User
	storage.DB.First(&reloaded, colleague.ID)
	if reloaded.Role != models.RoleApplicationAdmin {
		t.Errorf("role = %q, want application_admin preserved", reloaded.Role)
	}
	if reloaded.SubscriptionStatus != "active" {
		t.Errorf("subscription status = %q, want active", reloaded.SubscriptionStatus)
	}
}

func TestRejectedApplicationCreatesNoUser(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	reviewer := createTestUser(t, "Ops", "ops@platform.test", models.RoleApplicationAdmin)

	e.POST("/api/applications").WithJSON(map[string]interface{}{
		"business_name":  "No Deal",
		"contact_person": "Nat",
		"email":          "nat@nodeal.test",
	}).Expect().Status(httptest.StatusCreated)

	var app models.SuperAdminApplication
	storage.DB.Where("email = ?", "nat@nodeal.test").First(&app)

	e.POST(fmt.Sprintf("/api/applications/%d/review", app.ID)).
		WithCookie(utils.SessionCookieName, sessionFor(t, reviewer)).
		WithJSON(map[string]interface{}{"status": "rejected", "notes": "incomplete details"}).
		Expect().Status(httptest.StatusOK)

	var users int64
	storage.DB.Model(&models.User{}).Where("email = ?", "nat@nodeal.test").Count(&users)
	if users != 0 {
		t.Errorf("rejected applicant got a user row")
	}

	// A fresh application for the same email is allowed once the first one
	// is no longer pending.
	e.POST("/api/applications").WithJSON(map[string]interface{}{
		"business_name":  "Second Try",
		"contact_person": "Nat",
		"email":          "nat@nodeal.test",
	}).Expect().Status(httptest.StatusCreated)
}

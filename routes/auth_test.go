package routes

import (
	"testing"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12/httptest"
)

func TestSignupAndLocalLogin(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	e.POST("/api/auth/signup").WithJSON(map[string]interface{}{
		"name":     "Pat",
		"email":    "Pat@example.test",
		"password": "correct-horse-battery",
	}).Expect().Status(httptest.StatusCreated)

	// Emails are stored lowercased and stay unique.
	var user models.User
	if err := storage.DB.Where("email = ?", "pat@example.test").First(&user).Error; err != nil {
		t.Fatalf("signed-up user missing: %v", err)
	}
	if user.Role != models.RoleGuest {
		t.Errorf("new user role = %q, want guest", user.Role)
	}
	if user.PasswordHash == "" {
		t.Error("local account has no password hash")
	}
	if user.PasswordHash == "correct-horse-battery" {
		t.Error("password stored in the clear")
	}

	e.POST("/api/auth/signup").WithJSON(map[string]interface{}{
		"name":     "Pat Again",
		"email":    "pat@example.test",
		"password": "another-password",
	}).Expect().Status(httptest.StatusConflict)

	e.POST("/api/auth/login").WithJSON(map[string]interface{}{
		"email":    "pat@example.test",
		"password": "wrong-password",
	}).Expect().Status(httptest.StatusUnauthorized)

	login := e.POST("/api/auth/login").WithJSON(map[string]interface{}{
		"email":    "pat@example.test",
		"password": "correct-horse-battery",
	}).Expect().Status(httptest.StatusOK)

	cookie := login.Cookie(utils.SessionCookieName).Value().Raw()
	if cookie == "" {
		t.Fatal("login did not set a session cookie")
	}

	e.GET("/api/auth/session").
		WithCookie(utils.SessionCookieName, cookie).
		Expect().Status(httptest.StatusOK)
}

func TestLoginRejectsDeactivatedUser(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	e.POST("/api/auth/signup").WithJSON(map[string]interface{}{
		"name":     "Gone",
		"email":    "gone@example.test",
		"password": "some-password-123",
	}).Expect().Status(httptest.StatusCreated)

	storage.DB.Model(&models.User{}).Where("email = ?", "gone@example.test").Update("is_active", false)

	e.POST("/api/auth/login").WithJSON(map[string]interface{}{
		"email":    "gone@example.test",
		"password": "some-password-123",
	}).Expect().Status(httptest.StatusUnauthorized)
}

func TestSessionEndpoint(t *testing.T) {
	setupTestDB(t)
	e := httptest.New(t, newTestApp())

	e.GET("/api/auth/session").Expect().Status(httptest.StatusUnauthorized)

	user := createTestUser(t, "S", "s@w.test", models.RoleAdmin)
	e.GET("/api/auth/session").
		WithCookie(utils.SessionCookieName, sessionFor(t, user)).
		Expect().Status(httptest.StatusOK)

	e.GET("/api/auth/session").
		WithCookie(utils.SessionCookieName, "v1.garbage").
		Expect().Status(httptest.StatusUnauthorized)
}

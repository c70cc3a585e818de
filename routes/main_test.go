package routes

import (
	"fmt"
	"testing"
	"time"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// setupTestDB points the storage globals at a fresh in-memory database with
// the identity provider and redis disabled, so sessions resolve through the
// inline path only.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:routes%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	storage.DB = db
	storage.PerformMigrations(db)
	storage.Identity = storage.NewIdentityClient("", "")
	storage.Redis = nil
}

// newTestApp wires the same route surface main() does.
func newTestApp() *iris.Application {
	app := iris.New()
	app.Validator = validator.New()

	auth := app.Party("/api/auth")
	{
		auth.Post("/signup", Signup)
		auth.Post("/login", Login)
		auth.Post("/logout", Logout)
		auth.Get("/session", GetSession)
	}

	applications := app.Party("/api/applications")
	{
		applications.Post("/", SubmitApplication)
		applications.Get("/", utils.RequireRoles(models.RoleApplicationAdmin), ListApplications)
		applications.Post("/{id:uint}/review", utils.RequireRoles(models.RoleApplicationAdmin), ReviewApplication)
	}

	wedding := app.Party("/api/wedding")
	{
		wedding.Post("/", utils.RequireRoles(models.RoleSuperAdmin), CreateWedding)
		wedding.Get("/mine", utils.RequireSession, ListMyWeddings)
		wedding.Get("/by-subdomain/{subdomain}", GetWeddingBySubdomain)
		wedding.Get("/by-code/{code}", GetWeddingByCode)

		wedding.Patch("/{id:uint}", utils.RequireSession, UpdateWedding)
		wedding.Post("/{id:uint}/admins", utils.RequireSession, AddWeddingAdmin)
		wedding.Delete("/{id:uint}/admins/{userID:uint}", utils.RequireSession, RemoveWeddingAdmin)

		wedding.Post("/{id:uint}/media", utils.RequireSession, UploadMedia)
		wedding.Get("/{id:uint}/media", utils.RequireSession, ListWeddingMedia)

		wedding.Post("/{id:uint}/invites", utils.RequireSession, CreateInviteLink)
		wedding.Get("/{id:uint}/invites", utils.RequireSession, ListInviteLinks)

		wedding.Post("/{id:uint}/questions", utils.RequireSession, CreateQuestion)
		wedding.Get("/{id:uint}/questions", utils.RequireSession, ListQuestions)
		wedding.Post("/{id:uint}/questions/{questionID:uint}/deactivate", utils.RequireSession, DeactivateQuestion)
		wedding.Post("/{id:uint}/questions/{questionID:uint}/answers", utils.RequireSession, SubmitAnswer)
		wedding.Get("/{id:uint}/questions/{questionID:uint}/answers", utils.RequireSession, ListAnswers)

		wedding.Post("/{id:uint}/events", utils.RequireSession, CreateEvent)
		wedding.Get("/{id:uint}/events", utils.RequireSession, ListEvents)
		wedding.Delete("/{id:uint}/events/{eventID:uint}", utils.RequireSession, DeleteEvent)
	}

	media := app.Party("/api/media")
	{
		media.Post("/{id:uint}/approve", utils.RequireSession, ApproveMedia)
		media.Post("/{id:uint}/reject", utils.RequireSession, RejectMedia)
		media.Delete("/{id:uint}", utils.RequireSession, DeleteMedia)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Get("/", utils.RequireSession, ListNotifications)
		notifications.Post("/{id:uint}/read", utils.RequireSession, MarkNotificationRead)
	}

	admin := app.Party("/api/admin", utils.RequireRoles(models.RoleApplicationAdmin))
	{
		admin.Get("/users", AdminListUsers)
		admin.Patch("/users/{id:uint}/role", AdminChangeUserRole)
		admin.Get("/weddings", AdminListWeddings)
		admin.Get("/stats", AdminStats)
		admin.Get("/activity", AdminActivity)
	}

	app.Post("/api/join/{token}", JoinWedding)
	app.Get("/w/{subdomain}", TenantHome)

	return app
}

func createTestUser(t *testing.T, name, email, role string) models.User {
	t.Helper()
	user := models.User{Name: name, Email: email, Role: role}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}

func sessionFor(t *testing.T, user models.User) string {
	t.Helper()
	raw, err := utils.EncodeInlineSession(&utils.Identity{
		ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role,
	})
	if err != nil {
		t.Fatalf("encode session: %v", err)
	}
	return raw
}

func createTestWedding(t *testing.T, owner models.User, subdomain string) models.Wedding {
	t.Helper()
	wedding := models.Wedding{
		Name:         subdomain,
		Subdomain:    subdomain,
		Code:         utils.GenerateShortToken(4),
		IsActive:     true,
		SuperAdminID: owner.ID,
		AdminIDs:     []byte("[]"),
	}
	if err := storage.DB.Create(&wedding).Error; err != nil {
		t.Fatalf("create wedding %s: %v", subdomain, err)
	}
	member := models.WeddingMember{WeddingID: wedding.ID, UserID: owner.ID}
	if err := storage.DB.Create(&member).Error; err != nil {
		t.Fatalf("create owner membership: %v", err)
	}
	return wedding
}

func addTestMember(t *testing.T, wedding models.Wedding, user models.User) {
	t.Helper()
	member := models.WeddingMember{WeddingID: wedding.ID, UserID: user.ID}
	if err := storage.DB.Create(&member).Error; err != nil {
		t.Fatalf("create membership: %v", err)
	}
}

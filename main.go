package main

import (
	"log"
	"os"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/routes"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
)

func main() {
	// Only load .env in development
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	// Initialize services
	storage.InitializeDB()
	storage.InitializeRedis()
	storage.InitializeIdentity()
	storage.InitializeMediaStorage()

	app := iris.New()
	app.Validator = validator.New()

	// Subdomain hosts get their path rewritten onto the tenant routes
	// before the router runs.
	app.WrapRouter(utils.RewriteTenantHost)

	// CORS configuration
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	auth := app.Party("/api/auth")
	{
		auth.Post("/signup", routes.Signup)
		auth.Post("/login", routes.Login)
		auth.Post("/logout", routes.Logout)
		auth.Get("/session", routes.GetSession)
	}

	applications := app.Party("/api/applications")
	{
		applications.Post("/", routes.SubmitApplication)
		applications.Get("/", utils.RequireRoles(models.RoleApplicationAdmin), routes.ListApplications)
		applications.Post("/{id:uint}/review", utils.RequireRoles(models.RoleApplicationAdmin), routes.ReviewApplication)
	}

	wedding := app.Party("/api/wedding")
	{
		wedding.Post("/", utils.RequireRoles(models.RoleSuperAdmin), routes.CreateWedding)
		wedding.Get("/mine", utils.RequireSession, routes.ListMyWeddings)
		wedding.Get("/by-subdomain/{subdomain}", routes.GetWeddingBySubdomain)
		wedding.Get("/by-code/{code}", routes.GetWeddingByCode)

		wedding.Patch("/{id:uint}", utils.RequireSession, routes.UpdateWedding)
		wedding.Post("/{id:uint}/admins", utils.RequireSession, routes.AddWeddingAdmin)
		wedding.Delete("/{id:uint}/admins/{userID:uint}", utils.RequireSession, routes.RemoveWeddingAdmin)

		wedding.Post("/{id:uint}/media", utils.RequireSession, routes.UploadMedia)
		wedding.Get("/{id:uint}/media", utils.RequireSession, routes.ListWeddingMedia)

		wedding.Post("/{id:uint}/invites", utils.RequireSession, routes.CreateInviteLink)
		wedding.Get("/{id:uint}/invites", utils.RequireSession, routes.ListInviteLinks)

		wedding.Post("/{id:uint}/questions", utils.RequireSession, routes.CreateQuestion)
		wedding.Get("/{id:uint}/questions", utils.RequireSession, routes.ListQuestions)
		wedding.Post("/{id:uint}/questions/{questionID:uint}/deactivate", utils.RequireSession, routes.DeactivateQuestion)
		wedding.Post("/{id:uint}/questions/{questionID:uint}/answers", utils.RequireSession, routes.SubmitAnswer)
		wedding.Get("/{id:uint}/questions/{questionID:uint}/answers", utils.RequireSession, routes.ListAnswers)

		wedding.Post("/{id:uint}/events", utils.RequireSession, routes.CreateEvent)
		wedding.Get("/{id:uint}/events", utils.RequireSession, routes.ListEvents)
		wedding.Delete("/{id:uint}/events/{eventID:uint}", utils.RequireSession, routes.DeleteEvent)
	}

	media := app.Party("/api/media")
	{
		media.Post("/{id:uint}/approve", utils.RequireSession, routes.ApproveMedia)
		media.Post("/{id:uint}/reject", utils.RequireSession, routes.RejectMedia)
		media.Delete("/{id:uint}", utils.RequireSession, routes.DeleteMedia)
	}

	notifications := app.Party("/api/notifications")
	{
		notifications.Get("/", utils.RequireSession, routes.ListNotifications)
		notifications.Post("/{id:uint}/read", utils.RequireSession, routes.MarkNotificationRead)
	}

	// Platform admin routes, application_admin tier only
	admin := app.Party("/api/admin", utils.RequireRoles(models.RoleApplicationAdmin))
	{
		admin.Get("/users", routes.AdminListUsers)
		admin.Patch("/users/{id:uint}/role", routes.AdminChangeUserRole)
		admin.Get("/weddings", routes.AdminListWeddings)
		admin.Get("/stats", routes.AdminStats)
		admin.Get("/activity", routes.AdminActivity)
	}

	// Guest join via invite link
	app.Post("/api/join/{token}", routes.JoinWedding)

	// Tenant landing, reached directly or via subdomain rewrite
	app.Get("/w/{subdomain}", routes.TenantHome)

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	addr := ":" + port

	log.Println("Starting server on", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

package routes

import (
	"log"
	"strings"
	"time"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/services"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12"
)

// SubmitApplication files a request to become a tenant owner. Public, no
// session needed: applicants usually do not have an account yet.
func SubmitApplication(ctx iris.Context) {
	var input SubmitApplicationInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	email := strings.ToLower(input.Email)

	var pending int64
	storage.DB.Model(&models.SuperAdminApplication{}).
		Where("email = ? AND status = ?", email, models.ApplicationPending).
		Count(&pending)
	if pending > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "An application for this email is already pending.", ctx)
		return
	}

	app := models.SuperAdminApplication{
		BusinessName:  input.BusinessName,
		ContactPerson: input.ContactPerson,
		Email:         email,
		Phone:         input.Phone,
		Plan:          input.Plan,
		Message:       input.Message,
		Status:        models.ApplicationPending,
	}
	if app.Plan == "" {
		app.Plan = "basic"
	}

	if err := storage.DB.Create(&app).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "application": app})
}

// ListApplications - GET /api/applications?status=&page=&per_page=
func ListApplications(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.SuperAdminApplication{})
	if status := strings.TrimSpace(ctx.URLParamDefault("status", "")); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var apps []models.SuperAdminApplication
	if err := query.Order("created_at desc").Offset((page - 1) * perPage).Limit(perPage).Find(&apps).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, apps, page, perPage, total)
}

// ReviewApplication moves a pending application to its terminal state.
// The guarded update makes the transition happen exactly once even under
// concurrent reviews; approval promotes (or creates) the applicant's user
// row to super_admin.
func ReviewApplication(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid application id", ctx)
		return
	}

	var input ReviewApplicationInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if input.Status != models.ApplicationApproved && input.Status != models.ApplicationRejected {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "status must be approved or rejected", ctx)
		return
	}

	var app models.SuperAdminApplication
	result := storage.DB.Limit(1).Find(&app, id)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	if app.Status != models.ApplicationPending {
		utils.CreateError(iris.StatusConflict, "Conflict", "Application is no longer pending.", ctx)
		return
	}

	ident := utils.CurrentIdentity(ctx)
	before := app
	now := time.Now()

	update := storage.DB.Model(&models.SuperAdminApplication{}).
		Where("id = ? AND status = ?", app.ID, models.ApplicationPending).
		Updates(map[string]interface{}{
			"status":           input.Status,
			"payment_verified": input.PaymentVerified,
			"reviewed_by":      ident.ID,
			"reviewed_at":      now,
			"review_notes":     input.Notes,
		})
	if update.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if update.RowsAffected == 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "Application is no longer pending.", ctx)
		return
	}

	app.Status = input.Status
	app.PaymentVerified = input.PaymentVerified
	app.ReviewedBy = &ident.ID
	app.ReviewedAt = &now
	app.ReviewNotes = input.Notes

	if input.Status == models.ApplicationApproved {
		if err := promoteApplicant(&app); err != nil {
			log.Printf("applicant promotion failed for application %d: %v", app.ID, err)
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	services.NewNotificationService().NotifyApplicationReviewed(&app)
	utils.Audit(ctx, "application.review", "super_admin_application", app.ID, before, app)

	ctx.JSON(iris.Map{"success": true, "application": app})
}

// promoteApplicant makes sure a super_admin user row exists for the
// application email. Existing users are promoted in place; new applicants
// get a provider account plus local row, compensated on partial failure.
func promoteApplicant(app *models.SuperAdminApplication) error {
	var user models.User
	userExists, err := getAndHandleUserExists(&user, app.Email)
	if err != nil {
		return err
	}

	if userExists {
		// Promotion never moves a role sideways or down: an
		// application_admin who applies keeps their platform tier.
		if user.Role == models.RoleGuest || user.Role == models.RoleAdmin {
			user.Role = models.RoleSuperAdmin
		}
		user.SubscriptionPlan = app.Plan
		user.SubscriptionStatus = "active"
		return storage.DB.Save(&user).Error
	}

	newUser := models.User{
		Name:               app.ContactPerson,
		Email:              app.Email,
		Role:               models.RoleSuperAdmin,
		SubscriptionPlan:   app.Plan,
		SubscriptionStatus: "active",
	}

	if storage.Identity.Enabled() {
		providerUser, providerErr := storage.Identity.CreateUser(app.Email, utils.GenerateShortToken(16), app.ContactPerson)
		if providerErr != nil {
			return providerErr
		}
		newUser.AuthID = providerUser.ID

		if createErr := storage.DB.Create(&newUser).Error; createErr != nil {
			if delErr := storage.Identity.DeleteUser(providerUser.ID); delErr != nil {
				log.Printf("compensating provider delete failed for %s: %v", providerUser.ID, delErr)
			}
			return createErr
		}
		return nil
	}

	return storage.DB.Create(&newUser).Error
}

type SubmitApplicationInput struct {
	BusinessName  string `json:"business_name" validate:"required,max=256"`
	ContactPerson string `json:"contact_person" validate:"required,max=256"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"max=32"`
	Plan          string `json:"plan"`
	Message       string `json:"message" validate:"max=2048"`
}

type ReviewApplicationInput struct {
	Status          string `json:"status" validate:"required"`
	PaymentVerified bool   `json:"payment_verified"`
	Notes           string `json:"notes" validate:"max=2048"`
}

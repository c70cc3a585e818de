package routes

import (
	"strings"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12"
)

// AdminListUsers - GET /api/admin/users?role=&q=&page=&per_page=
func AdminListUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	var users []models.User
	q := strings.TrimSpace(ctx.URLParamDefault("q", ""))
	role := strings.TrimSpace(ctx.URLParamDefault("role", ""))

	query := storage.DB.Model(&models.User{})
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(email) LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)
	query = query.Offset((page - 1) * perPage).Limit(perPage)
	if err := query.Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, users, page, perPage, total)
}

// AdminChangeUserRole - PATCH /api/admin/users/{id}/role
func AdminChangeUserRole(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid user id", ctx)
		return
	}

	var body ChangeRoleInput
	if err := ctx.ReadJSON(&body); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	switch body.Role {
	case models.RoleGuest, models.RoleAdmin, models.RoleSuperAdmin, models.RoleApplicationAdmin:
	default:
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "unknown role", ctx)
		return
	}

	var user models.User
	result := storage.DB.Limit(1).Find(&user, id)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	before := user
	user.Role = body.Role
	if err := storage.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "user.role_update", "user", user.ID, before, user)
	ctx.JSON(iris.Map{"success": true, "user": user})
}

// AdminListWeddings - GET /api/admin/weddings
func AdminListWeddings(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 25)
	if perPage <= 0 || perPage > 100 {
		perPage = 25
	}

	query := storage.DB.Model(&models.Wedding{})
	if q := strings.TrimSpace(ctx.URLParamDefault("q", "")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("lower(name) LIKE ? OR lower(subdomain) LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	var weddings []models.Wedding
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&weddings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, weddings, page, perPage, total)
}

// AdminStats - GET /api/admin/stats
func AdminStats(ctx iris.Context) {
	var users, weddings, media, pendingMedia, pendingApplications int64

	storage.DB.Model(&models.User{}).Count(&users)
	storage.DB.Model(&models.Wedding{}).Where("is_active = ?", true).Count(&weddings)
	storage.DB.Model(&models.Media{}).Count(&media)
	storage.DB.Model(&models.Media{}).Where("is_approved = ?", false).Count(&pendingMedia)
	storage.DB.Model(&models.SuperAdminApplication{}).Where("status = ?", models.ApplicationPending).Count(&pendingApplications)

	ctx.JSON(iris.Map{
		"success": true,
		"stats": iris.Map{
			"users":                users,
			"active_weddings":      weddings,
			"media":                media,
			"pending_media":        pendingMedia,
			"pending_applications": pendingApplications,
		},
	})
}

// AdminActivity - GET /api/admin/activity returns recent audit rows.
func AdminActivity(ctx iris.Context) {
	limit := ctx.URLParamIntDefault("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var logs []models.AuditLog
	if err := storage.DB.Order("created_at desc").Limit(limit).Find(&logs).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "activity": logs})
}

type ChangeRoleInput struct {
	Role string `json:"role" validate:"required"`
}

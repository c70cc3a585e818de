package routes

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/services"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// CreateWedding provisions a tenant workspace. Only super_admins own
// weddings; the subdomain is validated here and its uniqueness enforced by
// the insert.
func CreateWedding(ctx iris.Context) {
	ident := utils.CurrentIdentity(ctx)

	var input CreateWeddingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	subdomain := strings.ToLower(strings.TrimSpace(input.Subdomain))
	if err := utils.ValidateSubdomain(subdomain); err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", err.Error(), ctx)
		return
	}

	var count int64
	storage.DB.Model(&models.Wedding{}).Where("subdomain = ? AND is_active = ?", subdomain, true).Count(&count)
	if count > 0 {
		utils.CreateError(iris.StatusConflict, "Conflict", "Subdomain is already taken.", ctx)
		return
	}

	wedding := models.Wedding{
		Name:         input.Name,
		Subdomain:    subdomain,
		Code:         utils.GenerateShortToken(4),
		Location:     input.Location,
		IsActive:     true,
		SuperAdminID: ident.ID,
		AdminIDs:     []byte("[]"),
	}
	if input.Date != "" {
		date, parseErr := time.Parse("2006-01-02", input.Date)
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "date must be YYYY-MM-DD", ctx)
			return
		}
		wedding.Date = &date
	}

	if err := storage.DB.Create(&wedding).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.CreateError(iris.StatusConflict, "Conflict", "Subdomain is already taken.", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	member := models.WeddingMember{WeddingID: wedding.ID, UserID: ident.ID}
	storage.DB.Create(&member)

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "wedding": wedding})
}

func GetWeddingBySubdomain(ctx iris.Context) {
	subdomain := strings.ToLower(ctx.Params().Get("subdomain"))
	findActiveWedding(ctx, "subdomain = ?", subdomain)
}

func GetWeddingByCode(ctx iris.Context) {
	code := ctx.Params().Get("code")
	findActiveWedding(ctx, "code = ?", code)
}

func findActiveWedding(ctx iris.Context, query string, arg interface{}) {
	var wedding models.Wedding
	result := storage.DB.Where(query, arg).Where("is_active = ?", true).Limit(1).Find(&wedding)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "wedding": publicWedding(&wedding)})
}

// TenantHome serves the tenant landing payload for subdomain-routed
// requests. Existence of the wedding is checked here, not by the host
// rewrite.
func TenantHome(ctx iris.Context) {
	subdomain := strings.ToLower(ctx.Params().Get("subdomain"))

	var wedding models.Wedding
	result := storage.DB.Where("subdomain = ? AND is_active = ?", subdomain, true).Limit(1).Find(&wedding)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var events []models.Event
	storage.DB.Where("wedding_id = ?", wedding.ID).Order("starts_at asc").Find(&events)

	var approvedCount int64
	storage.DB.Model(&models.Media{}).Where("wedding_id = ? AND is_approved = ?", wedding.ID, true).Count(&approvedCount)

	ctx.JSON(iris.Map{
		"success":       true,
		"wedding":       publicWedding(&wedding),
		"events":        events,
		"approvedMedia": approvedCount,
	})
}

func UpdateWedding(ctx iris.Context) {
	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if wedding.SuperAdminID != ident.ID {
		utils.CreateForbidden(ctx)
		return
	}

	var input UpdateWeddingInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := *wedding
	if input.Name != "" {
		wedding.Name = input.Name
	}
	if input.Location != "" {
		wedding.Location = input.Location
	}
	if input.CoverImageURL != "" {
		wedding.CoverImageURL = input.CoverImageURL
	}
	if input.Date != "" {
		date, parseErr := time.Parse("2006-01-02", input.Date)
		if parseErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "date must be YYYY-MM-DD", ctx)
			return
		}
		wedding.Date = &date
	}
	if input.IsActive != nil {
		wedding.IsActive = *input.IsActive
	}

	if err := storage.DB.Save(wedding).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "wedding.update", "wedding", wedding.ID, before, wedding)
	ctx.JSON(iris.Map{"success": true, "wedding": wedding})
}

// AddWeddingAdmin promotes an existing member into the wedding admin set.
func AddWeddingAdmin(ctx iris.Context) {
	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if wedding.SuperAdminID != ident.ID {
		utils.CreateForbidden(ctx)
		return
	}

	var input WeddingAdminInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var member models.WeddingMember
	memberExists := storage.DB.Where("wedding_id = ? AND user_id = ?", wedding.ID, input.UserID).Limit(1).Find(&member)
	if memberExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if memberExists.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "User is not a member of this wedding.", ctx)
		return
	}

	before := *wedding
	ids := wedding.AdminIDList()
	if !slices.Contains(ids, input.UserID) {
		ids = append(ids, input.UserID)
	}
	marshalled, marshalErr := json.Marshal(ids)
	if marshalErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	wedding.AdminIDs = marshalled

	if err := storage.DB.Save(wedding).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// The member's platform role follows their strongest wedding role.
	storage.DB.Model(&models.User{}).
		Where("id = ? AND role = ?", input.UserID, models.RoleGuest).
		Update("role", models.RoleAdmin)

	services.NewNotificationService().NotifyAdminAdded(input.UserID, wedding)
	utils.Audit(ctx, "wedding.admin_add", "wedding", wedding.ID, before, wedding)

	ctx.JSON(iris.Map{"success": true, "admin_ids": ids})
}

func RemoveWeddingAdmin(ctx iris.Context) {
	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if wedding.SuperAdminID != ident.ID {
		utils.CreateForbidden(ctx)
		return
	}

	userID, err := ctx.Params().GetUint("userID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid user id", ctx)
		return
	}

	before := *wedding
	var remaining []uint
	for _, id := range wedding.AdminIDList() {
		if id != userID {
			remaining = append(remaining, id)
		}
	}
	if remaining == nil {
		remaining = []uint{}
	}
	marshalled, marshalErr := json.Marshal(remaining)
	if marshalErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	wedding.AdminIDs = marshalled

	if err := storage.DB.Save(wedding).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "wedding.admin_remove", "wedding", wedding.ID, before, wedding)
	ctx.JSON(iris.Map{"success": true, "admin_ids": remaining})
}

// ListMyWeddings returns every wedding the caller belongs to.
func ListMyWeddings(ctx iris.Context) {
	ident := utils.CurrentIdentity(ctx)

	var memberships []models.WeddingMember
	if err := storage.DB.Where("user_id = ?", ident.ID).Find(&memberships).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var weddingIDs []uint
	for _, m := range memberships {
		weddingIDs = append(weddingIDs, m.WeddingID)
	}

	weddings := []models.Wedding{}
	if len(weddingIDs) > 0 {
		if err := storage.DB.Where("id IN ?", weddingIDs).Find(&weddings).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(iris.Map{"success": true, "weddings": weddings})
}

// getWeddingByID loads the {id} route param or writes the error response and
// returns nil.
func getWeddingByID(ctx iris.Context) *models.Wedding {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid wedding id", ctx)
		return nil
	}

	var wedding models.Wedding
	result := storage.DB.Limit(1).Find(&wedding, id)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}
	return &wedding
}

// isWeddingMember covers owners, wedding admins and joined guests.
func isWeddingMember(userID uint, wedding *models.Wedding) bool {
	if wedding.IsAdministeredBy(userID) {
		return true
	}
	var count int64
	storage.DB.Model(&models.WeddingMember{}).
		Where("wedding_id = ? AND user_id = ?", wedding.ID, userID).Count(&count)
	return count > 0
}

func publicWedding(w *models.Wedding) iris.Map {
	return iris.Map{
		"id":              w.ID,
		"name":            w.Name,
		"subdomain":       w.Subdomain,
		"code":            w.Code,
		"date":            w.Date,
		"location":        w.Location,
		"cover_image_url": w.CoverImageURL,
	}
}

type CreateWeddingInput struct {
	Name      string `json:"name" validate:"required,max=256"`
	Subdomain string `json:"subdomain" validate:"required"`
	Date      string `json:"date"`
	Location  string `json:"location" validate:"max=512"`
}

type UpdateWeddingInput struct {
	Name          string `json:"name"`
	Date          string `json:"date"`
	Location      string `json:"location"`
	CoverImageURL string `json:"coverImageURL"`
	IsActive      *bool  `json:"isActive"`
}

type WeddingAdminInput struct {
	UserID uint `json:"userID" validate:"required"`
}

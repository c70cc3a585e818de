package routes

import (
	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12"
)

func ListNotifications(ctx iris.Context) {
	ident := utils.CurrentIdentity(ctx)

	query := storage.DB.Where("user_id = ?", ident.ID)
	if ctx.URLParamDefault("unread", "") == "true" {
		query = query.Where("is_read = ?", false)
	}

	var notifications []models.Notification
	if err := query.Order("created_at desc").Limit(100).Find(&notifications).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "notifications": notifications})
}

func MarkNotificationRead(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid notification id", ctx)
		return
	}

	ident := utils.CurrentIdentity(ctx)

	result := storage.DB.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, ident.ID).
		Update("is_read", true)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

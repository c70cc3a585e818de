package routes

import (
	"time"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12"
)

func CreateEvent(ctx iris.Context) {
	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if !wedding.IsAdministeredBy(ident.ID) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateEventInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	startsAt, parseErr := time.Parse(time.RFC3339, input.StartsAt)
	if parseErr != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "startsAt must be RFC3339", ctx)
		return
	}

	event := models.Event{
		WeddingID:   wedding.ID,
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    startsAt,
		CreatedBy:   ident.ID,
	}
	if input.EndsAt != "" {
		endsAt, endErr := time.Parse(time.RFC3339, input.EndsAt)
		if endErr != nil {
			utils.CreateError(iris.StatusBadRequest, "Validation Error", "endsAt must be RFC3339", ctx)
			return
		}
		event.EndsAt = &endsAt
	}

	if err := storage.DB.Create(&event).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "event": event})
}

func ListEvents(ctx iris.Context) {
	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if ident == nil || !isWeddingMember(ident.ID, wedding) {
		utils.CreateForbidden(ctx)
		return
	}

	var events []models.Event
	if err := storage.DB.Where("wedding_id = ?", wedding.ID).Order("starts_at asc").Find(&events).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "events": events})
}

func DeleteEvent(ctx iris.Context) {
	eventID, err := ctx.Params().GetUint("eventID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid event id", ctx)
		return
	}

	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if !wedding.IsAdministeredBy(ident.ID) {
		utils.CreateForbidden(ctx)
		return
	}

	result := storage.DB.Where("id = ? AND wedding_id = ?", eventID, wedding.ID).Delete(&models.Event{})
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

type CreateEventInput struct {
	Title       string `json:"title" validate:"required,max=256"`
	Description string `json:"description" validate:"max=2048"`
	Location    string `json:"location" validate:"max=512"`
	StartsAt    string `json:"startsAt" validate:"required"`
	EndsAt      string `json:"endsAt"`
}

package routes

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/services"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12"
)

// UploadMedia accepts a base64 photo or video from any wedding member. The
// asset goes to the media CDN; the row starts unapproved and stays out of the
// public gallery until a wedding admin acts on it.
func UploadMedia(ctx iris.Context) {
	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if !isWeddingMember(ident.ID, wedding) {
		utils.CreateForbidden(ctx)
		return
	}

	var input UploadMediaInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	mediaType := input.Type
	if mediaType != models.MediaVideo {
		mediaType = models.MediaImage
	}

	publicID := fmt.Sprintf("weddings/%d/%d_%d", wedding.ID, ident.ID, time.Now().UnixNano())
	uploaded, uploadErr := storage.UploadBase64(input.Data, publicID, mediaType)
	if uploadErr != nil {
		log.Printf("media upload failed for wedding %d: %v", wedding.ID, uploadErr)
		utils.CreateInternalServerError(ctx)
		return
	}

	media := models.Media{
		WeddingID:  wedding.ID,
		UploadedBy: ident.ID,
		Type:       mediaType,
		URL:        uploaded.URL,
		PublicID:   uploaded.PublicID,
		Caption:    input.Caption,
	}
	if len(input.Tags) > 0 {
		if tags, marshalErr := json.Marshal(input.Tags); marshalErr == nil {
			media.Tags = tags
		}
	}

	if err := storage.DB.Create(&media).Error; err != nil {
		// Row insert failed after the asset was stored; compensate so the
		// CDN does not accumulate orphans.
		if delErr := storage.DestroyMedia(uploaded.PublicID, mediaType); delErr != nil {
			log.Printf("compensating media destroy failed for %s: %v", uploaded.PublicID, delErr)
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "media": media})
}

// ListWeddingMedia returns the gallery. Wedding admins see everything
// including the moderation queue; everyone else sees approved media only.
// Optional w/h/q/crop params produce transformed delivery URLs.
func ListWeddingMedia(ctx iris.Context) {
	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if ident == nil || !isWeddingMember(ident.ID, wedding) {
		utils.CreateForbidden(ctx)
		return
	}

	query := storage.DB.Where("wedding_id = ?", wedding.ID)
	if !wedding.IsAdministeredBy(ident.ID) {
		query = query.Where("is_approved = ? OR uploaded_by = ?", true, ident.ID)
	}

	var media []models.Media
	if err := query.Order("created_at desc").Find(&media).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	opts := storage.TransformOptions{
		Width:   ctx.URLParamIntDefault("w", 0),
		Height:  ctx.URLParamIntDefault("h", 0),
		Quality: ctx.URLParamDefault("q", ""),
		Crop:    ctx.URLParamDefault("crop", ""),
	}

	items := make([]iris.Map, 0, len(media))
	for _, m := range media {
		url := m.URL
		if transformed := storage.DeliveryURL(m.PublicID, m.Type, opts); transformed != "" {
			url = transformed
		}
		items = append(items, iris.Map{"media": m, "displayURL": url})
	}

	ctx.JSON(iris.Map{"success": true, "items": items})
}

func ApproveMedia(ctx iris.Context) {
	media, wedding := getModeratableMedia(ctx)
	if media == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	before := *media

	now := time.Now()
	media.IsApproved = true
	media.ApprovedBy = &ident.ID
	media.ApprovedAt = &now

	if err := storage.DB.Save(media).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	services.NewNotificationService().NotifyMediaModerated(media, true, wedding.Name)
	utils.Audit(ctx, "media.approve", "media", media.ID, before, media)

	ctx.JSON(iris.Map{"success": true, "media": media})
}

// RejectMedia destroys the stored asset and removes the row.
func RejectMedia(ctx iris.Context) {
	media, wedding := getModeratableMedia(ctx)
	if media == nil {
		return
	}

	if media.PublicID != "" {
		if err := storage.DestroyMedia(media.PublicID, media.Type); err != nil {
			log.Printf("media destroy failed for %s: %v", media.PublicID, err)
		}
	}

	if err := storage.DB.Delete(media).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	services.NewNotificationService().NotifyMediaModerated(media, false, wedding.Name)
	utils.Audit(ctx, "media.reject", "media", media.ID, media, nil)

	ctx.JSON(iris.Map{"success": true})
}

// DeleteMedia lets the uploader take down their own upload; wedding admins
// can remove anything.
func DeleteMedia(ctx iris.Context) {
	media, wedding := getMediaWithWedding(ctx)
	if media == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if media.UploadedBy != ident.ID && !wedding.IsAdministeredBy(ident.ID) {
		utils.CreateForbidden(ctx)
		return
	}

	if media.PublicID != "" {
		if err := storage.DestroyMedia(media.PublicID, media.Type); err != nil {
			log.Printf("media destroy failed for %s: %v", media.PublicID, err)
		}
	}

	if err := storage.DB.Delete(media).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

func getMediaWithWedding(ctx iris.Context) (*models.Media, *models.Wedding) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid media id", ctx)
		return nil, nil
	}

	var media models.Media
	result := storage.DB.Limit(1).Find(&media, id)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil, nil
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil, nil
	}

	var wedding models.Wedding
	if err := storage.DB.First(&wedding, media.WeddingID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return nil, nil
	}
	return &media, &wedding
}

// getModeratableMedia loads the media row and checks the caller administers
// its wedding.
func getModeratableMedia(ctx iris.Context) (*models.Media, *models.Wedding) {
	media, wedding := getMediaWithWedding(ctx)
	if media == nil {
		return nil, nil
	}

	ident := utils.CurrentIdentity(ctx)
	if !wedding.IsAdministeredBy(ident.ID) {
		utils.CreateForbidden(ctx)
		return nil, nil
	}
	return media, wedding
}

type UploadMediaInput struct {
	Data    string   `json:"data" validate:"required"`
	Type    string   `json:"type"`
	Caption string   `json:"caption" validate:"max=1024"`
	Tags    []string `json:"tags"`
}

package routes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

var inviteContext = context.Background()

// CreateInviteLink issues a signed invite token for a wedding. The row keeps
// the token so a link can be revoked by deleting it and capped by max uses.
func CreateInviteLink(ctx iris.Context) {
	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if !wedding.IsAdministeredBy(ident.ID) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateInviteLinkInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	ttl := 90 * 24 * time.Hour
	var expiresAt *time.Time
	if input.ExpiresInDays > 0 {
		ttl = time.Duration(input.ExpiresInDays) * 24 * time.Hour
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	link := models.InviteLink{
		WeddingID: wedding.ID,
		Token:     utils.GenerateShortToken(16), // placeholder until signed
		CreatedBy: ident.ID,
		Label:     input.Label,
		ExpiresAt: expiresAt,
		MaxUses:   input.MaxUses,
	}
	if err := storage.DB.Create(&link).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	token, tokenErr := utils.CreateInviteToken(wedding.ID, link.ID, ttl)
	if tokenErr != nil {
		storage.DB.Delete(&link)
		utils.CreateInternalServerError(ctx)
		return
	}
	link.Token = token
	if err := storage.DB.Save(&link).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "invite": link})
}

func ListInviteLinks(ctx iris.Context) {
	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if !wedding.IsAdministeredBy(ident.ID) {
		utils.CreateForbidden(ctx)
		return
	}

	var links []models.InviteLink
	if err := storage.DB.Where("wedding_id = ?", wedding.ID).Order("created_at desc").Find(&links).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "invites": links})
}

// JoinWedding turns an invite token into a guest membership and an inline
// guest session. Guests do not get identity-provider accounts.
func JoinWedding(ctx iris.Context) {
	raw := ctx.Params().Get("token")

	claims, err := utils.VerifyInviteToken(raw)
	if err != nil {
		utils.CreateError(iris.StatusUnauthorized, "Invalid Invite", "Invite link is invalid or expired.", ctx)
		return
	}

	var link models.InviteLink
	result := storage.DB.Limit(1).Find(&link, claims.LinkID)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if result.RowsAffected == 0 || link.WeddingID != claims.WeddingID || link.Token != raw {
		utils.CreateError(iris.StatusUnauthorized, "Invalid Invite", "Invite link is invalid or expired.", ctx)
		return
	}
	if link.Expired(time.Now()) || link.Exhausted() {
		utils.CreateError(iris.StatusGone, "Invite Expired", "Invite link has expired or reached its usage limit.", ctx)
		return
	}

	var wedding models.Wedding
	weddingResult := storage.DB.Where("id = ? AND is_active = ?", link.WeddingID, true).Limit(1).Find(&wedding)
	if weddingResult.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if weddingResult.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input JoinWeddingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	user, userErr := findOrCreateGuest(&input)
	if userErr == errEmailNotJoinable {
		utils.CreateError(iris.StatusConflict, "Conflict",
			"This email belongs to an existing account. Sign in first, then open the invite link.", ctx)
		return
	}
	if userErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var member models.WeddingMember
	memberExists := storage.DB.Where("wedding_id = ? AND user_id = ?", wedding.ID, user.ID).Limit(1).Find(&member)
	if memberExists.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if memberExists.RowsAffected == 0 {
		member = models.WeddingMember{
			WeddingID: wedding.ID,
			UserID:    user.ID,
			GuestName: input.Name,
			JoinedVia: fmt.Sprintf("invite:%d", link.ID),
		}
		if err := storage.DB.Create(&member).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}

		storage.DB.Model(&models.InviteLink{}).
			Where("id = ?", link.ID).
			Update("uses", gorm.Expr("uses + 1"))
		if storage.Redis != nil {
			storage.Redis.Incr(inviteContext, fmt.Sprintf("invite_uses:%d", link.ID))
		}
	}

	session, sessionErr := utils.EncodeInlineSession(&utils.Identity{
		ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role,
	})
	if sessionErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.SetSessionCookie(ctx, session)

	ctx.JSON(iris.Map{"success": true, "wedding": publicWedding(&wedding), "user": user})
}

var errEmailNotJoinable = errors.New("email belongs to a non-guest account")

// findOrCreateGuest resolves the joining guest's user row. Supplying an email
// never grants an existing account: the join flow issues sessions without a
// credential check, so only guest rows may be reused. Anything with more
// privilege has to log in through /api/auth instead.
func findOrCreateGuest(input *JoinWeddingInput) (*models.User, error) {
	if input.Email != "" {
		var user models.User
		exists, err := getAndHandleUserExists(&user, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			if user.Role != models.RoleGuest {
				return nil, errEmailNotJoinable
			}
			return &user, nil
		}
	}

	email := strings.ToLower(input.Email)
	if email == "" {
		email = fmt.Sprintf("guest-%s@guests.local", utils.GenerateShortToken(8))
	}

	user := models.User{
		Name:  input.Name,
		Email: email,
		Role:  models.RoleGuest,
	}
	if err := storage.DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

type CreateInviteLinkInput struct {
	Label         string `json:"label" validate:"max=256"`
	ExpiresInDays int    `json:"expiresInDays" validate:"min=0,max=365"`
	MaxUses       int    `json:"maxUses" validate:"min=0"`
}

type JoinWeddingInput struct {
	Name  string `json:"name" validate:"required,max=256"`
	Email string `json:"email" validate:"omitempty,email"`
}

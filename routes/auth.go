package routes

import (
	"log"
	"strings"

	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

func Signup(ctx iris.Context) {
	var input SignupInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	email := strings.ToLower(input.Email)

	var existing models.User
	userExists, userExistsErr := getAndHandleUserExists(&existing, email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if userExists {
		utils.CreateEmailAlreadyRegistered(ctx)
		return
	}

	newUser := models.User{
		Name:  input.Name,
		Email: email,
		Role:  models.RoleGuest,
	}

	if storage.Identity.Enabled() {
		providerUser, providerErr := storage.Identity.CreateUser(email, input.Password, input.Name)
		if providerErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		newUser.AuthID = providerUser.ID

		if err := storage.DB.Create(&newUser).Error; err != nil {
			// The provider account exists but the local row does not.
			// Compensate with a best-effort delete so the email stays usable.
			if delErr := storage.Identity.DeleteUser(providerUser.ID); delErr != nil {
				log.Printf("compensating provider delete failed for %s: %v", providerUser.ID, delErr)
			}
			utils.CreateInternalServerError(ctx)
			return
		}
	} else {
		hashed, hashErr := hashAndSaltPassword(input.Password)
		if hashErr != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		newUser.PasswordHash = hashed
		if err := storage.DB.Create(&newUser).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "user": newUser})
}

func Login(ctx iris.Context) {
	var input LoginInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	email := strings.ToLower(input.Email)
	errorMsg := "Invalid email or password."

	var user models.User
	userExists, userExistsErr := getAndHandleUserExists(&user, email)
	if userExistsErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if !userExists || !user.Active() {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	if storage.Identity.Enabled() && user.AuthID != "" {
		accessToken, signInErr := storage.Identity.SignInWithPassword(email, input.Password)
		if signInErr != nil {
			utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
			return
		}
		utils.SetSessionCookie(ctx, accessToken)
		ctx.JSON(iris.Map{"success": true, "user": user})
		return
	}

	// Local fallback: accounts without a provider subject carry a bcrypt
	// hash and get an inline session.
	if user.PasswordHash == "" {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	inline, inlineErr := utils.EncodeInlineSession(&utils.Identity{
		ID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role,
	})
	if inlineErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.SetSessionCookie(ctx, inline)
	ctx.JSON(iris.Map{"success": true, "user": user})
}

func GetSession(ctx iris.Context) {
	ident, err := utils.EnsureIdentity(ctx)
	if err != nil {
		utils.CreateUnauthenticated(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "user": ident})
}

func Logout(ctx iris.Context) {
	utils.RevokeSessionToken(ctx.GetCookie(utils.SessionCookieName))
	utils.ClearSessionCookie(ctx)
	ctx.JSON(iris.Map{"success": true})
}

func getAndHandleUserExists(user *models.User, email string) (bool, error) {
	result := storage.DB.Where("email = ?", strings.ToLower(email)).Limit(1).Find(user)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func hashAndSaltPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

type SignupInput struct {
	Name     string `json:"name" validate:"required,max=256"`
	Email    string `json:"email" validate:"required,max=256,email"`
	Password string `json:"password" validate:"required,min=8,max=256"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

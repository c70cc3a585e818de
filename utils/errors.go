package utils

import (
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func CreateError(statusCode int, title string, detail string, ctx iris.Context) {
	ctx.StopWithJSON(statusCode, iris.Map{"error": title, "message": detail})
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred.", ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "Not Found", "Resource not found.", ctx)
}

func CreateForbidden(ctx iris.Context) {
	CreateError(iris.StatusForbidden, "Forbidden", "You do not have permission to perform this action.", ctx)
}

func CreateUnauthenticated(ctx iris.Context) {
	CreateError(iris.StatusUnauthorized, "Unauthenticated", "A valid session is required.", ctx)
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	CreateError(iris.StatusConflict, "Conflict", "Email already registered.", ctx)
}

type fieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// HandleValidationErrors converts ReadJSON/validator failures into a 400
// with per-field detail.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]fieldError, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, fieldError{Field: e.Field(), Tag: e.Tag(), Param: e.Param()})
		}
		ctx.StopWithJSON(iris.StatusBadRequest, iris.Map{
			"error":   "Validation Error",
			"message": "One or more fields are invalid.",
			"fields":  fields,
		})
		return
	}
	CreateError(iris.StatusBadRequest, "Validation Error", "Invalid request body.", ctx)
}

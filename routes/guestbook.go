package routes

import (
	"github.com/Siddh75/wedding-share-sub001/models"
	"github.com/Siddh75/wedding-share-sub001/storage"
	"github.com/Siddh75/wedding-share-sub001/utils"

	"github.com/kataras/iris/v12"
)

func CreateQuestion(ctx iris.Context) {
	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if !wedding.IsAdministeredBy(ident.ID) {
		utils.CreateForbidden(ctx)
		return
	}

	var input CreateQuestionInput
	err := ctx.ReadJSON(&input)
	if err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	question := models.Question{
		WeddingID: wedding.ID,
		Text:      input.Text,
		Position:  input.Position,
		IsActive:  true,
		CreatedBy: ident.ID,
	}
	if err := storage.DB.Create(&question).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"success": true, "question": question})
}

func ListQuestions(ctx iris.Context) {
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
		query = query.Where("is_active = ?", true)
	}

	var questions []models.Question
	if err := query.Order("position asc, id asc").Find(&questions).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "questions": questions})
}

func DeactivateQuestion(ctx iris.Context) {
	id, err := ctx.Params().GetUint("questionID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid question id", ctx)
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

	result := storage.DB.Model(&models.Question{}).
		Where("id = ? AND wedding_id = ?", id, wedding.ID).
		Update("is_active", false)
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

// SubmitAnswer upserts the caller's answer to an active question.
func SubmitAnswer(ctx iris.Context) {
	questionID, err := ctx.Params().GetUint("questionID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid question id", ctx)
		return
	}

	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if !isWeddingMember(ident.ID, wedding) {
		utils.CreateForbidden(ctx)
		return
	}

	var question models.Question
	questionResult := storage.DB.Where("id = ? AND wedding_id = ? AND is_active = ?", questionID, wedding.ID, true).Limit(1).Find(&question)
	if questionResult.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if questionResult.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return
	}

	var input SubmitAnswerInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var answer models.Answer
	existing := storage.DB.Where("question_id = ? AND user_id = ?", question.ID, ident.ID).Limit(1).Find(&answer)
	if existing.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if existing.RowsAffected > 0 {
		answer.Text = input.Text
		if err := storage.DB.Save(&answer).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	} else {
		answer = models.Answer{
			QuestionID: question.ID,
			WeddingID:  wedding.ID,
			UserID:     ident.ID,
			Text:       input.Text,
		}
		if err := storage.DB.Create(&answer).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
	}

	ctx.JSON(iris.Map{"success": true, "answer": answer})
}

// ListAnswers shows every answer to wedding admins; members only see their
// own.
func ListAnswers(ctx iris.Context) {
	questionID, err := ctx.Params().GetUint("questionID")
	if err != nil {
		utils.CreateError(iris.StatusBadRequest, "Validation Error", "invalid question id", ctx)
		return
	}

	wedding := getWeddingByID(ctx)
	if wedding == nil {
		return
	}

	ident := utils.CurrentIdentity(ctx)
	if ident == nil || !isWeddingMember(ident.ID, wedding) {
		utils.CreateForbidden(ctx)
		return
	}

	query := storage.DB.Where("question_id = ? AND wedding_id = ?", questionID, wedding.ID)
	if !wedding.IsAdministeredBy(ident.ID) {
		query = query.Where("user_id = ?", ident.ID)
	}

	var answers []models.Answer
	if err := query.Order("created_at asc").Find(&answers).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true, "answers": answers})
}

type CreateQuestionInput struct {
	Text     string `json:"text" validate:"required,max=1024"`
	Position int    `json:"position" validate:"min=0"`
}

type SubmitAnswerInput struct {
	Text string `json:"text" validate:"required,max=4096"`
}

package controller

import (
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PredictionController struct {
	PredictionService *service.PredictionService
}

func NewPredictionController(predictionService *service.PredictionService) *PredictionController {
	return &PredictionController{PredictionService: predictionService}
}

// Generate godoc
// @Summary 生成课程预测
// @Description 为课程内每个有成绩数据的学生追加一条新预测
// @Tags AI预测
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 201 {object} util.Response{data=[]model.Prediction}
// @Failure 400 {object} util.Response "没有可预测的学生"
// @Failure 403 {object} util.Response "非本课程教师"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/ai-predictions/courses/{id}/generate [post]
func (c *PredictionController) Generate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	predictions, err := c.PredictionService.GeneratePredictions(claims.UserID, claims.Role, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, predictions)
}

// ListByCourse godoc
// @Summary 课程预测一览
// @Description 教师查看课程内每个学生的最新预测
// @Tags AI预测
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Prediction}
// @Router /api/ai-predictions/courses/{id} [get]
func (c *PredictionController) ListByCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	predictions, err := c.PredictionService.ListCoursePredictions(claims.UserID, claims.Role, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, predictions, int64(len(predictions)))
}

// MyPrediction godoc
// @Summary 我的课程预测
// @Tags AI预测
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Prediction}
// @Failure 404 {object} util.Response "暂无预测"
// @Router /api/ai-predictions/me/courses/{id} [get]
func (c *PredictionController) MyPrediction(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	prediction, err := c.PredictionService.GetMyPrediction(claims.UserID, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, prediction)
}

// History godoc
// @Summary 预测历史
// @Description 学生只能查询自己的历史
// @Tags AI预测
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   userId path int true "学生ID"
// @Param   limit query int false "数量上限"
// @Success 200 {object} util.Response{data=[]model.Prediction}
// @Router /api/ai-predictions/courses/{id}/users/{userId} [get]
func (c *PredictionController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}
	userID, err := util.ParseUintParam(ctx.Param("userId"))
	if err != nil {
		util.BadRequest(ctx, "invalid user id")
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	predictions, err := c.PredictionService.GetHistory(claims.UserID, claims.Role, courseID, userID, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, predictions, int64(len(predictions)))
}

package controller

import (
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// CourseAnalytics godoc
// @Summary 课程分析
// @Description 注册数、平均分、完成度与预测等级分布
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseAnalytics}
// @Failure 403 {object} util.Response "非本课程教师"
// @Router /api/analytics/courses/{id} [get]
func (c *AnalyticsController) CourseAnalytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	analytics, err := c.AnalyticsService.CourseAnalytics(claims.UserID, claims.Role, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// MyOverview godoc
// @Summary 我的学习总览
// @Tags 分析
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.StudentOverview}
// @Router /api/analytics/me [get]
func (c *AnalyticsController) MyOverview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	overview, err := c.AnalyticsService.MyOverview(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

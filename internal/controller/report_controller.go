package controller

import (
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// GradeReport godoc
// @Summary 课程成绩报表
// @Description 成绩册导出行，结果缓存 10 分钟
// @Tags 报表
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.GradebookRow}
// @Router /api/reports/courses/{id}/grades [get]
func (c *ReportController) GradeReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	rows, err := c.ReportService.GradeReport(ctx.Request.Context(), claims.UserID, claims.Role, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, rows, int64(len(rows)))
}

// EngagementReport godoc
// @Summary 课程参与度报表
// @Description 每个学生的课时完成、作答次数与最近活动，缓存 10 分钟
// @Tags 报表
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.EngagementRow}
// @Router /api/reports/courses/{id}/engagement [get]
func (c *ReportController) EngagementReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	rows, err := c.ReportService.EngagementReport(ctx.Request.Context(), claims.UserID, claims.Role, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, rows, int64(len(rows)))
}

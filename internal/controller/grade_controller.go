package controller

import (
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	GradeService *service.GradeService
}

func NewGradeController(gradeService *service.GradeService) *GradeController {
	return &GradeController{GradeService: gradeService}
}

// MyCourseGrades godoc
// @Summary 我的课程成绩
// @Description 测验与作业成绩明细加各项平均分
// @Tags 成绩
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseGrades}
// @Router /api/grades/courses/{id} [get]
func (c *GradeController) MyCourseGrades(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	grades, err := c.GradeService.CourseGrades(claims.UserID, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, grades)
}

// Gradebook godoc
// @Summary 课程成绩册
// @Description 教师查看课程内每个学生的平均分
// @Tags 成绩
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.GradebookRow}
// @Router /api/grades/courses/{id}/gradebook [get]
func (c *GradeController) Gradebook(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	rows, err := c.GradeService.Gradebook(claims.UserID, claims.Role, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, rows, int64(len(rows)))
}

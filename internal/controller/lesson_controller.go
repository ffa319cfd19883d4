package controller

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// LessonRequest 课时创建/更新请求
type LessonRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

// ListByCourse godoc
// @Summary 课程课时列表
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /api/courses/{id}/lessons [get]
func (c *LessonController) ListByCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	lessons, err := c.LessonService.ListByCourse(claims.UserID, claims.Role, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, lessons, int64(len(lessons)))
}

// Create godoc
// @Summary 创建课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body LessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/courses/{id}/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson := &model.Lesson{
		CourseID: courseID,
		Title:    req.Title,
		Content:  req.Content,
		Position: req.Position,
	}
	if err := c.LessonService.Create(claims.UserID, claims.Role, lesson); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// Get godoc
// @Summary 课时详情
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	lesson, err := c.LessonService.Get(claims.UserID, claims.Role, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Update godoc
// @Summary 更新课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   body body LessonRequest true "课时字段"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	var req LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.LessonService.Update(claims.UserID, claims.Role, id, &model.Lesson{
		Title:    req.Title,
		Content:  req.Content,
		Position: req.Position,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Delete godoc
// @Summary 删除课时
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	if err := c.LessonService.Delete(claims.UserID, claims.Role, id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "lesson deleted"})
}

// UploadVideo godoc
// @Summary 上传课时视频
// @Description 接收视频文件，生成封面缩略图后更新课时
// @Tags 课时
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   file formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response "文件类型不支持"
// @Router /api/lessons/{id}/video [post]
func (c *LessonController) UploadVideo(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	lesson, err := c.LessonService.UploadVideo(ctx.Request.Context(), claims.UserID, claims.Role, id, fileHeader)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Complete godoc
// @Summary 标记课时完成
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.LessonProgress}
// @Router /api/lessons/{id}/complete [post]
func (c *LessonController) Complete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	progress, err := c.LessonService.MarkComplete(ctx.Request.Context(), claims.UserID, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// CourseProgress godoc
// @Summary 课程完成进度
// @Description 学生在课程内的课时完成比例，带缓存
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/courses/{id}/progress [get]
func (c *LessonController) CourseProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	ratio, err := c.LessonService.CourseProgress(ctx.Request.Context(), claims.UserID, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"courseId": courseID, "completionRatio": ratio})
}

package controller

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
	Storage           *service.StorageService
}

func NewAssignmentController(assignmentService *service.AssignmentService, storage *service.StorageService) *AssignmentController {
	return &AssignmentController{
		AssignmentService: assignmentService,
		Storage:           storage,
	}
}

// AssignmentRequest 作业创建/更新请求
type AssignmentRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
	MaxPoints   int       `json:"maxPoints"`
}

// SubmissionRequest 学生提交请求
type SubmissionRequest struct {
	Content       string `json:"content"`
	AttachmentURL string `json:"attachmentUrl"`
}

// GradeRequest 教师评分请求
type GradeRequest struct {
	Grade    float64 `json:"grade" binding:"required,min=0,max=100"`
	Feedback string  `json:"feedback"`
}

// ListByCourse godoc
// @Summary 课程作业列表
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Assignment}
// @Router /api/courses/{id}/assignments [get]
func (c *AssignmentController) ListByCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	assignments, err := c.AssignmentService.ListByCourse(claims.UserID, claims.Role, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, assignments, int64(len(assignments)))
}

// Create godoc
// @Summary 创建作业
// @Description 同步在课程日历上生成截止事件
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body AssignmentRequest true "作业信息"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Router /api/courses/{id}/assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	var req AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment := &model.Assignment{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxPoints:   req.MaxPoints,
	}
	if err := c.AssignmentService.Create(claims.UserID, claims.Role, assignment); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, assignment)
}

// Get godoc
// @Summary 作业详情
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/assignments/{id} [get]
func (c *AssignmentController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}

	assignment, err := c.AssignmentService.Get(claims.UserID, claims.Role, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Update godoc
// @Summary 更新作业
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Param   body body AssignmentRequest true "作业字段"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Router /api/assignments/{id} [put]
func (c *AssignmentController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}

	var req AssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	assignment, err := c.AssignmentService.Update(claims.UserID, claims.Role, id, &model.Assignment{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxPoints:   req.MaxPoints,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, assignment)
}

// Delete godoc
// @Summary 删除作业
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response
// @Router /api/assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}

	if err := c.AssignmentService.Delete(claims.UserID, claims.Role, id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "assignment deleted"})
}

// Submit godoc
// @Summary 提交作业
// @Description 重复提交会覆盖旧内容并清除已有评分
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Param   body body SubmissionRequest true "提交内容"
// @Success 201 {object} util.Response{data=model.AssignmentSubmission}
// @Router /api/assignments/{id}/submissions [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}

	var req SubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.AssignmentService.Submit(claims.UserID, id, req.Content, req.AttachmentURL)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// UploadAttachment godoc
// @Summary 上传作业附件
// @Description 返回附件地址，随提交一起保存
// @Tags 作业
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "附件文件"
// @Success 200 {object} util.Response{data=object}
// @Router /api/assignments/attachments [post]
func (c *AssignmentController) UploadAttachment(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	name := service.ObjectName("assignments", fileHeader.Filename)
	url, err := c.Storage.Upload(ctx.Request.Context(), name, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attachmentUrl": url})
}

// Grade godoc
// @Summary 作业评分
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交ID"
// @Param   body body GradeRequest true "分数与评语"
// @Success 200 {object} util.Response{data=model.AssignmentSubmission}
// @Router /api/assignments/submissions/{id}/grade [put]
func (c *AssignmentController) Grade(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid submission id")
		return
	}

	var req GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.AssignmentService.Grade(claims.UserID, claims.Role, id, req.Grade, req.Feedback)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// ListSubmissions godoc
// @Summary 作业提交列表
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=[]model.AssignmentSubmission}
// @Router /api/assignments/{id}/submissions [get]
func (c *AssignmentController) ListSubmissions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}

	submissions, err := c.AssignmentService.ListSubmissions(claims.UserID, claims.Role, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, submissions, int64(len(submissions)))
}

// MySubmission godoc
// @Summary 我的提交
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=model.AssignmentSubmission}
// @Router /api/assignments/{id}/submissions/me [get]
func (c *AssignmentController) MySubmission(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid assignment id")
		return
	}

	submission, err := c.AssignmentService.GetMySubmission(claims.UserID, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

package controller

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AnnouncementController struct {
	AnnouncementService *service.AnnouncementService
}

func NewAnnouncementController(announcementService *service.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{AnnouncementService: announcementService}
}

// AnnouncementRequest 公告创建/更新请求
type AnnouncementRequest struct {
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body"`
	Pinned bool   `json:"pinned"`
}

// ListByCourse godoc
// @Summary 课程公告列表
// @Description 置顶在前，其余按时间倒序
// @Tags 公告
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   limit query int false "数量上限"
// @Success 200 {object} util.Response{data=[]model.Announcement}
// @Router /api/courses/{id}/announcements [get]
func (c *AnnouncementController) ListByCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "50"))

	announcements, err := c.AnnouncementService.ListByCourse(claims.UserID, claims.Role, courseID, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, announcements, int64(len(announcements)))
}

// Create godoc
// @Summary 发布公告
// @Tags 公告
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body AnnouncementRequest true "公告内容"
// @Success 201 {object} util.Response{data=model.Announcement}
// @Router /api/courses/{id}/announcements [post]
func (c *AnnouncementController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	var req AnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	announcement := &model.Announcement{
		CourseID: courseID,
		Title:    req.Title,
		Body:     req.Body,
		Pinned:   req.Pinned,
	}
	if err := c.AnnouncementService.Create(claims.UserID, claims.Role, announcement); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, announcement)
}

// Update godoc
// @Summary 更新公告
// @Tags 公告
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "公告ID"
// @Param   body body AnnouncementRequest true "公告字段"
// @Success 200 {object} util.Response{data=model.Announcement}
// @Router /api/announcements/{id} [put]
func (c *AnnouncementController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid announcement id")
		return
	}

	var req AnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	announcement, err := c.AnnouncementService.Update(claims.UserID, claims.Role, id, &model.Announcement{
		Title:  req.Title,
		Body:   req.Body,
		Pinned: req.Pinned,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, announcement)
}

// Delete godoc
// @Summary 删除公告
// @Tags 公告
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "公告ID"
// @Success 200 {object} util.Response
// @Router /api/announcements/{id} [delete]
func (c *AnnouncementController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid announcement id")
		return
	}

	if err := c.AnnouncementService.Delete(claims.UserID, claims.Role, id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "announcement deleted"})
}

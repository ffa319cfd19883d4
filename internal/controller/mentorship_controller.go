package controller

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MentorshipController struct {
	MentorshipService *service.MentorshipService
}

func NewMentorshipController(mentorshipService *service.MentorshipService) *MentorshipController {
	return &MentorshipController{MentorshipService: mentorshipService}
}

// MentorRequestBody 导师求助请求
type MentorRequestBody struct {
	CourseID        uint   `json:"courseId" binding:"required"`
	HelpDescription string `json:"helpDescription" binding:"required"`
}

// Match godoc
// @Summary 重建课程导师配对
// @Description 按最新预测成绩取顶部和底部各 30% 学生一一配对，整体替换旧配对
// @Tags 导师制
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 201 {object} util.Response{data=[]model.MentorshipPairing}
// @Failure 400 {object} util.Response "有预测的学生不足两人"
// @Router /api/mentoring/courses/{id}/match [post]
func (c *MentorshipController) Match(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	pairings, err := c.MentorshipService.MatchCourse(claims.UserID, claims.Role, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, pairings)
}

// Pairings godoc
// @Summary 课程配对列表
// @Tags 导师制
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.MentorshipPairing}
// @Router /api/mentoring/courses/{id}/pairings [get]
func (c *MentorshipController) Pairings(ctx *gin.Context) {
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	pairings, err := c.MentorshipService.ListCoursePairings(courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, pairings, int64(len(pairings)))
}

// MyMentees godoc
// @Summary 我带的学员
// @Tags 导师制
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.MentorshipPairing}
// @Router /api/mentoring/mentees [get]
func (c *MentorshipController) MyMentees(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	asMentor, _, err := c.MentorshipService.ListMyPairings(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, asMentor, int64(len(asMentor)))
}

// MyMentors godoc
// @Summary 我的导师
// @Tags 导师制
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.MentorshipPairing}
// @Router /api/mentoring/mentors [get]
func (c *MentorshipController) MyMentors(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	_, asMentee, err := c.MentorshipService.ListMyPairings(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, asMentee, int64(len(asMentee)))
}

// CreateRequest godoc
// @Summary 发起导师求助
// @Tags 导师制
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body MentorRequestBody true "求助内容"
// @Success 201 {object} util.Response{data=model.MentorRequest}
// @Failure 400 {object} util.Response "未注册该课程"
// @Router /api/mentoring/requests [post]
func (c *MentorshipController) CreateRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req MentorRequestBody
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	request, err := c.MentorshipService.RequestMentor(claims.UserID, req.CourseID, req.HelpDescription)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, request)
}

// ListRequests godoc
// @Summary 求助列表
// @Description 传 courseId 时返回课程维度（教师视角），否则返回自己的
// @Tags 导师制
// @Produce  json
// @Security BearerAuth
// @Param   courseId query int false "课程ID"
// @Param   status query string false "状态过滤 pending|accepted|rejected|completed"
// @Success 200 {object} util.Response{data=[]model.MentorRequest}
// @Router /api/mentoring/requests [get]
func (c *MentorshipController) ListRequests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if courseParam := ctx.Query("courseId"); courseParam != "" {
		courseID, err := util.ParseUintParam(courseParam)
		if err != nil {
			util.BadRequest(ctx, "invalid course id")
			return
		}
		requests, err := c.MentorshipService.ListCourseRequests(courseID, model.MentorRequestStatus(ctx.Query("status")))
		if err != nil {
			respondServiceError(ctx, err)
			return
		}
		util.SuccessWithCount(ctx, requests, int64(len(requests)))
		return
	}

	requests, err := c.MentorshipService.ListMyRequests(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, requests, int64(len(requests)))
}

// AcceptRequest godoc
// @Summary 接受求助
// @Description 需要已是该课程导师或课程平均分不低于 80
// @Tags 导师制
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "求助ID"
// @Success 200 {object} util.Response{data=model.MentorRequest}
// @Failure 400 {object} util.Response "状态非 pending 或资格不足"
// @Router /api/mentoring/requests/{id}/accept [put]
func (c *MentorshipController) AcceptRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid request id")
		return
	}

	request, err := c.MentorshipService.AcceptRequest(claims.UserID, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, request)
}

// RejectRequest godoc
// @Summary 拒绝求助
// @Tags 导师制
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "求助ID"
// @Success 200 {object} util.Response
// @Router /api/mentoring/requests/{id}/reject [put]
func (c *MentorshipController) RejectRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid request id")
		return
	}

	if err := c.MentorshipService.RejectRequest(claims.UserID, claims.Role, id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "request rejected"})
}

// CompleteRequest godoc
// @Summary 完成求助
// @Description 发起求助的学生本人确认辅导结束
// @Tags 导师制
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "求助ID"
// @Success 200 {object} util.Response
// @Router /api/mentoring/requests/{id}/complete [put]
func (c *MentorshipController) CompleteRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid request id")
		return
	}

	if err := c.MentorshipService.CompleteRequest(claims.UserID, id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "request completed"})
}

package controller

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type CalendarController struct {
	CalendarService *service.CalendarService
}

func NewCalendarController(calendarService *service.CalendarService) *CalendarController {
	return &CalendarController{CalendarService: calendarService}
}

// EventRequest 日历事件创建/更新请求
type EventRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	EventType   string     `json:"eventType"`
	CourseID    *uint      `json:"courseId"`
	StartsAt    time.Time  `json:"startsAt" binding:"required"`
	EndsAt      *time.Time `json:"endsAt"`
}

// List godoc
// @Summary 日历事件列表
// @Description 自己的事件加已注册课程的事件，默认前后 30 天
// @Tags 日历
// @Produce  json
// @Security BearerAuth
// @Param   from query string false "起始时间 RFC3339"
// @Param   to query string false "结束时间 RFC3339"
// @Success 200 {object} util.Response{data=[]model.CalendarEvent}
// @Router /api/calendar/events [get]
func (c *CalendarController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var from, to time.Time
	if v := ctx.Query("from"); v != "" {
		from, _ = time.Parse(time.RFC3339, v)
	}
	if v := ctx.Query("to"); v != "" {
		to, _ = time.Parse(time.RFC3339, v)
	}

	events, err := c.CalendarService.ListVisible(claims.UserID, from, to)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, events, int64(len(events)))
}

// Create godoc
// @Summary 创建日历事件
// @Tags 日历
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body EventRequest true "事件信息"
// @Success 201 {object} util.Response{data=model.CalendarEvent}
// @Router /api/calendar/events [post]
func (c *CalendarController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event := &model.CalendarEvent{
		Title:       req.Title,
		Description: req.Description,
		EventType:   model.EventType(req.EventType),
		CourseID:    req.CourseID,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if err := c.CalendarService.Create(claims.UserID, event); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, event)
}

// Update godoc
// @Summary 更新日历事件
// @Tags 日历
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "事件ID"
// @Param   body body EventRequest true "事件字段"
// @Success 200 {object} util.Response{data=model.CalendarEvent}
// @Failure 403 {object} util.Response "非本人事件"
// @Router /api/calendar/events/{id} [put]
func (c *CalendarController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	var req EventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.CalendarService.Update(claims.UserID, id, &model.CalendarEvent{
		Title:       req.Title,
		Description: req.Description,
		EventType:   model.EventType(req.EventType),
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, event)
}

// Delete godoc
// @Summary 删除日历事件
// @Tags 日历
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "事件ID"
// @Success 200 {object} util.Response
// @Router /api/calendar/events/{id} [delete]
func (c *CalendarController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	if err := c.CalendarService.Delete(claims.UserID, id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "event deleted"})
}

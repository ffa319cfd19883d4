package controller

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SettingController struct {
	SettingService *service.SettingService
}

func NewSettingController(settingService *service.SettingService) *SettingController {
	return &SettingController{SettingService: settingService}
}

// SettingRequest 偏好设置请求
type SettingRequest struct {
	EmailNotifications *bool  `json:"emailNotifications"`
	Theme              string `json:"theme"`
	Language           string `json:"language"`
}

// Get godoc
// @Summary 我的偏好设置
// @Tags 设置
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.UserSetting}
// @Router /api/settings [get]
func (c *SettingController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	setting, err := c.SettingService.Get(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, setting)
}

// Update godoc
// @Summary 更新偏好设置
// @Tags 设置
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SettingRequest true "设置字段"
// @Success 200 {object} util.Response{data=model.UserSetting}
// @Router /api/settings [put]
func (c *SettingController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req SettingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	setting := &model.UserSetting{
		Theme:    req.Theme,
		Language: req.Language,
	}
	if req.EmailNotifications != nil {
		setting.EmailNotifications = *req.EmailNotifications
	} else {
		setting.EmailNotifications = true
	}

	updated, err := c.SettingService.Update(claims.UserID, setting)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

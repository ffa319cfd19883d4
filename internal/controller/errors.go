package controller

import (
	"edu_lms_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondServiceError 服务层哨兵错误到 HTTP 状态码的统一映射
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrConversationDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrAlreadyEnrolled),
		errors.Is(err, util.ErrNoActiveEnrollments),
		errors.Is(err, util.ErrNotEnoughStudents),
		errors.Is(err, util.ErrRequestNotPending),
		errors.Is(err, util.ErrMentorNotEligible),
		errors.Is(err, util.ErrAttemptSubmitted),
		errors.Is(err, util.ErrQuizNotPublished):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

package util

import "errors"

var (
	ErrUserNotFound        = errors.New("用户不存在")
	ErrEmailRegistered     = errors.New("该邮箱已被注册")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrCourseNotFound      = errors.New("course not found")
	ErrNotEnrolled         = errors.New("not enrolled in this course")
	ErrAlreadyEnrolled     = errors.New("already enrolled in this course")
	ErrNoActiveEnrollments = errors.New("course has no active enrollments")
	ErrNotEnoughStudents   = errors.New("not enough students with predictions to match")
	ErrRequestNotPending   = errors.New("mentor request is not pending")
	ErrMentorNotEligible   = errors.New("mentor does not qualify for this course")
	ErrAttemptSubmitted    = errors.New("attempt already submitted")
	ErrQuizNotPublished    = errors.New("quiz not published")
	ErrConversationDenied  = errors.New("conversation belongs to another user")
)

package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/util"
	"edu_lms_backend/pkg/logger"
	"edu_lms_backend/pkg/monitoring"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FallbackResponse 分类器和动态查询都给不出答案时的兜底回复
const FallbackResponse = "I don't have an answer for that. Try asking about courses, lessons, assignments, or your grades."

const missingCoursePrompt = "Please tell me which course you mean, for example: \"course 3\"."

// dynamicIntents 需要实时查库组织回复的意图
var dynamicIntents = map[string]bool{
	"list_courses":         true,
	"course_assignments":   true,
	"user_grades":          true,
	"ai_prediction":        true,
	"course_announcements": true,
	"calendar_events":      true,
	"mentor_requests":      true,
	"course_enrollments":   true,
	"course_lessons":       true,
	"user_progress":        true,
	"course_quizzes":       true,
	"quiz_attempts":        true,
}

// IntentModel 意图分类与预设回复
type IntentModel interface {
	Classify(text string) (string, bool)
	StaticResponse(intent string) string
	Reload() error
}

// ChatStore 会话与消息持久化
type ChatStore interface {
	CreateConversation(conversation *model.ChatConversation) error
	FindConversation(id string) (*model.ChatConversation, error)
	ListConversationsByUser(userID uint) ([]model.ChatConversation, error)
	CreateMessage(message *model.ChatMessage) error
	ListMessages(conversationID string) ([]model.ChatMessage, error)
}

// BotData 动态应答的只读查询，见 repository.BotDataRepository
type BotData interface {
	ListCourses(limit int) ([]model.Course, error)
	CourseByID(id uint) (*model.Course, error)
	AssignmentsByCourse(courseID uint, limit int) ([]model.Assignment, error)
	AnnouncementsByCourse(courseID uint, limit int) ([]model.Announcement, error)
	LessonsByCourse(courseID uint) ([]model.Lesson, error)
	QuizzesByCourse(courseID uint) ([]model.Quiz, error)
	ActiveEnrollmentCount(courseID uint) (int64, error)
	UserQuizAttempts(userID, courseID uint, limit int) ([]model.QuizAttempt, error)
	GradeAverages(userID, courseID uint) (*float64, *float64, error)
	LatestPrediction(userID, courseID uint) (*model.Prediction, error)
	UpcomingEvents(userID uint, limit int) ([]model.CalendarEvent, error)
	PendingMentorRequests(userID uint) ([]model.MentorRequest, error)
	ProgressCounts(userID, courseID uint) (int64, int64, error)
}

type ChatbotService struct {
	Store ChatStore
	Data  BotData
	Model IntentModel
}

func NewChatbotService(store ChatStore, data BotData, intentModel IntentModel) *ChatbotService {
	return &ChatbotService{
		Store: store,
		Data:  data,
		Model: intentModel,
	}
}

func (s *ChatbotService) StartConversation(userID uint, courseID *uint, title string) (*model.ChatConversation, error) {
	if title == "" {
		title = "New conversation"
	}
	conversation := &model.ChatConversation{
		UserID:   userID,
		CourseID: courseID,
		Title:    title,
	}
	if err := s.Store.CreateConversation(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *ChatbotService) ListConversations(userID uint) ([]model.ChatConversation, error) {
	return s.Store.ListConversationsByUser(userID)
}

func (s *ChatbotService) GetMessages(userID uint, conversationID string) ([]model.ChatMessage, error) {
	if _, err := s.ownedConversation(userID, conversationID); err != nil {
		return nil, err
	}
	return s.Store.ListMessages(conversationID)
}

// SendMessage 持久化用户消息，分类、解析动态回复，持久化并返回一条机器人消息。
// 分类或查库失败一律降级为预设/兜底回复，不向用户抛错。
func (s *ChatbotService) SendMessage(userID uint, conversationID, text string) (*model.ChatMessage, error) {
	if _, err := s.ownedConversation(userID, conversationID); err != nil {
		return nil, err
	}

	userMessage := &model.ChatMessage{
		ConversationID: conversationID,
		SenderType:     model.SenderUser,
		Content:        text,
	}
	if err := s.Store.CreateMessage(userMessage); err != nil {
		return nil, err
	}

	intent, ok := s.Model.Classify(text)
	if !ok {
		intent = ""
	}

	static := ""
	dynamic := ""
	if intent != "" {
		static = s.Model.StaticResponse(intent)
		if dynamicIntents[intent] {
			dynamic = s.resolveDynamic(userID, intent, text)
		}
	}

	reply := FallbackResponse
	if dynamic != "" && dynamic != static {
		reply = dynamic
	} else if static != "" {
		reply = static
	}

	intentLabel := intent
	if intentLabel == "" {
		intentLabel = "unknown"
	}
	monitoring.ChatbotMessages.WithLabelValues(intentLabel).Inc()

	botMessage := &model.ChatMessage{
		ConversationID: conversationID,
		SenderType:     model.SenderBot,
		Content:        reply,
		Intent:         intent,
	}
	if err := s.Store.CreateMessage(botMessage); err != nil {
		return nil, err
	}
	return botMessage, nil
}

func (s *ChatbotService) ReloadModel() error {
	return s.Model.Reload()
}

func (s *ChatbotService) ownedConversation(userID uint, conversationID string) (*model.ChatConversation, error) {
	conversation, err := s.Store.FindConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation.UserID != userID {
		return nil, util.ErrConversationDenied
	}
	return conversation, nil
}

// resolveDynamic 按意图查库并组织一句自然语言回复。
// 返回空串表示没有可用的动态回复。
func (s *ChatbotService) resolveDynamic(userID uint, intent, text string) string {
	reply, err := s.lookup(userID, intent, text)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Log.Warn("chatbot dynamic lookup failed",
				zap.String("intent", intent),
				zap.Error(err))
		}
		return ""
	}
	return reply
}

func (s *ChatbotService) lookup(userID uint, intent, text string) (string, error) {
	args := ExtractIntentArgs(text)

	switch intent {
	case "list_courses":
		courses, err := s.Data.ListCourses(10)
		if err != nil {
			return "", err
		}
		if len(courses) == 0 {
			return "There are no published courses right now.", nil
		}
		titles := make([]string, len(courses))
		for i, c := range courses {
			titles[i] = fmt.Sprintf("%s (course %d)", c.Title, c.ID)
		}
		return "Available courses: " + strings.Join(titles, ", ") + ".", nil

	case "course_assignments":
		if args.Kind == ArgMissing {
			return missingCoursePrompt, nil
		}
		assignments, err := s.Data.AssignmentsByCourse(args.CourseID, 5)
		if err != nil {
			return "", err
		}
		if len(assignments) == 0 {
			return fmt.Sprintf("Course %d has no assignments yet.", args.CourseID), nil
		}
		parts := make([]string, len(assignments))
		for i, a := range assignments {
			parts[i] = fmt.Sprintf("%s (due %s)", a.Title, a.DueDate.Format(util.DateFormat))
		}
		return fmt.Sprintf("Assignments for course %d: %s.", args.CourseID, strings.Join(parts, ", ")), nil

	case "user_grades":
		if args.Kind == ArgMissing {
			return missingCoursePrompt, nil
		}
		quizAvg, asgAvg, err := s.Data.GradeAverages(userID, args.CourseID)
		if err != nil {
			return "", err
		}
		if quizAvg == nil && asgAvg == nil {
			return fmt.Sprintf("You don't have any grades in course %d yet.", args.CourseID), nil
		}
		var parts []string
		if quizAvg != nil {
			parts = append(parts, fmt.Sprintf("quiz average %.1f%%", *quizAvg))
		}
		if asgAvg != nil {
			parts = append(parts, fmt.Sprintf("assignment average %.1f%%", *asgAvg))
		}
		return fmt.Sprintf("Your grades in course %d: %s.", args.CourseID, strings.Join(parts, ", ")), nil

	case "ai_prediction":
		if args.Kind == ArgMissing {
			return missingCoursePrompt, nil
		}
		prediction, err := s.Data.LatestPrediction(userID, args.CourseID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Sprintf("No prediction has been generated for you in course %d yet.", args.CourseID), nil
			}
			return "", err
		}
		return fmt.Sprintf("Your predicted grade in course %d is %.1f%% (%s, confidence %.0f%%).",
			args.CourseID, prediction.PredictedGrade, prediction.PerformanceLevel, prediction.ConfidenceScore*100), nil

	case "course_announcements":
		if args.Kind == ArgMissing {
			return missingCoursePrompt, nil
		}
		announcements, err := s.Data.AnnouncementsByCourse(args.CourseID, 3)
		if err != nil {
			return "", err
		}
		if len(announcements) == 0 {
			return fmt.Sprintf("Course %d has no announcements.", args.CourseID), nil
		}
		titles := make([]string, len(announcements))
		for i, a := range announcements {
			titles[i] = a.Title
		}
		return fmt.Sprintf("Latest announcements for course %d: %s.", args.CourseID, strings.Join(titles, "; ")), nil

	case "calendar_events":
		events, err := s.Data.UpcomingEvents(userID, 5)
		if err != nil {
			return "", err
		}
		if len(events) == 0 {
			return "You have no upcoming events on your calendar.", nil
		}
		parts := make([]string, len(events))
		for i, e := range events {
			parts[i] = fmt.Sprintf("%s on %s", e.Title, e.StartsAt.Format(util.DateFormat))
		}
		return "Upcoming events: " + strings.Join(parts, ", ") + ".", nil

	case "mentor_requests":
		requests, err := s.Data.PendingMentorRequests(userID)
		if err != nil {
			return "", err
		}
		if len(requests) == 0 {
			return "You have no pending mentor requests.", nil
		}
		return fmt.Sprintf("You have %d pending mentor request(s).", len(requests)), nil

	case "course_enrollments":
		if args.Kind == ArgMissing {
			return missingCoursePrompt, nil
		}
		count, err := s.Data.ActiveEnrollmentCount(args.CourseID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Course %d currently has %d active student(s).", args.CourseID, count), nil

	case "course_lessons":
		if args.Kind == ArgMissing {
			return missingCoursePrompt, nil
		}
		lessons, err := s.Data.LessonsByCourse(args.CourseID)
		if err != nil {
			return "", err
		}
		if len(lessons) == 0 {
			return fmt.Sprintf("Course %d has no lessons yet.", args.CourseID), nil
		}
		titles := make([]string, len(lessons))
		for i, l := range lessons {
			titles[i] = l.Title
		}
		return fmt.Sprintf("Course %d has %d lesson(s): %s.", args.CourseID, len(lessons), strings.Join(titles, ", ")), nil

	case "user_progress":
		if args.Kind == ArgMissing {
			return missingCoursePrompt, nil
		}
		completed, total, err := s.Data.ProgressCounts(userID, args.CourseID)
		if err != nil {
			return "", err
		}
		if total == 0 {
			return fmt.Sprintf("Course %d has no lessons to track yet.", args.CourseID), nil
		}
		return fmt.Sprintf("You have completed %d of %d lessons in course %d.", completed, total, args.CourseID), nil

	case "course_quizzes":
		if args.Kind == ArgMissing {
			return missingCoursePrompt, nil
		}
		quizzes, err := s.Data.QuizzesByCourse(args.CourseID)
		if err != nil {
			return "", err
		}
		if len(quizzes) == 0 {
			return fmt.Sprintf("Course %d has no published quizzes.", args.CourseID), nil
		}
		titles := make([]string, len(quizzes))
		for i, q := range quizzes {
			titles[i] = q.Title
		}
		return fmt.Sprintf("Quizzes in course %d: %s.", args.CourseID, strings.Join(titles, ", ")), nil

	case "quiz_attempts":
		if args.Kind == ArgMissing {
			return missingCoursePrompt, nil
		}
		attempts, err := s.Data.UserQuizAttempts(userID, args.CourseID, 5)
		if err != nil {
			return "", err
		}
		if len(attempts) == 0 {
			return fmt.Sprintf("You haven't submitted any quizzes in course %d.", args.CourseID), nil
		}
		parts := make([]string, len(attempts))
		for i, a := range attempts {
			parts[i] = fmt.Sprintf("%.0f%%", a.Score)
		}
		return fmt.Sprintf("Your recent quiz scores in course %d: %s.", args.CourseID, strings.Join(parts, ", ")), nil
	}

	return "", nil
}

package service

import (
	"fmt"
	"strings"
	"testing"

	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/util"

	"gorm.io/gorm"
)

type fakeChatStore struct {
	conversations map[string]*model.ChatConversation
	messages      []model.ChatMessage
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{conversations: map[string]*model.ChatConversation{}}
}

func (f *fakeChatStore) CreateConversation(conversation *model.ChatConversation) error {
	if conversation.ID == "" {
		conversation.ID = fmt.Sprintf("conv-%d", len(f.conversations)+1)
	}
	f.conversations[conversation.ID] = conversation
	return nil
}

func (f *fakeChatStore) FindConversation(id string) (*model.ChatConversation, error) {
	if c, ok := f.conversations[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChatStore) ListConversationsByUser(userID uint) ([]model.ChatConversation, error) {
	var out []model.ChatConversation
	for _, c := range f.conversations {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeChatStore) CreateMessage(message *model.ChatMessage) error {
	if message.ID == "" {
		message.ID = fmt.Sprintf("msg-%d", len(f.messages)+1)
	}
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeChatStore) ListMessages(conversationID string) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeBotData struct {
	courses     []model.Course
	prediction  *model.Prediction
	lookupErr   error
	enrollments int64
}

func (f *fakeBotData) ListCourses(limit int) ([]model.Course, error) {
	return f.courses, f.lookupErr
}

func (f *fakeBotData) CourseByID(id uint) (*model.Course, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBotData) AssignmentsByCourse(courseID uint, limit int) ([]model.Assignment, error) {
	return nil, f.lookupErr
}

func (f *fakeBotData) AnnouncementsByCourse(courseID uint, limit int) ([]model.Announcement, error) {
	return nil, f.lookupErr
}

func (f *fakeBotData) LessonsByCourse(courseID uint) ([]model.Lesson, error) {
	return nil, f.lookupErr
}

func (f *fakeBotData) QuizzesByCourse(courseID uint) ([]model.Quiz, error) {
	return nil, f.lookupErr
}

func (f *fakeBotData) ActiveEnrollmentCount(courseID uint) (int64, error) {
	return f.enrollments, f.lookupErr
}

func (f *fakeBotData) UserQuizAttempts(userID, courseID uint, limit int) ([]model.QuizAttempt, error) {
	return nil, f.lookupErr
}

func (f *fakeBotData) GradeAverages(userID, courseID uint) (*float64, *float64, error) {
	return nil, nil, f.lookupErr
}

func (f *fakeBotData) LatestPrediction(userID, courseID uint) (*model.Prediction, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if f.prediction == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.prediction, nil
}

func (f *fakeBotData) UpcomingEvents(userID uint, limit int) ([]model.CalendarEvent, error) {
	return nil, f.lookupErr
}

func (f *fakeBotData) PendingMentorRequests(userID uint) ([]model.MentorRequest, error) {
	return nil, f.lookupErr
}

func (f *fakeBotData) ProgressCounts(userID, courseID uint) (int64, int64, error) {
	return 0, 0, f.lookupErr
}

type fakeIntentModel struct {
	intent   string
	ok       bool
	statics  map[string]string
	reloaded int
}

func (f *fakeIntentModel) Classify(text string) (string, bool) {
	return f.intent, f.ok
}

func (f *fakeIntentModel) StaticResponse(intent string) string {
	return f.statics[intent]
}

func (f *fakeIntentModel) Reload() error {
	f.reloaded++
	return nil
}

func newChatbotFixture(intent string, ok bool) (*ChatbotService, *fakeChatStore, *fakeBotData, *fakeIntentModel) {
	store := newFakeChatStore()
	data := &fakeBotData{}
	intentModel := &fakeIntentModel{
		intent: intent,
		ok:     ok,
		statics: map[string]string{
			"greeting":      "Hi! Ask me about your courses.",
			"list_courses":  "Let me look up your courses.",
			"ai_prediction": "Let me check your latest grade prediction.",
		},
	}
	svc := NewChatbotService(store, data, intentModel)
	store.conversations["conv-1"] = &model.ChatConversation{
		UUIDBase: model.UUIDBase{ID: "conv-1"},
		UserID:   101,
	}
	return svc, store, data, intentModel
}

func TestSendMessage_DynamicResponseWinsOverStatic(t *testing.T) {
	svc, store, data, _ := newChatbotFixture("list_courses", true)
	data.courses = []model.Course{
		{BaseModel: model.BaseModel{ID: 1}, Title: "Intro to Go", Published: true},
	}

	reply, err := svc.SendMessage(101, "conv-1", "list my courses")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply.Content, "Intro to Go") {
		t.Fatalf("expected dynamic course list, got %q", reply.Content)
	}
	if reply.SenderType != model.SenderBot {
		t.Fatalf("expected bot sender got %q", reply.SenderType)
	}
	if reply.Intent != "list_courses" {
		t.Fatalf("expected intent recorded, got %q", reply.Intent)
	}
	// 用户消息和机器人消息都要落库
	if len(store.messages) != 2 {
		t.Fatalf("expected 2 persisted messages got %d", len(store.messages))
	}
	if store.messages[0].SenderType != model.SenderUser || store.messages[0].Intent != "" {
		t.Fatalf("unexpected user message: %+v", store.messages[0])
	}
}

func TestSendMessage_StaticIntentGetsCannedReply(t *testing.T) {
	svc, _, _, _ := newChatbotFixture("greeting", true)

	reply, err := svc.SendMessage(101, "conv-1", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Content != "Hi! Ask me about your courses." {
		t.Fatalf("expected static greeting got %q", reply.Content)
	}
}

func TestSendMessage_UnclassifiedFallsBack(t *testing.T) {
	svc, _, _, _ := newChatbotFixture("", false)

	reply, err := svc.SendMessage(101, "conv-1", "asdf qwerty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Content != FallbackResponse {
		t.Fatalf("expected fallback got %q", reply.Content)
	}
	if reply.Intent != "" {
		t.Fatalf("expected empty intent got %q", reply.Intent)
	}
}

func TestSendMessage_LookupFailureDegradesToStatic(t *testing.T) {
	svc, _, data, _ := newChatbotFixture("list_courses", true)
	data.lookupErr = fmt.Errorf("db gone")

	reply, err := svc.SendMessage(101, "conv-1", "list my courses")
	if err != nil {
		t.Fatalf("expected degradation, got error: %v", err)
	}
	if reply.Content != "Let me look up your courses." {
		t.Fatalf("expected static fallback got %q", reply.Content)
	}
}

func TestSendMessage_MissingCourseArgPrompts(t *testing.T) {
	svc, _, _, _ := newChatbotFixture("ai_prediction", true)

	reply, err := svc.SendMessage(101, "conv-1", "predict my grade")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Content != missingCoursePrompt {
		t.Fatalf("expected course prompt got %q", reply.Content)
	}
}

func TestSendMessage_PredictionReplyIncludesLevelAndConfidence(t *testing.T) {
	svc, _, data, _ := newChatbotFixture("ai_prediction", true)
	data.prediction = &model.Prediction{
		UserID:           101,
		CourseID:         3,
		PredictedGrade:   84.5,
		ConfidenceScore:  0.7,
		PerformanceLevel: model.PerformanceGood,
	}

	reply, err := svc.SendMessage(101, "conv-1", "predict my grade in course 3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Your predicted grade in course 3 is 84.5% (good, confidence 70%)."
	if reply.Content != want {
		t.Fatalf("expected %q got %q", want, reply.Content)
	}
}

func TestSendMessage_DeniesForeignConversation(t *testing.T) {
	svc, _, _, _ := newChatbotFixture("greeting", true)

	if _, err := svc.SendMessage(999, "conv-1", "hello"); err != util.ErrConversationDenied {
		t.Fatalf("expected ErrConversationDenied got %v", err)
	}
	if _, err := svc.SendMessage(101, "missing", "hello"); err == nil {
		t.Fatalf("expected error for unknown conversation")
	}
}

func TestGetMessages_OwnershipEnforced(t *testing.T) {
	svc, store, _, _ := newChatbotFixture("greeting", true)
	store.messages = append(store.messages, model.ChatMessage{
		UUIDBase:       model.UUIDBase{ID: "msg-1"},
		ConversationID: "conv-1",
		SenderType:     model.SenderUser,
		Content:        "hi",
	})

	if _, err := svc.GetMessages(999, "conv-1"); err != util.ErrConversationDenied {
		t.Fatalf("expected ErrConversationDenied got %v", err)
	}
	messages, err := svc.GetMessages(101, "conv-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message got %d", len(messages))
	}
}

func TestReloadModel_DelegatesToClassifier(t *testing.T) {
	svc, _, _, intentModel := newChatbotFixture("greeting", true)
	if err := svc.ReloadModel(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intentModel.reloaded != 1 {
		t.Fatalf("expected 1 reload got %d", intentModel.reloaded)
	}
}

package service

import (
	"testing"

	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/util"

	"gorm.io/gorm"
)

type fakePairingStore struct {
	replaced      []model.MentorshipPairing
	replacedFor   uint
	activeMentors map[uint]bool
	requests      map[uint]*model.MentorRequest
	accepted      []uint
	statusUpdates map[uint]model.MentorRequestStatus
}

func newFakePairingStore() *fakePairingStore {
	return &fakePairingStore{
		activeMentors: map[uint]bool{},
		requests:      map[uint]*model.MentorRequest{},
		statusUpdates: map[uint]model.MentorRequestStatus{},
	}
}

func (f *fakePairingStore) ReplacePairings(courseID uint, pairings []model.MentorshipPairing) error {
	f.replacedFor = courseID
	f.replaced = pairings
	return nil
}

func (f *fakePairingStore) ListActiveByCourse(courseID uint) ([]model.MentorshipPairing, error) {
	return f.replaced, nil
}

func (f *fakePairingStore) ListActiveByMentor(mentorID uint) ([]model.MentorshipPairing, error) {
	var out []model.MentorshipPairing
	for _, p := range f.replaced {
		if p.MentorID == mentorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePairingStore) ListActiveByMentee(menteeID uint) ([]model.MentorshipPairing, error) {
	var out []model.MentorshipPairing
	for _, p := range f.replaced {
		if p.MenteeID == menteeID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePairingStore) HasActiveMentor(mentorID, courseID uint) (bool, error) {
	return f.activeMentors[mentorID], nil
}

func (f *fakePairingStore) CreateRequest(request *model.MentorRequest) error {
	request.ID = uint(len(f.requests) + 1)
	f.requests[request.ID] = request
	return nil
}

func (f *fakePairingStore) FindRequestByID(id uint) (*model.MentorRequest, error) {
	if r, ok := f.requests[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePairingStore) ListRequestsByStudent(studentID uint) ([]model.MentorRequest, error) {
	var out []model.MentorRequest
	for _, r := range f.requests {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakePairingStore) ListRequestsByCourse(courseID uint, status model.MentorRequestStatus) ([]model.MentorRequest, error) {
	var out []model.MentorRequest
	for _, r := range f.requests {
		if r.CourseID == courseID && (status == "" || r.Status == status) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakePairingStore) UpdateRequestStatus(id uint, status model.MentorRequestStatus) error {
	f.statusUpdates[id] = status
	if r, ok := f.requests[id]; ok {
		r.Status = status
	}
	return nil
}

func (f *fakePairingStore) AcceptRequest(request *model.MentorRequest, mentorID uint) error {
	f.accepted = append(f.accepted, request.ID)
	if r, ok := f.requests[request.ID]; ok {
		r.Status = model.RequestAccepted
		r.AssignedMentorID = &mentorID
	}
	return nil
}

type fakeGradeAverager struct {
	averages map[uint]float64
}

func (f *fakeGradeAverager) AverageGrade(userID, courseID uint) (*float64, error) {
	if avg, ok := f.averages[userID]; ok {
		return &avg, nil
	}
	return nil, nil
}

func newMentorshipFixture() (*MentorshipService, *fakePairingStore, *fakePredictionStore, *fakeEnrollments, *fakeGradeAverager) {
	pairings := newFakePairingStore()
	predictions := &fakePredictionStore{latest: map[uint]*model.Prediction{}}
	courses := &fakeCourses{courses: map[uint]*model.Course{
		1: {TeacherID: 10, Published: true},
	}}
	enrollments := &fakeEnrollments{active: map[uint][]model.Enrollment{}}
	grades := &fakeGradeAverager{averages: map[uint]float64{}}
	svc := NewMentorshipService(pairings, predictions, courses, enrollments, grades)
	return svc, pairings, predictions, enrollments, grades
}

func predictionsFor(grades map[uint]float64) []model.Prediction {
	out := make([]model.Prediction, 0, len(grades))
	for userID, grade := range grades {
		out = append(out, model.Prediction{UserID: userID, CourseID: 1, PredictedGrade: grade})
	}
	return out
}

func TestBuildPairings_TopThirtyPercentMentorBottomThirtyPercent(t *testing.T) {
	// 10 人: ceil(0.3*10)=3 对
	grades := map[uint]float64{}
	for i := uint(1); i <= 10; i++ {
		grades[i] = float64(50 + i*4) // user 10 最高 90，user 1 最低 54
	}
	pairings := buildPairings(1, predictionsFor(grades))

	if len(pairings) != 3 {
		t.Fatalf("expected 3 pairings got %d", len(pairings))
	}
	// 第 1 名导师配底部区间里名次最高的学员
	if pairings[0].MentorID != 10 || pairings[0].MenteeID != 3 {
		t.Fatalf("unexpected first pairing: mentor=%d mentee=%d", pairings[0].MentorID, pairings[0].MenteeID)
	}
	if pairings[2].MentorID != 8 || pairings[2].MenteeID != 1 {
		t.Fatalf("unexpected last pairing: mentor=%d mentee=%d", pairings[2].MentorID, pairings[2].MenteeID)
	}
	for _, p := range pairings {
		if p.Status != model.PairingActive {
			t.Fatalf("expected active pairing got %q", p.Status)
		}
		if p.CourseID != 1 {
			t.Fatalf("expected courseID=1 got %d", p.CourseID)
		}
	}
}

func TestBuildPairings_MentorAlwaysOutranksMentee(t *testing.T) {
	grades := map[uint]float64{}
	for i := uint(1); i <= 7; i++ {
		grades[i] = float64(40 + i*7)
	}
	byUser := map[uint]float64{}
	for u, g := range grades {
		byUser[u] = g
	}
	for _, p := range buildPairings(1, predictionsFor(grades)) {
		if byUser[p.MentorID] <= byUser[p.MenteeID] {
			t.Fatalf("mentor %d (%v) does not outrank mentee %d (%v)",
				p.MentorID, byUser[p.MentorID], p.MenteeID, byUser[p.MenteeID])
		}
	}
}

func TestBuildPairings_TiesBreakByUserID(t *testing.T) {
	predictions := []model.Prediction{
		{UserID: 5, CourseID: 1, PredictedGrade: 90},
		{UserID: 2, CourseID: 1, PredictedGrade: 90},
		{UserID: 7, CourseID: 1, PredictedGrade: 50},
		{UserID: 3, CourseID: 1, PredictedGrade: 50},
	}
	pairings := buildPairings(1, predictions)
	// ceil(0.3*4)=2 对；并列 90 分时 user 2 排前，并列 50 分时 user 7 排后
	if len(pairings) != 2 {
		t.Fatalf("expected 2 pairings got %d", len(pairings))
	}
	if pairings[0].MentorID != 2 || pairings[0].MenteeID != 3 {
		t.Fatalf("unexpected first pairing: %+v", pairings[0])
	}
	if pairings[1].MentorID != 5 || pairings[1].MenteeID != 7 {
		t.Fatalf("unexpected second pairing: %+v", pairings[1])
	}
}

func TestMatchCourse_RequiresTwoPredictionsAndOwnership(t *testing.T) {
	svc, _, predictions, _, _ := newMentorshipFixture()
	predictions.latest[101] = &model.Prediction{UserID: 101, CourseID: 1, PredictedGrade: 90}

	if _, err := svc.MatchCourse(10, model.Teacher, 1); err != util.ErrNotEnoughStudents {
		t.Fatalf("expected ErrNotEnoughStudents got %v", err)
	}
	if _, err := svc.MatchCourse(99, model.Teacher, 1); err != util.ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied got %v", err)
	}
	if _, err := svc.MatchCourse(10, model.Teacher, 42); err != util.ErrCourseNotFound {
		t.Fatalf("expected ErrCourseNotFound got %v", err)
	}
}

func TestMatchCourse_ReplacesPairings(t *testing.T) {
	svc, store, predictions, _, _ := newMentorshipFixture()
	predictions.latest[101] = &model.Prediction{UserID: 101, CourseID: 1, PredictedGrade: 95}
	predictions.latest[102] = &model.Prediction{UserID: 102, CourseID: 1, PredictedGrade: 45}

	pairings, err := svc.MatchCourse(10, model.Teacher, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairings) != 1 {
		t.Fatalf("expected 1 pairing got %d", len(pairings))
	}
	if store.replacedFor != 1 {
		t.Fatalf("expected ReplacePairings for course 1 got %d", store.replacedFor)
	}
	if pairings[0].MentorID != 101 || pairings[0].MenteeID != 102 {
		t.Fatalf("unexpected pairing: %+v", pairings[0])
	}
}

func TestRequestMentor_RequiresActiveEnrollment(t *testing.T) {
	svc, _, _, enrollments, _ := newMentorshipFixture()

	if _, err := svc.RequestMentor(101, 1, "need help with loops"); err != util.ErrNotEnrolled {
		t.Fatalf("expected ErrNotEnrolled got %v", err)
	}

	enrollments.active[1] = []model.Enrollment{{UserID: 101, CourseID: 1}}
	request, err := svc.RequestMentor(101, 1, "need help with loops")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.Status != model.RequestPending {
		t.Fatalf("expected pending got %q", request.Status)
	}
}

func TestAcceptRequest_EligibilityByAverageGrade(t *testing.T) {
	svc, store, _, _, grades := newMentorshipFixture()
	store.requests[1] = &model.MentorRequest{
		BaseModel: model.BaseModel{ID: 1},
		StudentID: 101, CourseID: 1, Status: model.RequestPending,
	}

	// 平均分不足且不是在任导师
	grades.averages[200] = 75
	if _, err := svc.AcceptRequest(200, 1); err != util.ErrMentorNotEligible {
		t.Fatalf("expected ErrMentorNotEligible got %v", err)
	}

	grades.averages[200] = 85
	request, err := svc.AcceptRequest(200, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.Status != model.RequestAccepted {
		t.Fatalf("expected accepted got %q", request.Status)
	}
	if request.AssignedMentorID == nil || *request.AssignedMentorID != 200 {
		t.Fatalf("expected assigned mentor 200 got %v", request.AssignedMentorID)
	}
	if len(store.accepted) != 1 {
		t.Fatalf("expected 1 accept call got %d", len(store.accepted))
	}
}

func TestAcceptRequest_ActiveMentorSkipsGradeCheck(t *testing.T) {
	svc, store, _, _, _ := newMentorshipFixture()
	store.requests[1] = &model.MentorRequest{
		BaseModel: model.BaseModel{ID: 1},
		StudentID: 101, CourseID: 1, Status: model.RequestPending,
	}
	store.activeMentors[300] = true

	if _, err := svc.AcceptRequest(300, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAcceptRequest_RejectsSelfAndNonPending(t *testing.T) {
	svc, store, _, _, _ := newMentorshipFixture()
	store.requests[1] = &model.MentorRequest{
		BaseModel: model.BaseModel{ID: 1},
		StudentID: 101, CourseID: 1, Status: model.RequestPending,
	}
	store.requests[2] = &model.MentorRequest{
		BaseModel: model.BaseModel{ID: 2},
		StudentID: 101, CourseID: 1, Status: model.RequestRejected,
	}

	if _, err := svc.AcceptRequest(101, 1); err != util.ErrMentorNotEligible {
		t.Fatalf("expected ErrMentorNotEligible for self-accept got %v", err)
	}
	if _, err := svc.AcceptRequest(200, 2); err != util.ErrRequestNotPending {
		t.Fatalf("expected ErrRequestNotPending got %v", err)
	}
}

func TestCompleteRequest_OnlyOwnerAndOnlyAccepted(t *testing.T) {
	svc, store, _, _, _ := newMentorshipFixture()
	mentorID := uint(200)
	store.requests[1] = &model.MentorRequest{
		BaseModel: model.BaseModel{ID: 1},
		StudentID: 101, CourseID: 1, Status: model.RequestAccepted, AssignedMentorID: &mentorID,
	}

	if err := svc.CompleteRequest(102, 1); err != util.ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied got %v", err)
	}
	if err := svc.CompleteRequest(101, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.statusUpdates[1] != model.RequestCompleted {
		t.Fatalf("expected completed got %q", store.statusUpdates[1])
	}
}

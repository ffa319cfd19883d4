package service

import (
	"encoding/json"
	"testing"

	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/util"

	"gorm.io/gorm"
)

type fakePredictionStore struct {
	created []model.Prediction
	latest  map[uint]*model.Prediction
}

func (f *fakePredictionStore) Create(p *model.Prediction) error {
	f.created = append(f.created, *p)
	return nil
}

func (f *fakePredictionStore) LatestForStudent(courseID, userID uint) (*model.Prediction, error) {
	if p, ok := f.latest[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePredictionStore) ListLatestByCourse(courseID uint) ([]model.Prediction, error) {
	out := make([]model.Prediction, 0, len(f.latest))
	for _, p := range f.latest {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePredictionStore) ListHistory(courseID, userID uint, limit int) ([]model.Prediction, error) {
	var out []model.Prediction
	for _, p := range f.created {
		if p.CourseID == courseID && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeCourses struct {
	courses map[uint]*model.Course
}

func (f *fakeCourses) FindByID(id uint) (*model.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeEnrollments struct {
	active map[uint][]model.Enrollment
}

func (f *fakeEnrollments) ListActiveByCourse(courseID uint) ([]model.Enrollment, error) {
	return f.active[courseID], nil
}

func (f *fakeEnrollments) IsActive(userID, courseID uint) (bool, error) {
	for _, e := range f.active[courseID] {
		if e.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeSignals struct {
	quizzes     map[uint][]float64
	assignments map[uint][]float64
	completion  map[uint]float64
}

func (f *fakeSignals) QuizPercentages(userID, courseID uint) ([]float64, error) {
	return f.quizzes[userID], nil
}

func (f *fakeSignals) AssignmentPercentages(userID, courseID uint) ([]float64, error) {
	return f.assignments[userID], nil
}

func (f *fakeSignals) LessonCompletionRatio(userID, courseID uint) (float64, error) {
	return f.completion[userID], nil
}

func newPredictionFixture() (*PredictionService, *fakePredictionStore, *fakeEnrollments, *fakeSignals) {
	store := &fakePredictionStore{latest: map[uint]*model.Prediction{}}
	courses := &fakeCourses{courses: map[uint]*model.Course{
		1: {TeacherID: 10, Published: true},
	}}
	enrollments := &fakeEnrollments{active: map[uint][]model.Enrollment{}}
	signals := &fakeSignals{
		quizzes:     map[uint][]float64{},
		assignments: map[uint][]float64{},
		completion:  map[uint]float64{},
	}
	return NewPredictionService(store, courses, enrollments, signals), store, enrollments, signals
}

func TestComputePrediction_BlendsQuizAndAssignmentAverages(t *testing.T) {
	grade, confidence := computePrediction([]float64{90, 80}, []float64{60, 70}, 0)
	// 0.6*85 + 0.4*65 = 77
	if grade != 77 {
		t.Fatalf("expected grade=77 got %v", grade)
	}
	if confidence != 0.7 {
		t.Fatalf("expected confidence=0.7 got %v", confidence)
	}
}

func TestComputePrediction_SingleSourceLowConfidence(t *testing.T) {
	grade, confidence := computePrediction([]float64{50}, nil, 0)
	if grade != 50 {
		t.Fatalf("expected grade=50 got %v", grade)
	}
	if confidence != 0.4 {
		t.Fatalf("expected confidence=0.4 got %v", confidence)
	}

	grade, confidence = computePrediction(nil, []float64{88}, 0)
	if grade != 88 {
		t.Fatalf("expected grade=88 got %v", grade)
	}
	if confidence != 0.4 {
		t.Fatalf("expected confidence=0.4 got %v", confidence)
	}
}

func TestComputePrediction_CompletionBoostIsCapped(t *testing.T) {
	_, confidence := computePrediction([]float64{90, 85}, []float64{80, 75}, 0.8)
	if confidence != 0.9 {
		t.Fatalf("expected capped confidence=0.9 got %v", confidence)
	}

	_, confidence = computePrediction([]float64{90}, nil, 0.8)
	if confidence != 0.6 {
		t.Fatalf("expected confidence=0.6 got %v", confidence)
	}

	// 恰好一半不加成
	_, confidence = computePrediction([]float64{90}, nil, 0.5)
	if confidence != 0.4 {
		t.Fatalf("expected confidence=0.4 got %v", confidence)
	}
}

func TestPerformanceLevelFor_Boundaries(t *testing.T) {
	cases := []struct {
		grade float64
		want  model.PerformanceLevel
	}{
		{95, model.PerformanceExcellent},
		{90, model.PerformanceExcellent},
		{89.9, model.PerformanceGood},
		{80, model.PerformanceGood},
		{79.9, model.PerformanceAverage},
		{70, model.PerformanceAverage},
		{69.9, model.PerformanceAtRisk},
		{60, model.PerformanceAtRisk},
		{59.9, model.PerformanceCritical},
		{0, model.PerformanceCritical},
	}
	for _, tc := range cases {
		if got := PerformanceLevelFor(tc.grade); got != tc.want {
			t.Fatalf("grade %v: expected %q got %q", tc.grade, tc.want, got)
		}
	}
}

func TestGeneratePredictions_AppendsPerStudentAndSkipsNoData(t *testing.T) {
	svc, store, enrollments, signals := newPredictionFixture()
	enrollments.active[1] = []model.Enrollment{
		{UserID: 101, CourseID: 1},
		{UserID: 102, CourseID: 1},
		{UserID: 103, CourseID: 1}, // 无任何成绩，应跳过
	}
	signals.quizzes[101] = []float64{95, 93}
	signals.assignments[101] = []float64{90, 92}
	signals.completion[101] = 0.9
	signals.assignments[102] = []float64{40}

	generated, err := svc.GeneratePredictions(10, model.Teacher, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(generated) != 2 {
		t.Fatalf("expected 2 predictions got %d", len(generated))
	}
	if len(store.created) != 2 {
		t.Fatalf("expected 2 stored predictions got %d", len(store.created))
	}

	first := generated[0]
	if first.UserID != 101 {
		t.Fatalf("expected first prediction for user 101 got %d", first.UserID)
	}
	if first.PerformanceLevel != model.PerformanceExcellent {
		t.Fatalf("expected excellent got %q", first.PerformanceLevel)
	}
	if first.ConfidenceScore != 0.9 {
		t.Fatalf("expected confidence 0.9 got %v", first.ConfidenceScore)
	}

	second := generated[1]
	if second.PerformanceLevel != model.PerformanceCritical {
		t.Fatalf("expected critical got %q", second.PerformanceLevel)
	}

	var factors model.PredictionFactors
	if err := json.Unmarshal([]byte(first.Factors), &factors); err != nil {
		t.Fatalf("factors not valid JSON: %v", err)
	}
	if factors.QuizCount != 2 || factors.AssignmentCount != 2 {
		t.Fatalf("unexpected factor counts: %+v", factors)
	}
}

func TestGeneratePredictions_RejectsForeignTeacher(t *testing.T) {
	svc, _, enrollments, _ := newPredictionFixture()
	enrollments.active[1] = []model.Enrollment{{UserID: 101, CourseID: 1}}

	if _, err := svc.GeneratePredictions(99, model.Teacher, 1); err != util.ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied got %v", err)
	}
	if _, err := svc.GeneratePredictions(10, model.Teacher, 42); err != util.ErrCourseNotFound {
		t.Fatalf("expected ErrCourseNotFound got %v", err)
	}
}

func TestGeneratePredictions_NoDataAtAllFails(t *testing.T) {
	svc, _, enrollments, _ := newPredictionFixture()

	if _, err := svc.GeneratePredictions(10, model.Teacher, 1); err != util.ErrNoActiveEnrollments {
		t.Fatalf("expected ErrNoActiveEnrollments for empty course got %v", err)
	}

	// 有学生但都没有成绩数据
	enrollments.active[1] = []model.Enrollment{{UserID: 101, CourseID: 1}}
	if _, err := svc.GeneratePredictions(10, model.Teacher, 1); err != util.ErrNoActiveEnrollments {
		t.Fatalf("expected ErrNoActiveEnrollments when all skipped got %v", err)
	}
}

func TestGetHistory_StudentsOnlySeeTheirOwn(t *testing.T) {
	svc, store, _, _ := newPredictionFixture()
	store.created = []model.Prediction{{UserID: 101, CourseID: 1, PredictedGrade: 70}}

	if _, err := svc.GetHistory(102, model.Student, 1, 101, 10); err != util.ErrPermissionDenied {
		t.Fatalf("expected ErrPermissionDenied got %v", err)
	}

	history, err := svc.GetHistory(101, model.Student, 1, 101, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 record got %d", len(history))
	}
}

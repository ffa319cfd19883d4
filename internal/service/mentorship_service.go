package service

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/util"
	"edu_lms_backend/pkg/logger"
	"edu_lms_backend/pkg/monitoring"
	"errors"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// mentorFraction 顶部/底部各取 30%
const mentorFraction = 0.3

// mentorGradeThreshold 非在任导师接受申请所需的平均分下限
const mentorGradeThreshold = 80.0

// PairingStore 配对与导师申请的持久化
type PairingStore interface {
	ReplacePairings(courseID uint, pairings []model.MentorshipPairing) error
	ListActiveByCourse(courseID uint) ([]model.MentorshipPairing, error)
	ListActiveByMentor(mentorID uint) ([]model.MentorshipPairing, error)
	ListActiveByMentee(menteeID uint) ([]model.MentorshipPairing, error)
	HasActiveMentor(mentorID, courseID uint) (bool, error)
	CreateRequest(request *model.MentorRequest) error
	FindRequestByID(id uint) (*model.MentorRequest, error)
	ListRequestsByStudent(studentID uint) ([]model.MentorRequest, error)
	ListRequestsByCourse(courseID uint, status model.MentorRequestStatus) ([]model.MentorRequest, error)
	UpdateRequestStatus(id uint, status model.MentorRequestStatus) error
	AcceptRequest(request *model.MentorRequest, mentorID uint) error
}

// GradeAverager 接受申请时的导师资格评分
type GradeAverager interface {
	AverageGrade(userID, courseID uint) (*float64, error)
}

type MentorshipService struct {
	Pairings    PairingStore
	Predictions PredictionStore
	Courses     CourseFinder
	Enrollments EnrollmentSource
	Grades      GradeAverager
}

func NewMentorshipService(pairings PairingStore, predictions PredictionStore, courses CourseFinder, enrollments EnrollmentSource, grades GradeAverager) *MentorshipService {
	return &MentorshipService{
		Pairings:    pairings,
		Predictions: predictions,
		Courses:     courses,
		Enrollments: enrollments,
		Grades:      grades,
	}
}

// MatchCourse 按最新预测成绩重建课程配对：顶部 30% 做导师，底部 30% 做学员,
// 第 i 名导师对第 i 名学员。旧的 active 配对整体结束后替换。
// 只有课程教师和管理员可以触发。
func (s *MentorshipService) MatchCourse(requesterID uint, role model.UserRole, courseID uint) ([]model.MentorshipPairing, error) {
	course, err := s.Courses.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if role != model.Admin && course.TeacherID != requesterID {
		return nil, util.ErrPermissionDenied
	}

	predictions, err := s.Predictions.ListLatestByCourse(courseID)
	if err != nil {
		return nil, err
	}
	if len(predictions) < 2 {
		return nil, util.ErrNotEnoughStudents
	}

	pairings := buildPairings(courseID, predictions)
	if err := s.Pairings.ReplacePairings(courseID, pairings); err != nil {
		return nil, err
	}

	monitoring.MentorPairingsCreated.Add(float64(len(pairings)))
	logger.Log.Info("mentorship pairings rebuilt",
		zap.Uint("courseId", courseID),
		zap.Int("pairings", len(pairings)))
	return pairings, nil
}

// buildPairings 成绩降序排序（并列按 user_id 升序保证确定性），
// 两端各取 ceil(0.3n) 名，按名次一一配对。
func buildPairings(courseID uint, predictions []model.Prediction) []model.MentorshipPairing {
	ranked := make([]model.Prediction, len(predictions))
	copy(ranked, predictions)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].PredictedGrade != ranked[j].PredictedGrade {
			return ranked[i].PredictedGrade > ranked[j].PredictedGrade
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	n := len(ranked)
	take := int(math.Ceil(mentorFraction * float64(n)))
	mentors := ranked[:take]
	mentees := ranked[n-take:]

	pairs := take
	if len(mentees) < pairs {
		pairs = len(mentees)
	}

	now := time.Now()
	pairings := make([]model.MentorshipPairing, 0, pairs)
	for i := 0; i < pairs; i++ {
		pairings = append(pairings, model.MentorshipPairing{
			MentorID:  mentors[i].UserID,
			MenteeID:  mentees[i].UserID,
			CourseID:  courseID,
			Status:    model.PairingActive,
			StartedAt: now,
		})
	}
	return pairings
}

func (s *MentorshipService) ListCoursePairings(courseID uint) ([]model.MentorshipPairing, error) {
	return s.Pairings.ListActiveByCourse(courseID)
}

// ListMyPairings 用户作为导师和学员的全部 active 配对
func (s *MentorshipService) ListMyPairings(userID uint) ([]model.MentorshipPairing, []model.MentorshipPairing, error) {
	asMentor, err := s.Pairings.ListActiveByMentor(userID)
	if err != nil {
		return nil, nil, err
	}
	asMentee, err := s.Pairings.ListActiveByMentee(userID)
	if err != nil {
		return nil, nil, err
	}
	return asMentor, asMentee, nil
}

// RequestMentor 学生在已注册课程中发起求助
func (s *MentorshipService) RequestMentor(studentID, courseID uint, helpDescription string) (*model.MentorRequest, error) {
	active, err := s.Enrollments.IsActive(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, util.ErrNotEnrolled
	}

	request := &model.MentorRequest{
		StudentID:       studentID,
		CourseID:        courseID,
		HelpDescription: helpDescription,
		Status:          model.RequestPending,
	}
	if err := s.Pairings.CreateRequest(request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *MentorshipService) ListMyRequests(studentID uint) ([]model.MentorRequest, error) {
	return s.Pairings.ListRequestsByStudent(studentID)
}

func (s *MentorshipService) ListCourseRequests(courseID uint, status model.MentorRequestStatus) ([]model.MentorRequest, error) {
	return s.Pairings.ListRequestsByCourse(courseID, status)
}

// AcceptRequest 导师接受 pending 申请并建立配对。
// 资格：已经是该课程的 active 导师，或课程平均分不低于 80。
func (s *MentorshipService) AcceptRequest(mentorID uint, requestID uint) (*model.MentorRequest, error) {
	request, err := s.Pairings.FindRequestByID(requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != model.RequestPending {
		return nil, util.ErrRequestNotPending
	}
	if request.StudentID == mentorID {
		return nil, util.ErrMentorNotEligible
	}

	eligible, err := s.mentorEligible(mentorID, request.CourseID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, util.ErrMentorNotEligible
	}

	if err := s.Pairings.AcceptRequest(request, mentorID); err != nil {
		return nil, err
	}
	monitoring.MentorPairingsCreated.Inc()

	request.Status = model.RequestAccepted
	request.AssignedMentorID = &mentorID
	return request, nil
}

// RejectRequest 课程教师或管理员拒绝 pending 申请
func (s *MentorshipService) RejectRequest(requesterID uint, role model.UserRole, requestID uint) error {
	request, err := s.Pairings.FindRequestByID(requestID)
	if err != nil {
		return err
	}
	if request.Status != model.RequestPending {
		return util.ErrRequestNotPending
	}

	course, err := s.Courses.FindByID(request.CourseID)
	if err != nil {
		return err
	}
	if role != model.Admin && course.TeacherID != requesterID {
		return util.ErrPermissionDenied
	}
	return s.Pairings.UpdateRequestStatus(requestID, model.RequestRejected)
}

// CompleteRequest 申请的学生本人可将已接受的申请标记完成
func (s *MentorshipService) CompleteRequest(studentID, requestID uint) error {
	request, err := s.Pairings.FindRequestByID(requestID)
	if err != nil {
		return err
	}
	if request.StudentID != studentID {
		return util.ErrPermissionDenied
	}
	if request.Status != model.RequestAccepted {
		return util.ErrRequestNotPending
	}
	return s.Pairings.UpdateRequestStatus(requestID, model.RequestCompleted)
}

func (s *MentorshipService) mentorEligible(mentorID, courseID uint) (bool, error) {
	isMentor, err := s.Pairings.HasActiveMentor(mentorID, courseID)
	if err != nil {
		return false, err
	}
	if isMentor {
		return true, nil
	}

	avg, err := s.Grades.AverageGrade(mentorID, courseID)
	if err != nil {
		return false, err
	}
	return avg != nil && *avg >= mentorGradeThreshold, nil
}

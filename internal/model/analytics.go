package model

import "time"

// 分析/报表接口的聚合结果类型，不落库

type CourseAnalytics struct {
	CourseID           uint                     `json:"courseId"`
	ActiveEnrollments  int64                    `json:"activeEnrollments"`
	AverageQuizScore   float64                  `json:"averageQuizScore"`
	AverageAssignment  float64                  `json:"averageAssignment"`
	CompletionRatio    float64                  `json:"completionRatio"`
	LevelDistribution  map[PerformanceLevel]int `json:"levelDistribution"`
	PendingMentorReqs  int64                    `json:"pendingMentorRequests"`
	ActivePairings     int64                    `json:"activePairings"`
}

type StudentOverview struct {
	EnrolledCourses   int64   `json:"enrolledCourses"`
	CompletedCourses  int64   `json:"completedCourses"`
	AverageQuizScore  float64 `json:"averageQuizScore"`
	AverageAssignment float64 `json:"averageAssignment"`
	LessonsCompleted  int64   `json:"lessonsCompleted"`
}

type GradebookRow struct {
	UserID            uint     `json:"userId"`
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	QuizAverage       *float64 `json:"quizAverage,omitempty"`
	AssignmentAverage *float64 `json:"assignmentAverage,omitempty"`
	OverallAverage    *float64 `json:"overallAverage,omitempty"`
}

type EngagementRow struct {
	UserID           uint       `json:"userId"`
	Name             string     `json:"name"`
	LessonsCompleted int64      `json:"lessonsCompleted"`
	LessonsTotal     int64      `json:"lessonsTotal"`
	QuizAttempts     int64      `json:"quizAttempts"`
	Submissions      int64      `json:"submissions"`
	LastActivity     *time.Time `json:"lastActivity,omitempty"`
}

// CourseGrades 学生视角的单课程成绩单
type CourseGrades struct {
	CourseID          uint                   `json:"courseId"`
	QuizAttempts      []QuizAttempt          `json:"quizAttempts"`
	Submissions       []AssignmentSubmission `json:"submissions"`
	QuizAverage       *float64               `json:"quizAverage,omitempty"`
	AssignmentAverage *float64               `json:"assignmentAverage,omitempty"`
	OverallAverage    *float64               `json:"overallAverage,omitempty"`
}

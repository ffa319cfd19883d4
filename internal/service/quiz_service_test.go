package service

import (
	"testing"

	"edu_lms_backend/internal/model"
)

func gradedQuizFixture() *model.Quiz {
	return &model.Quiz{
		BaseModel: model.BaseModel{ID: 1},
		CourseID:  1,
		Title:     "Week 1 Quiz",
		Published: true,
		Questions: []model.QuizQuestion{
			{
				BaseModel: model.BaseModel{ID: 11},
				Answers: []model.QuizAnswer{
					{BaseModel: model.BaseModel{ID: 111}, Correct: true},
					{BaseModel: model.BaseModel{ID: 112}},
				},
			},
			{
				BaseModel: model.BaseModel{ID: 12},
				Answers: []model.QuizAnswer{
					{BaseModel: model.BaseModel{ID: 121}},
					{BaseModel: model.BaseModel{ID: 122}, Correct: true},
				},
			},
			{
				BaseModel: model.BaseModel{ID: 13},
				Answers: []model.QuizAnswer{
					{BaseModel: model.BaseModel{ID: 131}, Correct: true},
					{BaseModel: model.BaseModel{ID: 132}},
				},
			},
		},
	}
}

func TestGradeAttempt_ScoresCorrectFraction(t *testing.T) {
	quiz := gradedQuizFixture()
	score, responses := gradeAttempt(quiz, map[uint]uint{
		11: 111, // 对
		12: 121, // 错
		13: 131, // 对
	})

	want := float64(2) / float64(3) * 100
	if score != want {
		t.Fatalf("expected score=%v got %v", want, score)
	}
	if len(responses) != 3 {
		t.Fatalf("expected 3 responses got %d", len(responses))
	}
	if !responses[0].Correct || responses[1].Correct || !responses[2].Correct {
		t.Fatalf("unexpected correctness flags: %+v", responses)
	}
}

func TestGradeAttempt_UnansweredQuestionsCountWrong(t *testing.T) {
	quiz := gradedQuizFixture()
	score, responses := gradeAttempt(quiz, map[uint]uint{11: 111})

	want := float64(1) / float64(3) * 100
	if score != want {
		t.Fatalf("expected score=%v got %v", want, score)
	}
	// 未作答的题不产生 response 记录
	if len(responses) != 1 {
		t.Fatalf("expected 1 response got %d", len(responses))
	}
}

func TestGradeAttempt_UnknownAnswerIDIsWrong(t *testing.T) {
	quiz := gradedQuizFixture()
	score, responses := gradeAttempt(quiz, map[uint]uint{11: 999})

	if score != 0 {
		t.Fatalf("expected score=0 got %v", score)
	}
	if len(responses) != 1 || responses[0].Correct {
		t.Fatalf("unexpected responses: %+v", responses)
	}
}

func TestGradeAttempt_EmptyQuizScoresZero(t *testing.T) {
	score, responses := gradeAttempt(&model.Quiz{}, map[uint]uint{})
	if score != 0 || responses != nil {
		t.Fatalf("expected zero score and nil responses got %v %v", score, responses)
	}
}

func TestStripAnswerKeys_ClearsCorrectFlags(t *testing.T) {
	quiz := gradedQuizFixture()
	stripAnswerKeys(quiz)
	for _, q := range quiz.Questions {
		for _, a := range q.Answers {
			if a.Correct {
				t.Fatalf("answer %d still marked correct", a.ID)
			}
		}
	}
}

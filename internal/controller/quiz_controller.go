package controller

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// QuizRequest 测验创建/更新请求
type QuizRequest struct {
	Title            string `json:"title" binding:"required"`
	Description      string `json:"description"`
	TimeLimitMinutes int    `json:"timeLimitMinutes"`
	Published        bool   `json:"published"`
}

// QuestionRequest 题目与选项
type QuestionRequest struct {
	Text     string `json:"text" binding:"required"`
	Position int    `json:"position"`
	Points   int    `json:"points"`
	Answers  []struct {
		Text    string `json:"text" binding:"required"`
		Correct bool   `json:"correct"`
	} `json:"answers" binding:"required,min=2"`
}

// SubmitRequest 作答提交，题目ID到选项ID
type SubmitRequest struct {
	Answers map[uint]uint `json:"answers" binding:"required"`
}

// ListByCourse godoc
// @Summary 课程测验列表
// @Description 教师看全部，学生只看已发布
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/courses/{id}/quizzes [get]
func (c *QuizController) ListByCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	quizzes, err := c.QuizService.ListByCourse(claims.UserID, claims.Role, courseID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, quizzes, int64(len(quizzes)))
}

// Create godoc
// @Summary 创建测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课程ID"
// @Param   body body QuizRequest true "测验信息"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/courses/{id}/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	courseID, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid course id")
		return
	}

	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz := &model.Quiz{
		CourseID:         courseID,
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitMinutes: req.TimeLimitMinutes,
		Published:        req.Published,
	}
	if err := c.QuizService.Create(claims.UserID, claims.Role, quiz); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// Get godoc
// @Summary 测验详情
// @Description 学生视角不返回选项的正确性标记
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	quiz, err := c.QuizService.Get(claims.UserID, claims.Role, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Update godoc
// @Summary 更新测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body QuizRequest true "测验字段"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var req QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.Update(claims.UserID, claims.Role, id, &model.Quiz{
		Title:            req.Title,
		Description:      req.Description,
		TimeLimitMinutes: req.TimeLimitMinutes,
		Published:        req.Published,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Delete godoc
// @Summary 删除测验
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	if err := c.QuizService.Delete(claims.UserID, claims.Role, id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "quiz deleted"})
}

// AddQuestion godoc
// @Summary 添加题目
// @Description 题目连同选项一次提交，至少两个选项
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Param   body body QuestionRequest true "题目与选项"
// @Success 201 {object} util.Response{data=model.QuizQuestion}
// @Router /api/quizzes/{id}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var req QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question := &model.QuizQuestion{
		Text:     req.Text,
		Position: req.Position,
		Points:   req.Points,
	}
	for _, a := range req.Answers {
		question.Answers = append(question.Answers, model.QuizAnswer{
			Text:    a.Text,
			Correct: a.Correct,
		})
	}

	if err := c.QuizService.AddQuestion(claims.UserID, claims.Role, id, question); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// StartAttempt godoc
// @Summary 开始作答
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 201 {object} util.Response{data=model.QuizAttempt}
// @Failure 400 {object} util.Response "测验未发布或未注册课程"
// @Router /api/quizzes/{id}/attempts [post]
func (c *QuizController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	attempt, err := c.QuizService.StartAttempt(claims.UserID, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// SubmitAttempt godoc
// @Summary 提交作答
// @Description 自动判分，score = 答对题数 / 总题数 × 100
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答ID"
// @Param   body body SubmitRequest true "题目到选项的映射"
// @Success 200 {object} util.Response{data=model.QuizAttempt}
// @Failure 400 {object} util.Response "已提交过"
// @Router /api/quizzes/attempts/{id}/submit [put]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid attempt id")
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.QuizService.SubmitAttempt(claims.UserID, id, req.Answers)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

// ListAttempts godoc
// @Summary 测验作答列表
// @Description 教师查看某测验的全部作答
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/quizzes/{id}/attempts [get]
func (c *QuizController) ListAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	attempts, err := c.QuizService.ListAttempts(claims.UserID, claims.Role, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, attempts, int64(len(attempts)))
}

package controller

import (
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatbotController struct {
	ChatbotService *service.ChatbotService
}

func NewChatbotController(chatbotService *service.ChatbotService) *ChatbotController {
	return &ChatbotController{ChatbotService: chatbotService}
}

// StartConversationRequest 开启会话请求
type StartConversationRequest struct {
	CourseID *uint  `json:"courseId"`
	Title    string `json:"title"`
}

// ChatMessageRequest 用户消息
type ChatMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// StartConversation godoc
// @Summary 开启机器人会话
// @Tags 学习助手
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body StartConversationRequest true "会话信息"
// @Success 201 {object} util.Response{data=model.ChatConversation}
// @Router /api/chatbot/conversations [post]
func (c *ChatbotController) StartConversation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req StartConversationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	conversation, err := c.ChatbotService.StartConversation(claims.UserID, req.CourseID, req.Title)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, conversation)
}

// ListConversations godoc
// @Summary 我的会话列表
// @Tags 学习助手
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.ChatConversation}
// @Router /api/chatbot/conversations [get]
func (c *ChatbotController) ListConversations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	conversations, err := c.ChatbotService.ListConversations(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, conversations, int64(len(conversations)))
}

// Messages godoc
// @Summary 会话消息记录
// @Tags 学习助手
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=[]model.ChatMessage}
// @Failure 403 {object} util.Response "非本人会话"
// @Router /api/chatbot/conversations/{id}/messages [get]
func (c *ChatbotController) Messages(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	messages, err := c.ChatbotService.GetMessages(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, messages, int64(len(messages)))
}

// SendMessage godoc
// @Summary 发送消息
// @Description 持久化用户消息并返回机器人回复
// @Tags 学习助手
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "会话ID"
// @Param   body body ChatMessageRequest true "消息内容"
// @Success 201 {object} util.Response{data=model.ChatMessage}
// @Router /api/chatbot/conversations/{id}/messages [post]
func (c *ChatbotController) SendMessage(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req ChatMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.ChatbotService.SendMessage(claims.UserID, ctx.Param("id"), req.Text)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, reply)
}

// Reload godoc
// @Summary 重训意图模型
// @Description 管理员触发，强制重新读取训练数据
// @Tags 学习助手
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/chatbot/reload [post]
func (c *ChatbotController) Reload(ctx *gin.Context) {
	if err := c.ChatbotService.ReloadModel(); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "intent model reloaded"})
}

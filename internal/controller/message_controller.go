package controller

import (
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	MessageService *service.MessageService
	Storage        *service.StorageService
}

func NewMessageController(messageService *service.MessageService, storage *service.StorageService) *MessageController {
	return &MessageController{
		MessageService: messageService,
		Storage:        storage,
	}
}

// SendMessageRequest 站内信发送请求
type SendMessageRequest struct {
	RecipientID   uint   `json:"recipientId" binding:"required"`
	Subject       string `json:"subject" binding:"required"`
	Body          string `json:"body"`
	AttachmentURL string `json:"attachmentUrl"`
}

// Send godoc
// @Summary 发送站内信
// @Tags 消息
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SendMessageRequest true "消息内容"
// @Success 201 {object} util.Response{data=model.DirectMessage}
// @Failure 404 {object} util.Response "收件人不存在"
// @Router /api/messages [post]
func (c *MessageController) Send(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	message, err := c.MessageService.Send(claims.UserID, req.RecipientID, req.Subject, req.Body, req.AttachmentURL)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, message)
}

// Inbox godoc
// @Summary 收件箱
// @Tags 消息
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=[]model.DirectMessage}
// @Router /api/messages/inbox [get]
func (c *MessageController) Inbox(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	messages, total, err := c.MessageService.Inbox(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, messages, total)
}

// Sent godoc
// @Summary 已发送
// @Tags 消息
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.Response{data=[]model.DirectMessage}
// @Router /api/messages/sent [get]
func (c *MessageController) Sent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	messages, total, err := c.MessageService.Sent(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, messages, total)
}

// Read godoc
// @Summary 读取消息
// @Description 收件人打开时标记已读
// @Tags 消息
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "消息ID"
// @Success 200 {object} util.Response{data=model.DirectMessage}
// @Router /api/messages/{id} [get]
func (c *MessageController) Read(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid message id")
		return
	}

	message, err := c.MessageService.Read(claims.UserID, id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, message)
}

// Delete godoc
// @Summary 删除消息
// @Tags 消息
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "消息ID"
// @Success 200 {object} util.Response
// @Router /api/messages/{id} [delete]
func (c *MessageController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid message id")
		return
	}

	if err := c.MessageService.Delete(claims.UserID, id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "message deleted"})
}

// UnreadCount godoc
// @Summary 未读数
// @Tags 消息
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=object}
// @Router /api/messages/unread-count [get]
func (c *MessageController) UnreadCount(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	count, err := c.MessageService.UnreadCount(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"unread": count})
}

// UploadAttachment godoc
// @Summary 上传消息附件
// @Tags 消息
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "附件文件"
// @Success 200 {object} util.Response{data=object}
// @Router /api/messages/attachments [post]
func (c *MessageController) UploadAttachment(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	name := service.ObjectName("messages", fileHeader.Filename)
	url, err := c.Storage.Upload(ctx.Request.Context(), name, file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"attachmentUrl": url})
}

package controller

import (
	"edu_lms_backend/internal/model"
	"edu_lms_backend/internal/service"
	"edu_lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HelpController struct {
	HelpService *service.HelpService
}

func NewHelpController(helpService *service.HelpService) *HelpController {
	return &HelpController{HelpService: helpService}
}

// HelpArticleRequest 帮助文章创建/更新请求
type HelpArticleRequest struct {
	Title     string `json:"title" binding:"required"`
	Body      string `json:"body"`
	Category  string `json:"category"`
	Position  int    `json:"position"`
	Published bool   `json:"published"`
}

// List godoc
// @Summary 帮助文章列表
// @Description 普通用户只看已发布，管理员看全部
// @Tags 帮助中心
// @Produce  json
// @Security BearerAuth
// @Param   category query string false "分类过滤"
// @Success 200 {object} util.Response{data=[]model.HelpArticle}
// @Router /api/help/articles [get]
func (c *HelpController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	articles, err := c.HelpService.List(claims.Role, ctx.Query("category"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessWithCount(ctx, articles, int64(len(articles)))
}

// Get godoc
// @Summary 帮助文章详情
// @Tags 帮助中心
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "文章ID"
// @Success 200 {object} util.Response{data=model.HelpArticle}
// @Router /api/help/articles/{id} [get]
func (c *HelpController) Get(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid article id")
		return
	}

	article, err := c.HelpService.Get(id)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, article)
}

// Create godoc
// @Summary 创建帮助文章
// @Tags 帮助中心
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body HelpArticleRequest true "文章内容"
// @Success 201 {object} util.Response{data=model.HelpArticle}
// @Router /api/help/articles [post]
func (c *HelpController) Create(ctx *gin.Context) {
	var req HelpArticleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	article := &model.HelpArticle{
		Title:     req.Title,
		Body:      req.Body,
		Category:  req.Category,
		Position:  req.Position,
		Published: req.Published,
	}
	if err := c.HelpService.Create(article); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, article)
}

// Update godoc
// @Summary 更新帮助文章
// @Tags 帮助中心
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "文章ID"
// @Param   body body HelpArticleRequest true "文章字段"
// @Success 200 {object} util.Response{data=model.HelpArticle}
// @Router /api/help/articles/{id} [put]
func (c *HelpController) Update(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid article id")
		return
	}

	var req HelpArticleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	article, err := c.HelpService.Update(id, &model.HelpArticle{
		Title:     req.Title,
		Body:      req.Body,
		Category:  req.Category,
		Position:  req.Position,
		Published: req.Published,
	})
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, article)
}

// Delete godoc
// @Summary 删除帮助文章
// @Tags 帮助中心
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "文章ID"
// @Success 200 {object} util.Response
// @Router /api/help/articles/{id} [delete]
func (c *HelpController) Delete(ctx *gin.Context) {
	id, err := util.ParseUintParam(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid article id")
		return
	}

	if err := c.HelpService.Delete(id); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "article deleted"})
}

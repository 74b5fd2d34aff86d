package handler

import (
	"net/http"

	"geeknews/internal/domain/feed/service"
	"geeknews/pkg/response"

	"github.com/gin-gonic/gin"
)

// AdminHandler 管理员发布
type AdminHandler struct {
	publisher *service.ContentPublisher
}

// NewAdminHandler 创建处理器
func NewAdminHandler(publisher *service.ContentPublisher) *AdminHandler {
	return &AdminHandler{publisher: publisher}
}

// DraftInput 草稿生成输入
type DraftInput struct {
	Topic string `json:"topic" binding:"required"`
}

// DraftResult 生成的草稿
type DraftResult struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

// Publish 发布新闻或视频
// @Summary 发布内容
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body service.PublishInput true "Content"
// @Success 201 {object} response.Response{data=model.ContentItem}
// @Router /api/v1/admin/content [post]
func (h *AdminHandler) Publish(c *gin.Context) {
	var input service.PublishInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	item, err := h.publisher.Publish(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, item)
}

// Draft 根据主题生成文章草稿
// @Summary 生成草稿
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body DraftInput true "Topic"
// @Success 200 {object} response.Response{data=DraftResult}
// @Router /api/v1/admin/draft [post]
func (h *AdminHandler) Draft(c *gin.Context) {
	var input DraftInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	text, err := h.publisher.Draft(c.Request.Context(), input.Topic)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, DraftResult{Topic: input.Topic, Description: text})
}

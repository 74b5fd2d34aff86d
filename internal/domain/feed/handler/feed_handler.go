package handler

import (
	"net/http"

	"geeknews/internal/domain/feed/model"
	"geeknews/internal/domain/feed/service"
	"geeknews/internal/pkg/middleware"
	"geeknews/pkg/response"
	"geeknews/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/russross/blackfriday/v2"
)

// FeedHandler 内容、评论和表情
type FeedHandler struct {
	service service.FeedService
}

// NewFeedHandler 创建处理器
func NewFeedHandler(service service.FeedService) *FeedHandler {
	return &FeedHandler{service: service}
}

// ContentDetail 详情页数据
type ContentDetail struct {
	model.ContentItem
	DescriptionHTML string         `json:"descriptionHtml,omitempty"`
	Summary         *model.Summary `json:"summary"`
}

// CommentInput 评论输入
type CommentInput struct {
	Content string `json:"content" binding:"required"`
}

// ReactionInput 表情输入
type ReactionInput struct {
	Type model.ReactionKind `json:"type" binding:"required"`
}

// ReactionState 表情计数和当前用户的选择
type ReactionState struct {
	Reactions    model.ReactionCounts `json:"reactions"`
	UserReaction *model.ReactionKind  `json:"userReaction"`
}

// ListFeed 内容列表，?category=NEWS|VIDEO
// @Summary 内容列表
// @Tags Feed
// @Produce json
// @Param category query string false "NEWS 或 VIDEO"
// @Success 200 {object} response.Response{data=[]model.ContentItem}
// @Router /api/v1/feed [get]
func (h *FeedHandler) ListFeed(c *gin.Context) {
	category := model.Category(c.Query("category"))

	items, err := h.service.ListFeed(c.Request.Context(), category)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, items)
}

// GetContent 内容详情，新闻正文额外渲染为 HTML
// @Summary 内容详情
// @Tags Feed
// @Produce json
// @Param id path string true "Content ID"
// @Success 200 {object} response.Response{data=ContentDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/feed/{id} [get]
func (h *FeedHandler) GetContent(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	item, err := h.service.GetContent(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	username := ""
	if user, ok := middleware.CurrentUser(c); ok {
		username = user.Username
	}
	summary, err := h.service.Summary(ctx, id, username)
	if err != nil {
		writeError(c, err)
		return
	}

	detail := ContentDetail{ContentItem: *item, Summary: summary}
	if item.Category == model.CategoryNews {
		detail.DescriptionHTML = string(blackfriday.Run([]byte(item.Description)))
	}
	response.Success(c, detail)
}

// GetComments 评论列表（新的在前），支持 ?page&limit
// @Summary 评论列表
// @Tags Comment
// @Produce json
// @Param id path string true "Content ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /api/v1/feed/{id}/comments [get]
func (h *FeedHandler) GetComments(c *gin.Context) {
	var page utils.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	comments, err := h.service.GetComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, utils.Paginate(comments, page))
}

// PostComment 发表评论，被规则拒绝时返回 422 和原因
// @Summary 发表评论
// @Tags Comment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Content ID"
// @Param input body CommentInput true "Comment"
// @Success 201 {object} response.Response{data=model.Comment}
// @Failure 422 {object} response.Response{data=model.CommentCheck}
// @Router /api/v1/feed/{id}/comments [post]
func (h *FeedHandler) PostComment(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var input CommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if _, err := h.service.GetContent(ctx, id); err != nil {
		writeError(c, err)
		return
	}

	user, _ := middleware.CurrentUser(c)
	comment, check, err := h.service.SubmitComment(ctx, id, user.Username, input.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	if !check.OK {
		response.Reject(c, http.StatusUnprocessableEntity, response.ErrCommentRejected, check.Reason, check)
		return
	}

	response.Created(c, comment)
}

// GetReactions 表情计数，登录用户额外返回自己的选择
// @Summary 表情计数
// @Tags Reaction
// @Produce json
// @Param id path string true "Content ID"
// @Success 200 {object} response.Response{data=ReactionState}
// @Router /api/v1/feed/{id}/reactions [get]
func (h *FeedHandler) GetReactions(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	counts, err := h.service.GetReactions(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	state := ReactionState{Reactions: counts}
	if user, ok := middleware.CurrentUser(c); ok {
		if state.UserReaction, err = h.service.GetUserReaction(ctx, id, user.Username); err != nil {
			writeError(c, err)
			return
		}
	}
	response.Success(c, state)
}

// SetReaction 设置或切换表情
// @Summary 设置表情
// @Tags Reaction
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Content ID"
// @Param input body ReactionInput true "Reaction"
// @Success 200 {object} response.Response{data=ReactionState}
// @Router /api/v1/feed/{id}/reactions [put]
func (h *FeedHandler) SetReaction(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	var input ReactionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}
	if !input.Type.Valid() {
		writeError(c, service.ErrInvalidReaction)
		return
	}

	if _, err := h.service.GetContent(ctx, id); err != nil {
		writeError(c, err)
		return
	}

	user, _ := middleware.CurrentUser(c)
	counts, err := h.service.SetUserReaction(ctx, id, user.Username, input.Type)
	if err != nil {
		writeError(c, err)
		return
	}

	kind := input.Type
	response.Success(c, ReactionState{Reactions: counts, UserReaction: &kind})
}

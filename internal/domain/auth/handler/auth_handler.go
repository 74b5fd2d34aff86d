package handler

import (
	"errors"
	"net/http"

	"geeknews/internal/domain/auth/service"
	"geeknews/internal/pkg/middleware"
	"geeknews/pkg/logger"
	"geeknews/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler 创建处理器
func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginInput 登录输入
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理登录请求
// @Summary 模拟登录
// @Tags Auth
// @Accept json
// @Produce json
// @Param input body LoginInput true "Credentials"
// @Success 200 {object} response.Response{data=service.Session}
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, service.ErrMissingCredentials.Error())
		return
	}

	session, err := h.service.Login(input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrMissingCredentials) {
			response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
			return
		}
		logger.L().Error("login failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Failed to issue token")
		return
	}

	response.Success(c, session)
}

// Me 返回当前会话用户
func (h *AuthHandler) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	response.Success(c, user)
}

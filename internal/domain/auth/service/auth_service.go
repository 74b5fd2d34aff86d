package service

import (
	"errors"
	"strings"
	"time"

	"geeknews/internal/domain/auth/model"
	"geeknews/pkg/utils"
)

var ErrMissingCredentials = errors.New("username and password are required")

// 模拟登录使用的管理员账号
const (
	adminUsername = "admin"
	adminPassword = "admin"
	adminDisplay  = "Admin"
)

// Session 登录结果
type Session struct {
	Token    string     `json:"token"`
	ExpireAt time.Time  `json:"expireAt"`
	User     model.User `json:"user"`
}

// AuthService 模拟登录：不校验密码，只区分管理员和普通用户
type AuthService interface {
	Login(username, password string) (*Session, error)
}

type authService struct {
	secret string
	expire time.Duration
}

func NewAuthService(secret string, expire time.Duration) AuthService {
	return &authService{secret: secret, expire: expire}
}

func (s *authService) Login(username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user := model.User{Username: username, Role: model.RoleUser}
	if username == adminUsername && password == adminPassword {
		user = model.User{Username: adminDisplay, Role: model.RoleAdmin}
	}

	token, expireAt, err := utils.GenerateToken(s.secret, s.expire, user.Username, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &Session{Token: token, ExpireAt: *expireAt, User: user}, nil
}

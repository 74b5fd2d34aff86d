package model

// Role 用户角色
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
	RoleGuest Role = "GUEST"
)

// User 会话用户，没有持久化的账号
type User struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin 是否为管理员
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Guest 未登录用户
func Guest() User {
	return User{Username: "Guest", Role: RoleGuest}
}

package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 认证错误 100xx
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 内容错误 200xx
	ErrContentNotFound = 20001
	ErrInvalidCategory = 20002
	ErrMissingVideoURL = 20003
	ErrInvalidReaction = 20004
	ErrCommentRejected = 20005

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)

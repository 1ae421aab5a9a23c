package errno

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

const (
	SuccessCode = 0

	ServiceErrCode = 10001

	ParamErrCode = 10002
	ErrBindCode  = 10003

	TokenInvailedErrCode = 10101
	PasswordErrCode      = 10102

	PermissionErrCode = 10201

	NotFoundErrCode         = 10301
	UserNotExistErrCode     = 10302
	VideoNotExistErrCode    = 10303
	CommentNotExistErrCode  = 10304
	TweetNotExistErrCode    = 10305
	PlaylistNotExistErrCode = 10306

	UserAlreadyExistErrCode = 10401
	ConflictErrCode         = 10402

	MysqlErrCode  = 10501
	RedisErrCode  = 10502
	OssErrCode    = 10503
	MqErrCode     = 10504
	SearchErrCode = 10505

	RateLimitErrCode = 10601
)

// Kind 错误的分类, 每个错误码只属于一个分类
type Kind string

const (
	KindValidation     Kind = "ValidationError"
	KindAuthentication Kind = "AuthenticationError"
	KindAuthorization  Kind = "AuthorizationError"
	KindNotFound       Kind = "NotFoundError"
	KindConflict       Kind = "ConflictError"
	KindUpstream       Kind = "UpstreamError"
	KindRateLimited    Kind = "RateLimitError"
	KindInternal       Kind = "InternalError"
)

type ErrNo struct {
	ErrCode int64
	ErrMsg  string
}

func (e ErrNo) Error() string {
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

func NewErrNo(code int64, msg string) ErrNo {
	return ErrNo{code, msg}
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

// Kind returns the category the code belongs to.
func (e ErrNo) Kind() Kind {
	switch e.ErrCode {
	case ParamErrCode, ErrBindCode:
		return KindValidation
	case TokenInvailedErrCode, PasswordErrCode:
		return KindAuthentication
	case PermissionErrCode:
		return KindAuthorization
	case NotFoundErrCode, UserNotExistErrCode, VideoNotExistErrCode, CommentNotExistErrCode,
		TweetNotExistErrCode, PlaylistNotExistErrCode:
		return KindNotFound
	case UserAlreadyExistErrCode, ConflictErrCode:
		return KindConflict
	case MysqlErrCode, RedisErrCode, OssErrCode, MqErrCode, SearchErrCode:
		return KindUpstream
	case RateLimitErrCode:
		return KindRateLimited
	}
	return KindInternal
}

// HTTPStatus 错误分类对应的 HTTP 状态码
func (e ErrNo) HTTPStatus() int {
	if e.ErrCode == SuccessCode {
		return http.StatusOK
	}
	switch e.Kind() {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	case KindRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

var (
	Success    = NewErrNo(SuccessCode, "Success")
	ServiceErr = NewErrNo(ServiceErrCode, "Service is unable to start successfully")

	ParamErr = NewErrNo(ParamErrCode, "Wrong Parameter has been given")
	ErrBind  = NewErrNo(ErrBindCode, "Error occurs when binding the request body to the struct")

	TokenInvailedErr = NewErrNo(TokenInvailedErrCode, "Token is invalid or expired")
	PasswordErr      = NewErrNo(PasswordErrCode, "Invalid user credentials")

	PermissionErr = NewErrNo(PermissionErrCode, "You are not allowed to modify this resource")

	NotFoundErr         = NewErrNo(NotFoundErrCode, "Resource not found")
	UserNotExistErr     = NewErrNo(UserNotExistErrCode, "User does not exist")
	VideoNotExistErr    = NewErrNo(VideoNotExistErrCode, "Video does not exist")
	CommentNotExistErr  = NewErrNo(CommentNotExistErrCode, "Comment does not exist")
	TweetNotExistErr    = NewErrNo(TweetNotExistErrCode, "Tweet does not exist")
	PlaylistNotExistErr = NewErrNo(PlaylistNotExistErrCode, "Playlist does not exist")

	UserAlreadyExistErr = NewErrNo(UserAlreadyExistErrCode, "User with email or username already exists")
	ConflictErr         = NewErrNo(ConflictErrCode, "Resource state changed concurrently, please retry")

	MysqlErr  = NewErrNo(MysqlErrCode, "Database operation failed")
	RedisErr  = NewErrNo(RedisErrCode, "Redis operation failed")
	OssErr    = NewErrNo(OssErrCode, "Media storage operation failed")
	MqErr     = NewErrNo(MqErrCode, "Message queue operation failed")
	SearchErr = NewErrNo(SearchErrCode, "Search index operation failed")

	RateLimitErr = NewErrNo(RateLimitErrCode, "Too many requests, please slow down")
)

// ConvertErr convert error to Errno
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}

	s := ServiceErr
	s.ErrMsg = err.Error()
	return s
}

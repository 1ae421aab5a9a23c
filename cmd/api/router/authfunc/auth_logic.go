package authfunc

import (
	"VideoTube.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
)

// Auth 必须携带合法 access token
func Auth(tokens *jwt.TokenService) []app.HandlerFunc {
	return append(make([]app.HandlerFunc, 0),
		tokens.MiddlewareFunc(),
	)
}

// OptionalAuth 读接口: 有 token 时识别身份, 没有时按匿名处理
func OptionalAuth(tokens *jwt.TokenService) []app.HandlerFunc {
	return append(make([]app.HandlerFunc, 0),
		tokens.OptionalMiddlewareFunc(),
	)
}

package jwt

import (
	"context"
	"strconv"
	"time"

	"VideoTube.com/config"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/response"
	"VideoTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	hzjwt "github.com/hertz-contrib/jwt"
	"github.com/pkg/errors"
)

const IdentityKey = "user_id"

type Tokens struct {
	AccessToken   string    `json:"accessToken"`
	RefreshToken  string    `json:"refreshToken"`
	AccessExpire  time.Time `json:"-"`
	RefreshExpire time.Time `json:"-"`
}

// TokenService 双 token: access 用于鉴权中间件, refresh 只用于换取新的 token 对
type TokenService struct {
	access  *hzjwt.HertzJWTMiddleware
	refresh *hzjwt.HertzJWTMiddleware
}

func NewTokenService(conf *config.Config) (*TokenService, error) {
	access, err := newMiddleware("videotube access", conf.JWT.AccessSecret, conf.JWT.AccessExpiry)
	if err != nil {
		return nil, errors.Wrap(err, "init access token middleware")
	}
	refresh, err := newMiddleware("videotube refresh", conf.JWT.RefreshSecret, conf.JWT.RefreshExpiry)
	if err != nil {
		return nil, errors.Wrap(err, "init refresh token middleware")
	}
	return &TokenService{access: access, refresh: refresh}, nil
}

func newMiddleware(realm, secret string, expiry time.Duration) (*hzjwt.HertzJWTMiddleware, error) {
	return hzjwt.New(&hzjwt.HertzJWTMiddleware{
		Realm:         realm,
		Key:           []byte(secret),
		Timeout:       expiry,
		MaxRefresh:    expiry,
		IdentityKey:   IdentityKey,
		TokenLookup:   "header: Authorization, cookie: accessToken",
		TokenHeadName: "Bearer",
		TimeFunc:      time.Now,
		// snowflake id 超过 float64 精度, 以字符串写入 claims
		PayloadFunc: func(data interface{}) hzjwt.MapClaims {
			if id, ok := data.(int64); ok {
				return hzjwt.MapClaims{
					IdentityKey: strconv.FormatInt(id, 10),
					"jti":       uuid.NewString(),
				}
			}
			return hzjwt.MapClaims{}
		},
		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := hzjwt.ExtractClaims(ctx, c)
			return claims[IdentityKey]
		},
		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			response.SendResponse(c, errno.TokenInvailedErr.WithMessage(message), nil)
		},
	})
}

// Issue 签发 access/refresh token 对
func (s *TokenService) Issue(userId int64) (*Tokens, error) {
	accessToken, accessExpire, err := s.access.TokenGenerator(userId)
	if err != nil {
		return nil, errors.Wrap(err, "generate access token")
	}
	refreshToken, refreshExpire, err := s.refresh.TokenGenerator(userId)
	if err != nil {
		return nil, errors.Wrap(err, "generate refresh token")
	}
	return &Tokens{
		AccessToken:   accessToken,
		RefreshToken:  refreshToken,
		AccessExpire:  accessExpire,
		RefreshExpire: refreshExpire,
	}, nil
}

// VerifyRefresh 校验 refresh token 并返回用户ID
func (s *TokenService) VerifyRefresh(token string) (int64, error) {
	return verify(s.refresh, token)
}

// VerifyAccess 校验 access token 并返回用户ID
func (s *TokenService) VerifyAccess(token string) (int64, error) {
	return verify(s.access, token)
}

func verify(mw *hzjwt.HertzJWTMiddleware, token string) (int64, error) {
	if token == "" {
		return 0, errno.TokenInvailedErr.WithMessage("Unauthorized request")
	}
	parsed, err := mw.ParseTokenString(token)
	if err != nil || !parsed.Valid {
		return 0, errno.TokenInvailedErr.WithMessage("Invalid or expired token")
	}
	claims := hzjwt.ExtractClaimsFromToken(parsed)
	userId := utils.Transfer(claims[IdentityKey])
	if userId <= 0 {
		return 0, errno.TokenInvailedErr.WithMessage("Invalid token payload")
	}
	return userId, nil
}

// MiddlewareFunc 必须登录的路由
func (s *TokenService) MiddlewareFunc() app.HandlerFunc {
	return s.access.MiddlewareFunc()
}

// OptionalMiddlewareFunc 可选登录: token 合法时写入身份, 否则按匿名继续
func (s *TokenService) OptionalMiddlewareFunc() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		if claims, err := s.access.GetClaimsFromJWT(ctx, c); err == nil {
			if identity, ok := claims[IdentityKey]; ok && utils.Transfer(identity) > 0 {
				c.Set(IdentityKey, identity)
			}
		}
		c.Next(ctx)
	}
}

// CurrentUserID 从上下文中取出当前用户, 未登录返回 false
func CurrentUserID(c *app.RequestContext) (int64, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return 0, false
	}
	id := utils.Transfer(v)
	return id, id > 0
}

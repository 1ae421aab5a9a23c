package handlers

import (
	"context"
	"time"

	"VideoTube.com/cmd/api/handlers/common"
	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"VideoTube.com/pkg/response"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

func (h *Handler) setCookie(c *app.RequestContext, name, value string, expire time.Time) {
	maxAge := int(time.Until(expire).Seconds())
	if value == "" {
		maxAge = -1
	}
	c.SetCookie(name, value, maxAge, "/", "", protocol.CookieSameSiteLaxMode, h.secureCookie, true)
}

func (h *Handler) setTokenCookies(c *app.RequestContext, tokens *jwt.Tokens) {
	h.setCookie(c, accessCookie, tokens.AccessToken, tokens.AccessExpire)
	h.setCookie(c, refreshCookie, tokens.RefreshToken, tokens.RefreshExpire)
}

// Login 用户名或邮箱登录, token 同时写入 cookie 与响应体
func (h *Handler) Login(ctx context.Context, c *app.RequestContext) {
	var param LoginParam
	if err := c.Bind(&param); err != nil {
		response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
		return
	}
	user, tokens, err := h.svc.Login(ctx, param.UserName, param.Email, param.Password)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	h.setTokenCookies(c, tokens)
	response.SendOK(c, &LoginResult{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, "User logged in successfully")
}

func (h *Handler) Logout(ctx context.Context, c *app.RequestContext) {
	userId, err := common.CurrentUser(c)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	if err = h.svc.Logout(ctx, userId); err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	h.setCookie(c, accessCookie, "", time.Time{})
	h.setCookie(c, refreshCookie, "", time.Time{})
	response.SendOK(c, struct{}{}, "User logged out")
}

// RefreshToken refresh token 优先取 cookie, 其次取请求体
func (h *Handler) RefreshToken(ctx context.Context, c *app.RequestContext) {
	incoming := string(c.Cookie(refreshCookie))
	if incoming == "" {
		var param RefreshParam
		if err := c.Bind(&param); err != nil {
			response.SendResponse(c, errno.ErrBind.WithMessage(err.Error()), nil)
			return
		}
		incoming = param.RefreshToken
	}
	tokens, err := h.svc.RefreshToken(ctx, incoming)
	if err != nil {
		response.SendResponse(c, err, nil)
		return
	}
	h.setTokenCookies(c, tokens)
	response.SendOK(c, tokens, "Access token refreshed")
}

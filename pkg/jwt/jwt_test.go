package jwt

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"VideoTube.com/config"
	"github.com/cloudwego/hertz/pkg/app"
	hzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	conf := &config.Config{}
	conf.JWT.AccessSecret = "access-secret"
	conf.JWT.RefreshSecret = "refresh-secret"
	conf.JWT.AccessExpiry = time.Hour
	conf.JWT.RefreshExpiry = 24 * time.Hour
	svc, err := NewTokenService(conf)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTestService(t)
	const userId = int64(1844674407370955161)

	tokens, err := svc.Issue(userId)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	got, err := svc.VerifyRefresh(tokens.RefreshToken)
	if err != nil || got != userId {
		t.Fatalf("VerifyRefresh = %d, %v", got, err)
	}
	got, err = svc.VerifyAccess(tokens.AccessToken)
	if err != nil || got != userId {
		t.Fatalf("VerifyAccess = %d, %v", got, err)
	}

	t.Run("access token is not a refresh token", func(t *testing.T) {
		if _, err := svc.VerifyRefresh(tokens.AccessToken); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("empty token", func(t *testing.T) {
		if _, err := svc.VerifyRefresh(""); err == nil {
			t.Fatal("expected error")
		}
	})
	t.Run("refresh tokens rotate", func(t *testing.T) {
		again, err := svc.Issue(userId)
		if err != nil {
			t.Fatal(err)
		}
		if again.RefreshToken == tokens.RefreshToken {
			t.Fatal("refresh token reused")
		}
	})
}

func TestMiddleware(t *testing.T) {
	svc := newTestService(t)
	tokens, err := svc.Issue(99)
	if err != nil {
		t.Fatal(err)
	}

	engine := route.NewEngine(hzconfig.NewOptions([]hzconfig.Option{}))
	whoami := func(ctx context.Context, c *app.RequestContext) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, strconv.FormatInt(id, 10))
	}
	engine.GET("/required", svc.MiddlewareFunc(), whoami)
	engine.GET("/optional", svc.OptionalMiddlewareFunc(), whoami)

	tests := []struct {
		name   string
		path   string
		header []ut.Header
		status int
		body   string
	}{
		{"bearer header", "/required", []ut.Header{{Key: "Authorization", Value: "Bearer " + tokens.AccessToken}}, http.StatusOK, "99"},
		{"cookie", "/required", []ut.Header{{Key: "Cookie", Value: "accessToken=" + tokens.AccessToken}}, http.StatusOK, "99"},
		{"missing token", "/required", nil, http.StatusUnauthorized, ""},
		{"refresh token rejected", "/required", []ut.Header{{Key: "Authorization", Value: "Bearer " + tokens.RefreshToken}}, http.StatusUnauthorized, ""},
		{"optional anonymous", "/optional", nil, http.StatusOK, "anonymous"},
		{"optional garbage", "/optional", []ut.Header{{Key: "Authorization", Value: "Bearer garbage"}}, http.StatusOK, "anonymous"},
		{"optional authenticated", "/optional", []ut.Header{{Key: "Authorization", Value: "Bearer " + tokens.AccessToken}}, http.StatusOK, "99"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ut.PerformRequest(engine, http.MethodGet, tt.path, nil, tt.header...)
			resp := w.Result()
			if resp.StatusCode() != tt.status {
				t.Fatalf("status = %d, want %d (%s)", resp.StatusCode(), tt.status, resp.Body())
			}
			if tt.body != "" && string(resp.Body()) != tt.body {
				t.Fatalf("body = %q, want %q", resp.Body(), tt.body)
			}
		})
	}
}

// Package response writes the uniform JSON envelope for every API reply.
package response

import (
	"VideoTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Response struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

type ErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
	Code       int64    `json:"code"`
}

// SendResponse pack response
func SendResponse(c *app.RequestContext, err error, data interface{}) {
	sendWithStatus(c, err, data, consts.StatusOK, "")
}

// SendCreated 资源创建成功返回 201
func SendCreated(c *app.RequestContext, data interface{}, message string) {
	sendWithStatus(c, nil, data, consts.StatusCreated, message)
}

// SendOK 带自定义提示信息的成功返回
func SendOK(c *app.RequestContext, data interface{}, message string) {
	sendWithStatus(c, nil, data, consts.StatusOK, message)
}

func sendWithStatus(c *app.RequestContext, err error, data interface{}, status int, message string) {
	Err := errno.ConvertErr(err)
	if Err.ErrCode != errno.SuccessCode {
		code := Err.HTTPStatus()
		if code >= consts.StatusInternalServerError {
			hlog.Errorf("%s %s failed: %v", c.Method(), c.Path(), err)
		}
		c.JSON(code, ErrorResponse{
			StatusCode: code,
			Message:    Err.ErrMsg,
			Success:    false,
			Errors:     []string{string(Err.Kind())},
			Code:       Err.ErrCode,
		})
		return
	}
	if message == "" {
		message = Err.ErrMsg
	}
	c.JSON(status, Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

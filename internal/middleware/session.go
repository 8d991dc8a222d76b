package middleware

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionVisitorKey = "visitor_id"
	contextVisitorKey = "visitor_id"
)

// Visitor 为每个访客分配稳定的 ID（存于 cookie session），用于定位页面状态
// 必须在 sessions.Sessions 之后注册
func Visitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, _ := session.Get(sessionVisitorKey).(string)
		if id == "" {
			id = uuid.NewString()
			session.Set(sessionVisitorKey, id)
			if err := session.Save(); err != nil {
				_ = c.Error(err)
			}
		}
		c.Set(contextVisitorKey, id)
		c.Next()
	}
}

// GetVisitorID 读取访客 ID，未经过 Visitor 中间件时为空
func GetVisitorID(c *gin.Context) string {
	return c.GetString(contextVisitorKey)
}

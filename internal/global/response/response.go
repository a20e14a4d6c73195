package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"crop-tracking-system/config"
	"crop-tracking-system/internal/global/sentry"
)

// 错误码按 HTTP 状态码 * 100 + 序号 编排，便于直接推导响应状态码
var (
	ErrInvalidRequest  = newError(40001, "请求参数错误")
	ErrValidation      = newError(40002, "字段校验失败")
	ErrTokenInvalid    = newError(40101, "登录凭证无效")
	ErrUnauthorized    = newError(40102, "未登录或登录已过期")
	ErrInvalidPassword = newError(40103, "密码错误")
	ErrForbidden       = newError(40301, "无权限访问该资源")
	ErrNotFound        = newError(40401, "资源不存在")
	ErrAlreadyExists   = newError(40901, "资源已存在")
	ErrDatabase        = newError(50001, "数据库错误")
	ErrServerInternal  = newError(50002, "服务器内部错误")
)

// ResponseBody 统一响应体
type ResponseBody struct {
	Code   int32             `json:"code"`
	Msg    string            `json:"msg"`
	Data   any               `json:"data,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
	Origin string            `json:"origin,omitempty"`
}

// Success 写入成功响应，data 最多一个
func Success(c *gin.Context, data ...any) {
	body := ResponseBody{
		Code: 200,
		Msg:  "success",
	}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.Set(ResponseContextKey, body)
	c.JSON(http.StatusOK, body)
}

// Fail 写入失败响应，HTTP 状态码由错误码推导
func Fail(c *gin.Context, err error) {
	e, ok := err.(*Error)
	if !ok {
		e = ErrServerInternal.WithOrigin(err)
	}

	body := ResponseBody{
		Code:   e.Code,
		Msg:    e.Message,
		Fields: e.Fields,
	}
	// 原始错误仅在 debug 模式下暴露给前端
	if config.Get().Mode == config.ModeDebug {
		body.Origin = e.Origin
	}

	c.Set(ErrorContextKey, e)
	c.Set(ResponseContextKey, body)
	// 服务器内部错误上报到 Sentry（业务错误不上报）
	sentry.CaptureException(c, e)
	c.JSON(httpStatus(e.Code), body)
}

// Recovery 捕获 handler panic，统一转成内部错误响应
// 由 middleware.Recovery 以 defer 方式调用
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		Fail(c, ErrServerInternal.WithOrigin(err))
		c.Abort()
	}
}

func httpStatus(code int32) int {
	if code == 200 {
		return http.StatusOK
	}
	status := int(code / 100)
	if status < 400 || status > 599 {
		return http.StatusInternalServerError
	}
	return status
}

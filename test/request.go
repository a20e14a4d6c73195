package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"crop-tracking-system/internal/global/jwt"
	"crop-tracking-system/internal/global/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Request 单次 handler 调用的参数
type Request struct {
	Method string
	Query  string     // 不带问号的查询串，如 "page=2"
	Params gin.Params // 路径参数
	Body   any        // 非 nil 时编码为 JSON 请求体
	User   *jwt.Claims
}

// DoRequest 直接调用 handler 并解析统一响应体
func DoRequest(t *testing.T, handlerFunc gin.HandlerFunc, req Request) (resp response.ResponseBody) {
	w := Do(t, handlerFunc, req)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return
}

// Do 直接调用 handler，返回原始 recorder（非 JSON 响应用这个）
func Do(t *testing.T, handlerFunc gin.HandlerFunc, req Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	method := req.Method
	if method == "" {
		method = http.MethodPost
	}
	url := "/test"
	if req.Query != "" {
		url += "?" + req.Query
	}

	var body *bytes.Reader
	if req.Body != nil {
		requestBytes, err := json.Marshal(req.Body)
		require.NoError(t, err)
		body = bytes.NewReader(requestBytes)
	} else {
		body = bytes.NewReader(nil)
	}

	c.Request = httptest.NewRequest(method, url, body)
	c.Params = req.Params
	if req.User != nil {
		c.Set("payload", req.User)
	}

	handlerFunc(c)
	return w
}

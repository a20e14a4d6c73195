package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"crop-tracking-system/internal/global/response"
)

// ErrorEqual 断言响应的错误码（WithTips 会改写 msg，只比较 code）
func ErrorEqual(t *testing.T, expected *response.Error, resp response.ResponseBody) {
	require.Equal(t, expected.Code, resp.Code)
}

func NoError(t *testing.T, resp response.ResponseBody) {
	require.Equal(t, int32(200), resp.Code)
}

// Data 取响应数据并断言其为对象
func Data(t *testing.T, resp response.ResponseBody) map[string]any {
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "响应数据不是对象: %v", resp.Data)
	return data
}

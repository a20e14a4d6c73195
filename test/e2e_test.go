package test

import (
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"

	"crop-tracking-system/internal/global/middleware"
	"crop-tracking-system/internal/global/response"
	"crop-tracking-system/internal/module"
)

// newServer 按真实服务的方式组装路由，返回测试服务器
func newServer(t *testing.T) *httptest.Server {
	SetupDB(t)

	r := gin.New()
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())
	for _, m := range module.Modules {
		m.Init()
		m.InitRouter(r.Group("/api"))
	}

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server
}

// TestEndToEnd 走一遍完整的 HTTP 链路：注册、登录、建作物、记农事、看仪表盘
func TestEndToEnd(t *testing.T) {
	server := newServer(t)
	client := resty.New().SetBaseURL(server.URL + "/api")

	// 服务健康检查
	var pong response.ResponseBody
	resp, err := client.R().SetResult(&pong).Get("/ping")
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode())
	require.Equal(t, "pong", pong.Data.(map[string]any)["message"])

	// 未携带令牌访问受保护端点（非 2xx 响应走 SetError 解析）
	var unauthorized response.ResponseBody
	resp, err = client.R().SetError(&unauthorized).Get("/crop/list")
	require.NoError(t, err)
	require.Equal(t, 401, resp.StatusCode())
	require.Equal(t, response.ErrTokenInvalid.Code, unauthorized.Code)

	// 注册并登录
	var registered response.ResponseBody
	_, err = client.R().
		SetBody(map[string]string{
			"email":    "zhang@farm.com",
			"password": "password123",
			"name":     "张三",
		}).
		SetResult(&registered).
		Post("/user/register")
	require.NoError(t, err)
	require.EqualValues(t, 200, registered.Code)

	var login response.ResponseBody
	_, err = client.R().
		SetBody(map[string]string{
			"email":    "zhang@farm.com",
			"password": "password123",
		}).
		SetResult(&login).
		Post("/user/login")
	require.NoError(t, err)
	require.EqualValues(t, 200, login.Code)
	token, ok := login.Data.(map[string]any)["token"].(string)
	require.True(t, ok)
	client.SetAuthToken(token)

	// 创建作物
	var created response.ResponseBody
	_, err = client.R().
		SetBody(map[string]any{
			"name":                  "North Field Corn",
			"type":                  "corn",
			"planting_date":         "2024-04-15",
			"expected_harvest_date": "2024-09-15",
			"field_location":        "North Field, Plot A",
		}).
		SetResult(&created).
		Post("/crop/create")
	require.NoError(t, err)
	require.EqualValues(t, 200, created.Code)
	cropID := created.Data.(map[string]any)["id"].(float64)

	// 为作物记一条农事
	var activity response.ResponseBody
	_, err = client.R().
		SetBody(map[string]any{
			"activity_date": "2024-05-01",
			"activity_type": "irrigation",
			"description":   "Watered the field",
			"quantity":      100,
			"unit":          "liters",
		}).
		SetResult(&activity).
		Post("/activity/create/" + itoa(cropID))
	require.NoError(t, err)
	require.EqualValues(t, 200, activity.Code)

	// 列表与仪表盘都能看到刚写入的数据
	var list response.ResponseBody
	_, err = client.R().SetResult(&list).Get("/crop/list")
	require.NoError(t, err)
	require.EqualValues(t, 1, list.Data.(map[string]any)["total"])

	var dash response.ResponseBody
	_, err = client.R().SetResult(&dash).Get("/dashboard")
	require.NoError(t, err)
	stats := dash.Data.(map[string]any)["stats"].(map[string]any)
	require.EqualValues(t, 1, stats["totalCrops"])
	require.EqualValues(t, 1, stats["totalActivities"])

	// 导出为 xlsx
	resp, err = client.R().Get("/crop/export")
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode())
	require.Contains(t, resp.Header().Get("Content-Type"), "spreadsheetml")
	require.NotEmpty(t, resp.Body())
}

func itoa(f float64) string {
	return strconv.FormatUint(uint64(f), 10)
}

package dashboard

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"crop-tracking-system/internal/model"
	"crop-tracking-system/test"
)

func setup(t *testing.T) {
	test.SetupDB(t)
	(&ModuleDashboard{}).Init()
}

// overview 把响应数据还原成 Overview，顺带验证 JSON 键为驼峰
func overview(t *testing.T, data any) Overview {
	raw, err := json.Marshal(data)
	require.NoError(t, err)

	keys := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(raw, &keys))
	require.Contains(t, keys, "stats")
	require.Contains(t, keys, "recentCrops")
	require.Contains(t, keys, "recentActivities")

	var result Overview
	require.NoError(t, json.Unmarshal(raw, &result))
	return result
}

func TestGetDashboardStats(t *testing.T) {
	setup(t)
	farmer, claims := test.CreateUser(t, "farmer@farm.com", model.RoleFarmer)
	other, _ := test.CreateUser(t, "other@farm.com", model.RoleFarmer)

	// 4 在长 + 2 待收 + 1 已收 = 7 条，其中未收获 6 条
	for i := 0; i < 4; i++ {
		test.CreateCrop(t, farmer.ID, model.CropStatusGrowing)
	}
	ready := test.CreateCrop(t, farmer.ID, model.CropStatusHarvestReady)
	test.CreateCrop(t, farmer.ID, model.CropStatusHarvestReady)
	test.CreateCrop(t, farmer.ID, model.CropStatusHarvested)

	test.CreateActivity(t, ready.ID)
	test.CreateActivity(t, ready.ID)
	test.CreateActivity(t, ready.ID)

	// 别人的数据不进入统计
	foreign := test.CreateCrop(t, other.ID, model.CropStatusGrowing)
	test.CreateActivity(t, foreign.ID)

	resp := test.DoRequest(t, GetDashboard, test.Request{Method: http.MethodGet, User: claims})
	test.NoError(t, resp)

	result := overview(t, resp.Data)
	require.EqualValues(t, 7, result.Stats.TotalCrops)
	require.EqualValues(t, 6, result.Stats.ActiveCrops)
	require.EqualValues(t, 2, result.Stats.ReadyForHarvest)
	require.EqualValues(t, 3, result.Stats.TotalActivities)
}

func TestGetDashboardAdminSeesAll(t *testing.T) {
	setup(t)
	farmerA, _ := test.CreateUser(t, "a@farm.com", model.RoleFarmer)
	farmerB, _ := test.CreateUser(t, "b@farm.com", model.RoleFarmer)
	_, adminClaims := test.CreateUser(t, "admin@farm.com", model.RoleAdmin)

	cropA := test.CreateCrop(t, farmerA.ID, model.CropStatusGrowing)
	test.CreateCrop(t, farmerB.ID, model.CropStatusHarvestReady)
	test.CreateActivity(t, cropA.ID)

	resp := test.DoRequest(t, GetDashboard, test.Request{Method: http.MethodGet, User: adminClaims})
	test.NoError(t, resp)

	result := overview(t, resp.Data)
	require.EqualValues(t, 2, result.Stats.TotalCrops)
	require.EqualValues(t, 1, result.Stats.ReadyForHarvest)
	require.EqualValues(t, 1, result.Stats.TotalActivities)
}

func TestGetDashboardRecentLimit(t *testing.T) {
	setup(t)
	farmer, claims := test.CreateUser(t, "farmer@farm.com", model.RoleFarmer)

	var lastCrop *model.Crop
	for i := 0; i < 8; i++ {
		lastCrop = test.CreateCrop(t, farmer.ID, model.CropStatusGrowing)
	}
	var lastActivity *model.CropActivity
	for i := 0; i < 8; i++ {
		lastActivity = test.CreateActivity(t, lastCrop.ID)
	}

	resp := test.DoRequest(t, GetDashboard, test.Request{Method: http.MethodGet, User: claims})
	test.NoError(t, resp)

	result := overview(t, resp.Data)
	require.Len(t, result.RecentCrops, recentLimit)
	require.Len(t, result.RecentActivities, recentLimit)

	// 最近的排在最前
	require.Equal(t, lastCrop.ID, result.RecentCrops[0].ID)
	require.Equal(t, lastActivity.ID, result.RecentActivities[0].ID)
}

func TestGetDashboardEmpty(t *testing.T) {
	setup(t)
	_, claims := test.CreateUser(t, "farmer@farm.com", model.RoleFarmer)

	resp := test.DoRequest(t, GetDashboard, test.Request{Method: http.MethodGet, User: claims})
	test.NoError(t, resp)

	result := overview(t, resp.Data)
	require.EqualValues(t, 0, result.Stats.TotalCrops)
	require.Empty(t, result.RecentCrops)
	require.Empty(t, result.RecentActivities)
}

package crop

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"crop-tracking-system/internal/global/database"
	"crop-tracking-system/internal/global/response"
	"crop-tracking-system/internal/model"
	"crop-tracking-system/internal/module/dashboard"
	"crop-tracking-system/test"
)

func setup(t *testing.T) {
	test.SetupDB(t)
	(&ModuleCrop{}).Init()
	(&dashboard.ModuleDashboard{}).Init()
}

func idParam(name string, id uint) gin.Params {
	return gin.Params{{Key: name, Value: fmt.Sprint(id)}}
}

func cropCount(t *testing.T) int64 {
	var count int64
	require.NoError(t, database.DB.Model(&model.Crop{}).Count(&count).Error)
	return count
}

func activityCount(t *testing.T) int64 {
	var count int64
	require.NoError(t, database.DB.Model(&model.CropActivity{}).Count(&count).Error)
	return count
}

func TestCreateCrop(t *testing.T) {
	setup(t)
	farmer, claims := test.CreateUser(t, "farmer@farm.com", model.RoleFarmer)

	resp := test.DoRequest(t, CreateCrop, test.Request{
		User: claims,
		Body: CropCreateReq{
			Name:                "North Field Corn",
			Type:                "corn",
			PlantingDate:        "2024-04-15",
			ExpectedHarvestDate: "2024-09-15",
			FieldLocation:       "North Field, Plot A",
		},
	})
	test.NoError(t, resp)

	data := test.Data(t, resp)
	require.Equal(t, "North Field Corn", data["name"])
	// 未提交状态时默认 planted，所有者固定为当前用户
	require.Equal(t, model.CropStatusPlanted, data["status"])
	require.EqualValues(t, farmer.ID, data["user_id"])
	require.EqualValues(t, 1, cropCount(t))
}

func TestCreateCropHarvestNotAfterPlanting(t *testing.T) {
	setup(t)
	_, claims := test.CreateUser(t, "farmer@farm.com", model.RoleFarmer)

	// 收获日期必须严格晚于播种日期，早于或等于都要拒绝
	for _, harvestDate := range []string{"2024-03-01", "2024-04-15"} {
		resp := test.DoRequest(t, CreateCrop, test.Request{
			User: claims,
			Body: CropCreateReq{
				Name:                "Tomatoes",
				Type:                "tomato",
				PlantingDate:        "2024-04-15",
				ExpectedHarvestDate: harvestDate,
				FieldLocation:       "Greenhouse 2",
			},
		})
		test.ErrorEqual(t, response.ErrValidation, resp)
		require.Contains(t, resp.Fields, "expected_harvest_date")
	}

	// 校验失败时不得写库
	require.EqualValues(t, 0, cropCount(t))
}

func TestCreateCropValidation(t *testing.T) {
	setup(t)
	_, claims := test.CreateUser(t, "farmer@farm.com", model.RoleFarmer)

	resp := test.DoRequest(t, CreateCrop, test.Request{
		User: claims,
		Body: CropCreateReq{
			Type:                "corn",
			PlantingDate:        "2024/04/15", // 格式错误
			ExpectedHarvestDate: "2024-09-15",
			FieldLocation:       "North Field",
		},
	})
	test.ErrorEqual(t, response.ErrValidation, resp)
	require.Equal(t, "作物名称不能为空", resp.Fields["name"])
	require.Equal(t, "播种日期格式不正确", resp.Fields["planting_date"])
	require.EqualValues(t, 0, cropCount(t))
}

func TestCreateCropInvalidStatus(t *testing.T) {
	setup(t)
	_, claims := test.CreateUser(t, "farmer@farm.com", model.RoleFarmer)

	resp := test.DoRequest(t, CreateCrop, test.Request{
		User: claims,
		Body: CropCreateReq{
			Name:                "Corn",
			Type:                "corn",
			PlantingDate:        "2024-04-15",
			ExpectedHarvestDate: "2024-09-15",
			FieldLocation:       "North Field",
			Status:              "rotten",
		},
	})
	test.ErrorEqual(t, response.ErrValidation, resp)
	require.Equal(t, "作物状态不合法", resp.Fields["status"])
}

func TestListCropsScope(t *testing.T) {
	setup(t)
	farmerA, claimsA := test.CreateUser(t, "a@farm.com", model.RoleFarmer)
	farmerB, _ := test.CreateUser(t, "b@farm.com", model.RoleFarmer)
	_, adminClaims := test.CreateUser(t, "admin@farm.com", model.RoleAdmin)

	test.CreateCrop(t, farmerA.ID, model.CropStatusGrowing)
	test.CreateCrop(t, farmerB.ID, model.CropStatusGrowing)

	// farmer 只能看到自己的作物
	resp := test.DoRequest(t, ListCrops, test.Request{Method: http.MethodGet, User: claimsA})
	test.NoError(t, resp)
	data := test.Data(t, resp)
	require.EqualValues(t, 1, data["total"])
	require.Len(t, data["crops"], 1)

	// 管理员看到全部
	resp = test.DoRequest(t, ListCrops, test.Request{Method: http.MethodGet, User: adminClaims})
	test.NoError(t, resp)
	data = test.Data(t, resp)
	require.EqualValues(t, 2, data["total"])
	require.Len(t, data["crops"], 2)
}

func TestListCropsPagination(t *testing.T) {
	setup(t)
	farmer, claims := test.CreateUser(t, "farmer@farm.com", model.RoleFarmer)
	for i := 0; i < 12; i++ {
		test.CreateCrop(t, farmer.ID, model.CropStatusGrowing)
	}

	resp := test.DoRequest(t, ListCrops, test.Request{Method: http.MethodGet, User: claims})
	data := test.Data(t, resp)
	require.EqualValues(t, 12, data["total"])
	require.EqualValues(t, 10, data["page_size"])
	require.EqualValues(t, 2, data["total_pages"])
	require.Len(t, data["crops"], 10)

	resp = test.DoRequest(t, ListCrops, test.Request{
		Method: http.MethodGet,
		Query:  "page=2",
		User:   claims,
	})
	data = test.Data(t, resp)
	require.EqualValues(t, 2, data["page"])
	require.Len(t, data["crops"], 2)

	// 非法页码按第一页处理
	resp = test.DoRequest(t, ListCrops, test.Request{
		Method: http.MethodGet,
		Query:  "page=abc",
		User:   claims,
	})
	data = test.Data(t, resp)
	require.EqualValues(t, 1, data["page"])
}

func TestListCropsLatestFirst(t *testing.T) {
	setup(t)
	farmer, claims := test.CreateUser(t, "farmer@farm.com", model.RoleFarmer)
	first := test.CreateCrop(t, farmer.ID, model.CropStatusGrowing)
	second := test.CreateCrop(t, farmer.ID, model.CropStatusGrowing)

	resp := test.DoRequest(t, ListCrops, test.Request{Method: http.MethodGet, User: claims})
	data := test.Data(t, resp)
	crops, ok := data["crops"].([]any)
	require.True(t, ok)
	require.Len(t, crops, 2)

	// 最新创建的排在最前
	newest := crops[0].(map[string]any)
	require.EqualValues(t, second.ID, newest["id"])
	oldest := crops[1].(map[string]any)
	require.EqualValues(t, first.ID, oldest["id"])
}

func TestGetCrop(t *testing.T) {
	setup(t)
	farmerA, claimsA := test.CreateUser(t, "a@farm.com", model.RoleFarmer)
	_, claimsB := test.CreateUser(t, "b@farm.com", model.RoleFarmer)
	_, adminClaims := test.CreateUser(t, "admin@farm.com", model.RoleAdmin)

	crop := test.CreateCrop(t, farmerA.ID, model.CropStatusGrowing)
	test.CreateActivity(t, crop.ID)

	// 所有者可以查看，详情带农事记录
	resp := test.DoRequest(t, GetCrop, test.Request{
		Method: http.MethodGet,
		Params: idParam("id", crop.ID),
		User:   claimsA,
	})
	test.NoError(t, resp)
	data := test.Data(t, resp)
	require.EqualValues(t, crop.ID, data["id"])
	require.Len(t, data["activities"], 1)

	// 其他 farmer 禁止查看（存在但无权限，返回 403 而非 404）
	resp = test.DoRequest(t, GetCrop, test.Request{
		Method: http.MethodGet,
		Params: idParam("id", crop.ID),
		User:   claimsB,
	})
	test.ErrorEqual(t, response.ErrForbidden, resp)

	// 管理员可以查看任意作物
	resp = test.DoRequest(t, GetCrop, test.Request{
		Method: http.MethodGet,
		Params: idParam("id", crop.ID),
		User:   adminClaims,
	})
	test.NoError(t, resp)

	// 不存在的作物返回 404
	resp = test.DoRequest(t, GetCrop, test.Request{
		Method: http.MethodGet,
		Params: idParam("id", 9999),
		User:   claimsA,
	})
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestUpdateCrop(t *testing.T) {
	setup(t)
	farmerA, claimsA := test.CreateUser(t, "a@farm.com", model.RoleFarmer)
	_, claimsB := test.CreateUser(t, "b@farm.com", model.RoleFarmer)

	crop := test.CreateCrop(t, farmerA.ID, model.CropStatusGrowing)

	body := CropUpdateReq{
		Name:                "North Field Corn v2",
		Type:                "corn",
		PlantingDate:        "2024-04-15",
		ExpectedHarvestDate: "2024-10-01",
		FieldLocation:       "North Field, Plot A",
		Status:              model.CropStatusHarvestReady,
	}

	// 其他 farmer 禁止更新
	resp := test.DoRequest(t, UpdateCrop, test.Request{
		Params: idParam("id", crop.ID),
		User:   claimsB,
		Body:   body,
	})
	test.ErrorEqual(t, response.ErrForbidden, resp)

	var unchanged model.Crop
	require.NoError(t, database.DB.First(&unchanged, crop.ID).Error)
	require.Equal(t, crop.Name, unchanged.Name)

	// 所有者更新成功
	resp = test.DoRequest(t, UpdateCrop, test.Request{
		Params: idParam("id", crop.ID),
		User:   claimsA,
		Body:   body,
	})
	test.NoError(t, resp)

	var updated model.Crop
	require.NoError(t, database.DB.First(&updated, crop.ID).Error)
	require.Equal(t, "North Field Corn v2", updated.Name)
	require.Equal(t, model.CropStatusHarvestReady, updated.Status)
	require.Equal(t, "2024-10-01", updated.ExpectedHarvestDate.String())
}

func TestUpdateCropHarvestNotAfterPlanting(t *testing.T) {
	setup(t)
	farmer, claims := test.CreateUser(t, "farmer@farm.com", model.RoleFarmer)
	crop := test.CreateCrop(t, farmer.ID, model.CropStatusGrowing)

	// 日期约束在更新时同样生效
	resp := test.DoRequest(t, UpdateCrop, test.Request{
		Params: idParam("id", crop.ID),
		User:   claims,
		Body: CropUpdateReq{
			Name:                crop.Name,
			Type:                crop.Type,
			PlantingDate:        "2024-04-15",
			ExpectedHarvestDate: "2024-04-15",
			FieldLocation:       crop.FieldLocation,
		},
	})
	test.ErrorEqual(t, response.ErrValidation, resp)

	var unchanged model.Crop
	require.NoError(t, database.DB.First(&unchanged, crop.ID).Error)
	require.Equal(t, "2024-09-15", unchanged.ExpectedHarvestDate.String())
}

func TestDeleteCropCascade(t *testing.T) {
	setup(t)
	farmerA, claimsA := test.CreateUser(t, "a@farm.com", model.RoleFarmer)
	_, claimsB := test.CreateUser(t, "b@farm.com", model.RoleFarmer)

	crop := test.CreateCrop(t, farmerA.ID, model.CropStatusGrowing)
	test.CreateActivity(t, crop.ID)
	test.CreateActivity(t, crop.ID)

	// 其他 farmer 禁止删除，数据保持不变
	resp := test.DoRequest(t, DeleteCrop, test.Request{
		Method: http.MethodDelete,
		Params: idParam("id", crop.ID),
		User:   claimsB,
	})
	test.ErrorEqual(t, response.ErrForbidden, resp)
	require.EqualValues(t, 1, cropCount(t))
	require.EqualValues(t, 2, activityCount(t))

	// 所有者删除，农事记录级联清空
	resp = test.DoRequest(t, DeleteCrop, test.Request{
		Method: http.MethodDelete,
		Params: idParam("id", crop.ID),
		User:   claimsA,
	})
	test.NoError(t, resp)
	require.EqualValues(t, 0, cropCount(t))
	require.EqualValues(t, 0, activityCount(t))

	// 重复删除返回 404
	resp = test.DoRequest(t, DeleteCrop, test.Request{
		Method: http.MethodDelete,
		Params: idParam("id", crop.ID),
		User:   claimsA,
	})
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestCropInvalidIDParam(t *testing.T) {
	setup(t)
	_, claims := test.CreateUser(t, "farmer@farm.com", model.RoleFarmer)

	for _, value := range []string{"abc", "0", "-1"} {
		resp := test.DoRequest(t, GetCrop, test.Request{
			Method: http.MethodGet,
			Params: gin.Params{{Key: "id", Value: value}},
			User:   claims,
		})
		test.ErrorEqual(t, response.ErrInvalidRequest, resp)
	}
}

package user

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"crop-tracking-system/internal/global/database"
	"crop-tracking-system/internal/global/jwt"
	"crop-tracking-system/internal/global/response"
	"crop-tracking-system/internal/model"
	"crop-tracking-system/test"
)

func setup(t *testing.T) {
	test.SetupDB(t)
	(&ModuleUser{}).Init()
}

func TestRegister(t *testing.T) {
	setup(t)

	resp := test.DoRequest(t, Register, test.Request{
		Body: RegisterReq{
			Email:    "zhang@farm.com",
			Password: "password123",
			Name:     "张三",
		},
	})
	test.NoError(t, resp)

	var user model.User
	require.NoError(t, database.DB.Where("email = ?", "zhang@farm.com").First(&user).Error)
	// 新用户一律 farmer，密码只存哈希
	require.Equal(t, model.RoleFarmer, user.Role)
	require.NotEqual(t, "password123", user.Password)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	setup(t)
	test.CreateUser(t, "zhang@farm.com", model.RoleFarmer)

	resp := test.DoRequest(t, Register, test.Request{
		Body: RegisterReq{
			Email:    "zhang@farm.com",
			Password: "password123",
			Name:     "张三",
		},
	})
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)
}

func TestRegisterValidation(t *testing.T) {
	setup(t)

	resp := test.DoRequest(t, Register, test.Request{
		Body: RegisterReq{
			Email:    "not-an-email",
			Password: "short",
			Name:     "张三",
		},
	})
	test.ErrorEqual(t, response.ErrValidation, resp)
	require.Equal(t, "邮箱格式不正确", resp.Fields["email"])
	require.Equal(t, "密码长度不能少于8个字符", resp.Fields["password"])
}

func TestLogin(t *testing.T) {
	setup(t)
	user, _ := test.CreateUser(t, "zhang@farm.com", model.RoleFarmer)

	resp := test.DoRequest(t, Login, test.Request{
		Body: LoginReq{Email: "zhang@farm.com", Password: "password123"},
	})
	test.NoError(t, resp)

	data := test.Data(t, resp)
	require.EqualValues(t, user.ID, data["user_id"])
	require.Equal(t, model.RoleFarmer, data["role"])

	// 令牌必须能解析回同一用户
	token, ok := data["token"].(string)
	require.True(t, ok)
	claims, valid := jwt.ParseToken(token)
	require.True(t, valid)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.Role, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	setup(t)
	test.CreateUser(t, "zhang@farm.com", model.RoleFarmer)

	resp := test.DoRequest(t, Login, test.Request{
		Body: LoginReq{Email: "zhang@farm.com", Password: "wrong-password"},
	})
	test.ErrorEqual(t, response.ErrInvalidPassword, resp)
}

func TestLoginUnknownEmail(t *testing.T) {
	setup(t)

	resp := test.DoRequest(t, Login, test.Request{
		Body: LoginReq{Email: "nobody@farm.com", Password: "password123"},
	})
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestMe(t *testing.T) {
	setup(t)
	user, claims := test.CreateUser(t, "zhang@farm.com", model.RoleFarmer)

	resp := test.DoRequest(t, Me, test.Request{Method: http.MethodGet, User: claims})
	test.NoError(t, resp)

	data := test.Data(t, resp)
	require.EqualValues(t, user.ID, data["id"])
	require.Equal(t, user.Email, data["email"])
	// 密码哈希不得出现在响应里
	require.NotContains(t, data, "password")
}

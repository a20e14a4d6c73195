package user

import (
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"crop-tracking-system/internal/global/database"
	"crop-tracking-system/internal/global/jwt"
	"crop-tracking-system/internal/global/response"
	"crop-tracking-system/internal/global/validate"
	"crop-tracking-system/internal/model"
	"crop-tracking-system/tools"
)

// RegisterReq 定义注册请求的结构体
type RegisterReq struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,max=255"`
}

var registerMessages = map[string]string{
	"Email.required":    "邮箱不能为空",
	"Email.email":       "邮箱格式不正确",
	"Email.max":         "邮箱长度不能超过255个字符",
	"Password.required": "密码不能为空",
	"Password.min":      "密码长度不能少于8个字符",
	"Password.max":      "密码长度不能超过72个字符",
	"Name.required":     "姓名不能为空",
	"Name.max":          "姓名长度不能超过255个字符",
}

// Register 处理用户注册请求，新用户默认为 farmer 角色
func Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定注册请求失败", "error", err)
		response.Fail(c, validate.Translate(err, registerMessages))
		return
	}

	// 查询邮箱是否已被注册
	var existing model.User
	err := database.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		log.Warn("邮箱已被注册", "email", req.Email)
		response.Fail(c, response.ErrAlreadyExists.WithTips("邮箱已被注册"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("数据库查询失败", "error", err, "email", req.Email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	hash, err := tools.PasswordHash(req.Password)
	if err != nil {
		log.Error("密码加密失败", "error", err)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}

	user := model.User{
		Email:    req.Email,
		Password: hash,
		Name:     req.Name,
		Role:     model.RoleFarmer, // 角色提升只能由管理员在库里操作
	}

	if err := database.DB.Create(&user).Error; err != nil {
		log.Error("创建用户失败", "error", err, "email", req.Email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户注册成功", "user_id", user.ID, "email", user.Email)

	response.Success(c, gin.H{
		"user_id": user.ID,
	})
}

// LoginReq 定义登录请求的结构体
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 处理用户登录请求
func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 查询用户是否存在
	var user model.User
	err := database.DB.Where("email = ?", req.Email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "email", req.Email)
		response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "email", req.Email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 验证密码
	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "email", req.Email)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	log.Info("用户登录成功",
		"user_id", user.ID,
		"role", user.Role)

	// 生成 JWT 令牌并返回用户信息
	response.Success(c, gin.H{
		"token": jwt.CreateToken(jwt.Payload{
			UserID: user.ID,
			Email:  user.Email,
			Role:   user.Role,
		}),
		"user_id": user.ID,
		"name":    user.Name,
		"role":    user.Role,
	})
}

// Me 返回当前登录用户信息
func Me(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var user model.User
	if err := database.DB.First(&user, "id = ?", payload.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
			return
		}
		log.Error("数据库查询失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, user)
}

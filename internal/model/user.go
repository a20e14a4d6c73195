package model

const (
	RoleAdmin  = "admin"
	RoleFarmer = "farmer"
)

type User struct {
	Model
	Email    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Role     string `gorm:"type:varchar(20);default:farmer;not null" json:"role"` // admin 或 farmer
}

func (User) TableName() string {
	return "users"
}

// IsAdmin 管理员可以操作任意作物记录
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

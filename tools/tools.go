package tools

import (
	"golang.org/x/crypto/bcrypt"
)

// PanicOnErr 初始化阶段专用：出错直接 panic，由启动流程兜底
func PanicOnErr(err error) {
	if err != nil {
		panic(err)
	}
}

// PasswordHash 使用 bcrypt 加密密码
func PasswordHash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PasswordCompare 校验明文密码与 bcrypt 哈希是否匹配
func PasswordCompare(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

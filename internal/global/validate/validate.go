// Package validate 把 gin binding 的校验错误翻译成 字段->提示 的结构化映射
// 任何字段不合法都会让整个请求失败，不会产生部分写入
package validate

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"crop-tracking-system/internal/global/response"
)

// Translate 将 ShouldBindJSON 返回的错误转换为 ErrValidation
// messages 的键为 "字段名.规则"（如 "Name.required"），未命中时退回通用提示
func Translate(err error, messages map[string]string) *response.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			msg, ok := messages[fe.Field()+"."+fe.Tag()]
			if !ok {
				msg = "字段不合法"
			}
			fields[SnakeCase(fe.Field())] = msg
		}
		return response.ErrValidation.WithFields(fields)
	}

	// JSON 类型不匹配（如 quantity 传了字符串）也定位到具体字段
	var jte *json.UnmarshalTypeError
	if errors.As(err, &jte) && jte.Field != "" {
		return response.ErrValidation.WithFields(map[string]string{
			jte.Field: "字段类型错误",
		})
	}

	return response.ErrInvalidRequest.WithOrigin(err)
}

// SnakeCase 将结构体字段名转成 JSON 风格的下划线命名
func SnakeCase(name string) string {
	var b strings.Builder
	var prev rune
	for i, r := range name {
		if unicode.IsUpper(r) {
			// 连续大写（如 ID）不再重复插入下划线
			if i > 0 && !unicode.IsUpper(prev) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

package handler

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// MaxQueryLength 查询关键词最大字符数
const MaxQueryLength = 200

// searchRequest 搜索参数
type searchRequest struct {
	Query string `form:"q" binding:"searchquery"`
	Page  int    `form:"page,default=1" binding:"min=1"`
}

func (r searchRequest) keyword() string {
	return strings.TrimSpace(r.Query)
}

// pageRequest 翻页参数
type pageRequest struct {
	Page int `form:"page" binding:"required,min=1"`
}

// RegisterValidators 向 gin 的校验器注册自定义规则，启动时调用一次
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("binding validator is not go-playground/validator")
	}
	return v.RegisterValidation("searchquery", validateSearchQuery)
}

// validateSearchQuery 允许空串；去掉首尾空白后不超过 MaxQueryLength 个字符，且不含控制字符
func validateSearchQuery(fl validator.FieldLevel) bool {
	q := strings.TrimSpace(fl.Field().String())
	if !utf8.ValidString(q) || utf8.RuneCountInString(q) > MaxQueryLength {
		return false
	}
	return strings.IndexFunc(q, unicode.IsControl) < 0
}

// bindingMessage 把校验错误转成可读文案
func bindingMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "invalid parameters"
	}
	fe := errs[0]
	switch fe.Tag() {
	case "searchquery":
		return fmt.Sprintf("q must be at most %d characters", MaxQueryLength)
	case "min", "required":
		return strings.ToLower(fe.Field()) + " must be >= 1"
	default:
		return fmt.Sprintf("invalid %s", strings.ToLower(fe.Field()))
	}
}

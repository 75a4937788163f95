package util

import (
	"Toasoan/internal/pkg/bizerr"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateDTO 校验失败时返回 InvalidInput，消息只包含第一个字段
func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			firstError := vErrs[0]
			msg := fmt.Sprintf("Trường [%s] không hợp lệ (quy tắc: %s)",
				firstError.Field(),
				firstError.Tag())
			return bizerr.New(bizerr.KindInvalidInput, msg)
		}
		return err
	}
	return nil
}

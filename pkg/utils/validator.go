package utils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FieldError รายละเอียด validation error ต่อ field
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value,omitempty"`
}

// ValidateStruct ตรวจสอบ struct ตาม validate tags
// return: nil ถ้าผ่าน, []FieldError ถ้าไม่ผ่าน (ใช้เป็น details ใน 400 response)
func ValidateStruct(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "request", Tag: "invalid"}}
	}

	fieldErrors := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fieldErrors = append(fieldErrors, FieldError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Value: fe.Param(),
		})
	}
	return fieldErrors
}

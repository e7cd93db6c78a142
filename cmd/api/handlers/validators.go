package handlers

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// YouTube video id 는 URL-safe base64 11자다.
var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

var validatorsOnce sync.Once

// registerValidators 는 gin 기본 validator 에 videoid 태그를 등록하고,
// 에러의 필드명을 json/form 태그 이름으로 보고하도록 한다.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		_ = v.RegisterValidation("videoid", func(fl validator.FieldLevel) bool {
			return IsValidVideoID(fl.Field().String())
		})
	})
}

func IsValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

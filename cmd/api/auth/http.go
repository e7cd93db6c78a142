package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/dto"
)

var (
	ErrMissingHeader = errors.New("missing_authorization_header")
	ErrInvalidFormat = errors.New("invalid_authorization_header")
	ErrEmptyToken    = errors.New("empty_token")
	ErrInvalidToken  = errors.New("invalid_token")
)

// ParseBearer 는 "Bearer <token>" 형식의 Authorization 값에서 토큰을 꺼낸다. scheme 은 대소문자를 구분하지 않는다.
func ParseBearer(header string) (string, error) {
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingHeader
	}
	scheme, token, ok := strings.Cut(strings.TrimLeft(header, " "), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", ErrInvalidFormat
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", ErrEmptyToken
	}
	return token, nil
}

func ExtractBearerToken(c *gin.Context) (string, error) {
	return ParseBearer(c.GetHeader("Authorization"))
}

// AbortWithUnauthorized 는 401 과 공통 에러 바디로 요청을 중단한다.
func AbortWithUnauthorized(c *gin.Context, err error) {
	c.Header("WWW-Authenticate", `Bearer realm="yt-insight"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponseDTO{Message: err.Error()})
}

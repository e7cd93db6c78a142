package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/auth"
	"yt-insight/cmd/internal/logger"
)

const (
	ContextKeySubject = "subject"
	ContextKeyTier    = "tier"

	defaultTier = "free"
)

// TokenParser 는 bearer 토큰에서 subject 와 tier 를 꺼낸다.
type TokenParser interface {
	Parse(token string) (subject string, tier string, err error)
}

// TierAuth 는 요청 헤더의 JWT 를 선택적으로 검증하고 tier 를 컨텍스트에 저장한다.
//
// Authorization 헤더가 없거나 parser 가 nil 이면 free 등급으로 처리하고,
// 헤더가 있는데 토큰이 유효하지 않으면 401 로 중단한다.
func TierAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextKeyTier, defaultTier)
		if parser == nil {
			c.Next()
			return
		}

		token, err := auth.ExtractBearerToken(c)
		if errors.Is(err, auth.ErrMissingHeader) {
			c.Next()
			return
		}
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}

		subject, tier, err := parser.Parse(token)
		if err != nil {
			logger.WarnWithFields("token parse error", logger.Fields{"error": err.Error(), "path": c.FullPath()})
			auth.AbortWithUnauthorized(c, auth.ErrInvalidToken)
			return
		}
		if tier == "" {
			tier = defaultTier
		}

		c.Set(ContextKeySubject, subject)
		c.Set(ContextKeyTier, tier)

		c.Next()
	}
}

// TierFromContext 는 TierAuth 가 저장한 tier 를 반환한다. 미들웨어가 없으면 free 다.
func TierFromContext(c *gin.Context) string {
	if tier := c.GetString(ContextKeyTier); tier != "" {
		return tier
	}
	return defaultTier
}

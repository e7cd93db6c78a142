package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"yt-insight/config"
)

const (
	defaultIssuer = "yt-insight"
	defaultTTL    = 24 * time.Hour
)

var ErrMissingSubject = errors.New("token missing sub claim")

// TierClaims 는 등록 클레임에 구독 등급(tier)을 더한 토큰 페이로드다.
type TierClaims struct {
	Tier string `json:"tier,omitempty"`
	jwt.RegisteredClaims
}

// JWTManager 는 HS256 단일 시크릿으로 TierClaims 토큰을 발급/검증한다.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	parser *jwt.Parser
}

// NewJWTManager 는 auth 설정으로 JWTManager 를 만든다. jwt_secret 은 필수이고 issuer 기본값은 yt-insight 다.
func NewJWTManager(cfg config.AuthConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	issuer := cfg.JWTIssuer
	if issuer == "" {
		issuer = defaultIssuer
	}
	return newManager([]byte(cfg.JWTSecret), issuer, defaultTTL), nil
}

func newManager(secret []byte, issuer string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

func (m *JWTManager) Sign(subject, tier string) (string, error) {
	now := time.Now()
	claims := TierClaims{
		Tier: tier,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Parse 는 서명, issuer, 만료를 검증하고 sub 와 tier 를 반환한다. tier 클레임이 없으면 빈 문자열이다.
func (m *JWTManager) Parse(tokenString string) (string, string, error) {
	var claims TierClaims
	if _, err := m.parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return "", "", err
	}
	if claims.Subject == "" {
		return "", "", ErrMissingSubject
	}
	return claims.Subject, claims.Tier, nil
}

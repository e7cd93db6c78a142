package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"yt-insight/cmd/api/trace"
	"yt-insight/cmd/internal/logger"
)

// maxBodyLog 는 완료 로그에 남기는 요청 바디의 최대 바이트 수다.
const maxBodyLog = 1024

// RequestTrace 는 모든 inbound 요청에 request id 와 span 0 을 부여하고,
// 응답 헤더로 돌려준 뒤 완료 시점에 요청 요약 로그를 남긴다.
//
// 4xx 는 warn, 5xx 는 error 레벨이다. tier 는 TierAuth 가 설정한 값을 기록한다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx, requestID := trace.Start(c.Request)
		c.Request = c.Request.WithContext(ctx)
		c.Request.Header.Set(trace.HeaderRequestID, requestID)
		c.Writer.Header().Set(trace.HeaderRequestID, requestID)
		c.Writer.Header().Set(trace.HeaderSpanID, trace.CurrentSpanID(ctx))

		body := captureBody(c.Request)

		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"route":      c.FullPath(),
			"status":     status,
			"duration":   time.Since(start).String(),
			"request_id": requestID,
			"spans":      trace.CurrentSpanID(ctx),
			"client_ip":  c.ClientIP(),
			"resp_bytes": c.Writer.Size(),
			"user_agent": c.Request.UserAgent(),
			"video_id":   c.Query("videoId"),
			"tier":       c.GetString(ContextKeyTier),
		}
		if body != "" {
			fields["body"] = body
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.ErrorWithFields("completed request", fields)
		case status >= http.StatusBadRequest:
			logger.WarnWithFields("completed request", fields)
		default:
			logger.InfoWithFields("completed request", fields)
		}
	}
}

// captureBody 는 변경 요청의 바디 앞부분을 읽어 두고, 핸들러가 다시 읽을 수 있도록 복원한다.
func captureBody(req *http.Request) string {
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}
	switch req.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return ""
	}

	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) > maxBodyLog {
		raw = raw[:maxBodyLog]
	}
	return string(raw)
}

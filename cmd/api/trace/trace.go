// Package trace 는 요청 단위 추적 ID 를 context 로 전달한다.
//
// inbound 요청은 span 0 으로 시작하고, 같은 요청 안의 outbound 호출(YouTube, 피드, LLM)은
// 호출할 때마다 1, 2, 3... 의 span 을 받는다. 두 값은 X-Request-Id / X-Span-Id 헤더로 전파된다.
package trace

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-Id"
	HeaderSpanID    = "X-Span-Id"

	maxRequestIDLen = 64
)

type ctxKey struct{}

type state struct {
	requestID string
	spans     atomic.Int64
}

// GenerateID 는 하이픈 없는 UUIDv4 문자열이다.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// WithRequestAndSpan 은 requestID 와 초기 span 값을 담은 context 를 반환한다.
func WithRequestAndSpan(ctx context.Context, requestID string, initialSpan int64) context.Context {
	st := &state{requestID: requestID}
	st.spans.Store(initialSpan)
	return context.WithValue(ctx, ctxKey{}, st)
}

// Start 는 inbound 요청의 헤더에서 request id 를 이어받거나 새로 발급해 span 0 으로 시작한다.
// 클라이언트가 보낸 값이 비정상적으로 길면 무시한다.
func Start(r *http.Request) (context.Context, string) {
	requestID := strings.TrimSpace(r.Header.Get(HeaderRequestID))
	if requestID == "" || len(requestID) > maxRequestIDLen {
		requestID = GenerateID()
	}
	return WithRequestAndSpan(r.Context(), requestID, 0), requestID
}

func fromContext(ctx context.Context) *state {
	if ctx == nil {
		return nil
	}
	st, _ := ctx.Value(ctxKey{}).(*state)
	return st
}

func RequestIDFromContext(ctx context.Context) string {
	if st := fromContext(ctx); st != nil {
		return st.requestID
	}
	return ""
}

// CurrentSpanID 는 span 을 증가시키지 않고 현재 값을 반환한다.
func CurrentSpanID(ctx context.Context) string {
	st := fromContext(ctx)
	if st == nil {
		return "0"
	}
	return strconv.FormatInt(max(st.spans.Load(), 0), 10)
}

// NextSpanID 는 span 을 1 증가시키고 (requestID, spanID) 를 반환한다.
// 추적 context 밖에서 호출되면 새 requestID 와 span "1" 이다.
func NextSpanID(ctx context.Context) (string, string) {
	st := fromContext(ctx)
	if st == nil {
		return GenerateID(), "1"
	}
	return st.requestID, strconv.FormatInt(max(st.spans.Add(1), 1), 10)
}

// Inject 는 다음 span 을 발급해 outbound 요청 헤더에 싣는다.
func Inject(ctx context.Context, h http.Header) (string, string) {
	requestID, spanID := NextSpanID(ctx)
	h.Set(HeaderRequestID, requestID)
	h.Set(HeaderSpanID, spanID)
	return requestID, spanID
}

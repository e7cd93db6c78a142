package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"yt-insight/cmd/api/trace"
	"yt-insight/cmd/internal/logger"
)

// Config 는 outbound HTTP 클라이언트 공통 설정이다.
type Config struct {
	// Upstream 은 로그에 남길 호출 대상 이름이다 (예: "youtube").
	Upstream string
	Timeout  time.Duration
	// Transport 가 nil 이면 http.DefaultTransport 를 사용한다.
	Transport http.RoundTripper
}

// redactedParams 는 로그에 원문을 남기면 안 되는 쿼리 파라미터다.
var redactedParams = []string{"key", "api_key", "access_token"}

// loggingRoundTripper 는 모든 outbound 호출에 X-Request-Id/X-Span-Id 를 붙이고 결과를 로깅한다.
type loggingRoundTripper struct {
	upstream string
	inner    http.RoundTripper
}

func (l *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	// RoundTripper 는 요청을 수정하면 안 되므로 복제본에 헤더를 세팅한다.
	out := req.Clone(req.Context())
	requestID, spanID := trace.Inject(req.Context(), out.Header)

	resp, err := l.inner.RoundTrip(out)
	fields := logger.Fields{
		"upstream":   l.upstream,
		"method":     req.Method,
		"url":        redactURL(req.URL),
		"duration":   time.Since(start).String(),
		"request_id": requestID,
		"span_id":    spanID,
	}
	if err != nil {
		fields["error"] = err.Error()
		logger.ErrorWithFields("httpclient request failed", fields)
		return nil, err
	}
	fields["status"] = resp.StatusCode
	logger.DebugWithFields("httpclient request success", fields)
	return resp, nil
}

func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	cp := *u
	q := cp.Query()
	for _, p := range redactedParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
		}
	}
	cp.RawQuery = q.Encode()
	return cp.String()
}

// New 는 주어진 설정으로 로깅/트레이싱이 붙은 http.Client 를 생성한다.
// Timeout 이 0 이면 기본값 10초를 사용한다.
func New(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	inner := cfg.Transport
	if inner == nil {
		inner = http.DefaultTransport
	}
	upstream := cfg.Upstream
	if upstream == "" {
		upstream = "unknown"
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &loggingRoundTripper{upstream: upstream, inner: inner},
	}
}

// BaseClient 는 http.Client 와 baseURL 을 묶어 요청 생성을 돕는다.
type BaseClient struct {
	HTTPClient *http.Client
	BaseURL    string
}

// NewBaseClient 는 이미 생성된 http.Client 로 BaseClient 를 만든다. nil 이면 기본 클라이언트를 쓴다.
func NewBaseClient(httpClient *http.Client, baseURL string) *BaseClient {
	if httpClient == nil {
		httpClient = New(Config{})
	}
	return &BaseClient{HTTPClient: httpClient, BaseURL: baseURL}
}

// NewRequest 는 baseURL 과 상대 경로, 쿼리, 바디로 요청을 만든다.
// relPath 에 쿼리(?)가 있으면 path.Join 이 손상시키므로 에러를 반환한다.
func (c *BaseClient) NewRequest(ctx context.Context, method, relPath string, query url.Values, body io.Reader) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.Contains(relPath, "?") {
		return nil, fmt.Errorf("httpclient: relPath must not contain query string (use query parameter instead): %s", relPath)
	}
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, err
	}
	if relPath != "" {
		base.Path = path.Join(base.Path, relPath)
	}
	if query != nil {
		base.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, base.String(), body)
}

func (c *BaseClient) Do(req *http.Request) (*http.Response, error) {
	return c.HTTPClient.Do(req)
}

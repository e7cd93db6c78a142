package trace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSpanIDIncrementsWithinRequest(t *testing.T) {
	ctx := WithRequestAndSpan(context.Background(), "req-1", 0)

	assert.Equal(t, "0", CurrentSpanID(ctx))

	reqID, span := NextSpanID(ctx)
	assert.Equal(t, "req-1", reqID)
	assert.Equal(t, "1", span)

	_, span = NextSpanID(ctx)
	assert.Equal(t, "2", span)
	assert.Equal(t, "2", CurrentSpanID(ctx))
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
}

func TestNextSpanIDOutsideRequest(t *testing.T) {
	reqID, span := NextSpanID(context.Background())
	assert.Len(t, reqID, 32)
	assert.Equal(t, "1", span)
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Equal(t, "0", CurrentSpanID(context.Background()))
}

func TestStart(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		keepSame bool
	}{
		{name: "inherits client id", header: "client-req-7", keepSame: true},
		{name: "generates when missing", header: ""},
		{name: "rejects oversized id", header: strings.Repeat("x", 200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set(HeaderRequestID, tt.header)
			}
			ctx, id := Start(r)

			assert.Equal(t, id, RequestIDFromContext(ctx))
			assert.Equal(t, "0", CurrentSpanID(ctx))
			if tt.keepSame {
				assert.Equal(t, tt.header, id)
			} else {
				assert.Len(t, id, 32)
			}
		})
	}
}

func TestInject(t *testing.T) {
	ctx := WithRequestAndSpan(context.Background(), "req-9", 0)
	h := http.Header{}

	Inject(ctx, h)
	assert.Equal(t, "req-9", h.Get(HeaderRequestID))
	assert.Equal(t, "1", h.Get(HeaderSpanID))

	Inject(ctx, h)
	assert.Equal(t, "2", h.Get(HeaderSpanID))
}

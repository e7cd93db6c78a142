package quota

import (
	"context"
	"sync"
	"time"

	"yt-insight/config"
)

const dayLayout = "2006-01-02"

// GenerationQuotaLimiter 는 분석 생성 호출 수를 최근 1분 슬라이딩 윈도와 UTC 일 단위로 센다.
// 인스턴스 메모리에만 있으므로 재시작하면 초기화된다.
type GenerationQuotaLimiter struct {
	mu sync.Mutex

	perMinute int
	perDay    int

	window []time.Time
	day    string
	used   int

	now func() time.Time
}

// NewGenerationQuotaLimiter 는 generation_quota 설정으로 limiter 를 만든다. 0 이하인 한도는 적용하지 않는다.
func NewGenerationQuotaLimiter(q config.GenerationQuotaConfig) *GenerationQuotaLimiter {
	return &GenerationQuotaLimiter{
		perMinute: max(q.RequestsPerMinute, 0),
		perDay:    max(q.RequestsPerDay, 0),
		now:       time.Now,
	}
}

// Reserve 는 호출 한 건을 예약한다. 어느 한도든 차 있으면 대기하지 않고 false 를 반환한다.
func (l *GenerationQuotaLimiter) Reserve(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now().UTC()
	l.rollDay(now)
	l.evict(now)

	if l.perDay > 0 && l.used >= l.perDay {
		return false, nil
	}
	if l.perMinute > 0 && len(l.window) >= l.perMinute {
		return false, nil
	}

	l.used++
	if l.perMinute > 0 {
		l.window = append(l.window, now)
	}
	return true, nil
}

// Remaining 은 오늘 남은 호출 수다. 일일 한도가 없으면 -1.
func (l *GenerationQuotaLimiter) Remaining() int {
	if l.perDay <= 0 {
		return -1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollDay(l.now().UTC())
	return max(l.perDay-l.used, 0)
}

func (l *GenerationQuotaLimiter) rollDay(now time.Time) {
	if key := now.Format(dayLayout); key != l.day {
		l.day = key
		l.used = 0
	}
}

// evict 는 1분보다 오래된 예약을 윈도에서 버린다. window 는 시간순이다.
func (l *GenerationQuotaLimiter) evict(now time.Time) {
	cutoff := now.Add(-time.Minute)
	i := 0
	for i < len(l.window) && !l.window[i].After(cutoff) {
		i++
	}
	l.window = l.window[i:]
}

package repositories

import "time"

// StoredTime 는 t 를 BSON DateTime 이 담을 수 있는 형태(UTC, 밀리초)로 맞춘다.
// 저장 직후 돌려주는 값과 다시 읽은 값이 같아야 하므로 모든 저장소가 이 값을 기록한다.
func StoredTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// Now 는 StoredTime(time.Now()) 이다.
func Now() time.Time {
	return StoredTime(time.Now())
}

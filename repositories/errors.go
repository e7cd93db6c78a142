package repositories

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound 는 조회 대상 문서가 없을 때 반환한다.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateKey 는 같은 키의 문서가 이미 있어 insert 가 거부되었을 때 반환한다.
	ErrDuplicateKey = errors.New("duplicate key")
)

// translate 는 드라이버 오류를 패키지 sentinel 오류로 바꾼다.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateKey
	default:
		return err
	}
}

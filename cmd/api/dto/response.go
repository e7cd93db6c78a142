package dto

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
// Errors 는 요청 검증 실패(400) 시에만 채워진다.
type ErrorResponseDTO struct {
	Message string          `json:"message" example:"Video not found"`
	Errors  []FieldErrorDTO `json:"errors,omitempty"`
}

// FieldErrorDTO 는 필드 단위 검증 오류다.
type FieldErrorDTO struct {
	Field  string `json:"field" example:"videoId"`
	Reason string `json:"reason" example:"required"`
}

// HealthResponseDTO 는 /health 응답이다.
type HealthResponseDTO struct {
	Status  string `json:"status" example:"ok"`
	Storage string `json:"storage" example:"up"`
	Error   string `json:"error,omitempty"`
}

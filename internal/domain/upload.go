package domain

import (
	"context"
	"time"
)

type UploadKind string

const (
	UploadCV    UploadKind = "cv"
	UploadPhoto UploadKind = "photo"
	UploadLogo  UploadKind = "logo"
)

type UploadInput struct {
	Kind        UploadKind `json:"kind" validate:"required,oneof=cv photo logo"`
	Filename    string     `json:"filename" validate:"required,max=255"`
	ContentType string     `json:"content_type" validate:"max=200"`
}

// UploadTicket lets the client PUT a file directly to object storage and
// later submit ObjectURL to the profile or wizard.
type UploadTicket struct {
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ObjectURL string            `json:"object_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type UploadUsecase interface {
	Presign(ctx context.Context, caller Caller, input UploadInput) (*UploadTicket, error)
}

// HealthUsecase reports dependency status keyed by component name.
type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

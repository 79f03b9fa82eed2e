package usecase

import (
	"context"
	"net/http"
	"path"
	"strings"

	"jobboard-backend/internal/domain"
	"jobboard-backend/pkg/apperror"
	"jobboard-backend/pkg/storage"
	"jobboard-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Presigner issues presigned upload URLs; *storage.Client implements it.
type Presigner interface {
	PresignPut(ctx context.Context, prefix, filename, contentType string) (*storage.PresignedUpload, error)
}

var imageExtensions = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// Which roles may upload which kind, and the accepted extensions.
var uploadRules = map[domain.UploadKind]struct {
	role       domain.Role
	extensions map[string]bool
}{
	domain.UploadCV:    {role: domain.RoleCandidate},
	domain.UploadPhoto: {role: domain.RoleCandidate, extensions: imageExtensions},
	domain.UploadLogo:  {role: domain.RoleCompany, extensions: imageExtensions},
}

type uploadUsecase struct {
	presigner Presigner
	validate  *validator.Validate
}

// NewUploadUsecase accepts a nil presigner; Presign then reports that
// uploads are unavailable.
func NewUploadUsecase(presigner Presigner, validate *validator.Validate) domain.UploadUsecase {
	return &uploadUsecase{presigner: presigner, validate: validate}
}

func (u *uploadUsecase) Presign(ctx context.Context, caller domain.Caller, input domain.UploadInput) (*domain.UploadTicket, error) {
	if err := validation.Struct(u.validate, input); err != nil {
		return nil, err
	}
	rule := uploadRules[input.Kind]
	if err := requireRole(caller, rule.role); err != nil {
		return nil, err
	}

	if input.Kind == domain.UploadCV {
		if !validation.HasDocumentExtension(input.Filename) {
			return nil, apperror.Validation(apperror.FieldError{Field: "filename", Message: "must be a PDF or Word document (.pdf, .doc, .docx)"})
		}
	} else if !rule.extensions[strings.ToLower(path.Ext(input.Filename))] {
		return nil, apperror.Validation(apperror.FieldError{Field: "filename", Message: "must be a PNG, JPEG or WebP image"})
	}

	if u.presigner == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "File uploads are not available", storage.ErrNotConfigured)
	}

	up, err := u.presigner.PresignPut(ctx, string(input.Kind)+"/"+caller.UserID, input.Filename, input.ContentType)
	if err != nil {
		return nil, err
	}
	return &domain.UploadTicket{
		UploadURL: up.UploadURL,
		Method:    up.Method,
		Headers:   up.Headers,
		ObjectURL: up.ObjectURL,
		ExpiresAt: up.ExpiresAt,
	}, nil
}

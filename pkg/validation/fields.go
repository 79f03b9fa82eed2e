package validation

import (
	"errors"
	"net/url"
	"path"
	"strings"

	"jobboard-backend/pkg/apperror"
)

// Reasons returned by CheckNationalID.
var (
	ErrNationalIDFormat   = errors.New("must have 10 numeric digits")
	ErrNationalIDProvince = errors.New("province code out of range")
	ErrNationalIDThird    = errors.New("third digit must be between 0 and 6")
	ErrNationalIDChecksum = errors.New("check digit does not match")
)

// AllowedDocumentExtensions lists the file types accepted for CVs.
var AllowedDocumentExtensions = []string{".pdf", ".doc", ".docx"}

var nationalIDCoefficients = [9]int{2, 1, 2, 1, 2, 1, 2, 1, 2}

// CheckNationalID validates an Ecuadorian cédula: ten digits, a province
// code of 01-24 or 30, a third digit no greater than 6 and a modulus 10
// check digit.
func CheckNationalID(id string) error {
	if len(id) != 10 {
		return ErrNationalIDFormat
	}
	var digits [10]int
	for i, r := range id {
		if r < '0' || r > '9' {
			return ErrNationalIDFormat
		}
		digits[i] = int(r - '0')
	}

	province := digits[0]*10 + digits[1]
	if (province < 1 || province > 24) && province != 30 {
		return ErrNationalIDProvince
	}
	if digits[2] > 6 {
		return ErrNationalIDThird
	}

	sum := 0
	for i, coef := range nationalIDCoefficients {
		v := digits[i] * coef
		if v >= 10 {
			v -= 9
		}
		sum += v
	}
	check := (10 - sum%10) % 10
	if check != digits[9] {
		return ErrNationalIDChecksum
	}
	return nil
}

// HasDocumentExtension reports whether the path of raw ends in an allowed
// document extension. Query strings from presigned URLs are ignored.
func HasDocumentExtension(raw string) bool {
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	for _, allowed := range AllowedDocumentExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// The functions below check a single field and return nil when it is valid.
// Collect folds the results into one validation error.

func NonNegative(field string, value *float64) *apperror.FieldError {
	if value != nil && *value < 0 {
		return &apperror.FieldError{Field: field, Message: "cannot be negative"}
	}
	return nil
}

// SalaryRange rejects min > max when both bounds are present.
func SalaryRange(lo, hi *float64) *apperror.FieldError {
	if lo != nil && hi != nil && *lo > *hi {
		return &apperror.FieldError{Field: "salary_min", Message: "cannot be greater than salary_max"}
	}
	return nil
}

// Collect returns nil when every check passed, otherwise a single
// validation AppError listing the failures in order.
func Collect(checks ...*apperror.FieldError) error {
	var fields []apperror.FieldError
	for _, c := range checks {
		if c != nil {
			fields = append(fields, *c)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperror.Validation(fields...)
}

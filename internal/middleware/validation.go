package middleware

// Boundary validation for repository payloads. Handlers call these
// before invoking the catalog service, so malformed requests are
// rejected without a store round trip. The service still fast-fails on
// its own as a last line of defense.

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Validation limits.
const (
	// MaxRepositoryNameLength is the maximum length for a repository name.
	MaxRepositoryNameLength = 255

	// MaxDescriptionLength is the maximum length for a description.
	MaxDescriptionLength = 4096

	// MaxVersionLength is the maximum length for a version string.
	MaxVersionLength = 64

	// MaxTaxonomyLength is the maximum length for a taxonomy tag.
	MaxTaxonomyLength = 255
)

// Validation errors.
var (
	ErrNameRequired       = errors.New("repository name is required")
	ErrNameTooLong        = errors.New("repository name exceeds maximum length")
	ErrNameNotUTF8        = errors.New("repository name is not valid UTF-8")
	ErrDescriptionTooLong = errors.New("description exceeds maximum length")
	ErrVersionTooLong     = errors.New("version exceeds maximum length")
	ErrTaxonomyTooLong    = errors.New("taxonomy exceeds maximum length")
)

// ValidateRepositoryName validates a repository name.
func ValidateRepositoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}

	if len(name) > MaxRepositoryNameLength {
		return ErrNameTooLong
	}

	if !utf8.ValidString(name) {
		return ErrNameNotUTF8
	}

	return nil
}

// ValidateOptionalField checks the length cap on an optional field.
// A nil pointer is always valid; absence is not an error.
func ValidateOptionalField(value *string, maxLen int, tooLong error) error {
	if value == nil {
		return nil
	}
	if len(*value) > maxLen {
		return tooLong
	}
	return nil
}

// ValidateCreationPayload validates all fields of a repository creation
// request.
func ValidateCreationPayload(name string, version, description, taxonomy *string) error {
	if err := ValidateRepositoryName(name); err != nil {
		return err
	}
	if err := ValidateOptionalField(version, MaxVersionLength, ErrVersionTooLong); err != nil {
		return err
	}
	if err := ValidateOptionalField(description, MaxDescriptionLength, ErrDescriptionTooLong); err != nil {
		return err
	}
	return ValidateOptionalField(taxonomy, MaxTaxonomyLength, ErrTaxonomyTooLong)
}

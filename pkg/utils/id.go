package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateID generates a new UUID v4
func GenerateID() string {
	return uuid.New().String()
}

// NormalizeID trims whitespace a form field may carry around an id.
func NormalizeID(id string) string {
	return strings.TrimSpace(id)
}

package utils

import (
	"github.com/google/uuid"
)

// NewDocID returns an opaque identifier for documents exposed to clients.
// Clients must treat these as meaningless strings, they carry no ordering.
func NewDocID() string {
	return uuid.NewString()
}

package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// NewID generates a prefixed, lexicographically sortable identifier,
// e.g. "note-01J8ZQ9V4X...". Falls back to a random UUID when the
// entropy source fails.
func NewID(prefix string) string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
	}
	return fmt.Sprintf("%s-%s", prefix, strings.ToLower(id.String()))
}

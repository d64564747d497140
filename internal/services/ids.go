package services

import (
	"points-feed/internal/apperr"

	"github.com/google/uuid"
)

// checkID reports a malformed id as a missing record, so callers get the
// same answer whether or not the store would accept the value
func checkID(id, what string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperr.NotFound(what)
	}
	return nil
}

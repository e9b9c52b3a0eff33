package postgres

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/astroarts/contest/internal/core/domain"
)

// mapError lifts store policy rejections into the domain error taxonomy so
// callers can tell a misconfigured deployment apart from a transient
// failure.
func mapError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "insufficient_privilege":
			return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, pqErr.Message)
		case "connection_exception", "connection_failure":
			return fmt.Errorf("%w: %s", domain.ErrUnavailable, pqErr.Message)
		}
	}
	return err
}

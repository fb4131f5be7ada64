// Package clock abstracts wall-clock time so quote timestamps and deeming
// calculations can be fixed in tests.
package clock

import (
	"context"
	"time"
)

type Clock interface {
	Now(ctx context.Context) time.Time
}

package domain

import "context"

// Engine runs the full pricing pipeline. Implementations must be pure with
// respect to Input: identical inputs and snapshot yield identical results.
type Engine interface {
	Calculate(ctx context.Context, in Input) (*Result, error)
}

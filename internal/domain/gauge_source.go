package domain

import (
	"context"
	"errors"
)

// ErrGaugeNotFound is returned when a run has no output for a gauge.
var ErrGaugeNotFound = errors.New("gauge not found")

// GaugeSource loads gauge solutions from a run's output.
type GaugeSource interface {
	// Gauge returns the solution recorded by gauge id, or an error wrapping
	// ErrGaugeNotFound.
	Gauge(ctx context.Context, id int) (GaugeSolution, error)
}

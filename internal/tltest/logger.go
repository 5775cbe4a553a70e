package tltest

import (
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
)

// NewLogger returns a [*slog.Logger] whose output is associated with t.
func NewLogger(t *testing.T) *slog.Logger {
	return slogt.New(t)
}

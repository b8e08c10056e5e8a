//go:build !raylib

package gui

import (
	"context"

	"github.com/san-kum/convmon/internal/monitor"
)

// Run always fails in builds without the raylib tag.
func Run(ctx context.Context, driver *monitor.Driver, opts Options) error {
	return ErrUnsupported
}

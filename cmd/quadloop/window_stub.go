//go:build !cgo

package main

import (
	"context"
	"errors"

	"quadloop/internal/config"
	"quadloop/internal/frame"
	"quadloop/internal/quad"
	"quadloop/internal/raster"
)

func runWindow(_ context.Context, _ config.Config, _ *raster.Device, _ *frame.Scheduler, _ *quad.Frame) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}

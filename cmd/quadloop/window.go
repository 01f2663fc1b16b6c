//go:build cgo

package main

import (
	"context"
	"errors"
	"image"

	"quadloop/internal/config"
	"quadloop/internal/frame"
	"quadloop/internal/quad"
	"quadloop/internal/raster"

	"github.com/hajimehoshi/ebiten/v2"
)

// runWindow shows the animation in a resizable desktop window. It blocks
// until the window closes or ctx is done, and stops the scheduler either way.
func runWindow(ctx context.Context, cfg config.Config, dev *raster.Device, sched *frame.Scheduler, q *quad.Frame) error {
	g := &windowGame{
		ctx:         ctx,
		dev:         dev,
		sched:       sched,
		supersample: cfg.Supersample,
	}

	ebiten.SetWindowTitle("quadloop")
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.FPS)

	sched.Start(q)
	defer sched.Stop()

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

type windowGame struct {
	ctx         context.Context
	dev         *raster.Device
	sched       *frame.Scheduler
	supersample int

	outW, outH int
	frameImg   *ebiten.Image
}

func (g *windowGame) Update() error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	img := g.dev.Frame()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}
	if g.frameImg == nil || g.frameImg.Bounds() != image.Rect(0, 0, w, h) {
		if g.frameImg != nil {
			g.frameImg.Deallocate()
		}
		g.frameImg = ebiten.NewImage(w, h)
	}
	g.frameImg.WritePixels(img.Pix)

	// A frame rendered before the last resize is stretched to fit.
	sb := screen.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(sb.Dx())/float64(w), float64(sb.Dy())/float64(h))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(g.frameImg, op)
}

// Layout forwards window size changes to the scheduler.
func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outW || outsideHeight != g.outH {
		g.outW, g.outH = outsideWidth, outsideHeight
		g.sched.OnResize(outsideWidth*g.supersample, outsideHeight*g.supersample)
	}
	return outsideWidth, outsideHeight
}

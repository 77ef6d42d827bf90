package action

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	barHeight = 6
	fontSize  = 12
)

var (
	faceOnce   sync.Once
	faceSource *text.GoTextFaceSource
	faceErr    error
)

func hudFace() (text.Face, error) {
	faceOnce.Do(func() {
		faceSource, faceErr = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	})
	if faceErr != nil {
		return nil, faceErr
	}
	return &text.GoTextFace{Source: faceSource, Size: fontSize}, nil
}

// hud is where the button sits on screen.
type hud struct {
	bounds image.Rectangle
}

func (a *ProduceAction) SetBounds(r image.Rectangle) {
	a.hud.bounds = r
}

func (a *ProduceAction) Bounds() image.Rectangle {
	return a.hud.bounds
}

// Contains reports whether a screen point is over the button.
func (a *ProduceAction) Contains(x, y int) bool {
	return image.Pt(x, y).In(a.hud.bounds)
}

// Draw renders the progress bar while producing and the cost while hovered.
func (a *ProduceAction) Draw(screen *ebiten.Image) {
	face, err := hudFace()
	if err != nil {
		return
	}
	b := a.hud.bounds
	x, y := float32(b.Min.X), float32(b.Max.Y)
	w := float32(b.Dx())

	if a.Producing() {
		vector.DrawFilledRect(screen, x, y+2, w, barHeight, colornames.Darkslategray, false)
		vector.DrawFilledRect(screen, x, y+2, w*float32(a.percent)/100, barHeight, colornames.Limegreen, false)
		vector.StrokeRect(screen, x, y+2, w, barHeight, 1, colornames.Black, false)

		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(x+w+4), float64(y-2))
		op.ColorScale.ScaleWithColor(colornames.White)
		text.Draw(screen, fmt.Sprintf("%d%%", a.percent), face, op)
	}

	if a.hovered {
		tx, ty := float64(b.Min.X), float64(b.Min.Y)-2*fontSize-4
		drawCost(screen, face, tx, ty, colornames.Saddlebrown, fmt.Sprintf("wood %d", a.cost.Wood()))
		drawCost(screen, face, tx, ty+fontSize+2, colornames.Gold, fmt.Sprintf("gold %d", a.cost.Gold()))
	}
}

// drawCost draws a small square icon in c followed by label.
func drawCost(screen *ebiten.Image, face text.Face, x, y float64, c color.Color, label string) {
	vector.DrawFilledRect(screen, float32(x), float32(y+2), fontSize-4, fontSize-4, c, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x+fontSize, y)
	op.ColorScale.ScaleWithColor(colornames.White)
	text.Draw(screen, label, face, op)
}

package main

import (
	"fmt"
	"image/color"
	"os"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/spf13/cobra"
	"golang.org/x/image/colornames"

	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/logger"
	"github.com/milk9111/rts/prefabs"
	"github.com/milk9111/rts/sound"
)

const (
	baseWidth  = 960
	baseHeight = 640
)

func newPlayCmd() *cobra.Command {
	var volume float64
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open a window and play",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(settings, newSoundPlayer(volume))
			if err != nil {
				return err
			}
			g := newGame(sess, settings.TileSize)

			if w, err := prefabs.NewWatcher(prefabs.Dir); err != nil {
				logger.Log.WithError(err).Info("play: prefab hot reload disabled")
			} else {
				g.watcher = w
				defer w.Close()
			}

			ebiten.SetTPS(settings.TPS)
			ebiten.SetWindowSize(baseWidth, baseHeight)
			ebiten.SetWindowTitle("rts")
			return ebiten.RunGame(g)
		},
	}
	cmd.Flags().Float64Var(&volume, "volume", 0.6, "effects volume 0..1")
	return cmd
}

// newSoundPlayer loads the wav bank, falling back to logging when the
// sound directory is missing.
func newSoundPlayer(volume float64) sound.Player {
	bank := sound.NewBank(audio.NewContext(sound.SampleRate), volume)
	if err := bank.Load(os.DirFS(settings.SoundDir)); err != nil {
		logger.Log.WithError(err).Warn("play: no sounds loaded")
		return sound.LogPlayer{}
	}
	return bank
}

type game struct {
	sess     *session
	tileSize int
	ui       *ebitenui.UI
	buttons  []*widget.Button
	watcher  *prefabs.Watcher
}

func newGame(sess *session, tileSize int) *game {
	g := &game{sess: sess, tileSize: tileSize}
	g.ui, g.buttons = newHUD(sess)
	return g
}

func (g *game) Update() error {
	g.reloadPrefabs()

	g.ui.Update()
	mx, my := ebiten.CursorPosition()
	overHUD := false
	for i, a := range g.sess.actions {
		a.SetBounds(g.buttons[i].GetWidget().Rect)
		a.SetHover(a.Contains(mx, my))
		overHUD = overHUD || a.Hovered()
	}

	if !overHUD {
		tile := component.Tile{X: mx / g.tileSize, Y: my / g.tileSize}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			if e, ok := g.sess.entityAt(tile); ok {
				g.sess.selection.Select(uint64(e))
			} else {
				g.sess.selection.Clear()
			}
		}
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
			g.sess.order(tile)
		}
	}

	g.sess.step()
	return nil
}

// reloadPrefabs drops cached prefabs edited on disk.
func (g *game) reloadPrefabs() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case media, ok := <-g.watcher.Reloads():
			if !ok {
				g.watcher = nil
				return
			}
			g.sess.factory.Invalidate(media)
			logger.Log.WithField("media", media).Info("play: prefab reloaded")
		case err, ok := <-g.watcher.Errors():
			if ok {
				logger.Log.WithError(err).Warn("play: prefab watcher")
			}
		default:
			return
		}
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Darkolivegreen)
	ts := float32(g.tileSize)

	m := g.sess.tiles
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := component.Tile{X: x, Y: y}
			switch {
			case m.ResourceAt(t) == component.ResourceWood:
				vector.DrawFilledRect(screen, float32(x)*ts, float32(y)*ts, ts, ts, colornames.Forestgreen, false)
			case m.Blocked(t):
				vector.DrawFilledRect(screen, float32(x)*ts, float32(y)*ts, ts, ts, colornames.Dimgray, false)
			}
		}
	}

	selected := g.sess.selection.Entities()
	ecs.ForEach(g.sess.world, component.PathfindableComponent.Kind(), func(e ecs.Entity, pf *component.Pathfindable) {
		if !pf.Placed {
			return
		}
		w, h := pf.Size()
		x, y := float32(pf.Tile.X)*ts, float32(pf.Tile.Y)*ts
		vector.DrawFilledRect(screen, x+1, y+1, float32(w)*ts-2, float32(h)*ts-2, entityColor(g.sess.world, e), false)
		for _, s := range selected {
			if s == uint64(e) {
				vector.StrokeRect(screen, x, y, float32(w)*ts, float32(h)*ts, 2, colornames.Yellow, false)
			}
		}
		if b, ok := ecs.Get(g.sess.world, e, component.UnitBehaviorComponent.Kind()); ok && b.State() != "" {
			ebitenutil.DebugPrintAt(screen, string(b.State()), int(x), int(y)-12)
		}
	})

	g.ui.Draw(screen)
	for _, a := range g.sess.actions {
		a.Draw(screen)
	}

	p := g.sess.player
	ebitenutil.DebugPrint(screen, fmt.Sprintf("wood %d  gold %d  food %d/%d  tps %.0f", p.Wood, p.Gold, p.FoodUsed, p.FoodMax, ebiten.ActualTPS()))
}

func entityColor(w *ecs.World, e ecs.Entity) color.Color {
	id, _ := ecs.Get(w, e, component.IdentityComponent.Kind())
	if b, ok := ecs.Get(w, e, component.UnitBehaviorComponent.Kind()); ok && b.State() == component.StateDead {
		return colornames.Black
	}
	if id == nil {
		return colornames.White
	}
	switch id.Media {
	case "townhall":
		return colornames.Sienna
	case "barracks":
		return colornames.Firebrick
	case "footman":
		return colornames.Steelblue
	default:
		return colornames.Khaki
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

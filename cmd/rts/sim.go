package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/milk9111/rts/ecs"
	"github.com/milk9111/rts/ecs/component"
	"github.com/milk9111/rts/sound"
)

func newSimCmd() *cobra.Command {
	var (
		ticks int
		queue []string
	)
	cmd := &cobra.Command{
		Use:   "sim",
		Short: "Run the simulation headless and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			if ticks < 0 {
				return fmt.Errorf("sim: negative tick count %d", ticks)
			}
			sess, err := newSession(settings, sound.LogPlayer{})
			if err != nil {
				return err
			}
			for _, media := range queue {
				sess.produce(media)
			}
			for i := 0; i < ticks; i++ {
				sess.step()
			}
			renderSummary(cmd.OutOrStdout(), sess)
			return nil
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 1800, "ticks to simulate")
	cmd.Flags().StringSliceVar(&queue, "queue", []string{"peasant", "peasant", "footman"}, "units to order at tick 0")
	return cmd
}

func renderSummary(out io.Writer, s *session) {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetTitle(fmt.Sprintf("tick %d", s.world.Tick()))
	tw.AppendHeader(table.Row{"Entity", "Media", "State", "Tile", "Production"})

	ecs.ForEach(s.world, component.IdentityComponent.Kind(), func(e ecs.Entity, id *component.Identity) {
		state := "-"
		if b, ok := ecs.Get(s.world, e, component.UnitBehaviorComponent.Kind()); ok && b.State() != "" {
			state = string(b.State())
		}
		tile := "-"
		if pf, ok := ecs.Get(s.world, e, component.PathfindableComponent.Kind()); ok && pf.Placed {
			tile = fmt.Sprintf("%d,%d", pf.Tile.X, pf.Tile.Y)
		}
		production := "-"
		if p, ok := ecs.Get(s.world, e, component.ProducibleComponent.Kind()); ok {
			production = fmt.Sprintf("%s %d%%", p.Status(), p.Progress)
		}
		if prod, ok := ecs.Get(s.world, e, component.ProducerComponent.Kind()); ok && prod.Len() > 0 {
			production = fmt.Sprintf("queue %d, head %d%%", prod.Len(), prod.Progress)
		}
		tw.AppendRow(table.Row{e.String(), id.Media, state, tile, production})
	})

	medias := make([]string, 0, len(s.produced))
	for m := range s.produced {
		medias = append(medias, m)
	}
	sort.Strings(medias)
	built := ""
	for _, m := range medias {
		built += fmt.Sprintf("%s x%d ", m, s.produced[m])
	}
	tw.AppendFooter(table.Row{"wood", s.player.Wood, "gold", s.player.Gold, built})
	tw.Render()
}

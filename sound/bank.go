package sound

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const SampleRate = 44100

// Bank is the ebiten-backed Player. Sounds are keyed by file name without
// extension ("attacked.wav" is "attacked").
type Bank struct {
	ctx     *audio.Context
	players map[string]*audio.Player
	volume  float64
}

func NewBank(ctx *audio.Context, volume float64) *Bank {
	return &Bank{ctx: ctx, players: make(map[string]*audio.Player), volume: volume}
}

// Load decodes every .wav file at the root of fsys.
func (b *Bank) Load(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("sound: read dir: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(path.Ext(name), ".wav") {
			continue
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("sound: read %q: %w", name, err)
		}
		stream, err := wav.DecodeWithSampleRate(b.ctx.SampleRate(), bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("sound: decode wav %q: %w", name, err)
		}
		player, err := b.ctx.NewPlayer(stream)
		if err != nil {
			return fmt.Errorf("sound: player %q: %w", name, err)
		}
		player.SetVolume(b.volume)
		b.players[strings.TrimSuffix(name, path.Ext(name))] = player
	}
	return nil
}

func (b *Bank) Play(name string) error {
	player, ok := b.players[name]
	if !ok {
		return fmt.Errorf("sound: unknown sound %q", name)
	}
	if err := player.Rewind(); err != nil {
		return fmt.Errorf("sound: rewind %q: %w", name, err)
	}
	player.Play()
	return nil
}

func (b *Bank) Len() int {
	return len(b.players)
}

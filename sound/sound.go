// Package sound plays the short effects units and buttons trigger.
package sound

import (
	"github.com/milk9111/rts/logger"
)

//go:generate go tool mockgen -destination=./mocks/player_mock.go -package=mocks . Player

// Player plays a named sound effect.
type Player interface {
	Play(name string) error
}

// LogPlayer is the headless Player, it only records what would be heard.
type LogPlayer struct{}

func (LogPlayer) Play(name string) error {
	logger.Log.WithField("sound", name).Debug("sound: play")
	return nil
}

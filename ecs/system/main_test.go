package system

import (
	"os"
	"testing"

	"github.com/milk9111/rts/logger"
)

func TestMain(m *testing.M) {
	logger.Discard()
	os.Exit(m.Run())
}

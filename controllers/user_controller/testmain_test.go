package user_controller

import (
	"os"
	"testing"

	"github.com/renthub/renthub/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "user_controller_logs")
	if err == nil {
		os.Setenv("LOG_DIR", dir)
	}
	logger.InitLoggers()
	code := m.Run()
	if dir != "" {
		os.RemoveAll(dir)
	}
	os.Exit(code)
}

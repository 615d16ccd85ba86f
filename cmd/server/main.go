package main

import (
	"go.uber.org/zap"

	"github.com/pitchside/matchtrack/internal/app/server"
	"github.com/pitchside/matchtrack/pkg/logging"
)

func main() {
	logging.Fatal("Tracker server exited: ", zap.Error(
		server.NewServer().Start(),
	))
}

package main

import (
	"os"

	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logging.Errorw("mcp-quickstart failed", "err", err)
		_ = logging.Sync()
		os.Exit(1)
	}
	_ = logging.Sync()
}

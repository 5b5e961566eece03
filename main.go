package main

import (
	"os"

	"github.com/rohanthewiz/logger"

	"solrview/cli"
)

func main() {
	// Initialize logger; commands raise or lower it from the config
	logger.SetLogLevel("info")

	if err := cli.Execute(); err != nil {
		logger.LogErr(err, "solrview failed")
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/dgallion1/chatframe/internal/cli"
	"github.com/dgallion1/chatframe/internal/config"
)

func main() {
	config.LoadDotEnv(".env")
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

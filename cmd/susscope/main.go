package main

import (
	"context"
	"errors"
	"os"

	"github.com/SoonerRobotics/SusScope/internal/startup"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			startup.LogFatal("%v", err)
		}
		os.Exit(1)
	}
}

package main

//go:generate go tool templ generate -path web/templates

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/jon4hz/chessweb/cmd"
)

func main() {
	if err := fang.Execute(
		context.Background(),
		cmd.Root(),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}

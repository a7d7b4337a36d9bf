package main

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runDesktop() error {
	app := NewApp()
	return wails.Run(&options.App{
		Title:            "Flash Translate",
		Width:            1120,
		Height:           720,
		MinWidth:         720,
		MinHeight:        480,
		BackgroundColour: &options.RGBA{R: 248, G: 250, B: 252, A: 1},
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup:  app.startup,
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
		},
	})
}

func indexHTML() ([]byte, error) {
	return fs.ReadFile(assets, "frontend/dist/index.html")
}

package main

import (
	"embed"
	"flag"
	"io/fs"

	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/server"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

var mainLog = logger.New("main")

func main() {
	serveAddr := flag.String("serve", "", "run headless and expose the HTTP API on this address, e.g. :8080")
	backendURL := flag.String("backend", "", "connect the GUI to a remote backend instead of the in-process bot, e.g. http://localhost:8080")
	flag.Parse()

	app, err := NewApp(*backendURL)
	if err != nil {
		mainLog.Error("startup failed: %v", err)
		return
	}

	assetFS, err := fs.Sub(assets, "frontend/dist")
	if err != nil {
		mainLog.Error("frontend assets missing: %v", err)
		return
	}

	// 无界面模式：起 HTTP API 并直接伺服内嵌前端
	if *serveAddr != "" {
		srv := server.New(app.bot)
		srv.ServeAssets(assetFS)
		if err := srv.ListenAndServe(*serveAddr); err != nil {
			mainLog.Error("server stopped: %v", err)
		}
		return
	}

	err = wails.Run(&options.App{
		Title:     "FinWise - Your Financial Friend",
		Width:     1024,
		Height:    768,
		MinWidth:  800,
		MinHeight: 600,
		AssetServer: &assetserver.Options{
			Assets: assetFS,
		},
		BackgroundColour: &options.RGBA{R: 245, G: 246, B: 250, A: 255},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		mainLog.Error("wails run failed: %v", err)
	}
}

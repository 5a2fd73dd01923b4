package main

import (
	"log"

	"github.com/GrahamCHill/diagram-studio/config"
	"github.com/GrahamCHill/diagram-studio/internal/editor/render"
	"github.com/GrahamCHill/diagram-studio/internal/editor/store"
	"github.com/GrahamCHill/diagram-studio/internal/editor/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	render.Configure(render.Options{
		BaseURL:     cfg.Renderer.BaseURL,
		DiagramKind: cfg.Renderer.DiagramKind,
		Timeout:     cfg.Renderer.Timeout,
	})

	client := store.NewClient(cfg.Studio.StoreURL)

	if err := tui.Run(client, render.Default(), cfg.Studio); err != nil {
		log.Fatalf("studio exited: %v", err)
	}
}

package main

import (
	"context"
	"log"

	"scavenger-hunt-api/internal/auth"
	"scavenger-hunt-api/internal/catalog"
	"scavenger-hunt-api/internal/config"
	"scavenger-hunt-api/internal/database"
	"scavenger-hunt-api/internal/game"
	"scavenger-hunt-api/internal/handlers"
	"scavenger-hunt-api/internal/realtime"
	"scavenger-hunt-api/internal/routes"
	"scavenger-hunt-api/internal/storage"
	"scavenger-hunt-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	ctx := context.Background()

	// Init database
	db := database.InitDB(cfg.Database.Path)
	s := store.New(db)

	// An empty database gets the built-in game
	existing, err := s.ListAllTasks(ctx)
	if err != nil {
		log.Fatal("Failed to read tasks: ", err)
	}
	if len(existing) == 0 {
		tasks, err := catalog.Default()
		if err != nil {
			log.Fatal("Failed to load default catalog: ", err)
		}
		if err := catalog.Seed(ctx, s, tasks, false); err != nil {
			log.Fatal("Failed to seed tasks: ", err)
		}
	}

	blobs, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("Failed to init storage: ", err)
	}

	engine := game.NewEngine(s, blobs, game.Options{
		InReviewAdvances: cfg.Game.InReviewAdvances,
		MaxUploadBytes:   cfg.Game.MaxUploadBytes,
		CatalogTTL:       cfg.Game.CatalogTTL,
	})
	hub := realtime.NewHub()
	engine.SetNotifier(hub)

	tokens := auth.NewManager(cfg.JWT)
	h := handlers.New(handlers.Deps{
		Engine:         engine,
		Store:          s,
		Blobs:          blobs,
		Tokens:         tokens,
		Hub:            hub,
		MaxUploadBytes: cfg.Game.MaxUploadBytes,
	})

	opts := routes.Options{Handler: h, Tokens: tokens, MaxUploadBytes: cfg.Game.MaxUploadBytes}
	if _, ok := blobs.(*storage.Local); ok {
		opts.UploadsDir = cfg.Storage.Dir
		opts.UploadsURL = cfg.Storage.PublicURL
	}

	// Setup the routes (public, team and admin routes)
	ginRoutes := routes.SetupRoutes(opts)

	// Start server
	port := ":" + cfg.Server.Port
	log.Printf("Server starting on port %s (storage: %s, in_review advances: %t)", port, cfg.Storage.Driver, cfg.Game.InReviewAdvances)

	if err := ginRoutes.Run(port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

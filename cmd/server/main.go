package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/in-nis/matura-back/internal/api"
	"github.com/in-nis/matura-back/internal/auth"
	"github.com/in-nis/matura-back/internal/config"
	"github.com/in-nis/matura-back/internal/console"
	"github.com/in-nis/matura-back/internal/cron"
	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/httpx"
	"github.com/in-nis/matura-back/internal/storage"
	"github.com/in-nis/matura-back/internal/tutoring"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system env")
	}

	cfg := config.Load()

	store := db.InitDB(cfg.DBDriver, cfg.DBUrl)
	files := storage.NewLocal(cfg.AvatarDir, cfg.UploadDir)

	authSvc := auth.NewService(store, cfg.JWTSecret, cfg.SessionTTL)
	authSvc.SecureCookie = cfg.CookieSecure

	httpx.InitValidation()

	r := api.SetupRouter(cfg, api.Deps{
		Store:    store,
		Auth:     authSvc,
		Tutoring: tutoring.NewService(store, files),
		Console:  console.New(store.DB()),
	})

	// Start cron jobs
	jobs, err := cron.StartJobs(cfg.SessionPurgeSpec, authSvc)
	if err != nil {
		log.Fatalf("failed to schedule jobs: %v", err)
	}
	defer jobs.Stop()

	log.Printf("Server running on :%s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

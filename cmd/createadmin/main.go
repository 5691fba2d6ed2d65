// Command createadmin creates an administrator account, or resets the
// password and names of an existing account with the same login.
package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/in-nis/matura-back/internal/config"
	"github.com/in-nis/matura-back/internal/db"
	"github.com/in-nis/matura-back/internal/models"
)

func main() {
	login := flag.String("login", "admin", "account login")
	password := flag.String("password", "", "account password")
	firstName := flag.String("imie", "Admin", "first name")
	lastName := flag.String("nazwisko", "Admin", "last name")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system env")
	}
	cfg := config.Load()
	store := db.InitDB(cfg.DBDriver, cfg.DBUrl)

	u := &models.User{FirstName: *firstName, LastName: *lastName, Login: *login, Role: models.RoleAdmin}
	if err := u.SetPassword(*password); err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	if err := store.SaveOrUpdateUser(context.Background(), u); err != nil {
		log.Fatalf("failed to save admin: %v", err)
	}
	log.Printf("✅ Admin %q ready (id %d)\n", u.Login, u.ID)
}

// Command seed creates the admin account and the default site settings.
// Missing admin credentials are prompted for on the terminal.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/portfolio/internal/common"
	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/config"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/portfolio/internal/server/seed"
	"github.com/dmitrijs2005/portfolio/internal/server/services"
)

func main() {
	if err := run(context.Background(), config.LoadConfig()); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("seed completed")
}

func run(ctx context.Context, cfg *config.Config) error {
	email := cfg.AdminEmail
	if email == "" {
		var err error
		email, err = seed.GetSimpleText(bufio.NewReader(os.Stdin), "Admin email", os.Stdout)
		if err != nil {
			return fmt.Errorf("read email: %w", err)
		}
	}

	password := []byte(cfg.AdminPassword)
	if len(password) == 0 {
		var err error
		password, err = seed.GetPassword("Admin password", os.Stdout)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}
	defer common.WipeByteArray(password)

	db, err := dbx.Open(ctx, cfg.DatabaseDSN, cfg.DatabaseConnectTimeout)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db.DB); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	s := seed.NewSeeder(services.NewAuthService(db, rm, cfg), rm.Settings(db), os.Stdout)
	return s.Run(ctx, email, password)
}

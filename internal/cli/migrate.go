package cli

import (
	"log"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"learnify/internal/config"
	"learnify/pkg/database"
)

func newMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Println("migrations applied")
			return nil
		},
	}
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	return database.NewPostgresDB(&database.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	})
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/association-management/internal"
	"github.com/frahmantamala/association-management/internal/auth"
	"github.com/frahmantamala/association-management/internal/user"
	userPostgres "github.com/frahmantamala/association-management/internal/user/postgres"
)

var (
	seedAdminEmail    string
	seedAdminPassword string
	seedAdminName     string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed default settings and the first administrator",
	Long:  `Create missing default settings and an administrator profile so the system can be used right after migrating.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		app, err := newApplication(cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		ctx := context.Background()

		created, err := app.Settings.EnsureDefaults(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
		fmt.Printf("Seeded %d default settings\n", created)

		if seedAdminPassword == "" {
			fmt.Println("No admin password given (--admin-password or ADMIN_PASSWORD); skipping admin profile")
			return nil
		}

		users := user.NewService(userPostgres.NewUserRepository(app.Gorm), auth.NewPermissionChecker(), app.Audit, cfg.Security.BCryptCost, app.Logger)
		nome := seedAdminName
		_, err = users.Create(ctx, user.CreateDTO{
			Email:  seedAdminEmail,
			Nome:   &nome,
			Perfil: string(auth.RoleAdmin),
			Senha:  seedAdminPassword,
		})
		if err == internal.ErrDuplicateEmail {
			fmt.Println("admin user already exists:", seedAdminEmail)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}

		fmt.Println("Seeded admin user:", seedAdminEmail)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", envOr("ADMIN_EMAIL", "admin@associacao.local"), "administrator email")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", os.Getenv("ADMIN_PASSWORD"), "administrator password")
	seedCmd.Flags().StringVar(&seedAdminName, "admin-name", "Administrador", "administrator display name")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

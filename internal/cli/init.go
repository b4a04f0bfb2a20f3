package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/contacts/internal/config"
	"github.com/example/contacts/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var seed bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the contacts directory",
		Long: `Write the config file, create the database and the photo directory.

The data directory is ~/.contacts unless CONTACTS_HOME is set.

Examples:
  contacts init
  contacts init --seed     # also add sample contacts
  contacts init --force    # rewrite the config file with defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := config.HomeDir()
			if err != nil {
				return err
			}

			cfg, err := config.LoadConfig(home)
			switch {
			case err == nil && !force:
				fmt.Printf("✓ Using existing config at %s/%s\n", home, config.FileName)
			case err == nil || errors.Is(err, fs.ErrNotExist):
				cfg = config.Default(home)
				if err := config.SaveConfig(home, cfg); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s/%s\n", home, config.FileName)
			default:
				return fmt.Errorf("%w\nHint: use --force to replace it with defaults", err)
			}

			database, err := db.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer database.Close()
			fmt.Printf("✓ Database ready at %s\n", cfg.DBPath)

			if err := os.MkdirAll(cfg.PhotoDir, 0o750); err != nil {
				return fmt.Errorf("failed to create photo directory: %w", err)
			}
			fmt.Printf("✓ Photo directory ready at %s\n", cfg.PhotoDir)

			if seed {
				n, err := db.SeedFixtures(database)
				if err != nil {
					return err
				}
				fmt.Printf("✓ Added %d sample contacts\n", n)
			}

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  contacts add --name Ana --phone 5551234567 --email ana@x.com")
			fmt.Println("  contacts list")

			return nil
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Add sample contacts to an empty database")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

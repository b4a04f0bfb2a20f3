package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/contacts/internal/adapters/filesystem"
	"github.com/example/contacts/internal/adapters/sqlite"
	"github.com/example/contacts/internal/config"
	"github.com/example/contacts/internal/db"
	"github.com/example/contacts/internal/ports/secondary"
	"github.com/example/contacts/internal/version"
)

// Check statuses
const (
	statusOK   = "✓"
	statusWarn = "⚠"
	statusFail = "✗"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the contacts environment",
		Long: `Health check for the contacts directory.

Validates:
- Config file (present and readable)
- Database (opens, schema up to date)
- Photo directory (exists and is writable)
- Photo references (every stored photo path exists)

Examples:
  contacts doctor              # Run full health check
  contacts doctor --quiet      # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			results := RunChecks(cmd.Context())

			hasErrors := false
			for _, r := range results {
				if r.Status == statusFail {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Printf("\n%s\n\n", version.String())
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, colorStatus(r.Status))
				}
				fmt.Println()

				// Print details for non-passing checks
				hasDetails := false
				for _, r := range results {
					if r.Status != statusOK && r.Details != "" {
						if !hasDetails {
							fmt.Println("Details:")
							hasDetails = true
						}
						fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\n⚠ Issues found. Run 'contacts init' to set up missing pieces.")
				} else {
					fmt.Println("All checks passed.")
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// RunChecks runs every check against the configured data directory.
func RunChecks(ctx context.Context) []CheckResult {
	home, err := config.HomeDir()
	if err != nil {
		return []CheckResult{{Name: "Config", Status: statusFail, Details: "  " + err.Error()}}
	}

	cfgResult, cfg := checkConfig(home)
	results := []CheckResult{cfgResult, checkPhotoDir(cfg.PhotoDir)}

	if _, err := os.Stat(cfg.DBPath); err != nil {
		results = append(results, CheckResult{
			Name:    "Database",
			Status:  statusFail,
			Details: "  Missing: " + cfg.DBPath,
		})
		return results
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return append(results, CheckResult{Name: "Database", Status: statusFail, Details: "  " + err.Error()})
	}
	defer database.Close()

	results = append(results, checkSchema(database))
	results = append(results, checkPhotoRefs(ctx, sqlite.NewContactRepository(database), cfg.PhotoDir))
	return results
}

// checkConfig loads the config, falling back to defaults when absent
func checkConfig(home string) (CheckResult, *config.Config) {
	cfg, err := config.LoadConfig(home)
	if errors.Is(err, fs.ErrNotExist) {
		return CheckResult{
			Name:    "Config",
			Status:  statusWarn,
			Details: fmt.Sprintf("  No %s in %s, using defaults", config.FileName, home),
		}, config.Default(home)
	}
	if err != nil {
		return CheckResult{Name: "Config", Status: statusFail, Details: "  " + err.Error()}, config.Default(home)
	}
	return CheckResult{Name: "Config", Status: statusOK}, cfg
}

// checkPhotoDir validates that photos can be written
func checkPhotoDir(dir string) CheckResult {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return CheckResult{Name: "Photo directory", Status: statusFail, Details: "  Missing: " + dir}
	}

	tmp, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return CheckResult{Name: "Photo directory", Status: statusFail, Details: "  Not writable: " + err.Error()}
	}
	tmp.Close()
	os.Remove(tmp.Name())

	return CheckResult{Name: "Photo directory", Status: statusOK}
}

// checkSchema confirms the schema is at the latest migration
func checkSchema(database *sql.DB) CheckResult {
	v, err := db.RunMigrations(database)
	if err != nil {
		return CheckResult{Name: "Database", Status: statusFail, Details: "  " + err.Error()}
	}
	return CheckResult{Name: "Database", Status: statusOK, Details: fmt.Sprintf("  Schema version %d", v)}
}

// checkPhotoRefs finds contacts whose photo file no longer exists
func checkPhotoRefs(ctx context.Context, repo secondary.ContactRepository, photoDir string) CheckResult {
	photos, err := filesystem.NewPhotoStore(photoDir)
	if err != nil {
		return CheckResult{Name: "Photo references", Status: statusFail, Details: "  " + err.Error()}
	}

	contacts, err := repo.List(ctx)
	if err != nil {
		return CheckResult{Name: "Photo references", Status: statusFail, Details: "  " + err.Error()}
	}

	dangling := []string{}
	for _, c := range contacts {
		if c.PhotoPath == "" {
			continue
		}
		if ok, err := photos.Exists(ctx, c.PhotoPath); err == nil && !ok {
			dangling = append(dangling, fmt.Sprintf("  contact %d: %s", c.ID, filepath.Base(c.PhotoPath)))
		}
	}

	if len(dangling) > 0 {
		return CheckResult{
			Name:    "Photo references",
			Status:  statusWarn,
			Details: "  Missing photo files (shown without a picture):\n" + strings.Join(dangling, "\n"),
		}
	}
	return CheckResult{Name: "Photo references", Status: statusOK}
}

func colorStatus(status string) string {
	switch status {
	case statusOK:
		return color.New(color.FgGreen).Sprint(status)
	case statusWarn:
		return color.New(color.FgYellow).Sprint(status)
	default:
		return color.New(color.FgRed).Sprint(status)
	}
}

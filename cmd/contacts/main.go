package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/contacts/internal/cli"
	"github.com/example/contacts/internal/version"
	"github.com/example/contacts/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "contacts",
		Short:   "Contacts - a personal contact directory",
		Version: version.String(),
		Long: `Contacts keeps names, phone numbers, email addresses and photos
in a local SQLite database. Data lives in ~/.contacts unless CONTACTS_HOME is set.`,
		SilenceUsage: true,
	}

	// Setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())

	// Contact commands
	rootCmd.AddCommand(cli.AddCmd())
	rootCmd.AddCommand(cli.EditCmd())
	rootCmd.AddCommand(cli.DeleteCmd())
	rootCmd.AddCommand(cli.ListCmd())
	rootCmd.AddCommand(cli.ShowCmd())
	rootCmd.AddCommand(cli.WatchCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if closeErr := wire.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

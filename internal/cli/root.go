// Package cli implements the partyline command line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/partyline/internal/config"
	"github.com/roach88/partyline/internal/party"
	"github.com/roach88/partyline/internal/store"
	"github.com/roach88/partyline/internal/user"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	Database   string
	ConfigPath string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the partyline CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "partyline",
		Short: "partyline - fixed-capacity parties with a waiting list",
		Long: `Manage fixed-capacity parties: create a party with a seat count,
join (taking a seat or queueing when full), leave (promoting the
longest-waiting queued user into the vacated seat), and show the party.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			level := slog.LevelInfo
			if opts.ConfigPath != "" {
				cfg, err := config.Load(opts.ConfigPath)
				if err != nil {
					return err
				}
				if !cmd.Flags().Changed("db") {
					opts.Database = cfg.Database
				}
				level, _ = cfg.SlogLevel()
			}
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "partyline.db", "path to the SQLite database file")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")

	// Add subcommands
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewJoinCommand(opts))
	cmd.AddCommand(NewLeaveCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// openService opens the store and wires up the engine. The returned cleanup
// closes the store.
func openService(opts *RootOptions) (*party.Service, func(), error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("open database %s: %w", opts.Database, err)
	}
	svc := party.NewService(st, user.NewResolver(st))
	return svc, func() { st.Close() }, nil
}

// identityFlags are the external-identity flags shared by create, join and
// leave.
type identityFlags struct {
	ID     int64
	Name   string
	Handle string
}

func (f *identityFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.ID, "user-id", 0, "external identity key of the user")
	cmd.Flags().StringVar(&f.Name, "name", "", "display name of the user")
	cmd.Flags().StringVar(&f.Handle, "handle", "", "external handle of the user (optional)")
	cmd.MarkFlagRequired("user-id")
	cmd.MarkFlagRequired("name")
}

func (f *identityFlags) identity() user.Identity {
	return user.Identity{ExternalID: f.ID, Name: f.Name, Handle: f.Handle}
}

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/partyline/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <party-id>",
		Short: "Show a party: seats, occupants, waiting list",
		Long: `Show the current state of a party. Text output renders the chat
announcement message; JSON output dumps the full snapshot.

Example:
  partyline show 1
  partyline show 1 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			partyID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid party id %q", args[0])
			}
			return runShow(cmd, opts, partyID)
		},
	}

	return cmd
}

func runShow(cmd *cobra.Command, opts *ShowOptions, partyID int64) error {
	svc, cleanup, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	snap, err := svc.Snapshot(cmd.Context(), partyID)
	if errors.Is(err, store.ErrPartyNotFound) {
		return fmt.Errorf("party %d not found", partyID)
	}
	if err != nil {
		return err
	}

	return printSnapshot(cmd.OutOrStdout(), opts.Format, snap)
}

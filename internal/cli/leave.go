package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// LeaveOptions holds flags for the leave command.
type LeaveOptions struct {
	*RootOptions
	User identityFlags
}

// NewLeaveCommand creates the leave command.
func NewLeaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LeaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "leave <party-id>",
		Short: "Leave a party or its waiting queue",
		Long: `Leave a party with the given external identity. A queued user is removed
from the queue; a seated user vacates the seat, and when the queue is
non-empty the longest-waiting queued user is promoted into it within the
same transaction.

Example:
  partyline leave 1 --user-id 7 --name Alice`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			partyID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid party id %q", args[0])
			}
			return runLeave(cmd, opts, partyID)
		},
	}

	opts.User.register(cmd)

	return cmd
}

func runLeave(cmd *cobra.Command, opts *LeaveOptions, partyID int64) error {
	svc, cleanup, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	result := svc.Leave(cmd.Context(), partyID, opts.User.identity())
	var extra map[string]any
	if result.PropagatedUser != nil {
		extra = map[string]any{"propagated_user": *result.PropagatedUser}
	}
	return printStatus(cmd.OutOrStdout(), opts.Format, string(result.Status), extra)
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// JoinOptions holds flags for the join command.
type JoinOptions struct {
	*RootOptions
	User identityFlags
}

// NewJoinCommand creates the join command.
func NewJoinCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JoinOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "join <party-id>",
		Short: "Join a party, taking a seat or queueing when full",
		Long: `Join a party with the given external identity. If a seat is free it is
claimed; otherwise the user is appended to the waiting queue
(NO_AVAILABLE_SEATS). Joining twice reports ALREADY_JOINED or
ALREADY_IN_THE_QUEUE without changing anything.

Example:
  partyline join 1 --user-id 7 --name Alice --handle alice`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			partyID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid party id %q", args[0])
			}
			return runJoin(cmd, opts, partyID)
		},
	}

	opts.User.register(cmd)

	return cmd
}

func runJoin(cmd *cobra.Command, opts *JoinOptions, partyID int64) error {
	svc, cleanup, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	result := svc.Join(cmd.Context(), partyID, opts.User.identity())
	return printStatus(cmd.OutOrStdout(), opts.Format, string(result.Status), nil)
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/partyline/internal/party"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	Owner identityFlags
	Seats int
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create <chat-id>",
		Short: "Create a party with a fixed number of seats",
		Long: `Create a party in the given chat. The party, its seats and its empty
waiting queue are created atomically. The seat count is fixed for the
lifetime of the party and may not exceed ` + strconv.Itoa(party.MaxSeats) + `.

Example:
  partyline create 42 --seats 10 --user-id 7 --name Alice`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			chatID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chat id %q", args[0])
			}
			return runCreate(cmd, opts, chatID)
		},
	}

	opts.Owner.register(cmd)
	cmd.Flags().IntVar(&opts.Seats, "seats", 0, "number of seats")
	cmd.MarkFlagRequired("seats")

	return cmd
}

func runCreate(cmd *cobra.Command, opts *CreateOptions, chatID int64) error {
	svc, cleanup, err := openService(opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	result := svc.CreateParty(cmd.Context(), opts.Owner.identity(), chatID, opts.Seats)
	if result.Status != party.CreateSuccess {
		return printStatus(cmd.OutOrStdout(), opts.Format, string(result.Status), nil)
	}
	return printStatus(cmd.OutOrStdout(), opts.Format, string(result.Status), map[string]any{"party_id": result.PartyID})
}

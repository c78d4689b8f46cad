package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	rosterv1alpha1 "github.com/KirkDiggler/roster-api/internal/handlers/roster/v1alpha1"
)

var deleteConfirm bool

// sessionCmd groups the commands that act on a live session
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Drive a live session",
	Long: `Sessions hold the open entry and the active move slot. Start one, then
pass its id to the other commands. Example:

  session start
  session open sess_1234 entry_5678
  session assign sess_1234 thunderbolt
  session watch sess_1234`,
}

func init() {
	sessionDeleteCmd.Flags().BoolVar(&deleteConfirm, "confirm", false, "Confirm the deletion")

	sessionCmd.AddCommand(sessionStartCmd)
	sessionCmd.AddCommand(sessionCall("end [session-id]", "End a session", 1,
		func(ctx context.Context, c rosterv1alpha1.RosterServiceClient, args []string) (interface{}, error) {
			return c.EndSession(ctx, &rosterv1alpha1.SessionRequest{SessionID: args[0]})
		}))
	sessionCmd.AddCommand(sessionCall("get [session-id]", "Show a session", 1,
		func(ctx context.Context, c rosterv1alpha1.RosterServiceClient, args []string) (interface{}, error) {
			return c.GetSession(ctx, &rosterv1alpha1.SessionRequest{SessionID: args[0]})
		}))
	sessionCmd.AddCommand(sessionCall("open [session-id] [entry-id]", "Open an entry", 2,
		func(ctx context.Context, c rosterv1alpha1.RosterServiceClient, args []string) (interface{}, error) {
			return c.OpenEntry(ctx, &rosterv1alpha1.OpenEntryRequest{SessionID: args[0], EntryID: args[1]})
		}))
	sessionCmd.AddCommand(sessionCall("close [session-id]", "Close the open entry", 1,
		func(ctx context.Context, c rosterv1alpha1.RosterServiceClient, args []string) (interface{}, error) {
			return c.CloseEntry(ctx, &rosterv1alpha1.SessionRequest{SessionID: args[0]})
		}))
	sessionCmd.AddCommand(sessionCall("slot [session-id] [index]", "Select the active slot (0-3)", 2,
		func(ctx context.Context, c rosterv1alpha1.RosterServiceClient, args []string) (interface{}, error) {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("invalid slot index %q", args[1])
			}
			return c.SelectSlot(ctx, &rosterv1alpha1.SelectSlotRequest{SessionID: args[0], SlotIndex: index})
		}))
	sessionCmd.AddCommand(sessionCall("assign [session-id] [move]", "Assign a move to the active slot", 2,
		func(ctx context.Context, c rosterv1alpha1.RosterServiceClient, args []string) (interface{}, error) {
			move, err := moveArg(args[1])
			if err != nil {
				return nil, err
			}
			return c.AssignMove(ctx, &rosterv1alpha1.AssignMoveRequest{SessionID: args[0], Move: move})
		}))
	sessionCmd.AddCommand(sessionCall("remove [session-id] [index]", "Clear a slot (0-3)", 2,
		func(ctx context.Context, c rosterv1alpha1.RosterServiceClient, args []string) (interface{}, error) {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return nil, fmt.Errorf("invalid slot index %q", args[1])
			}
			return c.RemoveMove(ctx, &rosterv1alpha1.RemoveMoveRequest{SessionID: args[0], SlotIndex: index})
		}))
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionWatchCmd)
}

type sessionFunc func(ctx context.Context, c rosterv1alpha1.RosterServiceClient, args []string) (interface{}, error)

// sessionCall builds a command that makes one unary call and prints the
// response
func sessionCall(use, short string, nargs int, call sessionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cleanup, err := createRosterClient()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := requestContext()
			defer cancel()

			resp, err := call(ctx, client, args)
			if err != nil {
				return err
			}
			return printJSON(resp)
		},
	}
}

// moveArg accepts JSON (an object or a quoted string) or a bare move name
func moveArg(arg string) (json.RawMessage, error) {
	if json.Valid([]byte(arg)) {
		return json.RawMessage(arg), nil
	}
	data, err := json.Marshal(arg)
	if err != nil {
		return nil, err
	}
	return data, nil
}

var sessionStartCmd = sessionCall("start", "Start a session", 0,
	func(ctx context.Context, c rosterv1alpha1.RosterServiceClient, _ []string) (interface{}, error) {
		return c.StartSession(ctx, &rosterv1alpha1.StartSessionRequest{})
	})

var sessionDeleteCmd = sessionCall("delete [session-id] [entry-id]", "Delete an entry (needs --confirm)", 2,
	func(ctx context.Context, c rosterv1alpha1.RosterServiceClient, args []string) (interface{}, error) {
		return c.DeleteEntry(ctx, &rosterv1alpha1.DeleteEntryRequest{
			SessionID: args[0],
			EntryID:   args[1],
			Confirm:   deleteConfirm,
		})
	})

var sessionWatchCmd = &cobra.Command{
	Use:   "watch [session-id]",
	Short: "Stream session views until the session ends or Ctrl-C",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cleanup, err := createRosterClient()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		stream, err := client.WatchSession(withToken(ctx), &rosterv1alpha1.SessionRequest{SessionID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to watch session: %w", err)
		}
		return printStream(ctx, stream)
	},
}

func printStream(ctx context.Context, stream grpc.ServerStreamingClient[rosterv1alpha1.SessionResponse]) error {
	for {
		resp, err := stream.Recv()
		if err == io.EOF || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		if err := printJSON(resp.View); err != nil {
			return err
		}
	}
}

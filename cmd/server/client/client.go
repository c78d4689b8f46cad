// Package client provides commands that exercise the roster gRPC service
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	rosterv1alpha1 "github.com/KirkDiggler/roster-api/internal/handlers/roster/v1alpha1"
	"github.com/KirkDiggler/roster-api/internal/services/auth"
)

// EnvToken supplies the bearer token when --token is not set
const EnvToken = "ROSTER_TOKEN"

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
	token      string
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for the Roster API",
	Long:  `Client commands call a running Roster API server over gRPC and print the JSON responses.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	ClientCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (defaults to $"+EnvToken+")")

	// Roster commands
	ClientCmd.AddCommand(lookupCmd)
	ClientCmd.AddCommand(addCmd)
	ClientCmd.AddCommand(rosterCmd)
	ClientCmd.AddCommand(logoutCmd)

	// Session commands
	ClientCmd.AddCommand(sessionCmd)
}

// createRosterClient creates a roster service client
func createRosterClient() (rosterv1alpha1.RosterServiceClient, func(), error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return rosterv1alpha1.NewRosterServiceClient(conn), cleanup, nil
}

// requestContext returns a context carrying the bearer token and bounded by
// --timeout
func requestContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return withToken(ctx), cancel
}

func withToken(ctx context.Context) context.Context {
	t := token
	if t == "" {
		t = os.Getenv(EnvToken)
	}
	if t == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", auth.Scheme+" "+t)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

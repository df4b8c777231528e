// Package client provides test commands for the trenchturn gRPC service
package client

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/trenchturn/internal/handlers/turn/v1alpha1"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client test commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Test client commands for the turn service",
	Long:  `Client commands allow you to drive a trenchturn server by making real gRPC requests.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "localhost:50051", "gRPC server address")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(startSessionCmd)
	ClientCmd.AddCommand(commitCmd)
	ClientCmd.AddCommand(readyCmd)
	ClientCmd.AddCommand(snapshotCmd)
	ClientCmd.AddCommand(eventsCmd)
	ClientCmd.AddCommand(endSessionCmd)
}

// createConnection creates a gRPC connection to the server
func createConnection() (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(serverAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}

	return conn, nil
}

// createTurnClient creates a turn service client
func createTurnClient() (v1alpha1.TurnServiceClient, func(), error) {
	conn, err := createConnection()
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = conn.Close() // nolint:errcheck // safe to ignore in cleanup
	}

	return v1alpha1.NewTurnServiceClient(conn), cleanup, nil
}

func request(m map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	return req, nil
}

func printResponse(resp *structpb.Struct) error {
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to format response: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// printEvents prints the events of a response and reports how many there were
func printEvents(resp *structpb.Struct, key string) int {
	events := resp.GetFields()[key].GetListValue().GetValues()
	for _, v := range events {
		f := v.GetStructValue().GetFields()
		if id := f["entity_id"].GetStringValue(); id != "" {
			fmt.Printf("  [turn %d] %s: %s\n", int(f["turn"].GetNumberValue()), id, f["message"].GetStringValue())
			continue
		}
		fmt.Printf("  [turn %d] %s\n", int(f["turn"].GetNumberValue()), f["message"].GetStringValue())
	}
	return len(events)
}

// printSession prints the summary line of a session document
func printSession(resp *structpb.Struct) {
	s := resp.GetFields()["session"].GetStructValue().GetFields()
	fmt.Printf("Session %s: turn %d, %s (%s)",
		s["id"].GetStringValue(),
		int(s["turn"].GetNumberValue()),
		s["phase"].GetStringValue(),
		s["status"].GetStringValue())
	if w := s["winner"].GetStringValue(); w != "" {
		fmt.Printf(", winner %s", w)
	}
	fmt.Println()
}

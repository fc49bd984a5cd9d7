package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events <room-id> <player-id>",
		Short: "Stream realtime events from a room",
		Long: `Connect to the room's websocket channel and stream events in real-time.

Events include:
  - playerJoined: A player took a seat
  - playerLeft: A player left or disconnected
  - state: Board state after a move (or on connect)
  - turn: Turn passed to the other player
  - win: Game won
  - draw: Board filled with no winner
  - reset: Board cleared

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(args[0], args[1], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// ChannelEvent is one message received over the channel
type ChannelEvent struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func streamEvents(roomID, playerID string, jsonOutput bool) error {
	conn, err := dialChannel(roomID, playerID)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Printf("Connected to room %s\n", roomID)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		printChannelEvent(data, jsonOutput)
	}
}

func dialChannel(roomID, playerID string) (*websocket.Conn, error) {
	url, err := client.ChannelURL(roomID, playerID)
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("connection refused (HTTP %d)", resp.StatusCode)
		}
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	return conn, nil
}

func printChannelEvent(data []byte, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(string(data))
		return
	}

	var evt ChannelEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		fmt.Println(string(data))
		return
	}

	timestamp := evt.Timestamp.Format("2006-01-02 15:04:05")
	displayData := strings.ReplaceAll(string(evt.Payload), "\n", " ")
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	fmt.Printf("[%s] %s: %s\n", timestamp, evt.Type, displayData)
}

package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <room-id> <player-id>",
		Short: "Play interactively over the websocket channel",
		Long: `Connect to the room's websocket channel and play from the terminal.

Commands:
  0-6    Drop a disc in that column
  r      Reset the game
  q      Quit`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return playInteractive(args[0], args[1])
		},
	}
}

func playInteractive(roomID, playerID string) error {
	conn, err := dialChannel(roomID, playerID)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	fmt.Printf("Connected to room %s. Enter a column (0-6), r to reset, q to quit.\n", roomID)

	// Render incoming events until the connection drops
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			renderPlayEvent(data, playerID)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-done:
			fmt.Println("Connection closed")
			return nil
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "q":
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return nil
		case line == "r":
			if err := writeJSON(conn, map[string]any{"type": "reset"}); err != nil {
				return err
			}
		default:
			col, err := strconv.Atoi(line)
			if err != nil {
				fmt.Println("Enter a column (0-6), r to reset, q to quit")
				continue
			}
			if err := writeJSON(conn, map[string]any{"type": "move", "column": col}); err != nil {
				return err
			}
		}
	}

	return scanner.Err()
}

func writeJSON(conn *websocket.Conn, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func renderPlayEvent(data []byte, playerID string) {
	var evt ChannelEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		fmt.Println(string(data))
		return
	}

	switch evt.Type {
	case "state":
		var p struct {
			Board     [][]int `json:"board"`
			Turn      string  `json:"turn"`
			MoveCount int     `json:"moveCount"`
		}
		if err := json.Unmarshal(evt.Payload, &p); err != nil {
			return
		}
		printBoard(p.Board)
		if p.Turn == playerID {
			fmt.Println("Your turn")
		}
	case "turn":
		var p struct {
			Turn string `json:"turn"`
		}
		if err := json.Unmarshal(evt.Payload, &p); err == nil && p.Turn != playerID {
			fmt.Println("Waiting for opponent...")
		}
	case "win":
		var p struct {
			Winner string `json:"winner"`
		}
		if err := json.Unmarshal(evt.Payload, &p); err == nil {
			if p.Winner == playerID {
				fmt.Println("You win!")
			} else {
				fmt.Println("You lose.")
			}
		}
	case "draw":
		fmt.Println("Draw.")
	case "reset":
		fmt.Println("Game reset.")
	case "playerJoined":
		var p struct {
			Username string `json:"username"`
		}
		if err := json.Unmarshal(evt.Payload, &p); err == nil {
			fmt.Printf("%s joined\n", p.Username)
		}
	case "playerLeft":
		fmt.Println("Opponent left")
	case "error":
		var p struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(evt.Payload, &p); err == nil {
			fmt.Printf("Rejected: %s\n", p.Message)
		}
	}
}

func printBoard(cells [][]int) {
	fmt.Println("  0 1 2 3 4 5 6")
	for _, row := range cells {
		fmt.Print(" ")
		for _, cell := range row {
			switch cell {
			case 1:
				fmt.Print(" R")
			case 2:
				fmt.Print(" Y")
			default:
				fmt.Print(" .")
			}
		}
		fmt.Println()
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomJoinComputerCmd())
	cmd.AddCommand(newRoomLeaveCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var name, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new empty room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}
			if password != "" {
				req["password"] = password
			}

			var result Room

			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Room name (required)")
	cmd.Flags().StringVar(&password, "password", "", "Room password (empty leaves the room open)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <room-id>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID := args[0]

			var result RoomInfo

			if err := client.Get(fmt.Sprintf("/api/v1/rooms/%s", roomID), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var password, username string

	cmd := &cobra.Command{
		Use:   "join <room-id>",
		Short: "Join a room's free seat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID := args[0]

			req := map[string]string{"username": username}
			if password != "" {
				req["password"] = password
			}

			var result JoinedRoom

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join", roomID), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Room password")
	cmd.Flags().StringVar(&username, "username", "", "Your username in the room (required)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newRoomJoinComputerCmd() *cobra.Command {
	var password, username string

	cmd := &cobra.Command{
		Use:   "join-computer <room-id>",
		Short: "Join a room against a computer opponent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID := args[0]

			req := map[string]string{"username": username}
			if password != "" {
				req["password"] = password
			}

			var result JoinedRoom

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/join-computer", roomID), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Room password")
	cmd.Flags().StringVar(&username, "username", "", "Your username in the room (required)")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newRoomLeaveCmd() *cobra.Command {
	var playerID string

	cmd := &cobra.Command{
		Use:   "leave <room-id>",
		Short: "Leave a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			roomID := args[0]

			req := map[string]string{"player_id": playerID}

			if err := client.Post(fmt.Sprintf("/api/v1/rooms/%s/leave", roomID), req, nil); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Left room %s", roomID))
			return nil
		},
	}

	cmd.Flags().StringVar(&playerID, "player", "", "Your player ID (required)")
	_ = cmd.MarkFlagRequired("player")

	return cmd
}

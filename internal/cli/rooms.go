package cli

import (
	"net/url"

	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomsListCmd())
	cmd.AddCommand(newRoomsCreateCmd())
	cmd.AddCommand(newRoomsGetCmd())

	return cmd
}

func newRoomsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rooms and their head counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []RoomSummary

			if err := client.Get(cmd.Context(), "/rooms", &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newRoomsCreateCmd() *cobra.Command {
	var name, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}
			if password != "" {
				req["password"] = password
			}

			var result RoomCreated

			if err := client.Post(cmd.Context(), "/rooms", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Room name")
	cmd.Flags().StringVar(&password, "password", "", "Room password (optional)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoomsGetCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "get <room-id>",
		Short: "Show a room and its players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/rooms/" + url.PathEscape(args[0])
			if password != "" {
				path += "?" + url.Values{"password": {password}}.Encode()
			}

			var result RoomDetail

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Room password")

	return cmd
}

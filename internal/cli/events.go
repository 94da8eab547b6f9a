package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "events <room-id>",
		Short: "Stream a room's events as a spectator",
		Long: `Connect to the room's spectator stream and print events as they happen.

Events include:
  - players_update: Player list or positions changed
  - player_shot: A player took a shot
  - hole_completed: A player sank the ball
  - chat_message: Player or system chat

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, args[0], password, NewOutput(cfg.Output, cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Room password")

	return cmd
}

func streamEvents(ctx context.Context, roomID, password string, out *Output) error {
	// SSE is on the web router, not the API router
	u := strings.TrimSuffix(cfg.ServerURL, "/") + "/rooms/" + url.PathEscape(roomID) + "/events"
	if password != "" {
		u += "?" + url.Values{"password": {password}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// No timeout for SSE
	httpClient := &http.Client{}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return fmt.Errorf("room %s not found", roomID)
	case http.StatusForbidden:
		return fmt.Errorf("wrong password for room %s", roomID)
	default:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			if currentEvent != "" {
				out.PrintEvent(currentEvent, strings.Join(dataLines, "\n"))
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if cfg.Verbose {
		out.PrintMessage("Disconnected")
	}
	return nil
}

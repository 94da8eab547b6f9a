package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

const playHelp = `Commands:
  /shot <x> <y> [power]     shoot from the current ball position to (x, y)
  /create <name> [password] create a room
  /join <room-id> [password] move to another room
  /quit                      leave the course
Anything else is sent as chat.`

// envelope is the realtime frame shape
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type playOptions struct {
	Name     string
	Room     string
	Password string
	Linger   time.Duration
}

func newPlayCmd() *cobra.Command {
	var opts playOptions

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Join the course as a player",
		Long: `Open a realtime connection, join the course and read commands from stdin.

` + playHelp,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPlay(ctx, cfg.ServerURL, opts, cmd.InOrStdin(), NewOutput(cfg.Output, cmd.OutOrStdout()))
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Player name (server picks one if empty)")
	cmd.Flags().StringVar(&opts.Room, "room", "", "Room to join after connecting")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Password of --room")
	cmd.Flags().DurationVar(&opts.Linger, "linger", 0, "Keep printing events this long after stdin ends")

	return cmd
}

// socketURL turns the server's http(s) URL into its realtime endpoint
func socketURL(serverURL string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(serverURL, "/"))
	if err != nil {
		return "", fmt.Errorf("parse server url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}
	u.Path += "/socket"
	return u.String(), nil
}

// playSession tracks what the player needs to aim the next shot
type playSession struct {
	conn *websocket.Conn
	name string

	mu  sync.Mutex
	pos *Position
}

func runPlay(ctx context.Context, serverURL string, opts playOptions, in io.Reader, out *Output) error {
	wsURL, err := socketURL(serverURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() { _ = conn.Close() }()

	s := &playSession{conn: conn, name: opts.Name}

	readDone := make(chan error, 1)
	go func() { readDone <- s.readLoop(out) }()

	if err := s.send("player_join", map[string]string{"name": opts.Name}); err != nil {
		return err
	}
	if opts.Room != "" {
		if err := s.send("join_room", map[string]string{"roomId": opts.Room, "password": opts.Password}); err != nil {
			return err
		}
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return s.close()
		case err := <-readDone:
			return err
		case line, ok := <-lines:
			if !ok {
				return s.linger(ctx, opts.Linger, readDone)
			}
			quit, err := s.handleLine(line, out)
			if err != nil {
				return err
			}
			if quit {
				return s.close()
			}
		}
	}
}

func (s *playSession) handleLine(line string, out *Output) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, "/") {
		return false, s.send("chat_message", map[string]string{"message": line})
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit":
		return true, nil
	case "/shot":
		return false, s.shoot(fields[1:], out)
	case "/create":
		if len(fields) < 2 {
			out.PrintMessage("usage: /create <name> [password]")
			return false, nil
		}
		return false, s.send("create_room", map[string]string{"name": fields[1], "password": optional(fields, 2)})
	case "/join":
		if len(fields) < 2 {
			out.PrintMessage("usage: /join <room-id> [password]")
			return false, nil
		}
		return false, s.send("join_room", map[string]string{"roomId": fields[1], "password": optional(fields, 2)})
	default:
		out.PrintMessage(playHelp)
		return false, nil
	}
}

func (s *playSession) shoot(args []string, out *Output) error {
	if len(args) < 2 {
		out.PrintMessage("usage: /shot <x> <y> [power]")
		return nil
	}
	x, errX := strconv.ParseFloat(args[0], 64)
	y, errY := strconv.ParseFloat(args[1], 64)
	if errX != nil || errY != nil {
		out.PrintMessage("coordinates must be numbers")
		return nil
	}
	power := 0.5
	if len(args) > 2 {
		if p, err := strconv.ParseFloat(args[2], 64); err == nil {
			power = p
		}
	}

	end := Position{X: x, Y: y}
	s.mu.Lock()
	start := s.pos
	s.pos = &end
	s.mu.Unlock()
	if start == nil {
		start = &Position{}
	}

	return s.send("player_shot", map[string]any{
		"startPos": start,
		"endPos":   end,
		"power":    power,
	})
}

func (s *playSession) send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	if err := s.conn.WriteJSON(envelope{Event: event, Data: data}); err != nil {
		return fmt.Errorf("send %s: %w", event, err)
	}
	return nil
}

// readLoop prints every frame until the connection closes
func (s *playSession) readLoop(out *Output) error {
	for {
		var env envelope
		if err := s.conn.ReadJSON(&env); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) ||
				errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if env.Event == "players_update" {
			s.trackPosition(env.Data)
		}
		out.PrintEvent(env.Event, string(env.Data))
	}
}

// trackPosition picks up the ball position the server assigned on join
func (s *playSession) trackPosition(data json.RawMessage) {
	var players []PlayerState
	if err := json.Unmarshal(data, &players); err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pos != nil || s.name == "" {
		return
	}
	for _, p := range players {
		if p.Name == s.name {
			pos := p.BallPosition
			s.pos = &pos
			return
		}
	}
}

func (s *playSession) linger(ctx context.Context, d time.Duration, readDone <-chan error) error {
	if d > 0 {
		select {
		case <-ctx.Done():
		case err := <-readDone:
			return err
		case <-time.After(d):
		}
	}
	return s.close()
}

func (s *playSession) close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return nil
}

func optional(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

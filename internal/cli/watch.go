package cli

import (
	"bufio"
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

func newWatchCmd() *cobra.Command {
	var username string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Join the relay and stream chat events",
		Long: `Connect to the relay's websocket endpoint and stream events in real-time.

With --username the session joins the chat and lines typed on stdin are
sent as chat messages. Without it the connection stays unjoined and only
the events addressed to it are shown.

Press Ctrl+C to leave and disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(username, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username to join the chat with")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// wireEvent mirrors the server's websocket event format
type wireEvent struct {
	Type      string   `json:"type"`
	Username  string   `json:"username,omitempty"`
	Users     []string `json:"users,omitempty"`
	Text      string   `json:"text,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
	Error     string   `json:"error,omitempty"`
}

func watch(username string, jsonOutput bool) error {
	url := client.WebsocketURL()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if !jsonOutput {
		fmt.Printf("Connected to %s\n", url)
	}

	if username != "" {
		join := wireEvent{Type: "join", Username: username}
		if err := conn.WriteJSON(join); err != nil {
			return fmt.Errorf("join failed: %w", err)
		}
	}

	// Leave cleanly on interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		_ = conn.WriteJSON(wireEvent{Type: "leave"})
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
	}()

	// Forward stdin lines as chat messages when joined
	if username != "" {
		go func() {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				text := scanner.Text()
				if strings.TrimSpace(text) == "" {
					continue
				}
				_ = conn.WriteJSON(wireEvent{Type: "message", Text: text})
			}
		}()
	}

	for {
		var event wireEvent
		if err := conn.ReadJSON(&event); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if !jsonOutput {
					fmt.Println("Disconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}
		printWireEvent(event, jsonOutput)
	}
}

func printWireEvent(event wireEvent, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.Marshal(event)
		fmt.Println(string(data))
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	switch event.Type {
	case "join-succeeded":
		fmt.Printf("[%s] joined as %s (online: %s)\n", timestamp, event.Username, strings.Join(event.Users, ", "))
	case "join-failed":
		fmt.Printf("[%s] join failed: %s\n", timestamp, event.Error)
	case "user-joined":
		fmt.Printf("[%s] %s joined (online: %d)\n", timestamp, event.Username, len(event.Users))
	case "user-left":
		fmt.Printf("[%s] %s left (online: %d)\n", timestamp, event.Username, len(event.Users))
	case "message":
		fmt.Printf("[%s] <%s> %s\n", timestamp, event.Username, event.Text)
	default:
		fmt.Printf("[%s] %s\n", timestamp, event.Type)
	}
}

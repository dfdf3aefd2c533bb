package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmelnik/chatty/internal/config"
	"github.com/dmelnik/chatty/internal/profile"
	"github.com/dmelnik/chatty/internal/remote"
)

var (
	serverFlag string
	jsonFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "chattyctl",
	Short: "Headless CLI for the chat service",
	Long:  "Manage chats and messages on the chat service without the TUI.\nUseful for scripting and for inspecting server state.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "chat service base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newClient builds a REST client from the flag/config/default chain.
func newClient() *remote.Client {
	return remote.NewClient(config.Resolve(serverFlag, profile.ConfigPath()))
}

// cmdContext bounds every command round-trip.
func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

func fullName(c remote.Chat) string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}

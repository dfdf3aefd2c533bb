package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	autoCmd.AddCommand(autoOnCmd, autoOffCmd)
	rootCmd.AddCommand(autoCmd)
}

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Control the server-global random message generator",
}

var autoOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable random messages",
	RunE:  func(cmd *cobra.Command, args []string) error { return toggleAuto(true) },
}

var autoOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable random messages",
	RunE:  func(cmd *cobra.Command, args []string) error { return toggleAuto(false) },
}

func toggleAuto(enabled bool) error {
	ctx, cancel := cmdContext()
	defer cancel()

	msg, err := newClient().ToggleAutoMessages(ctx, enabled)
	if err != nil {
		return err
	}
	if jsonFlag {
		return outputJSON(map[string]any{"enabled": enabled, "message": msg})
	}
	if msg == "" {
		msg = fmt.Sprintf("Auto messages enabled=%v", enabled)
	}
	fmt.Println(msg)
	return nil
}

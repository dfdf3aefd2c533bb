package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	chatsCmd.AddCommand(chatsListCmd, chatsAddCmd, chatsEditCmd, chatsRmCmd)
	rootCmd.AddCommand(chatsCmd)
}

var chatsCmd = &cobra.Command{
	Use:   "chats",
	Short: "Manage chats",
}

var chatsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all chats",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		chats, err := newClient().ListChats(ctx)
		if err != nil {
			return err
		}
		if jsonFlag {
			return outputJSON(chats)
		}
		if len(chats) == 0 {
			fmt.Println("No chats available")
			return nil
		}
		for _, c := range chats {
			preview := ""
			if c.LastMessage != nil {
				preview = fmt.Sprintf("  %q (%s)", c.LastMessage.Text, formatTime(c.LastMessage.CreatedAt))
			}
			fmt.Printf("%-26s %s%s\n", c.ID, fullName(c), preview)
		}
		return nil
	},
}

var chatsAddCmd = &cobra.Command{
	Use:   "add <first-name> <last-name>",
	Short: "Create a chat",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		chat, err := newClient().CreateChat(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if jsonFlag {
			return outputJSON(chat)
		}
		fmt.Printf("Created chat %s (%s)\n", chat.ID, fullName(*chat))
		return nil
	},
}

var chatsEditCmd = &cobra.Command{
	Use:   "edit <chat-id> <first-name> <last-name>",
	Short: "Rename a chat",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		chat, err := newClient().UpdateChat(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		if jsonFlag {
			return outputJSON(chat)
		}
		fmt.Printf("Updated chat %s (%s)\n", chat.ID, fullName(*chat))
		return nil
	},
}

var chatsRmCmd = &cobra.Command{
	Use:   "rm <chat-id>",
	Short: "Delete a chat and its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		if err := newClient().DeleteChat(ctx, args[0]); err != nil {
			return err
		}
		if jsonFlag {
			return outputJSON(map[string]string{"deleted": args[0]})
		}
		fmt.Printf("Deleted chat %s\n", args[0])
		return nil
	},
}

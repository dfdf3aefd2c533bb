package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	messagesCmd.AddCommand(messagesListCmd, messagesSendCmd)
	rootCmd.AddCommand(messagesCmd)
}

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Read and send messages",
}

var messagesListCmd = &cobra.Command{
	Use:   "list <chat-id>",
	Short: "List a chat's messages, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		msgs, err := newClient().ListMessages(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonFlag {
			return outputJSON(msgs)
		}
		if len(msgs) == 0 {
			fmt.Println("No messages")
			return nil
		}
		for _, m := range msgs {
			sender := "you"
			if m.IsAutoResponse {
				sender = "auto"
			}
			fmt.Printf("%s [%s] %s\n", formatTime(m.CreatedAt), sender, m.Text)
		}
		return nil
	},
}

var messagesSendCmd = &cobra.Command{
	Use:   "send <chat-id> <text>",
	Short: "Send a message",
	Long:  "Send a message to a chat. The automated reply arrives later over the push channel and is not printed here.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		msg, err := newClient().SendMessage(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if jsonFlag {
			return outputJSON(msg)
		}
		fmt.Printf("Sent message %s\n", msg.ID)
		return nil
	},
}

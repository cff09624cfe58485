package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"tutorbot/internal/llm"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask support questions from the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, cleanup, err := buildBot()
		if err != nil {
			return err
		}
		defer cleanup()

		var history []llm.Message
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Println("tutorbot chat (type /help for commands, /exit to quit)")
		fmt.Println()

		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			question := strings.TrimSpace(scanner.Text())
			if question == "" {
				continue
			}

			switch question {
			case "/exit", "/quit":
				fmt.Println("Goodbye.")
				return nil
			case "/clear":
				history = nil
				fmt.Println("Conversation cleared.")
				continue
			case "/help":
				fmt.Println("Commands:")
				fmt.Println("  /clear  - clear conversation history")
				fmt.Println("  /exit   - quit chat")
				fmt.Println("  /help   - show this help")
				continue
			}

			history = append(history, llm.Message{Role: llm.RoleUser, Content: question})

			answer, err := b.Answer(cmd.Context(), history)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				history = history[:len(history)-1]
				continue
			}

			fmt.Println()
			fmt.Println(answer)
			fmt.Println()

			history = append(history, llm.Message{Role: llm.RoleAssistant, Content: answer})
			// Keep the last 10 turns.
			if len(history) > 20 {
				history = history[len(history)-20:]
			}
		}

		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

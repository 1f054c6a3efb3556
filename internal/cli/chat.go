package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question loop",
	Long: `Start an interactive session. Each line is answered like 'tenk ask';
blank lines are ignored. Type 'exit', 'quit' or 'q' to leave.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	agent, closeStore, err := buildAgent(GetConfig(), GetRootDir())
	if err != nil {
		return err
	}
	defer closeStore()

	fmt.Println("10-K assistant ready. Ask a question, or type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		switch strings.ToLower(query) {
		case "exit", "quit", "q":
			return nil
		}

		printResponse(agent.AnswerQuery(query))
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askQuery string
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a single question about the filing",
	Long: `Answer one natural-language question, combining retrieval over the
indexed 10-K filing with web search for current market data when the
question calls for it.

Examples:
  tenk ask -q "What are the top risk factors?"
  tenk ask -q "How does gross margin compare to Microsoft's?" --json`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuery, "query", "q", "", "question to answer (required)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(askQuery) == "" {
		return fmt.Errorf("query must not be empty")
	}

	agent, closeStore, err := buildAgent(GetConfig(), GetRootDir())
	if err != nil {
		return err
	}
	defer closeStore()

	resp := agent.AnswerQuery(askQuery)

	if askJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printResponse(resp)
	return nil
}

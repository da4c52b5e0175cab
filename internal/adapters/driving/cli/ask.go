package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askPersona string
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested documents",
	Long: `Embeds the question, retrieves the most relevant passages from the
vector index, and generates an answer in the voice of the selected
persona, grounded in those passages.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askPersona, "persona", "p", "kalam", "persona to answer as")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, err := ensureAnswerService()
	if err != nil {
		return err
	}

	answer, err := svc.Answer(cmd.Context(), askPersona, args[0])
	if err != nil {
		return fmt.Errorf("answering failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, source := range answer.Sources {
			cmd.Printf("  - %s\n", source)
		}
	}
	return nil
}

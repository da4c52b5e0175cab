package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var personasJSON bool

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "List available personas",
	Long: `Lists the personas defined in the personas file. System prompts are
not shown.`,
	RunE: runPersonas,
}

func init() {
	personasCmd.Flags().BoolVar(&personasJSON, "json", false, "output personas as JSON")
	rootCmd.AddCommand(personasCmd)
}

func runPersonas(cmd *cobra.Command, _ []string) error {
	store, err := ensurePersonaStore()
	if err != nil {
		return err
	}

	summaries, err := store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing personas: %w", err)
	}

	if personasJSON {
		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal personas: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	for _, p := range summaries {
		cmd.Printf("%s\t%s\t%s\n", p.ID, p.Name, p.Description)
	}
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sagesearch/internal/connectors/filesystem"
	"github.com/custodia-labs/sagesearch/internal/logger"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Ingest a directory of documents into the vector index",
	Long: `Reads every file in the directory, strips boilerplate, splits the
text into overlapping chunks, embeds each chunk, and upserts the
vectors into the index. Re-running on the same files replaces their
vectors rather than duplicating them.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ingestor, err := ensureIngestService()
	if err != nil {
		return err
	}

	connector, err := filesystem.NewConnector(args[0])
	if err != nil {
		return err
	}

	docs, err := connector.LoadAll()
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	logger.Section("Ingest")
	logger.Info("ingesting %d document(s) from %s", len(docs), args[0])

	stored, err := ingestor.Ingest(cmd.Context(), docs)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	cmd.Printf("Ingested %d document(s), %d vector(s) stored.\n", len(docs), stored)
	return nil
}

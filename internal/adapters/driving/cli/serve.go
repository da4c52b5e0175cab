package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sagesearch/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/sagesearch/internal/connectors/filesystem"
	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/logger"
)

var (
	serveAddr  string
	serveWatch string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Serves the question-answering API over HTTP. With --watch, files
created or modified in the given directory are re-ingested
automatically.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
	serveCmd.Flags().StringVar(&serveWatch, "watch", "", "directory to watch for changed documents")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	svc, err := ensureAnswerService()
	if err != nil {
		return err
	}
	personas, err := ensurePersonaStore()
	if err != nil {
		return err
	}
	ledger, err := ensureDocumentStore()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if serveWatch != "" {
		if err := watchAndIngest(ctx, serveWatch); err != nil {
			return err
		}
	}

	server := httpapi.NewServer(svc, personas, ledger)
	return server.ListenAndServe(ctx, addr)
}

// watchAndIngest re-ingests documents as they change on disk.
func watchAndIngest(ctx context.Context, dir string) error {
	ingestor, err := ensureIngestService()
	if err != nil {
		return err
	}

	connector, err := filesystem.NewConnector(dir)
	if err != nil {
		return err
	}
	watcher, err := filesystem.NewWatcher(connector)
	if err != nil {
		return err
	}

	logger.Info("watching %s for document changes", dir)

	go func() {
		defer watcher.Close()
		for doc := range watcher.Watch(ctx) {
			stored, err := ingestor.Ingest(ctx, []domain.Document{doc})
			if err != nil {
				logger.Warn("re-ingesting %s: %v", doc.Name, err)
				continue
			}
			logger.Info("re-ingested %s (%d vectors)", doc.Name, stored)
		}
	}()

	return nil
}

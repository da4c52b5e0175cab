package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/sagesearch/internal/core/domain"
	"github.com/custodia-labs/sagesearch/internal/core/ports/driving"
)

type fakeAnswerService struct {
	answer      *domain.Answer
	err         error
	lastPersona string
	lastQuery   string
}

func (f *fakeAnswerService) Answer(_ context.Context, personaID, question string) (*domain.Answer, error) {
	f.lastPersona = personaID
	f.lastQuery = question
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

type fakeIngestor struct {
	stored   int
	err      error
	lastDocs []domain.Document
}

func (f *fakeIngestor) Ingest(_ context.Context, docs []domain.Document) (int, error) {
	f.lastDocs = docs
	return f.stored, f.err
}

func (f *fakeIngestor) Status() driving.IngestStatus {
	return driving.IngestStatus{}
}

type fakePersonaStore struct {
	summaries []domain.PersonaSummary
}

func (f *fakePersonaStore) List(_ context.Context) ([]domain.PersonaSummary, error) {
	return f.summaries, nil
}

func (f *fakePersonaStore) Get(_ context.Context, id string) (*domain.Persona, error) {
	return nil, domain.ErrNotFound
}

type fakeDocStore struct {
	docs []domain.IngestedDocument
}

func (f *fakeDocStore) SaveDocument(_ context.Context, _ string, _ []domain.Chunk) error {
	return nil
}

func (f *fakeDocStore) ListDocuments(_ context.Context) ([]domain.IngestedDocument, error) {
	return f.docs, nil
}

func (f *fakeDocStore) GetChunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeDocStore) Close() error { return nil }

// setupTestServices installs fakes for the package-level services and
// returns a cleanup that restores the previous state.
func setupTestServices(t *testing.T) (*fakeAnswerService, *fakeIngestor, *fakePersonaStore, *fakeDocStore) {
	t.Helper()

	prevAnswer := answerService
	prevIngest := ingestService
	prevPersonas := personaStore
	prevDocs := documentStore

	answer := &fakeAnswerService{
		answer: &domain.Answer{
			Text:    "A grounded answer.",
			Sources: []string{"moby.txt"},
		},
	}
	ingest := &fakeIngestor{stored: 3}
	personas := &fakePersonaStore{
		summaries: []domain.PersonaSummary{
			{ID: "kalam", Name: "Dr. Kalam", Description: "A scientist"},
		},
	}
	docs := &fakeDocStore{
		docs: []domain.IngestedDocument{{Name: "moby.txt", ChunkCount: 3}},
	}

	answerService = answer
	ingestService = ingest
	personaStore = personas
	documentStore = docs

	t.Cleanup(func() {
		answerService = prevAnswer
		ingestService = prevIngest
		personaStore = prevPersonas
		documentStore = prevDocs
	})

	return answer, ingest, personas, docs
}

// execute runs the root command with the given args and captures
// output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

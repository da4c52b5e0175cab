package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentsCmd_Use(t *testing.T) {
	assert.Equal(t, "documents", documentsCmd.Use)
}

func TestDocumentsCmd_ListsDocuments(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "documents")
	require.NoError(t, err)
	assert.Contains(t, out, "moby.txt")
	assert.Contains(t, out, "3 chunk(s)")
}

func TestDocumentsCmd_JSONOutput(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "documents", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "moby.txt"`)
}

func TestDocumentsCmd_EmptyLedger(t *testing.T) {
	_, _, _, docs := setupTestServices(t)
	docs.docs = nil
	documentsJSON = false

	out, err := execute(t, "documents")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents ingested yet.")
}

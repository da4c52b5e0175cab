package domain

// ContextItem is one retrieved passage included in an answer.
type ContextItem struct {
	// Text is the retrieved chunk content.
	Text string `json:"text"`

	// Source is the document the chunk came from.
	Source string `json:"source"`
}

// Answer is the result of a grounded question-answering run.
// It is produced per query and never persisted.
type Answer struct {
	// Text is the generated answer.
	Text string `json:"answer"`

	// Context holds the retrieved passages in descending score order.
	Context []ContextItem `json:"context"`

	// Sources lists the distinct source names among the matches,
	// in order of first appearance.
	Sources []string `json:"sources"`
}

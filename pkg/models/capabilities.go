package models

import "context"

// Classifier is the statistical intent classifier capability. Predict may
// block on I/O; it must not hold any lock shared with other sessions.
// Reload atomically swaps the active model artifact.
type Classifier interface {
	Predict(ctx context.Context, normalizedText string) (*Prediction, error)
	Reload(ctx context.Context, artifact string) error
}

// Trainer produces a new classifier artifact from a labeled corpus.
type Trainer interface {
	Train(ctx context.Context, corpus *IntentCorpus) (artifact string, err error)
}

// Book is a catalog entry resolved by name.
type Book struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// BookDetail is the full catalog record for a book.
type BookDetail struct {
	Book
	Author       string `json:"author"`
	Description  string `json:"description"`
	CountInStock int    `json:"count_in_stock"`
}

// Order is a customer order summary.
type Order struct {
	ID     string  `json:"id"`
	Status string  `json:"status"`
	Total  float64 `json:"total"`
}

// BookCatalog is the external product lookup collaborator. "Not found" is
// returned as ErrNotFound, never as a transport error; transport failures
// wrap ErrUnavailable.
type BookCatalog interface {
	FindByName(ctx context.Context, name string) (*Book, error)
	GetDetail(ctx context.Context, id string) (*BookDetail, error)
	GetOrderByID(ctx context.Context, orderID string) (*Order, error)
	GetOrdersByUser(ctx context.Context, userID string) ([]Order, error)
}

// AdminNotifier escalates a conversation to a human operator. Failures are
// tolerated by callers; escalation is best effort.
type AdminNotifier interface {
	RequestSupport(ctx context.Context, userID, message string) error
}

// CorpusStore owns the persisted intent corpus. Reads return a snapshot;
// writes rewrite the corpus wholesale.
type CorpusStore interface {
	// Corpus returns a snapshot of the current corpus.
	Corpus() *IntentCorpus
	// Reload re-reads the corpus from its backing file.
	Reload() error
	// AddPattern appends pattern to the tagged intent, creating a minimal
	// intent if the tag is unknown. Returns false for a dedup no-op.
	AddPattern(tag, pattern string) (bool, error)
	// CountPatterns returns the total pattern count of the persisted corpus.
	CountPatterns() int
}

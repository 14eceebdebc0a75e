package bot

import (
	"sync"
	"time"

	"dario.cat/mergo"

	"github.com/tamnhu11204/project-chatbot/internal"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

var log = internal.GetLogger()

var _ models.ContextStore = &ContextStore{}

// ContextStore is the in-memory session context store. Sessions are
// independent; updates to the same session are serialized by the store
// lock with last-write-wins semantics.
type ContextStore struct {
	mu       sync.RWMutex
	contexts map[string]models.SessionContext
}

func NewContextStore() *ContextStore {
	return &ContextStore{
		contexts: make(map[string]models.SessionContext),
	}
}

// Get returns the latest context for the session, or a zero value if the
// session has no context yet.
func (s *ContextStore) Get(sessionID string) models.SessionContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contexts[sessionID]
}

// Merge shallow-merges the non-zero fields of update into the stored
// context: new slots are added, existing slots are overwritten, unrelated
// slots are preserved.
func (s *ContextStore) Merge(sessionID string, update models.SessionContext) models.SessionContext {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.contexts[sessionID]
	if err := mergo.Merge(&current, update, mergo.WithOverride); err != nil {
		log.Errorf("failed to merge session context for %s: %v", sessionID, err)
		return current
	}
	current.UpdatedAt = time.Now()
	s.contexts[sessionID] = current
	return current
}

// Purge drops contexts that have not been updated since the cutoff and
// returns the number removed. Expiry is policy-driven, not automatic;
// the server wires this to a periodic sweep.
func (s *ContextStore) Purge(olderThan time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for sessionID, context := range s.contexts {
		if context.UpdatedAt.Before(olderThan) {
			delete(s.contexts, sessionID)
			purged++
		}
	}
	return purged
}

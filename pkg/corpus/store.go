// Package corpus owns the intent corpus file: the persisted set of intents
// with their example patterns and response templates. The file is read
// wholesale at startup and rewritten wholesale on every merge.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/jinzhu/copier"

	"github.com/tamnhu11204/project-chatbot/internal"
	"github.com/tamnhu11204/project-chatbot/pkg/models"
)

var log = internal.GetLogger()

// DefaultResponse is attached to intents created from feedback for which no
// curated response exists yet.
const DefaultResponse = "Xin lỗi, mình chưa có phản hồi cụ thể cho yêu cầu này."

var _ models.CorpusStore = &Store{}

// Store is a file-backed models.CorpusStore. All reads are served from an
// in-memory copy guarded by a RWMutex; writes update the copy and rewrite
// the file.
type Store struct {
	path             string
	minPatternLength int

	mu     sync.RWMutex
	corpus models.IntentCorpus
}

// NewStore loads the corpus file at path. A missing or corrupt file is an
// error: the caller decides whether that is fatal (startup) or whether to
// continue with an empty corpus (live operation).
func NewStore(path string, minPatternLength int) (*Store, error) {
	s := &Store{path: path, minPatternLength: minPatternLength}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the corpus file. On failure the in-memory corpus is left
// untouched.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read corpus file %s: %w", s.path, err)
	}

	var corpus models.IntentCorpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		return fmt.Errorf("failed to parse corpus file %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.corpus = corpus
	s.mu.Unlock()

	log.Debugf("corpus loaded: %d intents, %d patterns", len(corpus.Intents), corpus.CountPatterns())
	return nil
}

// Corpus returns a snapshot copy of the current corpus. Mutating the
// snapshot does not affect the store.
func (s *Store) Corpus() *models.IntentCorpus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := &models.IntentCorpus{}
	if err := copier.CopyWithOption(snapshot, &s.corpus, copier.Option{DeepCopy: true}); err != nil {
		log.Errorf("failed to copy corpus snapshot: %v", err)
		return &models.IntentCorpus{}
	}
	return snapshot
}

// CountPatterns returns the total number of patterns across all intents.
func (s *Store) CountPatterns() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corpus.CountPatterns()
}

// AddPattern appends pattern to the tagged intent and rewrites the corpus
// file. Unknown tags create a new minimal intent with a single default
// response. Returns false without error when the pattern is invalid or
// already present (a dedup no-op, not a failure).
func (s *Store) AddPattern(tag, pattern string) (bool, error) {
	pattern = strings.TrimSpace(pattern)
	if !s.isValidPattern(pattern) {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	intent := s.corpus.Get(tag)
	if intent == nil {
		s.corpus.Intents = append(s.corpus.Intents, models.Intent{
			Tag:       tag,
			Patterns:  []string{pattern},
			Responses: []string{DefaultResponse},
		})
		return true, s.flush()
	}

	for _, existing := range intent.Patterns {
		if existing == pattern {
			return false, nil
		}
	}
	intent.Patterns = append(intent.Patterns, pattern)
	return true, s.flush()
}

// flush rewrites the corpus file wholesale. Callers hold the write lock.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(&s.corpus, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal corpus: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write corpus file %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) isValidPattern(pattern string) bool {
	return utf8.RuneCountInString(pattern) >= s.minPatternLength
}

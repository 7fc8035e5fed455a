package questionbank

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sort"
	"sync"

	"github.com/quizhaus/quizhaus/internal/dependencies/random"
	"github.com/quizhaus/quizhaus/internal/model"
	"github.com/quizhaus/quizhaus/internal/storage"
)

// Service provides categorized question sets. Sets are loaded once at
// startup from a JSON file (or from storage on restart) and only read
// afterwards; games receive shuffled copies, never the originals.
type Service struct {
	storage storage.Storage
	random  random.Random
	logger  *slog.Logger

	mu     sync.RWMutex
	sets   map[model.CategoryKey]model.QuestionSet
	loaded bool
}

// New creates a new question bank service
func New(store storage.Storage, rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		random:  rnd,
		logger:  logger.With(slog.String("component", "questionbank")),
		sets:    make(map[model.CategoryKey]model.QuestionSet),
	}
}

// LoadFromFile loads question sets from a JSON file shaped as
// {"category": [{"question", "options", "answer"}, ...], ...}
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var sets map[model.CategoryKey]model.QuestionSet
	if err := json.Unmarshal(data, &sets); err != nil {
		return err
	}
	if len(sets) == 0 {
		return model.ErrQuestionsMissing
	}

	return s.LoadSets(ctx, sets)
}

// LoadFromStorage loads question sets previously saved to storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	sets, err := s.storage.GetQuestionSets(ctx)
	if err != nil {
		return err
	}
	return s.loadSets(sets)
}

// LoadSets loads the given sets and saves them to storage
func (s *Service) LoadSets(ctx context.Context, sets map[model.CategoryKey]model.QuestionSet) error {
	if err := s.storage.SaveQuestionSets(ctx, sets); err != nil {
		return err
	}
	return s.loadSets(sets)
}

// LoadFallback loads the built-in question set used when the
// configured questions file is missing or invalid
func (s *Service) LoadFallback(ctx context.Context) error {
	s.logger.Warn("using fallback questions")
	return s.LoadSets(ctx, fallbackSets())
}

func (s *Service) loadSets(sets map[model.CategoryKey]model.QuestionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sets = make(map[model.CategoryKey]model.QuestionSet, len(sets))
	for key, set := range sets {
		copied := make(model.QuestionSet, len(set))
		copy(copied, set)
		s.sets[key] = copied
	}
	s.loaded = true

	s.logger.Info("question sets loaded", slog.Int("categories", len(s.sets)))
	return nil
}

// IsLoaded returns whether question sets have been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Categories returns all category keys, sorted for stable listings
func (s *Service) Categories() []model.CategoryKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]model.CategoryKey, 0, len(s.sets))
	for key := range s.sets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Has reports whether the category exists in the bank
func (s *Service) Has(category model.CategoryKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sets[category]
	return ok
}

// ShuffledQuestions returns a shuffled copy of the category's
// question set
func (s *Service) ShuffledQuestions(category model.CategoryKey) (model.QuestionSet, error) {
	s.mu.RLock()
	set, ok := s.sets[category]
	s.mu.RUnlock()

	if !ok {
		return nil, model.ErrUnknownCategory
	}
	if len(set) == 0 {
		return nil, model.ErrEmptyCategory
	}

	shuffled := make(model.QuestionSet, len(set))
	copy(shuffled, set)
	random.Shuffle(s.random, len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled, nil
}

// fallbackSets mirrors the question set shipped with the legacy
// server for deployments without a questions file
func fallbackSets() map[model.CategoryKey]model.QuestionSet {
	return map[model.CategoryKey]model.QuestionSet{
		"Fallback Fragen": {
			{Question: "Was ist 2 + 2?", Options: []string{"3", "4", "5", "6"}, Answer: "4"},
			{Question: "Was ist die Hauptstadt von Deutschland?", Options: []string{"Berlin", "Madrid", "Paris", "Rom"}, Answer: "Berlin"},
			{Question: "Wie viele Kontinente gibt es?", Options: []string{"5", "6", "7", "8"}, Answer: "7"},
		},
	}
}

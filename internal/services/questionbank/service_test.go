package questionbank

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/quizhaus/quizhaus/internal/dependencies/mocks"
	"github.com/quizhaus/quizhaus/internal/model"
	"github.com/quizhaus/quizhaus/internal/storage/memory"
	"github.com/quizhaus/quizhaus/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) sampleSets() map[model.CategoryKey]model.QuestionSet {
	return map[model.CategoryKey]model.QuestionSet{
		"Geographie": {
			{Question: "Hauptstadt von Frankreich?", Options: []string{"Paris", "Lyon", "Nizza", "Lille"}, Answer: "Paris"},
			{Question: "Längster Fluss Europas?", Options: []string{"Donau", "Wolga", "Rhein", "Elbe"}, Answer: "Wolga"},
			{Question: "Hauptstadt von Spanien?", Options: []string{"Barcelona", "Sevilla", "Madrid", "Valencia"}, Answer: "Madrid"},
		},
		"Musik": {
			{Question: "Wie viele Saiten hat eine Violine?", Options: []string{"3", "4", "5", "6"}, Answer: "4"},
		},
		"Leer": {},
	}
}

func (s *ServiceSuite) TestLoadFromFile() {
	path := filepath.Join(s.T().TempDir(), "questions.json")
	content := `{"Mathe": [{"question": "Was ist 3 * 3?", "options": ["6", "9", "12", "3"], "answer": "9"}]}`
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))

	s.Require().NoError(s.service.LoadFromFile(s.ctx, path))

	s.True(s.service.IsLoaded())
	s.True(s.service.Has("Mathe"))
}

func (s *ServiceSuite) TestLoadFromFileMissing() {
	err := s.service.LoadFromFile(s.ctx, filepath.Join(s.T().TempDir(), "nope.json"))
	s.Error(err)
	s.False(s.service.IsLoaded())
}

func (s *ServiceSuite) TestLoadFromFileInvalidJSON() {
	path := filepath.Join(s.T().TempDir(), "questions.json")
	s.Require().NoError(os.WriteFile(path, []byte("not json"), 0o644))

	s.Error(s.service.LoadFromFile(s.ctx, path))
}

func (s *ServiceSuite) TestLoadFromFileEmptySet() {
	path := filepath.Join(s.T().TempDir(), "questions.json")
	s.Require().NoError(os.WriteFile(path, []byte("{}"), 0o644))

	s.ErrorIs(s.service.LoadFromFile(s.ctx, path), model.ErrQuestionsMissing)
}

func (s *ServiceSuite) TestLoadSetsPersistsToStorage() {
	s.Require().NoError(s.service.LoadSets(s.ctx, s.sampleSets()))

	stored, err := s.storage.GetQuestionSets(s.ctx)
	s.Require().NoError(err)
	s.Len(stored, 3)
}

func (s *ServiceSuite) TestLoadFromStorageRestoresSets() {
	s.Require().NoError(s.storage.SaveQuestionSets(s.ctx, s.sampleSets()))

	fresh := New(s.storage, s.random, testutil.NopLogger())
	s.Require().NoError(fresh.LoadFromStorage(s.ctx))
	s.True(fresh.Has("Geographie"))
}

func (s *ServiceSuite) TestLoadFromStorageWithoutSavedSets() {
	s.ErrorIs(s.service.LoadFromStorage(s.ctx), model.ErrQuestionsMissing)
}

func (s *ServiceSuite) TestLoadFallbackAlwaysPlayable() {
	s.Require().NoError(s.service.LoadFallback(s.ctx))

	s.True(s.service.IsLoaded())
	categories := s.service.Categories()
	s.Require().NotEmpty(categories)

	questions, err := s.service.ShuffledQuestions(categories[0])
	s.Require().NoError(err)
	s.NotEmpty(questions)
	for _, q := range questions {
		s.True(q.HasOption(q.Answer), "answer %q must be one of the options", q.Answer)
	}
}

func (s *ServiceSuite) TestCategoriesAreSorted() {
	s.Require().NoError(s.service.LoadSets(s.ctx, s.sampleSets()))
	s.Equal([]model.CategoryKey{"Geographie", "Leer", "Musik"}, s.service.Categories())
}

func (s *ServiceSuite) TestShuffledQuestionsUnknownCategory() {
	s.Require().NoError(s.service.LoadSets(s.ctx, s.sampleSets()))
	_, err := s.service.ShuffledQuestions("Nope")
	s.ErrorIs(err, model.ErrUnknownCategory)
}

func (s *ServiceSuite) TestShuffledQuestionsEmptyCategory() {
	s.Require().NoError(s.service.LoadSets(s.ctx, s.sampleSets()))
	_, err := s.service.ShuffledQuestions("Leer")
	s.ErrorIs(err, model.ErrEmptyCategory)
}

func (s *ServiceSuite) TestShuffledQuestionsAppliesRandomOrder() {
	s.Require().NoError(s.service.LoadSets(s.ctx, s.sampleSets()))

	// Fisher-Yates with j=0 at both steps: [a b c] -> [c a b] ... the
	// exact order matters less than it being a permutation driven by
	// the injected randomness
	s.random.QueueIntn(0, 0)
	shuffled, err := s.service.ShuffledQuestions("Geographie")
	s.Require().NoError(err)
	s.Require().Len(shuffled, 3)

	seen := map[string]bool{}
	for _, q := range shuffled {
		seen[q.Question] = true
	}
	s.Len(seen, 3)
}

func (s *ServiceSuite) TestShufflingDoesNotMutateBank() {
	s.Require().NoError(s.service.LoadSets(s.ctx, s.sampleSets()))

	s.random.QueueIntn(0, 0)
	first, err := s.service.ShuffledQuestions("Geographie")
	s.Require().NoError(err)
	first[0].Question = "mutated"

	// Identity shuffle on the second read
	s.random.QueueIntn(2, 1)
	second, err := s.service.ShuffledQuestions("Geographie")
	s.Require().NoError(err)
	s.Equal("Hauptstadt von Frankreich?", second[0].Question)
}

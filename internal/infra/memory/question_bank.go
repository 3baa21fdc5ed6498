package memory

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"money-drop-service/internal/domain"
)

// QuestionBank is a loader backed by an in-memory list (YAML file, tests, demos).
type QuestionBank struct {
	questions []domain.Question
}

func NewQuestionBank(questions []domain.Question) *QuestionBank {
	return &QuestionBank{questions: questions}
}

type bankFile struct {
	Questions []domain.Question `yaml:"questions"`
}

// LoadQuestionBank reads a YAML file with a top-level `questions` list.
func LoadQuestionBank(path string) (*QuestionBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	var file bankFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	for i, q := range file.Questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question %d: missing id", i)
		}
		if _, ok := q.Options[q.CorrectAnswer]; !ok {
			return nil, fmt.Errorf("question %s: correct answer %q has no option", q.ID, q.CorrectAnswer)
		}
	}
	return NewQuestionBank(file.Questions), nil
}

// Questions returns every question in the bank.
func (b *QuestionBank) Questions() []domain.Question {
	return append([]domain.Question(nil), b.questions...)
}

func (b *QuestionBank) ListCategories(_ context.Context, difficulty int) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, q := range b.questions {
		if q.Difficulty != difficulty {
			continue
		}
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (b *QuestionBank) ListQuestions(_ context.Context, category string, difficulty int) ([]domain.Question, error) {
	var out []domain.Question
	for _, q := range b.questions {
		if q.Difficulty == difficulty && q.Category == category {
			out = append(out, q)
		}
	}
	return out, nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"money-drop-service/internal/domain"
)

// questionRow is the questions table layout, one column per option.
type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID            string  `bun:"id,pk"`
	Text          string  `bun:"question_text,notnull"`
	OptionA       *string `bun:"option_a"`
	OptionB       *string `bun:"option_b"`
	OptionC       *string `bun:"option_c"`
	OptionD       *string `bun:"option_d"`
	CorrectAnswer string  `bun:"correct_answer,notnull"`
	Difficulty    int     `bun:"difficulty,notnull"`
	Category      string  `bun:"category,notnull"`
}

func rowFromDomain(q domain.Question) questionRow {
	opt := func(l domain.Label) *string {
		if text, ok := q.Options[l]; ok {
			return &text
		}
		return nil
	}
	return questionRow{
		ID:            q.ID,
		Text:          q.Text,
		OptionA:       opt(domain.LabelA),
		OptionB:       opt(domain.LabelB),
		OptionC:       opt(domain.LabelC),
		OptionD:       opt(domain.LabelD),
		CorrectAnswer: string(q.CorrectAnswer),
		Difficulty:    q.Difficulty,
		Category:      q.Category,
	}
}

func (r questionRow) toDomain() domain.Question {
	options := make(map[domain.Label]string, 4)
	for label, text := range map[domain.Label]*string{
		domain.LabelA: r.OptionA,
		domain.LabelB: r.OptionB,
		domain.LabelC: r.OptionC,
		domain.LabelD: r.OptionD,
	} {
		if text != nil {
			options[label] = *text
		}
	}
	return domain.Question{
		ID:            r.ID,
		Text:          r.Text,
		Options:       options,
		CorrectAnswer: domain.Label(r.CorrectAnswer),
		Difficulty:    r.Difficulty,
		Category:      r.Category,
	}
}

// QuestionWriter upserts question content; used by the seed command.
type QuestionWriter struct {
	db *bun.DB
}

func NewQuestionWriter(db *bun.DB) *QuestionWriter {
	return &QuestionWriter{db: db}
}

// Upsert inserts questions, replacing rows that share an id.
func (w *QuestionWriter) Upsert(ctx context.Context, questions []domain.Question) (int, error) {
	if len(questions) == 0 {
		return 0, nil
	}
	rows := make([]questionRow, 0, len(questions))
	for _, q := range questions {
		rows = append(rows, rowFromDomain(q))
	}
	_, err := w.db.NewInsert().
		Model(&rows).
		On("CONFLICT (id) DO UPDATE").
		Set("question_text = EXCLUDED.question_text").
		Set("option_a = EXCLUDED.option_a").
		Set("option_b = EXCLUDED.option_b").
		Set("option_c = EXCLUDED.option_c").
		Set("option_d = EXCLUDED.option_d").
		Set("correct_answer = EXCLUDED.correct_answer").
		Set("difficulty = EXCLUDED.difficulty").
		Set("category = EXCLUDED.category").
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("upsert questions: %w", err)
	}
	return len(rows), nil
}

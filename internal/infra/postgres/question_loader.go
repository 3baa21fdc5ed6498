package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"money-drop-service/internal/domain"
)

// QuestionLoader reads the questions table.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) ListCategories(ctx context.Context, difficulty int) ([]string, error) {
	rows, err := l.pool.Query(ctx, `SELECT DISTINCT category FROM questions WHERE difficulty=$1 ORDER BY category`, difficulty)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (l *QuestionLoader) ListQuestions(ctx context.Context, category string, difficulty int) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, question_text, option_a, option_b, option_c, option_d, correct_answer, difficulty, category
		FROM questions
		WHERE category=$1 AND difficulty=$2
		ORDER BY id`, category, difficulty)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var (
			row     questionRow
			correct string
		)
		if err := rows.Scan(&row.ID, &row.Text, &row.OptionA, &row.OptionB, &row.OptionC, &row.OptionD, &correct, &row.Difficulty, &row.Category); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		row.CorrectAnswer = correct
		out = append(out, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return out, nil
}

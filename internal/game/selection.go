package game

import (
	"math/rand"

	"money-drop-service/internal/domain"
)

// OfferedCategories is how many categories the players choose between.
const OfferedCategories = 2

// SampleCategories returns up to n distinct categories drawn without replacement,
// in random order. Duplicates and blanks in available are ignored.
func SampleCategories(rng *rand.Rand, available []string, n int) []string {
	seen := make(map[string]struct{}, len(available))
	distinct := make([]string, 0, len(available))
	for _, c := range available {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		distinct = append(distinct, c)
	}
	rng.Shuffle(len(distinct), func(i, j int) {
		distinct[i], distinct[j] = distinct[j], distinct[i]
	})
	if n < len(distinct) {
		distinct = distinct[:n]
	}
	return distinct
}

// PickQuestion chooses one question for a round at level. Questions whose answer
// is not on the board are never eligible. Retired questions are skipped while any
// other eligible question remains.
func PickQuestion(rng *rand.Rand, candidates []domain.Question, level int, retired func(id string) bool) (domain.Question, error) {
	labels := VisibleLabels(level)
	eligible := make([]domain.Question, 0, len(candidates))
	fresh := make([]domain.Question, 0, len(candidates))
	for _, q := range candidates {
		if q.ID == "" || !containsLabel(labels, q.CorrectAnswer) {
			continue
		}
		eligible = append(eligible, q)
		if retired == nil || !retired(q.ID) {
			fresh = append(fresh, q)
		}
	}
	pool := fresh
	if len(pool) == 0 {
		pool = eligible
	}
	if len(pool) == 0 {
		return domain.Question{}, domain.ErrNoQuestions
	}
	return pool[rng.Intn(len(pool))], nil
}

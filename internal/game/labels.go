package game

import "money-drop-service/internal/domain"

var (
	fullBoard  = []domain.Label{domain.LabelA, domain.LabelB, domain.LabelC, domain.LabelD}
	threeBoard = []domain.Label{domain.LabelA, domain.LabelB, domain.LabelC}
	finalBoard = []domain.Label{domain.LabelA, domain.LabelB}
)

// VisibleLabels returns the options on the board for a level: four for stages 1-4,
// three for 5-7 and two from stage 8 on. The result is a fresh slice.
func VisibleLabels(level int) []domain.Label {
	var src []domain.Label
	switch {
	case level <= 4:
		src = fullBoard
	case level <= 7:
		src = threeBoard
	default:
		src = finalBoard
	}
	out := make([]domain.Label, len(src))
	copy(out, src)
	return out
}

func containsLabel(labels []domain.Label, l domain.Label) bool {
	for _, v := range labels {
		if v == l {
			return true
		}
	}
	return false
}

package mathquiz

import "time"

const (
	// ComboWindow is the response time under which a correct answer extends
	// the combo streak.
	ComboWindow = 3 * time.Second

	basePoints   = 10
	wrongPenalty = 5
)

// Tally is the part of session state the scoring engine reads.
type Tally struct {
	Score int
	Combo int
}

// Evaluation is the outcome of scoring one answer. Points may be negative
// but never takes the score below zero.
type Evaluation struct {
	Correct bool
	Points  int
	Combo   int
}

// Evaluate scores answer against q. It has no side effects.
func Evaluate(q Question, answer int, elapsed time.Duration, mode Mode, t Tally) Evaluation {
	if answer != q.Answer {
		ev := Evaluation{Correct: false, Combo: 0}
		if mode != ModeSurvival {
			ev.Points = -min(wrongPenalty, max(t.Score, 0))
		}
		return ev
	}

	if elapsed >= ComboWindow {
		return Evaluation{Correct: true, Points: basePoints, Combo: 0}
	}

	combo := t.Combo + 1
	points := basePoints
	if combo >= 2 {
		points = basePoints * combo
	}
	return Evaluation{Correct: true, Points: points, Combo: combo}
}

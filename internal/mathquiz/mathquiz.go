// Package mathquiz defines the arithmetic quiz domain: question generation,
// answer scoring and the per-player game session state machine.
// Persistence and presentation are reached through small interfaces.
package mathquiz

import (
	"fmt"
	"strconv"
)

type Level int

const (
	LevelEasy Level = iota
	LevelMedium
	LevelHard
	LevelExpert
)

var levelNames = [...]string{"easy", "medium", "hard", "expert"}

func (l Level) String() string {
	if l < LevelEasy || l > LevelExpert {
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

func (l Level) Valid() bool { return l >= LevelEasy && l <= LevelExpert }

// Label is the human readable name shown in score tables.
func (l Level) Label() string {
	switch l {
	case LevelEasy:
		return "Easy"
	case LevelMedium:
		return "Medium"
	case LevelHard:
		return "Hard"
	case LevelExpert:
		return "Expert"
	}
	return l.String()
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid level %d", int(l))
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("unknown level %q", s)
}

type Mode int

const (
	ModeTimed Mode = iota
	ModeSurvival
	ModeChallenge
)

var modeNames = [...]string{"timed", "survival", "challenge"}

func (m Mode) String() string {
	if m < ModeTimed || m > ModeChallenge {
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
	return modeNames[m]
}

func (m Mode) Valid() bool { return m >= ModeTimed && m <= ModeChallenge }

func (m Mode) Label() string {
	switch m {
	case ModeTimed:
		return "Timed"
	case ModeSurvival:
		return "Survival"
	case ModeChallenge:
		return "Challenge"
	}
	return m.String()
}

func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
)

func (o Operator) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "−"
	case OpMul:
		return "×"
	case OpDiv:
		return "÷"
	}
	return "?"
}

func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Apply computes a op b. Division truncates toward zero and reports 0 for a
// zero divisor.
func (o Operator) Apply(a, b int) int {
	switch o {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		if b == 0 {
			return 0
		}
		return a / b
	}
	return 0
}

// Question is immutable once generated.
type Question struct {
	Operand1 int      `json:"operand1"`
	Operand2 int      `json:"operand2"`
	Operator Operator `json:"operator"`
	Answer   int      `json:"-"`
}

func (q Question) String() string {
	return fmt.Sprintf("%d %s %d = ?", q.Operand1, q.Operator, q.Operand2)
}

type State int

const (
	StateIdle State = iota
	StateActive
	StatePaused
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// HighScore is one row of the persisted best-score table.
type HighScore struct {
	Score int    `json:"score"`
	Level Level  `json:"level"`
	Mode  Mode   `json:"mode"`
	Date  string `json:"date"`
}

// FinalStats is reported when a session ends.
type FinalStats struct {
	Level    Level `json:"level"`
	Mode     Mode  `json:"mode"`
	Score    int   `json:"score"`
	Correct  int   `json:"correct"`
	Wrong    int   `json:"wrong"`
	MaxCombo int   `json:"maxCombo"`
}

package mathquiz_test

import (
	"slices"
	"testing"

	"github.com/playperu/mathquiz/internal/mathquiz"
)

func TestGenerateInvariants(t *testing.T) {
	levels := []mathquiz.Level{
		mathquiz.LevelEasy,
		mathquiz.LevelMedium,
		mathquiz.LevelHard,
		mathquiz.LevelExpert,
	}

	for _, level := range levels {
		t.Run(level.String(), func(t *testing.T) {
			g := mathquiz.NewSeededGenerator(42, uint64(level))
			r := level.Range()
			ops := level.Operators()

			for i := 0; i < 5000; i++ {
				q := g.Generate(level)

				if !slices.Contains(ops, q.Operator) {
					t.Fatalf("operator %s not allowed at %s", q.Operator, level)
				}

				switch q.Operator {
				case mathquiz.OpDiv:
					if q.Operand2 < 1 || q.Operand2 > r.Max-1 {
						t.Fatalf("divisor %d outside [1,%d]", q.Operand2, r.Max-1)
					}
					if q.Operand1%q.Operand2 != 0 {
						t.Fatalf("%s is not exact", q)
					}
					if q.Operand1 != q.Operand2*q.Answer {
						t.Fatalf("%s: answer %d", q, q.Answer)
					}
					if q.Answer < 1 || q.Answer > r.Max-1 {
						t.Fatalf("quotient %d outside [1,%d]", q.Answer, r.Max-1)
					}
				case mathquiz.OpSub:
					if q.Answer < 0 {
						t.Fatalf("%s: negative answer %d", q, q.Answer)
					}
					if q.Operand2 < 1 || q.Operand2 > q.Operand1 {
						t.Fatalf("%s: subtrahend outside [1,%d]", q, q.Operand1)
					}
					if q.Answer != q.Operand1-q.Operand2 {
						t.Fatalf("%s: answer %d", q, q.Answer)
					}
				default:
					if q.Operand1 < r.Min || q.Operand1 > r.Max || q.Operand2 < r.Min || q.Operand2 > r.Max {
						t.Fatalf("%s: operands outside [%d,%d]", q, r.Min, r.Max)
					}
					if got := q.Operator.Apply(q.Operand1, q.Operand2); got != q.Answer {
						t.Fatalf("%s: answer %d, recomputed %d", q, q.Answer, got)
					}
				}
			}
		})
	}
}

func TestGenerateCoversOperators(t *testing.T) {
	g := mathquiz.NewSeededGenerator(7, 7)
	seen := map[mathquiz.Operator]bool{}
	for i := 0; i < 500; i++ {
		seen[g.Generate(mathquiz.LevelExpert).Operator] = true
	}
	for _, op := range mathquiz.LevelExpert.Operators() {
		if !seen[op] {
			t.Errorf("operator %s never generated", op)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := mathquiz.NewSeededGenerator(1, 2)
	b := mathquiz.NewSeededGenerator(1, 2)
	for i := 0; i < 50; i++ {
		if qa, qb := a.Generate(mathquiz.LevelHard), b.Generate(mathquiz.LevelHard); qa != qb {
			t.Fatalf("round %d: %v != %v", i, qa, qb)
		}
	}
}

func TestQuestionString(t *testing.T) {
	q := mathquiz.Question{Operand1: 12, Operand2: 4, Operator: mathquiz.OpDiv, Answer: 3}
	if got, want := q.String(), "12 ÷ 4 = ?"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseLevelAndMode(t *testing.T) {
	tests := []struct {
		in      string
		level   mathquiz.Level
		wantErr bool
	}{
		{in: "easy", level: mathquiz.LevelEasy},
		{in: "medium", level: mathquiz.LevelMedium},
		{in: "hard", level: mathquiz.LevelHard},
		{in: "expert", level: mathquiz.LevelExpert},
		{in: "mudah", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := mathquiz.ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.level {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.level)
		}
	}

	m, err := mathquiz.ParseMode("survival")
	if err != nil || m != mathquiz.ModeSurvival {
		t.Errorf("ParseMode(survival) = %v, %v", m, err)
	}
	if _, err := mathquiz.ParseMode("time"); err == nil {
		t.Error("ParseMode(time): expected error")
	}
}

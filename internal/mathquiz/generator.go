package mathquiz

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
)

// Range is an inclusive operand range.
type Range struct {
	Min, Max int
}

var levelOperators = map[Level][]Operator{
	LevelEasy:   {OpAdd, OpSub},
	LevelMedium: {OpMul, OpDiv},
	LevelHard:   {OpAdd, OpSub, OpMul, OpDiv},
	LevelExpert: {OpAdd, OpSub, OpMul, OpDiv},
}

var levelRanges = map[Level]Range{
	LevelEasy:   {Min: 1, Max: 20},
	LevelMedium: {Min: 1, Max: 10},
	LevelHard:   {Min: 1, Max: 50},
	LevelExpert: {Min: 1, Max: 100},
}

// Operators returns the operator set allowed at l. Unknown levels fall back
// to Easy.
func (l Level) Operators() []Operator {
	if ops, ok := levelOperators[l]; ok {
		return ops
	}
	return levelOperators[LevelEasy]
}

// Range returns the operand range for l. Unknown levels fall back to Easy.
func (l Level) Range() Range {
	if r, ok := levelRanges[l]; ok {
		return r
	}
	return levelRanges[LevelEasy]
}

// Generator produces questions. It is not safe for concurrent use; each
// session owns its own generator.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator seeded from crypto/rand.
func NewGenerator() *Generator {
	var b [16]byte
	_, _ = crand.Read(b[:])
	src := rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))
	return &Generator{rng: rand.New(src)}
}

// NewSeededGenerator returns a deterministic generator.
func NewSeededGenerator(seed1, seed2 uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (g *Generator) between(lo, hi int) int {
	if hi < lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

// Generate returns a fresh question for level.
//
// Division questions draw the quotient and divisor from [1, max-1] so the
// dividend is always an exact multiple; it may exceed the level's range.
// Subtraction redraws the subtrahend from [1, operand1] so the result is
// never negative. When operand1 is below 1 the subtrahend is clamped to
// [0, operand1].
func (g *Generator) Generate(level Level) Question {
	ops := level.Operators()
	r := level.Range()
	op := ops[g.rng.IntN(len(ops))]

	var q Question
	q.Operator = op

	switch op {
	case OpDiv:
		q.Operand2 = g.between(1, r.Max-1)
		q.Answer = g.between(1, r.Max-1)
		q.Operand1 = q.Operand2 * q.Answer
	case OpSub:
		q.Operand1 = g.between(r.Min, r.Max)
		if q.Operand1 >= 1 {
			q.Operand2 = g.between(1, q.Operand1)
		} else {
			q.Operand2 = g.between(0, max(q.Operand1, 0))
		}
		q.Answer = q.Operand1 - q.Operand2
	default:
		q.Operand1 = g.between(r.Min, r.Max)
		q.Operand2 = g.between(r.Min, r.Max)
		q.Answer = op.Apply(q.Operand1, q.Operand2)
	}
	return q
}

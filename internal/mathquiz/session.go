package mathquiz

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Rules holds the per-mode constants of a session.
type Rules struct {
	TimedSeconds       int
	SurvivalLives      int
	ChallengeQuestions int
	// AdvanceDelay is how long feedback stays on screen before the next
	// question is generated.
	AdvanceDelay time.Duration
	TickInterval time.Duration
}

func DefaultRules() Rules {
	return Rules{
		TimedSeconds:       60,
		SurvivalLives:      3,
		ChallengeQuestions: 40,
		AdvanceDelay:       time.Second,
		TickInterval:       time.Second,
	}
}

func (r Rules) withDefaults() Rules {
	d := DefaultRules()
	if r.TimedSeconds <= 0 {
		r.TimedSeconds = d.TimedSeconds
	}
	if r.SurvivalLives <= 0 {
		r.SurvivalLives = d.SurvivalLives
	}
	if r.ChallengeQuestions <= 0 {
		r.ChallengeQuestions = d.ChallengeQuestions
	}
	if r.AdvanceDelay <= 0 {
		r.AdvanceDelay = d.AdvanceDelay
	}
	if r.TickInterval <= 0 {
		r.TickInterval = d.TickInterval
	}
	return r
}

// ScoreBook persists best scores.
type ScoreBook interface {
	RecordIfBest(ctx context.Context, hs HighScore) (bool, error)
}

type Options struct {
	Rules     Rules
	Clock     Clock
	Generator *Generator
	Presenter Presenter
	// Scores may be nil, in which case nothing is recorded.
	Scores ScoreBook
	Logger *slog.Logger
}

// Outcome describes what happened to a submitted answer. Kind is
// FeedbackNone when the submission was ignored.
type Outcome struct {
	Kind     FeedbackKind `json:"kind"`
	Message  string       `json:"message,omitempty"`
	Points   int          `json:"points"`
	Expected int          `json:"expected"`
	Ended    bool         `json:"ended"`
}

// Snapshot is a read-only copy of session state.
type Snapshot struct {
	State            State       `json:"state"`
	Level            Level       `json:"level"`
	Mode             Mode        `json:"mode"`
	Score            int         `json:"score"`
	Lives            int         `json:"lives"`
	QuestionNumber   int         `json:"questionNumber"`
	TotalQuestions   int         `json:"totalQuestions"`
	SecondsRemaining int         `json:"secondsRemaining"`
	TimeFraction     float64     `json:"timeFraction"`
	Correct          int         `json:"correct"`
	Wrong            int         `json:"wrong"`
	Combo            int         `json:"combo"`
	MaxCombo         int         `json:"maxCombo"`
	Question         *Question   `json:"question"`
	QuestionText     string      `json:"questionText,omitempty"`
	Final            *FinalStats `json:"final,omitempty"`
	NewHighScore     bool        `json:"newHighScore"`
}

// Session is one player's game. All methods are safe for concurrent use;
// timer callbacks and callers are serialised by a single mutex.
type Session struct {
	mu sync.Mutex

	rules     Rules
	clock     Clock
	gen       *Generator
	presenter Presenter
	scores    ScoreBook
	logger    *slog.Logger

	// epoch invalidates callbacks scheduled before the last stop.
	epoch uint64
	state State

	level          Level
	mode           Mode
	score          int
	lives          int
	questionNumber int
	totalQuestions int
	secondsLeft    int
	correct        int
	wrong          int
	combo          int
	maxCombo       int

	question     *Question
	shownAt      time.Time
	pausedAt     time.Time
	awaitingNext bool

	ticker  Timer
	advance Timer
	// tickDue is when the pending tick fires; tickLeft is what remained of
	// the current second when the game was paused.
	tickDue  time.Time
	tickLeft time.Duration

	final        *FinalStats
	newHighScore bool
}

func NewSession(opts Options) *Session {
	s := &Session{
		rules:     opts.Rules.withDefaults(),
		clock:     opts.Clock,
		gen:       opts.Generator,
		presenter: opts.Presenter,
		scores:    opts.Scores,
		logger:    opts.Logger,
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.gen == nil {
		s.gen = NewGenerator()
	}
	if s.presenter == nil {
		s.presenter = NopPresenter{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// Start resets all counters and begins a new game. Any game in progress is
// abandoned without recording a score.
func (s *Session) Start(level Level, mode Mode) error {
	if !level.Valid() {
		return fmt.Errorf("starting session: invalid level %d", int(level))
	}
	if !mode.Valid() {
		return fmt.Errorf("starting session: invalid mode %d", int(mode))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked(level, mode)
	return nil
}

func (s *Session) startLocked(level Level, mode Mode) {
	s.stopTasksLocked()

	s.level = level
	s.mode = mode
	s.score = 0
	s.correct = 0
	s.wrong = 0
	s.combo = 0
	s.maxCombo = 0
	s.lives = s.rules.SurvivalLives
	s.questionNumber = 1
	s.totalQuestions = s.rules.ChallengeQuestions
	s.secondsLeft = s.rules.TimedSeconds
	s.question = nil
	s.awaitingNext = false
	s.final = nil
	s.newHighScore = false
	s.state = StateActive

	s.logger.Debug("game started", "level", level, "mode", mode)

	s.presenter.ScoreChanged(0)
	s.presenter.ComboChanged(0)
	switch mode {
	case ModeTimed:
		s.presenter.TimerTick(s.secondsLeft)
	case ModeSurvival:
		s.presenter.LivesChanged(s.lives)
	case ModeChallenge:
		s.presenter.ProgressChanged(s.questionNumber, s.totalQuestions)
	}

	s.nextQuestionLocked()
	if mode == ModeTimed {
		s.scheduleTickLocked()
	}
}

// SubmitAnswer evaluates raw against the question on screen. It is ignored
// unless the session is active and a question is showing; between an answer
// and the next question there is nothing to answer.
func (s *Session) SubmitAnswer(raw string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive || s.question == nil {
		return Outcome{}
	}

	answer, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		const msg = "Please enter a number"
		s.presenter.Feedback(msg, FeedbackInvalid)
		return Outcome{Kind: FeedbackInvalid, Message: msg}
	}

	q := *s.question
	elapsed := s.clock.Now().Sub(s.shownAt)
	ev := Evaluate(q, answer, elapsed, s.mode, Tally{Score: s.score, Combo: s.combo})

	s.score = max(0, s.score+ev.Points)
	s.combo = ev.Combo
	s.maxCombo = max(s.maxCombo, s.combo)

	out := Outcome{Points: ev.Points}
	if ev.Correct {
		s.correct++
		out.Kind = FeedbackCorrect
		out.Message = fmt.Sprintf("Correct! +%d points", ev.Points)
	} else {
		s.wrong++
		out.Kind = FeedbackWrong
		out.Expected = q.Answer
		out.Message = fmt.Sprintf("Wrong! The answer was %d", q.Answer)
		if s.mode == ModeSurvival {
			s.lives = max(0, s.lives-1)
		}
	}
	if s.mode == ModeChallenge {
		s.questionNumber++
	}

	s.presenter.Feedback(out.Message, out.Kind)
	s.presenter.ScoreChanged(s.score)
	s.presenter.ComboChanged(visibleCombo(s.combo))
	switch {
	case s.mode == ModeSurvival && !ev.Correct:
		s.presenter.LivesChanged(s.lives)
	case s.mode == ModeChallenge:
		s.presenter.ProgressChanged(s.questionNumber, s.totalQuestions)
	}

	s.question = nil

	if s.finishedLocked() {
		s.endLocked()
		out.Ended = true
		return out
	}

	s.awaitingNext = true
	s.scheduleAdvanceLocked()
	return out
}

// visibleCombo hides the badge until the streak reaches two.
func visibleCombo(combo int) int {
	if combo < 2 {
		return 0
	}
	return combo
}

func (s *Session) finishedLocked() bool {
	switch s.mode {
	case ModeChallenge:
		return s.questionNumber > s.totalQuestions
	case ModeSurvival:
		return s.lives <= 0
	}
	return false
}

// Pause freezes the countdown and the pending next question. It reports
// whether the session was active.
func (s *Session) Pause() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return false
	}
	s.pausedAt = s.clock.Now()
	if s.ticker != nil {
		s.tickLeft = max(0, s.tickDue.Sub(s.pausedAt))
	}
	s.stopTasksLocked()
	s.state = StatePaused
	s.logger.Debug("game paused", "level", s.level, "mode", s.mode)
	return true
}

// Resume continues a paused session. Time spent paused does not count
// toward the response time of the question on screen.
func (s *Session) Resume() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePaused {
		return false
	}
	s.state = StateActive
	if s.question != nil {
		s.shownAt = s.shownAt.Add(s.clock.Now().Sub(s.pausedAt))
	}
	if s.mode == ModeTimed {
		s.scheduleTickAfterLocked(s.tickLeft)
	}
	if s.awaitingNext {
		s.scheduleAdvanceLocked()
	}
	s.logger.Debug("game resumed", "level", s.level, "mode", s.mode)
	return true
}

// Quit ends the game at the player's request.
func (s *Session) Quit() bool {
	return s.End()
}

// End stops the game, records the score and reports final stats. It is a
// no-op unless the session is active or paused.
func (s *Session) End() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive && s.state != StatePaused {
		return false
	}
	s.endLocked()
	return true
}

// Restart begins a new game with the level and mode of the game that just
// ended.
func (s *Session) Restart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEnded {
		return false
	}
	s.startLocked(s.level, s.mode)
	return true
}

// Reset returns the session to idle, dropping any game in progress without
// recording it.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTasksLocked()
	s.state = StateIdle
	s.question = nil
	s.awaitingNext = false
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State:            s.state,
		Level:            s.level,
		Mode:             s.mode,
		Score:            s.score,
		Lives:            s.lives,
		QuestionNumber:   s.questionNumber,
		TotalQuestions:   s.totalQuestions,
		SecondsRemaining: s.secondsLeft,
		Correct:          s.correct,
		Wrong:            s.wrong,
		Combo:            s.combo,
		MaxCombo:         s.maxCombo,
		NewHighScore:     s.newHighScore,
	}
	if s.rules.TimedSeconds > 0 {
		snap.TimeFraction = float64(s.secondsLeft) / float64(s.rules.TimedSeconds)
	}
	if s.question != nil {
		q := *s.question
		snap.Question = &q
		snap.QuestionText = q.String()
	}
	if s.final != nil {
		f := *s.final
		snap.Final = &f
	}
	return snap
}

func (s *Session) endLocked() {
	s.stopTasksLocked()
	s.state = StateEnded
	s.question = nil
	s.awaitingNext = false

	stats := FinalStats{
		Level:    s.level,
		Mode:     s.mode,
		Score:    s.score,
		Correct:  s.correct,
		Wrong:    s.wrong,
		MaxCombo: s.maxCombo,
	}
	s.final = &stats
	s.newHighScore = s.recordLocked(stats)

	s.logger.Debug("game ended",
		"level", s.level,
		"mode", s.mode,
		"score", s.score,
		"new_high_score", s.newHighScore,
	)
	s.presenter.GameEnded(stats, s.newHighScore)
}

func (s *Session) recordLocked(stats FinalStats) bool {
	if s.scores == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ok, err := s.scores.RecordIfBest(ctx, HighScore{
		Score: stats.Score,
		Level: stats.Level,
		Mode:  stats.Mode,
		Date:  s.clock.Now().Format(time.DateOnly),
	})
	if err != nil {
		s.logger.Error("recording high score", "level", stats.Level, "mode", stats.Mode, "error", err)
		return false
	}
	return ok
}

func (s *Session) nextQuestionLocked() {
	q := s.gen.Generate(s.level)
	s.question = &q
	s.awaitingNext = false
	s.shownAt = s.clock.Now()
	s.presenter.QuestionReady(q)
}

func (s *Session) scheduleTickLocked() {
	s.scheduleTickAfterLocked(s.rules.TickInterval)
}

func (s *Session) scheduleTickAfterLocked(d time.Duration) {
	epoch := s.epoch
	s.tickDue = s.clock.Now().Add(d)
	s.ticker = s.clock.AfterFunc(d, func() { s.tick(epoch) })
}

func (s *Session) tick(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || s.state != StateActive {
		return
	}
	s.secondsLeft = max(0, s.secondsLeft-1)
	s.presenter.TimerTick(s.secondsLeft)
	if s.secondsLeft <= 0 {
		s.endLocked()
		return
	}
	s.scheduleTickLocked()
}

func (s *Session) scheduleAdvanceLocked() {
	epoch := s.epoch
	s.advance = s.clock.AfterFunc(s.rules.AdvanceDelay, func() { s.advanceQuestion(epoch) })
}

func (s *Session) advanceQuestion(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch || s.state != StateActive || !s.awaitingNext {
		return
	}
	s.nextQuestionLocked()
}

// stopTasksLocked cancels scheduled callbacks and bumps the epoch so any
// callback already in flight is discarded.
func (s *Session) stopTasksLocked() {
	s.epoch++
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
}

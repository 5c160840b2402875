package mathquiz

type FeedbackKind int

const (
	FeedbackNone FeedbackKind = iota
	FeedbackCorrect
	FeedbackWrong
	FeedbackInvalid
)

func (k FeedbackKind) String() string {
	switch k {
	case FeedbackCorrect:
		return "correct"
	case FeedbackWrong:
		return "wrong"
	case FeedbackInvalid:
		return "invalid"
	}
	return "none"
}

func (k FeedbackKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Presenter receives session notifications. Methods are called while the
// session lock is held, so implementations must not call back into the
// session synchronously.
type Presenter interface {
	QuestionReady(q Question)
	Feedback(message string, kind FeedbackKind)
	ScoreChanged(score int)
	LivesChanged(lives int)
	ProgressChanged(current, total int)
	// ComboChanged reports the visible combo; 0 hides the badge.
	ComboChanged(combo int)
	TimerTick(secondsRemaining int)
	GameEnded(stats FinalStats, newHighScore bool)
}

// NopPresenter discards every notification. Embed it to implement only
// some methods.
type NopPresenter struct{}

func (NopPresenter) QuestionReady(Question) {}
func (NopPresenter) Feedback(string, FeedbackKind) {}
func (NopPresenter) ScoreChanged(int) {}
func (NopPresenter) LivesChanged(int) {}
func (NopPresenter) ProgressChanged(int, int) {}
func (NopPresenter) ComboChanged(int) {}
func (NopPresenter) TimerTick(int) {}
func (NopPresenter) GameEnded(FinalStats, bool) {}

package server

import (
	"encoding/json"
	"sync"

	"github.com/playperu/mathquiz/internal/mathquiz"
)

const (
	EventQuestion = "question"
	EventFeedback = "feedback"
	EventScore    = "score"
	EventLives    = "lives"
	EventProgress = "progress"
	EventCombo    = "combo"
	EventTimer    = "timer"
	EventEnded    = "ended"
	EventState    = "state"
	EventExpired  = "expired"
)

// GameEvent is the payload published to game subscribers.
type GameEvent struct {
	Type         string               `json:"type"`
	Question     *mathquiz.Question   `json:"question,omitempty"`
	Text         string               `json:"text,omitempty"`
	Kind         string               `json:"kind,omitempty"`
	Value        *int                 `json:"value,omitempty"`
	Total        int                  `json:"total,omitempty"`
	State        string               `json:"state,omitempty"`
	Stats        *mathquiz.FinalStats `json:"stats,omitempty"`
	NewHighScore bool                 `json:"newHighScore,omitempty"`
}

// Broker is an in-process pub/sub for game events, keyed by game ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the given game.
func (b *Broker) Subscribe(gameID string) chan []byte {
	ch := make(chan []byte, 32)
	b.mu.Lock()
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[chan []byte]struct{})
	}
	b.subs[gameID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the game's subscribers.
func (b *Broker) Unsubscribe(gameID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[gameID], ch)
	if len(b.subs[gameID]) == 0 {
		delete(b.subs, gameID)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given game.
func (b *Broker) Publish(gameID string, event GameEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[gameID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// brokerPresenter forwards session notifications to the broker.
type brokerPresenter struct {
	broker *Broker
	gameID string
}

func intp(v int) *int { return &v }

func (p brokerPresenter) QuestionReady(q mathquiz.Question) {
	p.broker.Publish(p.gameID, GameEvent{Type: EventQuestion, Question: &q, Text: q.String()})
}

func (p brokerPresenter) Feedback(message string, kind mathquiz.FeedbackKind) {
	p.broker.Publish(p.gameID, GameEvent{Type: EventFeedback, Text: message, Kind: kind.String()})
}

func (p brokerPresenter) ScoreChanged(score int) {
	p.broker.Publish(p.gameID, GameEvent{Type: EventScore, Value: intp(score)})
}

func (p brokerPresenter) LivesChanged(lives int) {
	p.broker.Publish(p.gameID, GameEvent{Type: EventLives, Value: intp(lives)})
}

func (p brokerPresenter) ProgressChanged(current, total int) {
	p.broker.Publish(p.gameID, GameEvent{Type: EventProgress, Value: intp(current), Total: total})
}

func (p brokerPresenter) ComboChanged(combo int) {
	p.broker.Publish(p.gameID, GameEvent{Type: EventCombo, Value: intp(combo)})
}

func (p brokerPresenter) TimerTick(secondsRemaining int) {
	p.broker.Publish(p.gameID, GameEvent{Type: EventTimer, Value: intp(secondsRemaining)})
}

func (p brokerPresenter) GameEnded(stats mathquiz.FinalStats, newHighScore bool) {
	p.broker.Publish(p.gameID, GameEvent{Type: EventEnded, Stats: &stats, NewHighScore: newHighScore})
}

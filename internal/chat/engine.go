package chat

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"mini-shop/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State names the engine's position in the scripted reply sequence.
type State string

const (
	StateIdle               State = "idle"
	StateAwaitingAck        State = "awaiting-ack"
	StateAwaitingSuggestion State = "awaiting-suggestion"
)

// ErrBusy is returned when a message arrives while the previous scripted
// sequence is still playing out.
var ErrBusy = model.NewDomainError("ASSISTANT_BUSY", "Assistant is still replying, try again in a moment")

// Message is one entry in the chat transcript.
type Message struct {
	ID            uuid.UUID `json:"id"`
	Text          string    `json:"text"`
	FromAssistant bool      `json:"fromAssistant"`
	Timestamp     time.Time `json:"timestamp"`
}

const ackText = "Cảm ơn bạn đã nhắn tin! Mình đang xử lý yêu cầu của bạn..."

// greeting is the seeded transcript every fresh chat starts with.
var greeting = []struct {
	text          string
	fromAssistant bool
}{
	{"Xin chào! Mình là trợ lý AI của bạn tại Mini Shop. Bạn cần tìm sản phẩm nào hôm nay? 😊", true},
	{"Mình đang tìm giày chạy bộ phù hợp cho người mới bắt đầu.", false},
	{"Nếu bạn mới bắt đầu, mình gợi ý đôi giày Nike Air Zoom Pegasus, giá chỉ 2.490.000đ, thiết kế nhẹ, êm ái, phù hợp cho người mới bắt đầu. Bạn muốn xem thêm chi tiết hay thêm vào giỏ hàng ngay không?", true},
}

// Config tunes the scripted reply delays.
type Config struct {
	AckDelay     time.Duration
	SuggestDelay time.Duration
}

// DefaultConfig returns the delays the storefront widget uses.
func DefaultConfig() Config {
	return Config{
		AckDelay:     1 * time.Second,
		SuggestDelay: 1500 * time.Millisecond,
	}
}

// Engine is the scripted assistant as an explicit state machine:
// idle → awaiting-ack → awaiting-suggestion → idle. All transitions are
// driven through the injected Clock, so tests run without real delays.
type Engine struct {
	mu         sync.Mutex
	state      State
	messages   []Message
	lastFilter string
	cancel     func()

	cfg      Config
	clock    Clock
	intn     func(n int) int
	onFilter func(filter string)
	logger   zerolog.Logger
}

// NewEngine creates a chat engine seeded with the greeting transcript.
// onFilter is invoked with the catalogue filter derived from each user
// message; it may be nil.
func NewEngine(cfg Config, clock Clock, onFilter func(filter string), logger zerolog.Logger) *Engine {
	e := &Engine{
		state:    StateIdle,
		cfg:      cfg,
		clock:    clock,
		intn:     rand.Intn,
		onFilter: onFilter,
		logger:   logger.With().Str("component", "chat-engine").Logger(),
	}
	e.seedGreeting()
	return e
}

// State returns the engine's current state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Messages returns a copy of the transcript.
func (e *Engine) Messages() []Message {
	e.mu.Lock()
	defer e.mu.Unlock()

	messages := make([]Message, len(e.messages))
	copy(messages, e.messages)
	return messages
}

// LastFilter returns the most recently emitted catalogue filter.
func (e *Engine) LastFilter() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastFilter
}

// Send appends the user's message, emits the matching catalogue filter and
// schedules the scripted acknowledgement and suggestion replies. It returns
// the emitted filter. Sending while a sequence is still playing returns
// ErrBusy.
func (e *Engine) Send(text string) (string, error) {
	e.mu.Lock()

	if e.state != StateIdle {
		e.mu.Unlock()
		return "", ErrBusy
	}

	e.append(text, false)

	filter, matched := MatchIntent(text)
	e.lastFilter = filter
	e.state = StateAwaitingAck
	e.cancel = e.clock.AfterFunc(e.cfg.AckDelay, func() { e.ack(filter) })

	e.logger.Debug().
		Str("filter", filter).
		Bool("matched", matched).
		Msg("user message received")

	onFilter := e.onFilter
	e.mu.Unlock()

	if onFilter != nil {
		onFilter(filter)
	}

	return filter, nil
}

// ack appends the canned acknowledgement and schedules the suggestion.
func (e *Engine) ack(filter string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingAck {
		return
	}

	e.append(ackText, true)
	e.state = StateAwaitingSuggestion
	e.cancel = e.clock.AfterFunc(e.cfg.SuggestDelay, func() { e.suggest(filter) })
}

// suggest appends a follow-up drawn from the keyword set minus the matched
// filter, then returns to idle.
func (e *Engine) suggest(filter string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateAwaitingSuggestion {
		return
	}

	remaining := remainingFilters(filter)
	pick := remaining[e.intn(len(remaining))]
	e.append(fmt.Sprintf("Bạn có thể cũng thích: %s. Nhắn cho mình nếu muốn xem nhé!", pick), true)

	e.state = StateIdle
	e.cancel = nil
}

// Reset cancels any pending reply and restores the greeting transcript.
// Called when the shopper navigates to a new product context.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}

	e.state = StateIdle
	e.lastFilter = ""
	e.messages = nil
	e.seedGreeting()
}

// append adds a message to the transcript. Callers must hold the mutex.
func (e *Engine) append(text string, fromAssistant bool) {
	e.messages = append(e.messages, Message{
		ID:            uuid.New(),
		Text:          text,
		FromAssistant: fromAssistant,
		Timestamp:     e.clock.Now(),
	})
}

func (e *Engine) seedGreeting() {
	for _, m := range greeting {
		e.append(m.text, m.fromAssistant)
	}
}

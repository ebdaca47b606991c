// Package session holds the client-side conversation state: an append-only
// message log driven by an explicit state machine, with subscriber
// notifications decoupling state transitions from presentation.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"healthchat/internal/chat"
	"healthchat/internal/models"
)

// State is the session's position in the submit/response cycle.
type State int

const (
	StateIdle State = iota
	StateAwaitingResponse
	StateError
)

func (s State) String() string {
	switch s {
	case StateAwaitingResponse:
		return "awaiting-response"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// WelcomeMessage opens every new session.
const WelcomeMessage = "Welcome to the Healthcare Chat! How can I help you today? " +
	"Please remember, I am an AI assistant and not a medical professional."

const apologyMessage = "Sorry, something went wrong. Please try again."

var (
	// ErrBusy means a response is already pending; no second request is
	// issued.
	ErrBusy = errors.New("a response is already pending")
	// ErrInvalidInput means the message failed validation and nothing was
	// submitted.
	ErrInvalidInput = errors.New("message is empty or too long")
)

// Sender delivers a request to the server and returns its reply.
type Sender interface {
	Send(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error)
}

// EventType discriminates subscriber notifications.
type EventType int

const (
	EventStateChanged EventType = iota
	EventMessageAppended
)

// Event is delivered to subscribers on every transition or append.
type Event struct {
	Type    EventType
	State   State
	Message *models.Message
}

// Session serializes submissions: exactly one request is in flight at a time,
// enforced here rather than by cancelling prior calls.
type Session struct {
	mu       sync.Mutex
	sender   Sender
	state    State
	messages []models.Message
	lastErr  error
	subs     []chan Event
}

// New opens a session with the welcome message already appended.
func New(sender Sender) *Session {
	s := &Session{sender: sender}
	s.messages = append(s.messages, models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   WelcomeMessage,
		CreatedAt: time.Now(),
	})
	return s
}

// State returns the current machine state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the recorded banner error, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Messages returns a copy of the log in append order.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Subscribe returns a channel of session events. Events are delivered
// best-effort: a subscriber that stops draining misses events rather than
// blocking transitions.
func (s *Session) Subscribe() <-chan Event {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

func (s *Session) notify(ev Event) {
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Submit validates the input, appends the user message, and performs the
// network call. It blocks until the response (or failure) has been appended.
// While a call is in flight further submissions return ErrBusy.
func (s *Session) Submit(ctx context.Context, text string, image *models.ImageAttachment) error {
	s.mu.Lock()
	if s.state == StateAwaitingResponse {
		s.mu.Unlock()
		return ErrBusy
	}
	// an image may stand alone, but any supplied text must still validate
	if !chat.IsValidMessage(text) && (strings.TrimSpace(text) != "" || image == nil) {
		s.mu.Unlock()
		return ErrInvalidInput
	}

	content := chat.Sanitize(text)
	userMsg := models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if image != nil {
		userMsg.Image = &models.ImageRef{Name: image.Name}
	}
	s.messages = append(s.messages, userMsg)
	s.lastErr = nil
	s.state = StateAwaitingResponse
	req := &models.ChatRequest{
		Prompt:   content,
		Messages: s.historyLocked(),
		Image:    image,
	}
	s.notify(Event{Type: EventMessageAppended, State: s.state, Message: &userMsg})
	s.notify(Event{Type: EventStateChanged, State: s.state})
	s.mu.Unlock()

	resp, err := s.sender.Send(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		assistantMsg := models.Message{
			ID:        uuid.NewString(),
			Role:      models.RoleAssistant,
			Content:   fmt.Sprintf("%s (%s)", apologyMessage, err),
			CreatedAt: time.Now(),
		}
		s.messages = append(s.messages, assistantMsg)
		s.lastErr = err
		s.state = StateError
		s.notify(Event{Type: EventMessageAppended, State: s.state, Message: &assistantMsg})
		s.notify(Event{Type: EventStateChanged, State: s.state})
		return err
	}

	assistantMsg := models.Message{
		ID:        uuid.NewString(),
		Role:      models.RoleAssistant,
		Content:   resp.Response,
		CreatedAt: time.Now(),
	}
	s.messages = append(s.messages, assistantMsg)
	s.state = StateIdle
	s.notify(Event{Type: EventMessageAppended, State: s.state, Message: &assistantMsg})
	s.notify(Event{Type: EventStateChanged, State: s.state})
	return nil
}

// Dismiss clears the error banner without touching the log.
func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateError {
		return
	}
	s.lastErr = nil
	s.state = StateIdle
	s.notify(Event{Type: EventStateChanged, State: s.state})
}

// historyLocked renders the prior turns for the wire, excluding the current
// (just appended) user message and the greeting boilerplate before the first
// user turn. Callers hold s.mu.
func (s *Session) historyLocked() []models.Turn {
	prior := s.messages[:len(s.messages)-1]
	start := 0
	for start < len(prior) && prior[start].Role == models.RoleAssistant {
		start++
	}
	var turns []models.Turn
	for _, m := range prior[start:] {
		turns = append(turns, models.Turn{Role: m.Role, Content: m.Content})
	}
	return turns
}

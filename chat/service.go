// Package chat owns the conversation session lifecycle: the append-only
// message log, the idle/awaiting state, and the round trip through the
// LLM proxy with failure recovery.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minasamy417/resultsboard/aggregate"
	"github.com/minasamy417/resultsboard/domain"
	"github.com/minasamy417/resultsboard/logger"
	"github.com/minasamy417/resultsboard/prompt"
	"github.com/minasamy417/resultsboard/store"
)

var (
	// ErrSessionNotFound is returned for unknown session IDs.
	ErrSessionNotFound = errors.New("session not found")
	// ErrEmptyInput is returned when a submission is blank. The
	// transition is refused and no message is appended.
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy is returned while a request is in flight. Exactly one
	// request per session may be outstanding.
	ErrBusy = errors.New("request already in flight")
)

// FallbackText is the fixed assistant message appended on transport
// failure or an empty reply. Internal error details never reach the user.
const FallbackText = "عذراً، حدث خطأ أثناء الاتصال بالخادم. يرجى المحاولة مرة أخرى."

// greetingText seeds every new session.
const greetingText = "أهلاً بك يا خادم الرب! ✝️\nأنا مساعدك الذكي لتحليل بيانات الخدمة.\n\nيمكنك سؤالي عن:\n- **إحصائيات الحضور والغياب** 📊\n- **أداء الخدام في الكورسات** ⭐\n- **مقارنات بين الخدمات** ⚖️\n\nكيف يمكنني مساعدتك اليوم؟"

// SuggestedPrompts is the canned question list shown to new sessions.
var SuggestedPrompts = []string{
	"من هم أعلى 5 خدام في الدرجات؟ 🏆",
	"كم عدد الخدام في كل خدمة؟ 📊",
	"أعطني قائمة بالخدام الغائبين ⚠️",
	"ما هو متوسط الحضور العام؟ 📉",
}

// PromptClient is the opaque submitPrompt collaborator.
type PromptClient interface {
	SubmitPrompt(ctx context.Context, promptText string) (string, error)
}

// Notifier pushes appended messages to connected clients. May be nil.
type Notifier interface {
	BroadcastJSON(sessionID string, v interface{}) error
}

// session is the in-memory state of one conversation. Messages are
// append-only and owned exclusively by the Service; nothing else may
// mutate them.
type session struct {
	info domain.Session

	mu       sync.Mutex
	state    domain.SessionState
	messages []domain.Message
}

// Service manages chat sessions. All session state is memory-resident
// and lost on restart.
type Service struct {
	store    store.Store
	llm      PromptClient
	builder  *prompt.Builder
	notifier Notifier
	log      *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewService creates a chat service. notifier may be nil.
func NewService(st store.Store, llm PromptClient, builder *prompt.Builder, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		store:    st,
		llm:      llm,
		builder:  builder,
		notifier: notifier,
		log:      log,
		sessions: make(map[string]*session),
	}
}

// CreateSession starts a new session over a dataset and seeds the
// assistant greeting.
func (s *Service) CreateSession(datasetID string) *domain.Session {
	sess := &session{
		info: domain.Session{
			SessionID: "sess_" + uuid.New().String()[:8],
			DatasetID: datasetID,
			CreatedAt: time.Now(),
		},
		state: domain.SessionStateIdle,
	}
	sess.messages = append(sess.messages, domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: sess.info.SessionID,
		Role:      domain.RoleAssistant,
		Text:      greetingText,
		CreatedAt: sess.info.CreatedAt,
	})

	s.mu.Lock()
	s.sessions[sess.info.SessionID] = sess
	s.mu.Unlock()

	s.log.Info("session created", "session_id", sess.info.SessionID, "dataset_id", datasetID)
	info := sess.info
	return &info
}

// GetSession returns session metadata.
func (s *Service) GetSession(sessionID string) (*domain.Session, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	info := sess.info
	return &info, nil
}

// Messages returns a snapshot of the ordered session log.
func (s *Service) Messages(sessionID string) ([]domain.Message, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]domain.Message, len(sess.messages))
	copy(out, sess.messages)
	return out, nil
}

// Snapshot returns the ordered session log and the state it was
// observed in, read under one lock so they cannot disagree.
func (s *Service) Snapshot(sessionID string) ([]domain.Message, domain.SessionState, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, "", err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := make([]domain.Message, len(sess.messages))
	copy(out, sess.messages)
	return out, sess.state, nil
}

// State returns the session's current state.
func (s *Service) State(sessionID string) (domain.SessionState, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return "", err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.state, nil
}

// Submit runs one request cycle: append the user message, build the
// context payload, call the proxy, append the reply (or the fixed
// fallback). The returned messages are the two appended this cycle.
//
// The guard refuses blank text and concurrent submissions; a refused
// submission appends nothing. Every path out of the awaiting state
// returns the session to idle.
func (s *Service) Submit(ctx context.Context, sessionID, text string) (userMsg, reply *domain.Message, err error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil, ErrEmptyInput
	}

	sess.mu.Lock()
	if sess.state == domain.SessionStateAwaitingResponse {
		sess.mu.Unlock()
		return nil, nil, ErrBusy
	}
	sess.state = domain.SessionStateAwaitingResponse
	u := sess.append(domain.RoleUser, text)
	sess.mu.Unlock()

	s.broadcast(sess.info.SessionID, u)

	replyText, callErr := s.requestReply(ctx, sess.info.DatasetID, text)

	sess.mu.Lock()
	var a domain.Message
	if callErr != nil || strings.TrimSpace(replyText) == "" {
		if callErr != nil {
			s.log.Warn("prompt submission failed", "session_id", sessionID, "error", callErr)
		} else {
			s.log.Warn("prompt returned no text", "session_id", sessionID)
		}
		a = sess.append(domain.RoleAssistant, FallbackText)
	} else {
		a = sess.append(domain.RoleAssistant, replyText)
	}
	sess.state = domain.SessionStateIdle
	sess.mu.Unlock()

	s.broadcast(sess.info.SessionID, a)
	return &u, &a, nil
}

// requestReply builds the bounded context payload for the session's
// dataset and submits it.
func (s *Service) requestReply(ctx context.Context, datasetID, question string) (string, error) {
	records, err := s.store.GetRecords(ctx, datasetID)
	if err != nil {
		return "", err
	}
	behavioral, err := s.store.GetBehavioralNotes(ctx, datasetID)
	if err != nil {
		return "", err
	}

	promptText := s.builder.Build(records, aggregate.Aggregate(records), behavioral, question)
	return s.llm.SubmitPrompt(ctx, promptText)
}

func (s *Service) lookup(sessionID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// append adds a message to the log. Caller holds sess.mu.
func (sess *session) append(role domain.Role, text string) domain.Message {
	msg := domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: sess.info.SessionID,
		Role:      role,
		Text:      text,
		CreatedAt: time.Now(),
	}
	sess.messages = append(sess.messages, msg)
	return msg
}

// messageEvent is the envelope pushed to stream subscribers.
type messageEvent struct {
	Type    string         `json:"type"`
	Message domain.Message `json:"message"`
}

func (s *Service) broadcast(sessionID string, msg domain.Message) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.BroadcastJSON(sessionID, messageEvent{Type: "message", Message: msg}); err != nil {
		s.log.Warn("failed to push message", "session_id", sessionID, "error", err)
	}
}

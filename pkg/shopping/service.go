package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"grocerease/pkg/logging"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 2 * time.Hour

const queueTimeout = 2 * time.Second

// Store mirrors sessions outside the process. Load returns ErrSessionNotFound for unknown ids.
type Store interface {
	Save(ctx context.Context, session Session) error
	Load(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Options configures a Service. Zero values pick sensible defaults.
type Options struct {
	Store      Store
	TTL        time.Duration
	SweepEvery time.Duration
	Now        func() time.Time
	Logger     *logrus.Logger
}

// command envelopes the work the service goroutine must perform.
type command struct {
	action   string
	id       string
	username string
	itemID   string
	entries  []Entry
	messages []Message
	reply    chan commandResult
}

type commandResult struct {
	session Session
	removed int
	err     error
}

// Service owns every session in one goroutine, so handlers never share the maps directly.
type Service struct {
	store    Store
	ttl      time.Duration
	now      func() time.Time
	logger   *logrus.Logger
	sessions map[string]*Session
	commands chan command
	quit     chan struct{}
	sweep    *time.Ticker
}

// NewService starts the owning goroutine immediately.
func NewService(opts Options) *Service {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	svc := &Service{
		store:    opts.Store,
		ttl:      opts.TTL,
		now:      opts.Now,
		logger:   opts.Logger,
		sessions: make(map[string]*Session),
		commands: make(chan command),
		quit:     make(chan struct{}),
	}
	var tick <-chan time.Time
	if opts.SweepEvery > 0 {
		svc.sweep = time.NewTicker(opts.SweepEvery)
		tick = svc.sweep.C
	}
	go svc.loop(tick)
	return svc
}

// loop processes commands sequentially so no mutexes are needed.
func (s *Service) loop(tick <-chan time.Time) {
	for {
		select {
		case cmd := <-s.commands:
			cmd.reply <- s.handle(cmd)
		case <-tick:
			if n := s.expire(); n > 0 {
				s.logger.WithField("sessions", n).Info("expired idle shopping sessions")
			}
		case <-s.quit:
			return
		}
	}
}

func (s *Service) handle(cmd command) commandResult {
	switch cmd.action {
	case "open":
		return s.open(cmd.username)
	case "close":
		return s.close(cmd.id)
	case "expire":
		return commandResult{removed: s.expire()}
	}

	current, err := s.lookup(cmd.id)
	if err != nil {
		return commandResult{err: err}
	}
	next := current.clone()
	next.LastSeen = s.now().UTC()

	switch cmd.action {
	case "get":
	case "add":
		for _, e := range cmd.entries {
			next.List = addEntry(next.List, e)
		}
	case "remove":
		list, ok := removeEntry(next.List, cmd.itemID)
		if !ok {
			return commandResult{err: ErrEntryNotFound}
		}
		next.List = list
	case "replace":
		next.List = append([]Entry(nil), cmd.entries...)
	case "append":
		next.History = append(next.History, cmd.messages...)
	case "converse":
		for _, e := range cmd.entries {
			next.List = addEntry(next.List, e)
		}
		next.History = append(next.History, cmd.messages...)
	default:
		return commandResult{err: fmt.Errorf("unknown shopping action %s", cmd.action)}
	}

	if err := s.persist(next); err != nil {
		return commandResult{err: err}
	}
	s.sessions[next.ID] = &next
	return commandResult{session: next.clone()}
}

func (s *Service) open(username string) commandResult {
	now := s.now().UTC()
	session := Session{
		ID:        uuid.NewString(),
		Username:  username,
		List:      []Entry{},
		History:   []Message{},
		CreatedAt: now,
		LastSeen:  now,
	}
	if err := s.persist(session); err != nil {
		return commandResult{err: err}
	}
	s.sessions[session.ID] = &session
	return commandResult{session: session.clone()}
}

func (s *Service) close(id string) commandResult {
	_, known := s.sessions[id]
	delete(s.sessions, id)
	if s.store != nil {
		if err := s.store.Delete(context.Background(), id); err != nil {
			return commandResult{err: err}
		}
		return commandResult{}
	}
	if !known {
		return commandResult{err: ErrSessionNotFound}
	}
	return commandResult{}
}

// lookup falls back to the store so sessions outlive a restart.
func (s *Service) lookup(id string) (Session, error) {
	if current, ok := s.sessions[id]; ok {
		if s.expired(*current) {
			s.drop(id)
			return Session{}, ErrSessionNotFound
		}
		return *current, nil
	}
	if s.store == nil {
		return Session{}, ErrSessionNotFound
	}
	loaded, err := s.store.Load(context.Background(), id)
	if err != nil {
		return Session{}, err
	}
	if s.expired(loaded) {
		s.drop(id)
		return Session{}, ErrSessionNotFound
	}
	return loaded, nil
}

func (s *Service) expired(session Session) bool {
	return s.now().Sub(session.LastSeen) > s.ttl
}

func (s *Service) expire() int {
	removed := 0
	for id, session := range s.sessions {
		if s.expired(*session) {
			s.drop(id)
			removed++
		}
	}
	return removed
}

func (s *Service) drop(id string) {
	delete(s.sessions, id)
	if s.store == nil {
		return
	}
	if err := s.store.Delete(context.Background(), id); err != nil {
		logging.LogError(s.logger, "shopping", "drop", "delete expired session", id, err)
	}
}

func (s *Service) persist(session Session) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(context.Background(), session); err != nil {
		return fmt.Errorf("persist session %s: %w", session.ID, err)
	}
	return nil
}

// addEntry merges quantities for an item already on the list.
func addEntry(list []Entry, e Entry) []Entry {
	for i := range list {
		if list[i].ItemID == e.ItemID {
			list[i].Quantity += e.Quantity
			return list
		}
	}
	return append(list, e)
}

func removeEntry(list []Entry, itemID string) ([]Entry, bool) {
	for i := range list {
		if list[i].ItemID == itemID {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// dispatch hands cmd to the goroutine and waits for its answer.
func (s *Service) dispatch(ctx context.Context, cmd command) (commandResult, error) {
	cmd.reply = make(chan commandResult, 1)

	select {
	case s.commands <- cmd:
	case <-ctx.Done():
		return commandResult{}, ctx.Err()
	case <-time.After(queueTimeout):
		return commandResult{}, errors.New("shopping queue is busy")
	}

	select {
	case res := <-cmd.reply:
		return res, res.err
	case <-ctx.Done():
		return commandResult{}, ctx.Err()
	case <-time.After(queueTimeout):
		return commandResult{}, fmt.Errorf("shopping %s timed out", cmd.action)
	}
}

// Open starts a session for username.
func (s *Service) Open(ctx context.Context, username string) (Session, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Session{}, newValidationError("username is required")
	}
	res, err := s.dispatch(ctx, command{action: "open", username: username})
	return res.session, err
}

// Get returns the session and refreshes its idle timer.
func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	res, err := s.dispatch(ctx, command{action: "get", id: id})
	return res.session, err
}

// Close ends the session.
func (s *Service) Close(ctx context.Context, id string) error {
	_, err := s.dispatch(ctx, command{action: "close", id: id})
	return err
}

// Add puts entries on the list, merging quantities for items already there.
func (s *Service) Add(ctx context.Context, id string, entries ...Entry) (Session, error) {
	if err := validateEntries(entries); err != nil {
		return Session{}, err
	}
	res, err := s.dispatch(ctx, command{action: "add", id: id, entries: entries})
	return res.session, err
}

func validateEntries(entries []Entry) error {
	for _, e := range entries {
		if strings.TrimSpace(e.ItemID) == "" {
			return newValidationError("item id is required")
		}
		if e.Quantity <= 0 {
			return newValidationError("quantity must be positive")
		}
	}
	return nil
}

// Remove drops an item from the list.
func (s *Service) Remove(ctx context.Context, id, itemID string) (Session, error) {
	res, err := s.dispatch(ctx, command{action: "remove", id: id, itemID: itemID})
	return res.session, err
}

// Replace swaps the whole list, as the floor map does on every load.
func (s *Service) Replace(ctx context.Context, id string, entries []Entry) (Session, error) {
	res, err := s.dispatch(ctx, command{action: "replace", id: id, entries: entries})
	return res.session, err
}

// AppendMessages extends the chat history.
func (s *Service) AppendMessages(ctx context.Context, id string, messages ...Message) (Session, error) {
	res, err := s.dispatch(ctx, command{action: "append", id: id, messages: messages})
	return res.session, err
}

// Converse records one chat exchange: added entries land on the list and messages on the
// history in a single step, so a concurrent Replace sees either none or all of it.
func (s *Service) Converse(ctx context.Context, id string, added []Entry, messages ...Message) (Session, error) {
	if err := validateEntries(added); err != nil {
		return Session{}, err
	}
	res, err := s.dispatch(ctx, command{action: "converse", id: id, entries: added, messages: messages})
	return res.session, err
}

// Expire removes idle sessions now and reports how many went away.
func (s *Service) Expire(ctx context.Context) (int, error) {
	res, err := s.dispatch(ctx, command{action: "expire"})
	return res.removed, err
}

// Stop ends the goroutine; calls made afterwards time out.
func (s *Service) Stop() {
	if s.sweep != nil {
		s.sweep.Stop()
	}
	close(s.quit)
}

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/notekeeperapp/notekeeper/internal/client/api"
	"github.com/notekeeperapp/notekeeper/internal/client/search"
)

// ErrClosed is returned by Store methods after Close.
var ErrClosed = errors.New("workspace closed")

// Errors for mutations that need a selection.
var (
	ErrNoBookSelected    = errors.New("no book selected")
	ErrNoChapterSelected = errors.New("no chapter selected")
)

// API is the subset of the API client the workspace uses.
type API interface {
	ListBooks(ctx context.Context) ([]api.Book, error)
	CreateBook(ctx context.Context, name string) (*api.Book, error)
	UpdateBook(ctx context.Context, id api.ID, name string) (*api.Book, error)
	DeleteBook(ctx context.Context, id api.ID) error

	ListChapters(ctx context.Context, bookID api.ID) ([]api.Chapter, error)
	CreateChapter(ctx context.Context, bookID api.ID, name string) (*api.Chapter, error)
	UpdateChapter(ctx context.Context, id api.ID, name string) (*api.Chapter, error)
	DeleteChapter(ctx context.Context, id api.ID) error

	ListNotes(ctx context.Context, chapterID api.ID) ([]api.Note, error)
	CreateNote(ctx context.Context, chapterID api.ID, content string) (*api.Note, error)
	UpdateNote(ctx context.Context, id api.ID, content string) (*api.Note, error)
	DeleteNote(ctx context.Context, id api.ID) error
	SearchNotes(ctx context.Context, query string) ([]api.SearchResult, error)

	ListTags(ctx context.Context) ([]api.Tag, error)
	CreateTag(ctx context.Context, name, color string) (*api.Tag, error)
	UpdateTag(ctx context.Context, id api.ID, update api.TagUpdate) (*api.Tag, error)
	DeleteTag(ctx context.Context, id api.ID) error
}

// Options configures a Store.
type Options struct {
	Logger *slog.Logger

	// SearchDebounce is the quiet window before a typed query is sent.
	SearchDebounce time.Duration
	// SearchClock replaces the debounce clock in tests.
	SearchClock search.AfterFunc

	// OnUnauthorized runs, on an effect goroutine, when any request fails
	// with api.ErrUnauthorized.
	OnUnauthorized func()
}

type envelope struct {
	action Action
	done   chan State
}

// Store owns the workspace state. A single goroutine applies actions through
// Reduce; effects run on their own goroutines and post results back.
type Store struct {
	api    API
	logger *slog.Logger
	opts   Options

	actions chan envelope
	ctx     context.Context
	cancel  context.CancelFunc
	loopWG  sync.WaitGroup
	workWG  sync.WaitGroup

	debouncer *search.Debouncer

	mu          sync.Mutex
	state       State
	inflight    int
	idleWaiters []chan struct{}
	subs        map[int]chan State
	nextSub     int
}

// NewStore starts the event loop. Call Close to stop it.
func NewStore(client API, opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Store{
		api:     client,
		logger:  opts.Logger,
		opts:    opts,
		actions: make(chan envelope, 64),
		ctx:     ctx,
		cancel:  cancel,
		subs:    make(map[int]chan State),
	}

	var debounceOpts []search.Option
	if opts.SearchClock != nil {
		debounceOpts = append(debounceOpts, search.WithAfterFunc(opts.SearchClock))
	}
	s.debouncer = search.NewDebouncer(opts.SearchDebounce,
		func(q string) { s.Dispatch(SearchRequested{Query: q}) },
		func() { s.Dispatch(SearchCleared{}) },
		debounceOpts...,
	)

	s.loopWG.Add(1)
	go s.loop()
	return s
}

// Close stops the event loop and waits for running effects to return.
func (s *Store) Close() {
	s.debouncer.Stop()
	s.cancel()
	s.loopWG.Wait()
	s.workWG.Wait()

	s.mu.Lock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	for _, w := range s.idleWaiters {
		close(w)
	}
	s.idleWaiters = nil
	s.mu.Unlock()
}

// State returns the latest snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe returns a channel that always holds the most recent snapshot not
// yet received. Slow readers skip intermediate states. The channel is closed
// by unsubscribe or Close.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.state
	s.mu.Unlock()

	return ch, func() {
		s.mu.Lock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
		s.mu.Unlock()
	}
}

// Dispatch queues a without waiting for it to be applied.
func (s *Store) Dispatch(a Action) {
	select {
	case s.actions <- envelope{action: a}:
	case <-s.ctx.Done():
	}
}

// apply queues a and waits until the loop has reduced it.
func (s *Store) apply(ctx context.Context, a Action) (State, error) {
	env := envelope{action: a, done: make(chan State, 1)}
	select {
	case s.actions <- env:
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-s.ctx.Done():
		return State{}, ErrClosed
	}
	select {
	case st := <-env.done:
		return st, nil
	case <-s.ctx.Done():
		return State{}, ErrClosed
	}
}

// WaitIdle blocks until no effect is running.
func (s *Store) WaitIdle(ctx context.Context) error {
	s.mu.Lock()
	if s.inflight == 0 {
		s.mu.Unlock()
		return nil
	}
	w := make(chan struct{})
	s.idleWaiters = append(s.idleWaiters, w)
	s.mu.Unlock()

	select {
	case <-w:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) loop() {
	defer s.loopWG.Done()
	for {
		select {
		case env := <-s.actions:
			s.reduce(env)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Store) reduce(env envelope) {
	s.mu.Lock()
	next, effects := Reduce(s.state, env.action)
	s.state = next
	s.inflight += len(effects)
	for _, ch := range s.subs {
		publish(ch, next)
	}
	s.mu.Unlock()

	for _, e := range effects {
		s.workWG.Add(1)
		go s.run(e)
	}
	if env.done != nil {
		env.done <- next
	}
}

// publish replaces any unread snapshot in ch with st.
func publish(ch chan State, st State) {
	select {
	case <-ch:
	default:
	}
	ch <- st
}

func (s *Store) run(e Effect) {
	defer s.workWG.Done()
	defer s.effectDone()

	result := s.execute(s.ctx, e)
	if result == nil {
		return
	}
	// Waiting here keeps inflight above zero until any follow-up effects
	// have been counted.
	_, _ = s.apply(s.ctx, result)
}

func (s *Store) effectDone() {
	s.mu.Lock()
	s.inflight--
	if s.inflight == 0 {
		for _, w := range s.idleWaiters {
			close(w)
		}
		s.idleWaiters = nil
	}
	s.mu.Unlock()
}

// execute performs the request behind e and returns the result action.
func (s *Store) execute(ctx context.Context, e Effect) Action {
	switch e := e.(type) {
	case FetchBooks:
		books, err := s.api.ListBooks(ctx)
		s.loadFailed("books", err)
		return BooksLoaded{Seq: e.Seq, Books: books, Err: err}
	case FetchTags:
		tags, err := s.api.ListTags(ctx)
		s.loadFailed("tags", err)
		return TagsLoaded{Seq: e.Seq, Tags: tags, Err: err}
	case FetchChapters:
		chapters, err := s.api.ListChapters(ctx, e.BookID)
		s.loadFailed("chapters", err, "book_id", e.BookID)
		return ChaptersLoaded{Seq: e.Seq, BookID: e.BookID, Chapters: chapters, Err: err}
	case FetchNotes:
		notes, err := s.api.ListNotes(ctx, e.ChapterID)
		s.loadFailed("notes", err, "chapter_id", e.ChapterID)
		return NotesLoaded{Seq: e.Seq, ChapterID: e.ChapterID, Notes: notes, Err: err}
	case RunSearch:
		results, err := s.api.SearchNotes(ctx, e.Query)
		s.loadFailed("search results", err, "query", e.Query)
		return SearchLoaded{Seq: e.Seq, Query: e.Query, Results: results, Err: err}
	default:
		s.logger.Error("unknown effect", "effect", fmt.Sprintf("%T", e))
		return nil
	}
}

func (s *Store) loadFailed(what string, err error, attrs ...any) {
	if err == nil || s.ctx.Err() != nil {
		return
	}
	s.logger.Warn("failed to load "+what, append(attrs, "error", err)...)
	s.checkUnauthorized(err)
}

func (s *Store) checkUnauthorized(err error) {
	if errors.Is(err, api.ErrUnauthorized) && s.opts.OnUnauthorized != nil {
		s.opts.OnUnauthorized()
	}
}

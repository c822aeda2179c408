package service

import (
	"context"
	"log/slog"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// BookService manages a user's books.
type BookService struct {
	store  store.Store
	search *SearchService
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store store.Store, search *SearchService, logger *slog.Logger) *BookService {
	return &BookService{
		store:  store,
		search: search,
		logger: orDiscard(logger),
	}
}

// CreateBookRequest holds the fields of a new book.
type CreateBookRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// UpdateBookRequest holds the fields that can change on a book. Nil fields
// are left alone.
type UpdateBookRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=255"`
}

// ListBooks returns the user's books in creation order.
func (s *BookService) ListBooks(ctx context.Context, userID int64) ([]*domain.Book, error) {
	return s.store.ListBooks(ctx, userID)
}

// GetBook returns one of the user's books.
func (s *BookService) GetBook(ctx context.Context, userID, id int64) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, userID, id)
	if err != nil {
		return nil, notFoundAs(err, msgBookNotFound)
	}
	return book, nil
}

// CreateBook creates a book for the user.
func (s *BookService) CreateBook(ctx context.Context, userID int64, req CreateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	ts := now()
	book := &domain.Book{
		UserID:    userID,
		Name:      req.Name,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}

	s.logger.Info("book created", "book_id", book.ID, "user_id", userID)
	return book, nil
}

// UpdateBook applies req to one of the user's books.
func (s *BookService) UpdateBook(ctx context.Context, userID, id int64, req UpdateBookRequest) (*domain.Book, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	book, err := s.GetBook(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		book.Name = *req.Name
	}
	book.Touch()

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, notFoundAs(err, msgBookNotFound)
	}
	return book, nil
}

// DeleteBook deletes one of the user's books together with its chapters and
// notes, and drops those notes from the search index.
func (s *BookService) DeleteBook(ctx context.Context, userID, id int64) error {
	noteIDs, err := s.store.ListNoteIDsByBook(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteBook(ctx, userID, id); err != nil {
		return notFoundAs(err, msgBookNotFound)
	}
	s.search.DeleteNotes(ctx, noteIDs...)

	s.logger.Info("book deleted", "book_id", id, "user_id", userID, "notes", len(noteIDs))
	return nil
}

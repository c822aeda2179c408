package api

import (
	"github.com/notekeeperapp/notekeeper/internal/service"
)

// Services groups all business logic services used by the API server.
type Services struct {
	Auth    *service.AuthService
	Book    *service.BookService
	Chapter *service.ChapterService
	Note    *service.NoteService
	Tag     *service.TagService
	Search  *service.SearchService
}

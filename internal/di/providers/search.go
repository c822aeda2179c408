package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/notekeeperapp/notekeeper/internal/config"
	"github.com/notekeeperapp/notekeeper/internal/logger"
	"github.com/notekeeperapp/notekeeper/internal/search"
	"github.com/notekeeperapp/notekeeper/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability. Index
// is nil when SEARCH_INDEX_ENABLED is false.
type SearchIndexHandle struct {
	Index *search.NoteIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	if h.Index == nil {
		return nil
	}
	return h.Index.Close()
}

// ProvideSearchIndex provides the bleve note index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Search.IndexEnabled {
		log.Info("Search index disabled, using database search")
		return &SearchIndexHandle{}, nil
	}

	index, err := search.Open(search.Options{
		DataPath: cfg.Storage.DataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// ProvideSearchService provides the search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(indexHandle.Index, storeHandle.Store, log.Logger), nil
}

// TriggerSearchReindexIfNeeded rebuilds the index in the background when it
// is empty but the database holds notes.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !searchService.IndexEnabled() {
		return
	}

	go func() {
		if err := searchService.ReindexIfEmpty(context.Background()); err != nil {
			log.Error("Initial search reindex failed", "error", err)
		}
	}()
}

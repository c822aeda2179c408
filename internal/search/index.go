package search

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	"github.com/notekeeperapp/notekeeper/internal/store"
)

// NoteIndex wraps a Bleve index of notes.
//
// Thread safety: all methods are safe for concurrent use. The mutex guards
// the index handle against Rebuild.
type NoteIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

var _ store.NoteIndexer = (*NoteIndex)(nil)

// Options configures the note index.
type Options struct {
	DataPath string       // Directory for index storage
	Logger   *slog.Logger // Logger for operations (discards if nil)
}

// mappingVersion is bumped whenever the index mapping changes. A mismatch
// with the version file on disk rebuilds the index at startup.
const mappingVersion = "1"

// batchSize bounds memory use while reindexing.
const batchSize = 500

// Open creates or opens the note index under opts.DataPath. A corrupted
// index or one built with an older mapping is removed and recreated empty;
// callers detect that through DocumentCount and reindex.
func Open(opts Options) (*NoteIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	indexPath := filepath.Join(opts.DataPath, "notes.bleve")
	versionPath := filepath.Join(opts.DataPath, "notes.version")

	var index bleve.Index
	needsRebuild := false

	_, statErr := os.Stat(indexPath)
	indexExists := statErr == nil

	if indexExists {
		existing, err := os.ReadFile(versionPath)
		switch {
		case err != nil:
			logger.Info("search index has no version file, rebuilding", "version", mappingVersion)
			needsRebuild = true
		case string(existing) != mappingVersion:
			logger.Info("search index mapping changed, rebuilding",
				"old_version", string(existing),
				"new_version", mappingVersion,
			)
			needsRebuild = true
		}
	}

	if indexExists && !needsRebuild {
		var err error
		index, err = bleve.Open(indexPath)
		if err != nil {
			logger.Warn("failed to open search index, recreating", "path", indexPath, "error", err)
			needsRebuild = true
		}
	}

	if needsRebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
	}

	if index == nil {
		var err error
		index, err = create(indexPath)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o600); err != nil {
			logger.Warn("failed to write search version file", "error", err)
		}
		logger.Info("created search index", "path", indexPath, "mapping_version", mappingVersion)
	} else {
		logger.Info("opened search index", "path", indexPath)
	}

	return &NoteIndex{index: index, path: indexPath, logger: logger}, nil
}

func create(path string) (bleve.Index, error) {
	m, err := buildIndexMapping()
	if err != nil {
		return nil, fmt.Errorf("build index mapping: %w", err)
	}
	index, err := bleve.New(path, m)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return index, nil
}

// Close closes the index and releases resources.
func (s *NoteIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexNote adds or replaces a note.
func (s *NoteIndex) IndexNote(_ context.Context, doc *domain.NoteDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d := NewNoteDocument(doc)
	return s.index.Index(d.NoteID, d.ToMap())
}

// DeleteNotes removes notes from the index. Unknown IDs are ignored.
func (s *NoteIndex) DeleteNotes(_ context.Context, noteIDs ...int64) error {
	if len(noteIDs) == 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for _, id := range noteIDs {
		batch.Delete(docID(id))
	}
	return s.index.Batch(batch)
}

// DocumentCount returns the number of indexed notes.
func (s *NoteIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// IndexAll indexes every document from docs in batches and returns how many
// were indexed.
func (s *NoteIndex) IndexAll(ctx context.Context, docs iter.Seq2[*domain.NoteDocument, error]) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	batch := s.index.NewBatch()
	for doc, err := range docs {
		if err != nil {
			return total, fmt.Errorf("read notes: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return total, err
		}
		d := NewNoteDocument(doc)
		if err := batch.Index(d.NoteID, d.ToMap()); err != nil {
			return total, fmt.Errorf("batch index %s: %w", d.NoteID, err)
		}
		if n := batch.Size(); n >= batchSize {
			if err := s.index.Batch(batch); err != nil {
				return total, fmt.Errorf("commit batch: %w", err)
			}
			total += n
			batch.Reset()
		}
	}
	if n := batch.Size(); n > 0 {
		if err := s.index.Batch(batch); err != nil {
			return total, fmt.Errorf("commit batch: %w", err)
		}
		total += n
	}
	return total, nil
}

// Rebuild drops every document and recreates an empty index.
//
// It takes the write lock, so searches and updates block until it returns.
func (s *NoteIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}
	if err := os.RemoveAll(s.path); err != nil {
		return fmt.Errorf("remove index: %w", err)
	}
	index, err := create(s.path)
	if err != nil {
		return err
	}
	s.index = index
	s.logger.Info("rebuilt search index", "path", s.path)
	return nil
}

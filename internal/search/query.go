package search

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/notekeeperapp/notekeeper/internal/richtext"
)

// ErrNoTerms is returned by Search for a query that is not blank but has
// nothing the index can match, such as "#" or "?".
var ErrNoTerms = errors.New("search: query has no indexable terms")

// Search returns the IDs of the user's notes that contain every term of q,
// newest first. Each term matches anywhere inside a word, ignoring case and
// accents. A blank q matches nothing.
func (s *NoteIndex) Search(ctx context.Context, userID int64, q string, limit int) ([]int64, error) {
	if strings.TrimSpace(q) == "" {
		return []int64{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	tokens := s.queryTokens(q)
	if len(tokens) == 0 {
		return nil, ErrNoTerms
	}

	owner := bleve.NewTermQuery(strconv.FormatInt(userID, 10))
	owner.SetField(fieldUserID)

	queries := []query.Query{owner}
	for _, tok := range tokens {
		wq := bleve.NewWildcardQuery("*" + tok + "*")
		wq.SetField(fieldText)
		queries = append(queries, wq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(queries...), limit, 0, false)
	req.SortBy([]string{"-" + fieldCreatedAt, "-_id"})

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}

	ids := make([]int64, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			s.logger.Warn("skipping search hit with bad id", "id", hit.ID)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// queryTokens folds q and splits it the way note text is split at index
// time, so "Café-crème" becomes [cafe creme]. The tokenizer drops
// punctuation, so tokens never carry wildcard characters.
func (s *NoteIndex) queryTokens(q string) []string {
	folded := richtext.Fold(strings.TrimSpace(q))
	if folded == "" {
		return nil
	}

	analyzer := s.index.Mapping().AnalyzerNamed(textAnalyzer)
	if analyzer == nil {
		return strings.Fields(folded)
	}

	var tokens []string
	for _, tok := range analyzer.Analyze([]byte(folded)) {
		tokens = append(tokens, string(tok.Term))
	}
	return tokens
}

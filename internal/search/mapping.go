package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	unicodetokenizer "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
)

// textAnalyzer splits folded note text into words. There is no stemming:
// queries match substrings of words, not word forms.
const textAnalyzer = "note_text"

// buildIndexMapping creates the Bleve index mapping for note documents.
func buildIndexMapping() (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()

	err := indexMapping.AddCustomAnalyzer(textAnalyzer, map[string]any{
		"type":          custom.Name,
		"tokenizer":     unicodetokenizer.Name,
		"token_filters": []any{lowercase.Name},
	})
	if err != nil {
		return nil, err
	}
	indexMapping.DefaultAnalyzer = textAnalyzer

	docMapping := bleve.NewDocumentMapping()

	// Identity and ownership are exact-match keywords.
	noteIDMapping := bleve.NewTextFieldMapping()
	noteIDMapping.Analyzer = keyword.Name
	noteIDMapping.Store = true
	docMapping.AddFieldMappingsAt(fieldNoteID, noteIDMapping)

	userIDMapping := bleve.NewTextFieldMapping()
	userIDMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt(fieldUserID, userIDMapping)

	// Text is searched but not stored; results are hydrated from the database.
	textMapping := bleve.NewTextFieldMapping()
	textMapping.Analyzer = textAnalyzer
	textMapping.Store = false
	textMapping.IncludeInAll = false
	docMapping.AddFieldMappingsAt(fieldText, textMapping)

	createdAtMapping := bleve.NewDateTimeFieldMapping()
	createdAtMapping.Store = true
	docMapping.AddFieldMappingsAt(fieldCreatedAt, createdAtMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping, nil
}

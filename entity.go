package pinyintower

import (
	"fmt"
	"time"
)

// Every entity lives in one collection keyed by "id". The key prefix tells
// the kinds apart.
const (
	documentPrefix = "doc:"
	docKeyPrefix   = "key:"
	tokenPrefix    = "tok:"
	tagPrefix      = "tag:"
)

type entity interface {
	key() string
	// clone returns a copy that shares no slices or maps with the receiver.
	clone() entity
}

type Document struct {
	ID         string            `json:"-" docstore:"id"`
	DocID      uint32            `json:"id,omitempty" docstore:"doc_id"`
	UniqueKey  string            `json:"unique_key" docstore:"unique_key"`
	Title      string            `json:"title" docstore:"title"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty" docstore:"updated_at"`
	Tags       []string          `json:"tags,omitempty" docstore:"tags"`
	Content    string            `json:"content" docstore:"content"`
	TokenCount int               `json:"-" docstore:"token_count"`
	Metadata   map[string]string `json:"metadata,omitempty" docstore:"metadata"`
	Score      float64           `json:"score,omitempty" docstore:"-"`
}

func documentID(docID uint32) string {
	return fmt.Sprintf("%s%08x", documentPrefix, docID)
}

func (d *Document) key() string {
	return d.ID
}

func (d *Document) clone() entity {
	result := *d
	if d.Tags != nil {
		result.Tags = append([]string(nil), d.Tags...)
	}
	if d.Metadata != nil {
		result.Metadata = make(map[string]string, len(d.Metadata))
		for key, value := range d.Metadata {
			result.Metadata[key] = value
		}
	}
	return &result
}

type documentKey struct {
	ID    string `docstore:"id"`
	DocID uint32 `docstore:"doc_id"`
}

func newDocumentKey(uniqueKey string) *documentKey {
	return &documentKey{ID: docKeyPrefix + uniqueKey}
}

func (d *documentKey) key() string {
	return d.ID
}

func (d *documentKey) clone() entity {
	result := *d
	return &result
}

// Token is a decoded posting list.
type Token struct {
	Word     string    `json:"word"`
	Found    bool      `json:"found"`
	Postings []Posting `json:"postings"`
}

// DocumentIDs returns the sorted IDs of the documents containing the token.
func (t Token) DocumentIDs() []uint32 {
	result := make([]uint32, len(t.Postings))
	for i, posting := range t.Postings {
		result[i] = posting.DocumentID
	}
	return result
}

type Posting struct {
	DocumentID uint32   `json:"document_id"`
	Positions  []uint32 `json:"positions"`
}

type tokenEntity struct {
	ID       string          `docstore:"id"`
	Word     string          `docstore:"word"`
	Postings []postingEntity `docstore:"postings"`
}

func newTokenEntity(word string) *tokenEntity {
	return &tokenEntity{ID: tokenPrefix + word, Word: word}
}

func (t *tokenEntity) key() string {
	return t.ID
}

func (t *tokenEntity) clone() entity {
	result := *t
	if t.Postings != nil {
		result.Postings = make([]postingEntity, len(t.Postings))
		for i, posting := range t.Postings {
			result.Postings[i] = postingEntity{
				DocumentID: posting.DocumentID,
				Positions:  append([]byte(nil), posting.Positions...),
			}
		}
	}
	return &result
}

type postingEntity struct {
	DocumentID uint32 `docstore:"document_id"`
	Positions  []byte `docstore:"positions"`
}

type Tag struct {
	Tag         string   `json:"tag"`
	Found       bool     `json:"found"`
	DocumentIDs []uint32 `json:"documentIDs"`
}

type tagEntity struct {
	ID          string `docstore:"id"`
	Tag         string `docstore:"tag"`
	DocumentIDs []byte `docstore:"documentIDs"`
}

func newTagEntity(tag string) *tagEntity {
	return &tagEntity{ID: tagPrefix + tag, Tag: tag}
}

func (t *tagEntity) key() string {
	return t.ID
}

func (t *tagEntity) clone() entity {
	result := *t
	if t.DocumentIDs != nil {
		result.DocumentIDs = append([]byte(nil), t.DocumentIDs...)
	}
	return &result
}

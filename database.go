package pinyintower

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/shibukawa/compints"

	"github.com/future-architect/pinyintower/nlp"
)

const retryCount = 50

func retry(label string, f func() error) error {
	var lastError error
	for i := 0; i < retryCount; i++ {
		lastError = f()
		if lastError == nil {
			return nil
		}
		// a missing entity does not appear by retrying
		if errors.Is(lastError, ErrNotFound) {
			break
		}
	}
	return fmt.Errorf("fail to %s: %w", label, lastError)
}

// PostDocument registers document under uniqueKey, replacing the document
// already posted with the same key. It returns the document ID.
func (pt *PinyinTower) PostDocument(uniqueKey string, document *Document) (uint32, error) {
	newTags, newTerms, tokenCount := pt.analyzeDocument(document)
	var docID uint32
	err := retry("register document's unique key", func() (err error) {
		docID, err = pt.postDocumentKey(uniqueKey)
		return
	})
	if err != nil {
		return 0, err
	}
	var oldDoc *Document
	err = retry("register document", func() (err error) {
		oldDoc, err = pt.postDocument(docID, uniqueKey, tokenCount, document)
		return
	})
	if err != nil {
		return 0, err
	}
	oldTags, oldTerms, _ := pt.analyzeDocument(oldDoc)
	if err := pt.updateTagsAndTokens(docID, oldTags, newTags, oldTerms, newTerms); err != nil {
		return 0, err
	}
	pt.logger.Debug("document posted", "key", uniqueKey, "docID", docID, "terms", len(newTerms))
	return docID, nil
}

// PostDocuments posts every document under its UniqueKey. Documents that fail
// do not stop the rest; their errors are returned as a CombinedError.
func (pt *PinyinTower) PostDocuments(documents ...*Document) error {
	errs := &CombinedError{Message: "fail to post documents"}
	for _, document := range documents {
		if document.UniqueKey == "" {
			errs.appendIfError(fmt.Errorf("document %q has no unique key", document.Title))
			continue
		}
		_, err := pt.PostDocument(document.UniqueKey, document)
		errs.appendIfError(err)
	}
	return errs.ErrorOrNil()
}

func (pt *PinyinTower) postDocumentKey(uniqueKey string) (uint32, error) {
	existingDocKey := newDocumentKey(uniqueKey)
	err := pt.storage.Get(existingDocKey)
	if err == nil {
		return existingDocKey.DocID, nil
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	newID, err := pt.storage.NextDocID()
	if err != nil {
		return 0, err
	}
	docKey := newDocumentKey(uniqueKey)
	docKey.DocID = newID
	if err := pt.storage.Create(docKey); err != nil {
		return 0, err
	}
	if err := pt.storage.IncrementDocCount(); err != nil {
		return 0, err
	}
	return newID, nil
}

func (pt *PinyinTower) postDocument(docID uint32, uniqueKey string, tokenCount int, document *Document) (*Document, error) {
	existingDocument := &Document{
		ID: documentID(docID),
	}
	document.ID = documentID(docID)
	document.DocID = docID
	document.UniqueKey = uniqueKey
	document.TokenCount = tokenCount
	err := pt.storage.Get(existingDocument)
	if errors.Is(err, ErrNotFound) {
		return nil, pt.storage.Create(document)
	} else if err != nil {
		return nil, err
	}
	return existingDocument, pt.storage.Replace(document)
}

// RemoveDocument removes the document posted under uniqueKey.
func (pt *PinyinTower) RemoveDocument(uniqueKey string) error {
	docKey, oldDoc, err := pt.findDocumentByKey(uniqueKey)
	if err != nil {
		return err
	}
	if err := pt.storage.Delete(docKey); err != nil {
		return err
	}
	if err := pt.storage.Delete(oldDoc); err != nil {
		return err
	}
	if err := pt.storage.DecrementDocCount(); err != nil {
		return err
	}
	tags, terms, _ := pt.analyzeDocument(oldDoc)
	pt.logger.Debug("document removed", "key", uniqueKey, "docID", docKey.DocID)
	return pt.updateTagsAndTokens(docKey.DocID, tags, nil, terms, nil)
}

// analyzeDocument runs the index analyzer over the title and the content.
func (pt *PinyinTower) analyzeDocument(document *Document) (tags []string, terms map[string]*nlp.Term, tokenCount int) {
	if document == nil {
		return nil, make(map[string]*nlp.Term), 0
	}
	terms, tokenCount = pt.indexAnalyzer.TokenizeToMap(document.Title + "\n" + document.Content)
	return document.Tags, terms, tokenCount
}

func (pt *PinyinTower) updateTagsAndTokens(docID uint32, oldTags, newTags []string, oldTerms, newTerms map[string]*nlp.Term) error {
	addedTags, deletedTags := groupingTags(oldTags, newTags)
	for _, tag := range addedTags {
		if err := pt.AddDocumentToTag(tag, docID); err != nil {
			return err
		}
	}
	for _, tag := range deletedTags {
		if err := pt.RemoveDocumentFromTag(tag, docID); err != nil {
			return err
		}
	}

	addedTerms, deletedTerms, updatedTerms := groupingTerms(oldTerms, newTerms)
	for _, term := range append(addedTerms, updatedTerms...) {
		if err := pt.AddDocumentToToken(term.Word, docID, term.Positions); err != nil {
			return err
		}
	}
	for _, term := range deletedTerms {
		if err := pt.RemoveDocumentFromToken(term.Word, docID); err != nil {
			return err
		}
	}
	return nil
}

func groupingTags(oldGroup, newGroup []string) (newItems, deletedItems []string) {
	oldMap := make(map[string]bool)
	for _, item := range oldGroup {
		oldMap[item] = true
	}
	newMap := make(map[string]bool)
	for _, item := range newGroup {
		if !oldMap[item] && !newMap[item] {
			newItems = append(newItems, item)
		}
		newMap[item] = true
	}
	for item := range oldMap {
		if !newMap[item] {
			deletedItems = append(deletedItems, item)
		}
	}
	sort.Strings(deletedItems)
	return
}

func groupingTerms(oldGroup, newGroup map[string]*nlp.Term) (newItems, deletedItems, updateItems []*nlp.Term) {
	for key, newTerm := range newGroup {
		if oldTerm, ok := oldGroup[key]; ok {
			// skip if completely match
			if !reflect.DeepEqual(newTerm.Positions, oldTerm.Positions) {
				updateItems = append(updateItems, newTerm)
			}
		} else {
			newItems = append(newItems, newTerm)
		}
	}
	for key, oldTerm := range oldGroup {
		if _, ok := newGroup[key]; !ok {
			deletedItems = append(deletedItems, oldTerm)
		}
	}
	return
}

func (pt *PinyinTower) AddDocumentToTag(tag string, docID uint32) error {
	return retry("update tag", func() error {
		return pt.addDocumentToTag(tag, docID)
	})
}

func (pt *PinyinTower) addDocumentToTag(tag string, docID uint32) error {
	existingTag := newTagEntity(tag)
	err := pt.storage.Get(existingTag)
	if errors.Is(err, ErrNotFound) {
		newTag := newTagEntity(tag)
		newTag.DocumentIDs = compints.CompressToBytes([]uint32{docID}, true)
		return pt.storage.Create(newTag)
	} else if err != nil {
		return err
	}
	docIDs, err := compints.DecompressFromBytes(existingTag.DocumentIDs, true)
	if err != nil {
		return fmt.Errorf("fail to decompress document IDs of tag '%s': %w", tag, err)
	}
	docIDs = union(docIDs, []uint32{docID})
	newTag := newTagEntity(tag)
	newTag.DocumentIDs = compints.CompressToBytes(docIDs, true)
	if err := pt.storage.Replace(newTag); err != nil {
		return fmt.Errorf("fail to replace tag: '%s': %w", tag, err)
	}
	return nil
}

func (pt *PinyinTower) RemoveDocumentFromTag(tag string, docID uint32) error {
	return retry("update tag", func() error {
		return pt.removeDocumentFromTag(tag, docID)
	})
}

func (pt *PinyinTower) removeDocumentFromTag(tag string, docID uint32) error {
	existingTag := newTagEntity(tag)
	if err := pt.storage.Get(existingTag); err != nil {
		return err
	}
	existingDocIDs, err := compints.DecompressFromBytes(existingTag.DocumentIDs, true)
	if err != nil {
		return err
	}
	newDocIDs := make([]uint32, 0, len(existingDocIDs))
	for _, existingDocID := range existingDocIDs {
		if existingDocID != docID {
			newDocIDs = append(newDocIDs, existingDocID)
		}
	}
	if len(newDocIDs) == 0 {
		return pt.storage.Delete(existingTag)
	}
	newTag := newTagEntity(tag)
	newTag.DocumentIDs = compints.CompressToBytes(newDocIDs, true)
	return pt.storage.Replace(newTag)
}

// AddDocumentToToken sets the positions of word in the document, replacing
// the posting the document already has.
func (pt *PinyinTower) AddDocumentToToken(word string, docID uint32, positions []uint32) error {
	return retry("update token", func() error {
		return pt.addDocumentToToken(word, docID, positions)
	})
}

func (pt *PinyinTower) addDocumentToToken(word string, docID uint32, positions []uint32) error {
	existingToken := newTokenEntity(word)
	err := pt.storage.Get(existingToken)
	posting := postingEntity{
		DocumentID: docID,
		Positions:  compints.CompressToBytes(positions, true),
	}
	if errors.Is(err, ErrNotFound) {
		newToken := newTokenEntity(word)
		newToken.Postings = []postingEntity{posting}
		return pt.storage.Create(newToken)
	} else if err != nil {
		return err
	}
	newToken := newTokenEntity(word)
	newToken.Postings = make([]postingEntity, 0, len(existingToken.Postings)+1)
	for _, existingPosting := range existingToken.Postings {
		if existingPosting.DocumentID != docID {
			newToken.Postings = append(newToken.Postings, existingPosting)
		}
	}
	newToken.Postings = append(newToken.Postings, posting)
	sort.Slice(newToken.Postings, func(i, j int) bool {
		return newToken.Postings[i].DocumentID < newToken.Postings[j].DocumentID
	})
	if err := pt.storage.Replace(newToken); err != nil {
		return fmt.Errorf("fail to replace token: '%s': %w", word, err)
	}
	return nil
}

func (pt *PinyinTower) RemoveDocumentFromToken(word string, docID uint32) error {
	return retry("update token", func() error {
		return pt.removeDocumentFromToken(word, docID)
	})
}

func (pt *PinyinTower) removeDocumentFromToken(word string, docID uint32) error {
	existingToken := newTokenEntity(word)
	if err := pt.storage.Get(existingToken); err != nil {
		return err
	}
	newToken := newTokenEntity(word)
	for _, existingPosting := range existingToken.Postings {
		if existingPosting.DocumentID != docID {
			newToken.Postings = append(newToken.Postings, existingPosting)
		}
	}
	if len(newToken.Postings) == 0 {
		return pt.storage.Delete(existingToken)
	}
	return pt.storage.Replace(newToken)
}

func (pt *PinyinTower) FindTags(tagNames ...string) ([]*Tag, error) {
	return pt.FindTagsWithContext(pt.storage.Context(), tagNames...)
}

// FindTagsWithContext returns one Tag per name, in order. Missing tags come
// back with Found set to false.
func (pt *PinyinTower) FindTagsWithContext(ctx context.Context, tagNames ...string) ([]*Tag, error) {
	if len(tagNames) == 0 {
		return nil, nil
	}
	entities := make([]entity, len(tagNames))
	existingTags := make([]*tagEntity, len(tagNames))
	for i, tagName := range tagNames {
		existingTags[i] = newTagEntity(tagName)
		entities[i] = existingTags[i]
	}
	missing, err := pt.storage.BatchGet(ctx, entities)
	if err != nil {
		return nil, err
	}
	result := make([]*Tag, len(tagNames))
	for i, existingTag := range existingTags {
		result[i] = &Tag{
			Tag:   tagNames[i],
			Found: !missing[i],
		}
		if missing[i] {
			continue
		}
		docIDs, err := compints.DecompressFromBytes(existingTag.DocumentIDs, true)
		if err != nil {
			return nil, fmt.Errorf("compressed document IDs of tag %s are broken: %w", tagNames[i], err)
		}
		result[i].DocumentIDs = docIDs
	}
	return result, nil
}

func (pt *PinyinTower) FindTokens(words ...string) ([]*Token, error) {
	return pt.FindTokensWithContext(pt.storage.Context(), words...)
}

// FindTokensWithContext returns one Token per word, in order. Missing words
// come back with Found set to false.
func (pt *PinyinTower) FindTokensWithContext(ctx context.Context, words ...string) ([]*Token, error) {
	if len(words) == 0 {
		return nil, nil
	}
	entities := make([]entity, len(words))
	existingTokens := make([]*tokenEntity, len(words))
	for i, word := range words {
		existingTokens[i] = newTokenEntity(word)
		entities[i] = existingTokens[i]
	}
	missing, err := pt.storage.BatchGet(ctx, entities)
	if err != nil {
		return nil, err
	}
	result := make([]*Token, len(words))
	for i, existingToken := range existingTokens {
		token := &Token{
			Word:  words[i],
			Found: !missing[i],
		}
		if !missing[i] {
			for _, posting := range existingToken.Postings {
				positions, err := compints.DecompressFromBytes(posting.Positions, true)
				if err != nil {
					return nil, fmt.Errorf("compressed data is broken of position of doc %d of token %s: %w", posting.DocumentID, words[i], err)
				}
				token.Postings = append(token.Postings, Posting{
					DocumentID: posting.DocumentID,
					Positions:  positions,
				})
			}
		}
		result[i] = token
	}
	return result, nil
}

// FindDocuments returns the documents in ids order. It fails with ErrNotFound
// when one of them does not exist.
func (pt *PinyinTower) FindDocuments(ids ...uint32) ([]*Document, error) {
	return pt.findDocuments(pt.storage.Context(), ids...)
}

func (pt *PinyinTower) findDocuments(ctx context.Context, ids ...uint32) ([]*Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	result := make([]*Document, len(ids))
	entities := make([]entity, len(ids))
	for i, id := range ids {
		result[i] = &Document{
			ID: documentID(id),
		}
		entities[i] = result[i]
	}
	missing, err := pt.storage.BatchGet(ctx, entities)
	if err != nil {
		return nil, err
	}
	for i := range ids {
		if missing[i] {
			return nil, fmt.Errorf("document %d: %w", ids[i], ErrNotFound)
		}
	}
	return result, nil
}

func (pt *PinyinTower) FindDocumentByKey(uniqueKey string) (*Document, error) {
	_, doc, err := pt.findDocumentByKey(uniqueKey)
	return doc, err
}

func (pt *PinyinTower) findDocumentByKey(uniqueKey string) (*documentKey, *Document, error) {
	existingDocKey := newDocumentKey(uniqueKey)
	if err := pt.storage.Get(existingDocKey); err != nil {
		return nil, nil, err
	}
	oldDoc := &Document{
		ID: documentID(existingDocKey.DocID),
	}
	if err := pt.storage.Get(oldDoc); err != nil {
		return nil, nil, err
	}
	return existingDocKey, oldDoc, nil
}

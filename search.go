package pinyintower

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Search returns the documents matching every query position and every tag,
// best score first.
//
// The query is run through the query analyzer. Tokens sharing a position are
// alternatives: a document matches the position when it contains any of them.
func (pt *PinyinTower) Search(searchWord string, tags []string) ([]*Document, error) {
	return pt.SearchWithContext(pt.storage.Context(), searchWord, tags)
}

func (pt *PinyinTower) SearchWithContext(ctx context.Context, searchWord string, tags []string) ([]*Document, error) {
	groups := pt.queryAnalyzer.Positions(searchWord)
	if len(groups) == 0 && len(tags) == 0 {
		return nil, nil
	}

	errGroup, groupCtx := errgroup.WithContext(ctx)

	var tagDocIDGroups [][]uint32
	tagMissing := false
	if len(tags) > 0 {
		errGroup.Go(func() error {
			foundTags, err := pt.FindTagsWithContext(groupCtx, tags...)
			if err != nil {
				return err
			}
			for _, tag := range foundTags {
				if !tag.Found {
					tagMissing = true
				}
				tagDocIDGroups = append(tagDocIDGroups, tag.DocumentIDs)
			}
			return nil
		})
	}

	var words []string
	wordIndex := make(map[string]int)
	for _, group := range groups {
		for _, word := range group {
			if _, ok := wordIndex[word]; !ok {
				wordIndex[word] = len(words)
				words = append(words, word)
			}
		}
	}
	var foundTokens []*Token
	if len(words) > 0 {
		errGroup.Go(func() (err error) {
			foundTokens, err = pt.FindTokensWithContext(groupCtx, words...)
			return
		})
	}

	if err := errGroup.Wait(); err != nil {
		return nil, err
	}
	if tagMissing {
		return nil, nil
	}

	docIDGroups := tagDocIDGroups
	for _, group := range groups {
		var alternatives [][]uint32
		for _, word := range group {
			alternatives = append(alternatives, foundTokens[wordIndex[word]].DocumentIDs())
		}
		docIDGroups = append(docIDGroups, union(alternatives...))
	}
	docIDs := intersection(docIDGroups...)
	if len(docIDs) == 0 {
		return nil, nil
	}

	docs, err := pt.findDocuments(ctx, docIDs...)
	if err != nil {
		return nil, err
	}
	scores := score(foundTokens)
	for _, doc := range docs {
		doc.Score = scores[doc.DocID]
	}
	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Score != docs[j].Score {
			return docs[i].Score > docs[j].Score
		}
		return docs[i].DocID < docs[j].DocID
	})
	pt.logger.Debug("search", "query", searchWord, "tags", tags, "hits", len(docs))
	return docs, nil
}

// score counts the occurrences of the query tokens in each document.
func score(tokens []*Token) map[uint32]float64 {
	result := make(map[uint32]float64)
	for _, token := range tokens {
		for _, posting := range token.Postings {
			result[posting.DocumentID] += float64(len(posting.Positions))
		}
	}
	return result
}

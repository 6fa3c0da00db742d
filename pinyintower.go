// Package pinyintower is a small full text search index whose default
// analyzers make Chinese text findable by its pinyin, by initials and by
// prefixes of both.
package pinyintower

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/future-architect/gocloudurls"
	"gocloud.dev/docstore"

	"github.com/future-architect/pinyintower/nlp"
)

type PinyinTower struct {
	storage       storage
	indexAnalyzer *nlp.Analyzer
	queryAnalyzer *nlp.Analyzer
	logger        *slog.Logger
	close         sync.Once
}

type Option struct {
	// DocumentUrl is a gocloud docstore URL. When it is empty the index is
	// kept in memory and can be persisted with WriteIndex.
	DocumentUrl        string
	LocalFolder        string
	Index              string
	CounterConcurrency int
	// IndexAnalyzer and QueryAnalyzer name registered analyzers.
	IndexAnalyzer string
	QueryAnalyzer string
	Logger        *slog.Logger
}

const envDocumentUrl = "PINYINTOWER_DOCUMENT_URL"

// DefaultCollectionURL returns collection URL. This function is for help message or debugging
func DefaultCollectionURL(opt ...Option) (string, error) {
	option := initOpt(opt...)
	if option.DocumentUrl == "" {
		return "", nil
	}
	return defaultCollectionURL(option)
}

func defaultCollectionURL(opt Option) (string, error) {
	var filename string
	if opt.LocalFolder != "" {
		filename = filepath.Join(opt.LocalFolder, "pinyintower.db")
	}
	return gocloudurls.NormalizeDocStoreURL(opt.DocumentUrl, gocloudurls.Option{
		Collection: opt.Index,
		KeyName:    "id",
		FileName:   filename,
	})
}

func initOpt(opt ...Option) Option {
	var option Option
	if len(opt) > 0 {
		option = opt[0]
	}
	if option.DocumentUrl == "" {
		option.DocumentUrl = os.Getenv(envDocumentUrl)
	}
	if option.Index == "" {
		option.Index = "index"
	}
	if option.CounterConcurrency == 0 {
		option.CounterConcurrency = 5
	}
	if option.IndexAnalyzer == "" {
		option.IndexAnalyzer = IndexAnalyzerName
	}
	if option.QueryAnalyzer == "" {
		option.QueryAnalyzer = QueryAnalyzerName
	}
	if option.Logger == nil {
		option.Logger = slog.Default()
	}
	return option
}

// NewPinyinTower opens the index. The index is closed when ctx is done.
func NewPinyinTower(ctx context.Context, opt ...Option) (*PinyinTower, error) {
	option := initOpt(opt...)
	indexAnalyzer, err := nlp.FindAnalyzer(option.IndexAnalyzer)
	if err != nil {
		return nil, err
	}
	queryAnalyzer, err := nlp.FindAnalyzer(option.QueryAnalyzer)
	if err != nil {
		return nil, err
	}
	result := &PinyinTower{
		indexAnalyzer: indexAnalyzer,
		queryAnalyzer: queryAnalyzer,
		logger:        option.Logger.With("index", option.Index),
	}
	if option.DocumentUrl == "" {
		result.storage = newLocalStorage(ctx)
	} else {
		url, err := defaultCollectionURL(option)
		if err != nil {
			return nil, fmt.Errorf("can't parse document URL: %w", err)
		}
		collection, err := docstore.OpenCollection(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("can't open collection: %w", err)
		}
		result.storage, err = newDocstoreStorage(ctx, collection, option.Index, option.CounterConcurrency)
		if err != nil {
			collection.Close()
			return nil, err
		}
	}
	go func() {
		<-ctx.Done()
		result.Close()
	}()
	return result, nil
}

// Close closes document store connection. Some docstore (at least memdocstore) needs Close() to store file
func (pt *PinyinTower) Close() (err error) {
	pt.close.Do(func() {
		err = pt.storage.Close()
	})
	return
}

// WriteIndex writes an in-memory index to w. It fails for docstore backed indexes.
func (pt *PinyinTower) WriteIndex(w io.Writer) error {
	return pt.storage.WriteIndex(w)
}

// ReadIndex replaces an in-memory index with the content written by WriteIndex.
func (pt *PinyinTower) ReadIndex(r io.Reader) error {
	return pt.storage.ReadIndex(r)
}

func (pt *PinyinTower) DocCount() (int, error) {
	return pt.storage.DocCount()
}

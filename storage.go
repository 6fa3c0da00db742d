package pinyintower

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/shibukawa/cloudcounter"
	"gocloud.dev/docstore"
	"gocloud.dev/gcerrors"
)

const (
	documentIDCounter    cloudcounter.CounterKey = "document_id"
	documentCountCounter cloudcounter.CounterKey = "document_count"
)

func init() {
	gob.Register(&Document{})
	gob.Register(&documentKey{})
	gob.Register(&tokenEntity{})
	gob.Register(&tagEntity{})
}

// storage persists entities by key. Get fills e in place and returns an error
// wrapping ErrNotFound when the key is missing.
type storage interface {
	Context() context.Context
	NextDocID() (uint32, error)
	IncrementDocCount() error
	DecrementDocCount() error
	DocCount() (int, error)
	Get(e entity) error
	// BatchGet returns the indexes of the entities that could not be read.
	BatchGet(ctx context.Context, entities []entity) (map[int]bool, error)
	Create(e entity) error
	Replace(e entity) error
	Delete(e entity) error
	Close() error
	WriteIndex(w io.Writer) error
	ReadIndex(r io.Reader) error
}

var (
	_ storage = &docstoreStorage{}
	_ storage = &localStorage{}
)

type docstoreStorage struct {
	ctx        context.Context
	collection *docstore.Collection
	counter    *cloudcounter.Counter
}

func newDocstoreStorage(ctx context.Context, collection *docstore.Collection, index string, concurrency int) (*docstoreStorage, error) {
	result := &docstoreStorage{
		ctx:        ctx,
		collection: collection,
	}
	result.counter = cloudcounter.NewCounter(collection, cloudcounter.Option{
		Concurrency: concurrency,
		Prefix:      index + "c",
	})
	if err := result.counter.Register(ctx, documentIDCounter); err != nil {
		return nil, err
	}
	if err := result.counter.Register(ctx, documentCountCounter); err != nil {
		return nil, err
	}
	return result, nil
}

// convertError maps docstore error codes to the package's sentinel errors.
func convertError(key string, err error) error {
	switch gcerrors.Code(err) {
	case gcerrors.OK:
		return nil
	case gcerrors.NotFound:
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	case gcerrors.AlreadyExists:
		return fmt.Errorf("%s: %w", key, ErrAlreadyExists)
	}
	return err
}

func (d *docstoreStorage) Context() context.Context {
	return d.ctx
}

func (d *docstoreStorage) NextDocID() (uint32, error) {
	id, err := d.counter.Increment(d.ctx, documentIDCounter)
	return uint32(id), err
}

func (d *docstoreStorage) IncrementDocCount() error {
	_, err := d.counter.Increment(d.ctx, documentCountCounter)
	return err
}

func (d *docstoreStorage) DecrementDocCount() error {
	return d.counter.Decrement(d.ctx, documentCountCounter)
}

func (d *docstoreStorage) DocCount() (int, error) {
	return d.counter.Get(d.ctx, documentCountCounter)
}

func (d *docstoreStorage) Get(e entity) error {
	return convertError(e.key(), d.collection.Get(d.ctx, e))
}

func (d *docstoreStorage) BatchGet(ctx context.Context, entities []entity) (map[int]bool, error) {
	if len(entities) == 0 {
		return nil, nil
	}
	actions := d.collection.Actions()
	for _, e := range entities {
		actions = actions.Get(e)
	}
	err := actions.Do(ctx)
	var listErr docstore.ActionListError
	if errors.As(err, &listErr) {
		missing := make(map[int]bool)
		for _, actionErr := range listErr {
			if gcerrors.Code(actionErr.Err) != gcerrors.NotFound {
				return nil, actionErr.Err
			}
			missing[actionErr.Index] = true
		}
		return missing, nil
	}
	return nil, err
}

func (d *docstoreStorage) Create(e entity) error {
	return convertError(e.key(), d.collection.Create(d.ctx, e))
}

func (d *docstoreStorage) Replace(e entity) error {
	return convertError(e.key(), d.collection.Replace(d.ctx, e))
}

func (d *docstoreStorage) Delete(e entity) error {
	return convertError(e.key(), d.collection.Delete(d.ctx, e))
}

func (d *docstoreStorage) Close() error {
	return d.collection.Close()
}

func (d *docstoreStorage) WriteIndex(w io.Writer) error {
	return fmt.Errorf("write index of docstore: %w", ErrNotSupported)
}

func (d *docstoreStorage) ReadIndex(r io.Reader) error {
	return fmt.Errorf("read index into docstore: %w", ErrNotSupported)
}

// localStorage keeps every entity in memory. Entities are deep copied on the
// way in and on the way out, so callers can keep modifying what they passed in
// or got back.
type localStorage struct {
	ctx           context.Context
	LastDocID     uint32
	DocumentCount int
	Docs          map[string]interface{}
	lock          *sync.RWMutex
}

func newLocalStorage(ctx context.Context) *localStorage {
	return &localStorage{
		ctx:  ctx,
		Docs: make(map[string]interface{}),
		lock: &sync.RWMutex{},
	}
}

func (l *localStorage) Context() context.Context {
	return l.ctx
}

func (l *localStorage) NextDocID() (uint32, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.LastDocID++
	return l.LastDocID, nil
}

func (l *localStorage) IncrementDocCount() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.DocumentCount++
	return nil
}

func (l *localStorage) DecrementDocCount() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.DocumentCount--
	return nil
}

func (l *localStorage) DocCount() (int, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.DocumentCount, nil
}

// get is Get without locking.
func (l *localStorage) get(e entity) error {
	stored, ok := l.Docs[e.key()]
	if !ok {
		return fmt.Errorf("%s: %w", e.key(), ErrNotFound)
	}
	storedEntity, ok := stored.(entity)
	target := reflect.ValueOf(e)
	if !ok || reflect.TypeOf(stored) != target.Type() {
		return fmt.Errorf("%s is stored as %T: %w", e.key(), stored, ErrNotFound)
	}
	target.Elem().Set(reflect.ValueOf(storedEntity.clone()).Elem())
	return nil
}

func (l *localStorage) Get(e entity) error {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.get(e)
}

func (l *localStorage) BatchGet(ctx context.Context, entities []entity) (map[int]bool, error) {
	l.lock.RLock()
	defer l.lock.RUnlock()
	var missing map[int]bool
	for i, e := range entities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if l.get(e) != nil {
			if missing == nil {
				missing = make(map[int]bool)
			}
			missing[i] = true
		}
	}
	return missing, nil
}

func (l *localStorage) Create(e entity) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if _, ok := l.Docs[e.key()]; ok {
		return fmt.Errorf("%s: %w", e.key(), ErrAlreadyExists)
	}
	l.Docs[e.key()] = e.clone()
	return nil
}

func (l *localStorage) Replace(e entity) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	if _, ok := l.Docs[e.key()]; !ok {
		return fmt.Errorf("%s: %w", e.key(), ErrNotFound)
	}
	l.Docs[e.key()] = e.clone()
	return nil
}

func (l *localStorage) Delete(e entity) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	delete(l.Docs, e.key())
	return nil
}

func (l *localStorage) Close() error {
	return nil
}

// WriteIndex writes content into io.Writer
func (l *localStorage) WriteIndex(w io.Writer) error {
	l.lock.RLock()
	defer l.lock.RUnlock()
	cp := &localStorage{
		LastDocID:     l.LastDocID,
		DocumentCount: l.DocumentCount,
		Docs:          l.Docs,
	}
	return gob.NewEncoder(w).Encode(cp)
}

// ReadIndex loads index from io.Reader
func (l *localStorage) ReadIndex(r io.Reader) error {
	cp := &localStorage{}
	if err := gob.NewDecoder(r).Decode(cp); err != nil {
		return fmt.Errorf("can't decode index: %w", err)
	}
	if cp.Docs == nil {
		cp.Docs = make(map[string]interface{})
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	l.LastDocID = cp.LastDocID
	l.DocumentCount = cp.DocumentCount
	l.Docs = cp.Docs
	return nil
}

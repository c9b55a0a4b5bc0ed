package orm

import (
	"reflect"
	"regexp"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	vault.Persistent
	Validate() error
}

// ModelBucket is implemented by buckets that operates on Models.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db vault.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key exists.
	// ErrNotFound is returned otherwise.
	Has(db vault.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Before inserting into the
	// database, model is validated using its Validate method.
	Put(db vault.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db vault.KVStore, key []byte) error

	// PrefixScan returns an iterator over all entities with the primary
	// key starting with given prefix. Use nil prefix to iterate over all
	// entities of this bucket.
	PrefixScan(db vault.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error)
}

// ModelIterator allows to read models from the database one by one.
type ModelIterator interface {
	// LoadNext loads the next model into given destination and returns
	// its primary key. errors.ErrIteratorDone is returned when there are
	// no more models.
	LoadNext(dest Model) ([]byte, error)

	// Release releases the underlying store iterator.
	Release()
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// NewModelBucket returns a ModelBucket instance. The bucket keeps all
// entities under the "<name>:" key prefix. Given model is used to
// validate the destination type of all loads.
func NewModelBucket(name string, m Model) ModelBucket {
	if !isBucketName(name) {
		panic("invalid bucket name: " + name)
	}
	tp := reflect.TypeOf(m)
	if tp.Kind() != reflect.Ptr {
		panic("model must be a pointer: " + tp.String())
	}
	return &modelBucket{
		prefix: []byte(name + ":"),
		model:  tp,
	}
}

type modelBucket struct {
	prefix []byte
	model  reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

func (mb *modelBucket) dbKey(key []byte) []byte {
	return append(append([]byte{}, mb.prefix...), key...)
}

func (mb *modelBucket) checkDest(dest Model) error {
	if reflect.TypeOf(dest) != mb.model {
		return errors.Wrapf(errors.ErrType, "%s cannot be represented as %T", mb.model, dest)
	}
	return nil
}

func (mb *modelBucket) One(db vault.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := mb.checkDest(dest); err != nil {
		return err
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot get from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := load(raw, dest); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %T", dest)
	}
	return nil
}

// load resets the destination before decoding, so that no state of a
// previously loaded model leaks into the result.
func load(raw []byte, dest Model) error {
	v := reflect.ValueOf(dest).Elem()
	v.Set(reflect.Zero(v.Type()))
	return dest.Unmarshal(raw)
}

func (mb *modelBucket) Has(db vault.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", mb.model)
	}
	return nil
}

func (mb *modelBucket) Put(db vault.KVStore, key []byte, m Model) error {
	if err := mb.checkDest(m); err != nil {
		return err
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize model")
	}
	if raw == nil {
		// A zero value model must still be distinguishable from a
		// missing one.
		raw = []byte{}
	}
	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db vault.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

func (mb *modelBucket) PrefixScan(db vault.ReadOnlyKVStore, prefix []byte, reverse bool) (ModelIterator, error) {
	start := mb.dbKey(prefix)
	end := store.PrefixEnd(start)

	var (
		it  vault.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	return &modelIterator{bucket: mb, it: it}, nil
}

type modelIterator struct {
	bucket *modelBucket
	it     vault.Iterator
}

func (m *modelIterator) LoadNext(dest Model) ([]byte, error) {
	if err := m.bucket.checkDest(dest); err != nil {
		return nil, err
	}
	key, value, err := m.it.Next()
	if err != nil {
		return nil, err
	}
	if err := load(value, dest); err != nil {
		return nil, errors.Wrapf(err, "cannot unmarshal %T", dest)
	}
	return key[len(m.bucket.prefix):], nil
}

func (m *modelIterator) Release() {
	m.it.Release()
}

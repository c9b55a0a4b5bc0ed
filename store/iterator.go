package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/vault/errors"
)

// cached is a snapshot of a single btree entry. Deleted entries hide the
// value of the parent store.
type cached struct {
	key     []byte
	value   []byte
	deleted bool
}

// collectBtree returns an ascending snapshot of all btree entries in the
// [start, end) range. A nil bound is open.
func collectBtree(bt *btree.BTree, start, end []byte) []cached {
	var res []cached
	insert := func(item btree.Item) bool {
		switch t := item.(type) {
		case setItem:
			res = append(res, cached{key: t.key, value: t.value})
		case deletedItem:
			res = append(res, cached{key: t.key, deleted: true})
		}
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(bkey{end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, insert)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, insert)
	}
	return res
}

// mergedIterator combines the cached entries with the parent iterator,
// taking into consideration overwrites and deletes.
type mergedIterator struct {
	items     []cached
	pos       int
	ascending bool

	parent     Iterator
	parentKey  []byte
	parentVal  []byte
	parentRead bool
	parentDone bool
}

var _ Iterator = (*mergedIterator)(nil)

func newMergedIterator(items []cached, parent Iterator, ascending bool) *mergedIterator {
	return &mergedIterator{
		items:     items,
		ascending: ascending,
		parent:    parent,
	}
}

func (m *mergedIterator) Next() (key, value []byte, err error) {
	for {
		if err := m.peekParent(); err != nil {
			return nil, nil, err
		}

		if m.pos >= len(m.items) {
			if m.parentDone {
				return nil, nil, errors.ErrIteratorDone
			}
			m.parentRead = false
			return m.parentKey, m.parentVal, nil
		}

		item := m.items[m.pos]
		if !m.parentDone {
			cmp := bytes.Compare(item.key, m.parentKey)
			if !m.ascending {
				cmp = -cmp
			}
			if cmp > 0 {
				m.parentRead = false
				return m.parentKey, m.parentVal, nil
			}
			if cmp == 0 {
				// Cached value overwrites the parent one.
				m.parentRead = false
			}
		}

		m.pos++
		if item.deleted {
			continue
		}
		return item.key, item.value, nil
	}
}

// peekParent ensures the next parent entry is loaded, unless the parent is
// exhausted.
func (m *mergedIterator) peekParent() error {
	if m.parentRead || m.parentDone {
		return nil
	}
	key, value, err := m.parent.Next()
	switch {
	case err == nil:
		m.parentKey, m.parentVal = key, value
		m.parentRead = true
	case errors.ErrIteratorDone.Is(err):
		m.parentDone = true
	default:
		return err
	}
	return nil
}

func (m *mergedIterator) Release() {
	m.parent.Release()
	m.items = nil
}

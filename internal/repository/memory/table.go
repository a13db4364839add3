package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/property-api/internal/repository"
)

type record interface {
	Key() uuid.UUID
	Created() time.Time
}

type recordPtr[T any] interface {
	*T
	record
}

type scopedPtr[T any] interface {
	*T
	record
	Org() uuid.UUID
}

// table stores copies of T keyed by id. Callers never share memory with
// stored rows: every read and write goes through clone. Writes outside a
// transaction wait for the running one to finish.
type table[T any, PT recordPtr[T]] struct {
	c     *cache.Cache
	clone func(*T) *T
	tx    *transactor
}

// newTable registers the table with tx so transactions can roll it back.
func newTable[T any, PT recordPtr[T]](tx *transactor, clone func(*T) *T) *table[T, PT] {
	if clone == nil {
		clone = func(v *T) *T {
			cp := *v
			return &cp
		}
	}
	t := &table[T, PT]{c: cache.New(cache.NoExpiration, 0), clone: clone, tx: tx}
	tx.tables = append(tx.tables, t)
	return t
}

func (t *table[T, PT]) put(ctx context.Context, v *T) {
	t.tx.write(ctx, func() {
		t.c.Set(PT(v).Key().String(), t.clone(v), cache.NoExpiration)
	})
}

func (t *table[T, PT]) exists(id uuid.UUID) bool {
	_, ok := t.c.Get(id.String())
	return ok
}

func (t *table[T, PT]) get(id uuid.UUID) (*T, bool) {
	v, ok := t.c.Get(id.String())
	if !ok {
		return nil, false
	}
	return t.clone(v.(*T)), true
}

func (t *table[T, PT]) remove(ctx context.Context, id uuid.UUID) bool {
	if !t.exists(id) {
		return false
	}
	t.tx.write(ctx, func() { t.c.Delete(id.String()) })
	return true
}

// scan returns copies of every row matching keep, oldest first.
func (t *table[T, PT]) scan(keep func(*T) bool) []*T {
	out := []*T{}
	for _, item := range t.c.Items() {
		v := item.Object.(*T)
		if keep == nil || keep(v) {
			out = append(out, t.clone(v))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ci, cj := PT(out[i]).Created(), PT(out[j]).Created()
		if ci.Equal(cj) {
			return PT(out[i]).Key().String() < PT(out[j]).Key().String()
		}
		return ci.Before(cj)
	})
	return out
}

func (t *table[T, PT]) first(keep func(*T) bool) (*T, bool) {
	rows := t.scan(keep)
	if len(rows) == 0 {
		return nil, false
	}
	return rows[0], true
}

// snapshot captures the table and returns a function restoring it.
func (t *table[T, PT]) snapshot() func() {
	items := t.c.Items()
	return func() {
		t.c.Flush()
		for k, item := range items {
			t.c.Set(k, item.Object, cache.NoExpiration)
		}
	}
}

func idSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// orgTable adds organization scoping on top of table.
type orgTable[T any, PT scopedPtr[T]] struct {
	*table[T, PT]
}

func newOrgTable[T any, PT scopedPtr[T]](tx *transactor, clone func(*T) *T) orgTable[T, PT] {
	return orgTable[T, PT]{newTable[T, PT](tx, clone)}
}

func (t orgTable[T, PT]) getIn(orgID, id uuid.UUID) (*T, error) {
	v, ok := t.get(id)
	if !ok || PT(v).Org() != orgID {
		return nil, repository.ErrNotFound
	}
	return v, nil
}

func (t orgTable[T, PT]) updateIn(ctx context.Context, v *T) error {
	if _, err := t.getIn(PT(v).Org(), PT(v).Key()); err != nil {
		return err
	}
	t.put(ctx, v)
	return nil
}

func (t orgTable[T, PT]) deleteIn(ctx context.Context, orgID, id uuid.UUID) error {
	if _, err := t.getIn(orgID, id); err != nil {
		return err
	}
	t.remove(ctx, id)
	return nil
}

// inOrg scans one organization's rows.
func (t orgTable[T, PT]) inOrg(orgID uuid.UUID, keep func(*T) bool) []*T {
	return t.scan(func(v *T) bool {
		return PT(v).Org() == orgID && (keep == nil || keep(v))
	})
}

func (t orgTable[T, PT]) many(orgID uuid.UUID, ids []uuid.UUID) []*T {
	if len(ids) == 0 {
		return []*T{}
	}
	set := idSet(ids)
	return t.inOrg(orgID, func(v *T) bool {
		_, ok := set[PT(v).Key()]
		return ok
	})
}

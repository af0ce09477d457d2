package handler

import (
	"context"
	"sort"
	"sync"

	"github.com/rtnut/showcase-cms/internal/model"
	"github.com/rtnut/showcase-cms/internal/repository"
	"github.com/rtnut/showcase-cms/internal/service"
)

// table is an in-memory stand-in for one MySQL table keyed by id.
type table[T any] struct {
	mu   sync.Mutex
	rows map[uint64]T
	next uint64
	key  func(*T) *uint64
	less func(a, b T) bool

	writeErr error // returned by create and update when set
}

func newTable[T any](key func(*T) *uint64, less func(a, b T) bool) *table[T] {
	return &table[T]{rows: map[uint64]T{}, key: key, less: less}
}

func (t *table[T]) list() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0, len(t.rows))
	for _, r := range t.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return t.less(out[i], out[j]) })
	return out
}

func (t *table[T]) get(id uint64) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return r, nil
}

func (t *table[T]) create(r *T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writeErr != nil {
		return t.writeErr
	}
	t.next++
	*t.key(r) = t.next
	t.rows[t.next] = *r
	return nil
}

func (t *table[T]) update(r T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.writeErr != nil {
		return t.writeErr
	}
	id := *t.key(&r)
	if _, ok := t.rows[id]; !ok {
		return repository.ErrNotFound
	}
	t.rows[id] = r
	return nil
}

func (t *table[T]) delete(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, id)
}

func (t *table[T]) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

type fakeBanners struct{ *table[model.Banner] }

func newFakeBanners() *fakeBanners {
	return &fakeBanners{newTable(
		func(b *model.Banner) *uint64 { return &b.ID },
		func(a, b model.Banner) bool { return a.Sort < b.Sort || (a.Sort == b.Sort && a.ID < b.ID) },
	)}
}

func (f *fakeBanners) List(context.Context) ([]model.Banner, error) { return f.list(), nil }
func (f *fakeBanners) Get(_ context.Context, id uint64) (model.Banner, error) { return f.get(id) }
func (f *fakeBanners) Create(_ context.Context, b *model.Banner) error { return f.create(b) }
func (f *fakeBanners) Update(_ context.Context, b model.Banner) error { return f.update(b) }
func (f *fakeBanners) Delete(_ context.Context, id uint64) error { f.delete(id); return nil }
func (f *fakeBanners) Count(context.Context) (int, error) { return f.count(), nil }

type fakeProducts struct{ *table[model.Product] }

func newFakeProducts() *fakeProducts {
	return &fakeProducts{newTable(
		func(p *model.Product) *uint64 { return &p.ID },
		func(a, b model.Product) bool { return a.Sort < b.Sort || (a.Sort == b.Sort && a.ID < b.ID) },
	)}
}

func (f *fakeProducts) List(context.Context) ([]model.Product, error) { return f.list(), nil }
func (f *fakeProducts) Get(_ context.Context, id uint64) (model.Product, error) { return f.get(id) }
func (f *fakeProducts) Create(_ context.Context, p *model.Product) error { return f.create(p) }
func (f *fakeProducts) Update(_ context.Context, p model.Product) error { return f.update(p) }
func (f *fakeProducts) Delete(_ context.Context, id uint64) error { f.delete(id); return nil }
func (f *fakeProducts) Count(context.Context) (int, error) { return f.count(), nil }

func (f *fakeProducts) ListRelated(_ context.Context, exclude uint64, limit int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.list() {
		if p.ID != exclude && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeFactory struct{ *table[model.FactoryAsset] }

func newFakeFactory() *fakeFactory {
	return &fakeFactory{newTable(
		func(a *model.FactoryAsset) *uint64 { return &a.ID },
		func(a, b model.FactoryAsset) bool { return a.Sort < b.Sort || (a.Sort == b.Sort && a.ID < b.ID) },
	)}
}

func (f *fakeFactory) List(context.Context) ([]model.FactoryAsset, error) { return f.list(), nil }
func (f *fakeFactory) Get(_ context.Context, id uint64) (model.FactoryAsset, error) { return f.get(id) }
func (f *fakeFactory) Create(_ context.Context, a *model.FactoryAsset) error { return f.create(a) }
func (f *fakeFactory) Update(_ context.Context, a model.FactoryAsset) error { return f.update(a) }
func (f *fakeFactory) Delete(_ context.Context, id uint64) error { f.delete(id); return nil }
func (f *fakeFactory) Count(context.Context) (int, error) { return f.count(), nil }

func (f *fakeFactory) ListByType(_ context.Context, kind model.AssetKind, limit int) ([]model.FactoryAsset, error) {
	var out []model.FactoryAsset
	for _, a := range f.list() {
		if a.Type == kind && (limit <= 0 || len(out) < limit) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeMessages struct{ *table[model.Message] }

func newFakeMessages() *fakeMessages {
	return &fakeMessages{newTable(
		func(m *model.Message) *uint64 { return &m.ID },
		func(a, b model.Message) bool { return a.ID > b.ID },
	)}
}

func (f *fakeMessages) Create(_ context.Context, m *model.Message) error { return f.create(m) }
func (f *fakeMessages) List(context.Context) ([]model.Message, error) { return f.list(), nil }
func (f *fakeMessages) Count(context.Context) (int, error) { return f.count(), nil }

func (f *fakeMessages) Recent(_ context.Context, limit int) ([]model.Message, error) {
	all := f.list()
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeMessages) MarkRead(_ context.Context, id uint64) error {
	m, err := f.get(id)
	if err != nil {
		return nil
	}
	m.IsRead = true
	return f.update(m)
}

func (f *fakeMessages) CountUnread(context.Context) (int, error) {
	n := 0
	for _, m := range f.list() {
		if !m.IsRead {
			n++
		}
	}
	return n, nil
}

type fakeSettings struct {
	color  string
	footer model.FooterInfo
}

func newFakeSettings() *fakeSettings {
	return &fakeSettings{color: model.DefaultThemeColor, footer: model.DefaultFooter()}
}

func (f *fakeSettings) ThemeColor(context.Context) (string, error) { return f.color, nil }
func (f *fakeSettings) SetThemeColor(_ context.Context, c string) error { f.color = c; return nil }
func (f *fakeSettings) Footer(context.Context) (model.FooterInfo, error) { return f.footer, nil }
func (f *fakeSettings) SetFooter(_ context.Context, v model.FooterInfo) error { f.footer = v; return nil }

type fakeAuth struct {
	username, password string
}

func (f fakeAuth) Verify(_ context.Context, username, password string) (model.Admin, error) {
	if username != f.username || password != f.password {
		return model.Admin{}, service.ErrInvalidCredentials
	}
	return model.Admin{ID: 1, Username: username}, nil
}

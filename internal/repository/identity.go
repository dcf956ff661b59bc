package repository

// identityMap holds the single live instance per primary key for one
// entity type. It is owned by a session and is not safe for concurrent use.
type identityMap[T any] struct {
	items map[int64]*T
}

func newIdentityMap[T any]() *identityMap[T] {
	return &identityMap[T]{items: make(map[int64]*T)}
}

func (m *identityMap[T]) get(id int64) (*T, bool) {
	v, ok := m.items[id]
	return v, ok
}

func (m *identityMap[T]) put(id int64, v *T) {
	m.items[id] = v
}

func (m *identityMap[T]) evict(id int64) {
	delete(m.items, id)
}

func (m *identityMap[T]) len() int {
	return len(m.items)
}

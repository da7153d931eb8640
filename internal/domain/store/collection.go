package store

import "strconv"

// collection mantiene un índice por clave y el orden de inserción para iterar/mostrar.
type collection[T any] struct {
	order []string
	items map[string]T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

// fromSlice indexa items conservando el orden. Claves vacías o repetidas reciben
// una clave posicional para no perder filas (p. ej. datos traídos del remoto).
func fromSlice[T any](items []T, key func(T) string) *collection[T] {
	c := &collection[T]{order: make([]string, 0, len(items)), items: make(map[string]T, len(items))}
	for i, it := range items {
		k := key(it)
		if _, dup := c.items[k]; k == "" || dup {
			k = "\x00" + strconv.Itoa(i)
		}
		c.order = append(c.order, k)
		c.items[k] = it
	}
	return c
}

func (c *collection[T]) clone() *collection[T] {
	out := &collection[T]{order: make([]string, len(c.order)), items: make(map[string]T, len(c.items))}
	copy(out.order, c.order)
	for k, v := range c.items {
		out.items[k] = v
	}
	return out
}

func (c *collection[T]) get(key string) (T, bool) {
	v, ok := c.items[key]
	return v, ok
}

func (c *collection[T]) put(key string, v T) {
	if _, ok := c.items[key]; !ok {
		c.order = append(c.order, key)
	}
	c.items[key] = v
}

// removeWhere elimina todos los elementos que cumplen pred y devuelve cuántos fueron.
func (c *collection[T]) removeWhere(pred func(T) bool) int {
	kept := c.order[:0]
	removed := 0
	for _, k := range c.order {
		if pred(c.items[k]) {
			delete(c.items, k)
			removed++
			continue
		}
		kept = append(kept, k)
	}
	c.order = kept
	return removed
}

// list devuelve una copia en orden de inserción (nunca nil).
func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.items[k])
	}
	return out
}

func (c *collection[T]) len() int { return len(c.order) }

// Package categories resolves the category references stored on transactions.
//
// Transactions point at categories by key, not by ownership, so a reference
// can outlive the category it names. Lookup reports that case explicitly and
// callers degrade to the Other bucket instead of failing.
package categories

import (
	"fmt"

	"cashflow/internal/core"
)

// FallbackIcon is shown for references that no longer resolve.
const FallbackIcon = "MoreHorizontal"

type Registry struct {
	list  []core.Category
	byKey map[string]int
}

// NewRegistry indexes cats by ID and, failing that, by display name.
func NewRegistry(cats []core.Category) *Registry {
	r := &Registry{
		list:  append([]core.Category(nil), cats...),
		byKey: make(map[string]int, len(cats)*2),
	}
	for i, c := range r.list {
		if _, taken := r.byKey[c.ID]; !taken {
			r.byKey[c.ID] = i
		}
	}
	for i, c := range r.list {
		if _, taken := r.byKey[c.Name]; !taken {
			r.byKey[c.Name] = i
		}
	}
	return r
}

// Lookup resolves a category reference.
func (r *Registry) Lookup(ref string) (core.Category, bool) {
	if r == nil {
		return core.Category{}, false
	}
	i, ok := r.byKey[ref]
	if !ok {
		return core.Category{}, false
	}
	return r.list[i], true
}

func (r *Registry) Icon(ref string) string {
	if c, ok := r.Lookup(ref); ok && c.Icon != "" {
		return c.Icon
	}
	return FallbackIcon
}

// Name returns the display name for ref, or ref itself when unresolved.
func (r *Registry) Name(ref string) string {
	if c, ok := r.Lookup(ref); ok {
		return c.Name
	}
	return ref
}

// All returns the categories in registration order.
func (r *Registry) All() []core.Category {
	if r == nil {
		return nil
	}
	return append([]core.Category(nil), r.list...)
}

// Supports reports whether the category declares transaction type t.
func Supports(c core.Category, t core.TransactionType) bool {
	for _, ct := range c.Types {
		if ct == t {
			return true
		}
	}
	return false
}

// Save inserts c or replaces the category with the same ID. A replaced
// category keeps its stored IsCustom flag; inserted ones are custom.
func Save(cats []core.Category, c core.Category) []core.Category {
	out := append([]core.Category(nil), cats...)
	for i := range out {
		if out[i].ID == c.ID {
			c.IsCustom = out[i].IsCustom
			out[i] = c
			return out
		}
	}
	c.IsCustom = true
	return append(out, c)
}

// Delete removes the custom category with the given ID. Built-in categories
// are rejected with core.ErrBuiltinCategory.
func Delete(cats []core.Category, id string) ([]core.Category, error) {
	for i, c := range cats {
		if c.ID != id {
			continue
		}
		if !c.IsCustom {
			return cats, fmt.Errorf("delete category %q: %w", id, core.ErrBuiltinCategory)
		}
		out := make([]core.Category, 0, len(cats)-1)
		out = append(out, cats[:i]...)
		return append(out, cats[i+1:]...), nil
	}
	return cats, fmt.Errorf("delete category %q: %w", id, core.ErrNotFound)
}

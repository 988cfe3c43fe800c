package location

// Directory exposes neighborhood lookups by postal code.
type Directory interface {
	List() []Neighborhood
	FindByZip(zip string) (Neighborhood, bool)
}

// MemoryDirectory implements Directory with an in-memory slice.
type MemoryDirectory struct {
	items []Neighborhood
}

// NewMemoryDirectory returns a MemoryDirectory preloaded with the supplied entries.
func NewMemoryDirectory(items []Neighborhood) *MemoryDirectory {
	return &MemoryDirectory{items: append([]Neighborhood(nil), items...)}
}

// List returns every known entry.
func (d *MemoryDirectory) List() []Neighborhood {
	return append([]Neighborhood(nil), d.items...)
}

// FindByZip looks up an entry by exact postal code.
func (d *MemoryDirectory) FindByZip(zip string) (Neighborhood, bool) {
	for _, item := range d.items {
		if item.ZipCode == zip {
			return item, true
		}
	}
	return Neighborhood{}, false
}

package registry

// RootFolder is the folder tag of entities defined directly under the entity root.
const RootFolder = "(root)"

// Location is one place an entity name is defined.
type Location struct {
	// Folder is the first path segment under the entity root, or RootFolder.
	Folder string
	// Path is the file path as found by the walk (joined onto the root).
	Path string
	// RelPath is Path relative to the entity root, slash-separated.
	RelPath string
}

// Registry holds the entity definitions found during one walk.
type Registry struct {
	entries map[string][]Location
	order   []string

	// MultiDefinitionFiles lists, once each, the relative paths of files
	// declaring more than one entity.
	MultiDefinitionFiles []string
	// Extensions maps an entity name to the names it extends, in declaration
	// order. Entities without an extends list map to an empty slice.
	Extensions map[string][]string
	// Files is the number of entity files that were read successfully.
	Files int
}

// New creates and initializes an empty Registry.
func New() *Registry {
	return &Registry{
		entries:    make(map[string][]Location),
		Extensions: make(map[string][]string),
	}
}

// Add records a definition of name at loc.
func (r *Registry) Add(name string, loc Location) {
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = append(r.entries[name], loc)
}

// Resolve returns the location the name resolves to: the last definition in
// walk order.
func (r *Registry) Resolve(name string) (Location, bool) {
	locs := r.entries[name]
	if len(locs) == 0 {
		return Location{}, false
	}
	return locs[len(locs)-1], true
}

// Locations returns every definition of name in walk order.
func (r *Registry) Locations(name string) []Location {
	return r.entries[name]
}

// Names returns all entity names in first-seen order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of distinct entity names.
func (r *Registry) Len() int {
	return len(r.order)
}

// Shadowed returns, in first-seen order, the names defined in more than one
// file. Only the last of those files is used by Resolve.
func (r *Registry) Shadowed() []string {
	var names []string
	for _, name := range r.order {
		seen := make(map[string]struct{})
		for _, loc := range r.entries[name] {
			seen[loc.Path] = struct{}{}
		}
		if len(seen) > 1 {
			names = append(names, name)
		}
	}
	return names
}

// ExtendsOf returns the names the entity extends, or nil when unknown.
func (r *Registry) ExtendsOf(name string) []string {
	return r.Extensions[name]
}

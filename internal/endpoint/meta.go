package endpoint

// Meta carries the human-readable identity of an endpoint.
// It is embedded by every endpoint kind.
type Meta struct {
	name        string
	description string
}

// Name returns the endpoint's human-readable name (may be empty).
func (m *Meta) Name() string { return m.name }

// Description returns the endpoint's description (may be empty).
func (m *Meta) Description() string { return m.description }

func newMeta(name, description string) Meta {
	return Meta{name: name, description: description}
}

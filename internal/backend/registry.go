package backend

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"

	"github.com/sharkusmanch/pc/internal/domain"
)

// Descriptor is the static description of one backend kind.
type Descriptor struct {
	Name   string
	Doc    string
	Schema []FieldSpec
	New    func() Backend
}

// configurable is what every registered backend provides beyond Backend.
type configurable interface {
	Backend
	bind(o *overrides)
	validate() error
}

func describe[P configurable](newFn func() P) Descriptor {
	proto := newFn()
	return Descriptor{
		Name:   proto.Kind(),
		Doc:    proto.Describe(),
		Schema: schemaOf(proto.bind),
		New:    func() Backend { return newFn() },
	}
}

// Registry is an immutable table of backend descriptors.
type Registry struct {
	byName map[string]Descriptor
	names  []string
}

// NewRegistry builds a registry from descs. It panics on duplicate names.
func NewRegistry(descs ...Descriptor) *Registry {
	r := &Registry{byName: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		if _, dup := r.byName[d.Name]; dup {
			panic("backend: duplicate registration of " + d.Name)
		}
		r.byName[d.Name] = d
		r.names = append(r.names, d.Name)
	}
	sort.Strings(r.names)
	return r
}

// Default holds every backend compiled into pc.
var Default = NewRegistry(
	describe(newDpaste),
	describe(newDpasteCom),
	describe(newFiche),
	describe(newGeneric),
	describe(newHaste),
	describe(newIx),
	describe(newModernPaste),
	describe(newOnetimesecret),
	describe(newPasteRs),
	describe(newPipfi),
	describe(newSprunge),
	describe(newUbuntu),
	describe(newVpaste),
)

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	d, ok := r.byName[name]
	if !ok {
		return Descriptor{}, &domain.UnknownBackendError{Attempted: name}
	}
	return d, nil
}

// Names returns the registered backend names in lexicographic order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Decode strictly decodes the TOML body of a server table into a backend of
// the given kind. Fields the kind does not define are rejected.
func (r *Registry) Decode(kind string, data []byte) (Backend, error) {
	d, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}

	b := d.New()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(b); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("unknown field for backend %s:\n%s", kind, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			return nil, fmt.Errorf("backend %s: %s", kind, decodeErr.String())
		}
		return nil, fmt.Errorf("backend %s: %w", kind, err)
	}

	if v, ok := b.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return nil, fmt.Errorf("backend %s: %w", kind, err)
		}
	}

	return b, nil
}

// Encode renders the backend's fields as TOML key/value pairs, without the
// backend tag.
func Encode(b Backend) ([]byte, error) {
	data, err := toml.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s backend: %w", b.Kind(), err)
	}
	return data, nil
}

package registry

import (
	"errors"
	"sort"
	"sync"
)

// Defaults carries the engine-wide field names used when a descriptor does
// not override them.
type Defaults struct {
	SyncIDField          string
	ChangeTimestampField string
}

// Registry stores validated descriptors by local name and by remote type.
type Registry struct {
	defaults Defaults

	mu       sync.RWMutex
	byName   map[string]*EntityDescriptor
	byRemote map[string]*EntityDescriptor
	order    []string
}

// New creates an empty registry.
func New(defaults Defaults) *Registry {
	return &Registry{
		defaults: defaults,
		byName:   make(map[string]*EntityDescriptor),
		byRemote: make(map[string]*EntityDescriptor),
	}
}

// Register validates every descriptor and adds them all, or none. The
// returned error joins one *ConfigurationError per rejected descriptor.
func (r *Registry) Register(types ...EntityDescriptor) error {
	prepared := make([]*EntityDescriptor, 0, len(types))
	var errs []error

	seenName := make(map[string]struct{}, len(types))
	seenRemote := make(map[string]struct{}, len(types))

	r.mu.RLock()
	for i := range types {
		d := types[i]
		r.applyDefaults(&d)

		if err := validate(&d); err != nil {
			errs = append(errs, err)
			continue
		}

		if _, dup := seenName[d.Name]; dup || r.byName[d.Name] != nil {
			errs = append(errs, &ConfigurationError{Type: d.Name, Reason: "type registered twice"})
			continue
		}
		if _, dup := seenRemote[d.RemoteType]; dup || r.byRemote[d.RemoteType] != nil {
			errs = append(errs, &ConfigurationError{Type: d.Name, Reason: "remote type " + d.RemoteType + " registered twice"})
			continue
		}
		seenName[d.Name] = struct{}{}
		seenRemote[d.RemoteType] = struct{}{}

		prepared = append(prepared, &d)
	}
	r.mu.RUnlock()

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	// reference targets may point at types from the same batch
	for _, d := range prepared {
		for _, ref := range append(append([]ReferenceMapping{}, d.SingleReferences...), d.ListReferences...) {
			if _, ok := seenName[ref.TargetType]; ok {
				continue
			}
			if r.Lookup(ref.TargetType) == nil {
				errs = append(errs, &ConfigurationError{Type: d.Name, Reason: "reference " + ref.LocalField + " targets unknown type " + ref.TargetType})
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range prepared {
		r.byName[d.Name] = d
		r.byRemote[d.RemoteType] = d
		r.order = append(r.order, d.Name)
	}

	return nil
}

func (r *Registry) applyDefaults(d *EntityDescriptor) {
	if d.SyncIDField == "" {
		d.SyncIDField = r.defaults.SyncIDField
	}
	if d.ChangeTimestampField == "" {
		d.ChangeTimestampField = r.defaults.ChangeTimestampField
	}
}

func validate(d *EntityDescriptor) error {
	name := d.Name
	if name == "" {
		name = d.RemoteType
	}

	switch {
	case d.Name == "":
		return &ConfigurationError{Type: name, Reason: "empty type name"}
	case d.RemoteType == "":
		return &ConfigurationError{Type: name, Reason: "empty remote type name"}
	case len(d.FieldMapping) == 0:
		return &ConfigurationError{Type: name, Reason: "empty field mapping"}
	case d.SyncIDField == "":
		return &ConfigurationError{Type: name, Reason: "empty sync-id field"}
	case d.ChangeTimestampField == "":
		return &ConfigurationError{Type: name, Reason: "empty change timestamp field"}
	}

	required := []string{d.SyncIDField, d.ChangeTimestampField}
	for local, remote := range d.FieldMapping {
		if remote == "" {
			return &ConfigurationError{Type: name, Reason: "field " + local + " maps to an empty remote field"}
		}
		required = append(required, local)
	}
	for _, ref := range d.SingleReferences {
		if ref.LocalField == "" || ref.RemoteField == "" || ref.TargetType == "" {
			return &ConfigurationError{Type: name, Reason: "single reference needs local field, remote field and target type"}
		}
		required = append(required, ref.LocalField)
	}
	for _, ref := range d.ListReferences {
		if ref.LocalField == "" || ref.RemoteField == "" || ref.TargetType == "" {
			return &ConfigurationError{Type: name, Reason: "list reference needs local field, remote field and target type"}
		}
		required = append(required, ref.LocalField)
	}

	for _, field := range required {
		acc, ok := d.Accessors[field]
		if !ok || acc.Get == nil || acc.Set == nil {
			return &ConfigurationError{Type: name, Reason: "missing accessor for field " + field}
		}
	}

	return nil
}

// Lookup returns the descriptor registered under a local type name, or nil.
func (r *Registry) Lookup(name string) *EntityDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}

// LookupRemote returns the descriptor for a remote record type, or nil.
func (r *Registry) LookupRemote(remoteType string) *EntityDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byRemote[remoteType]
}

// Descriptor returns the descriptor of e's type.
func (r *Registry) Descriptor(e Entity) (*EntityDescriptor, error) {
	if e == nil {
		return nil, ErrUnknownType
	}
	d := r.Lookup(e.EntityType())
	if d == nil {
		return nil, &unknownTypeError{name: e.EntityType()}
	}
	return d, nil
}

// All returns descriptors in registration order.
func (r *Registry) All() []*EntityDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*EntityDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// RemoteTypes returns the sorted remote type names of every descriptor.
func (r *Registry) RemoteTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byRemote))
	for t := range r.byRemote {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

type unknownTypeError struct{ name string }

func (e *unknownTypeError) Error() string { return ErrUnknownType.Error() + ": " + e.name }
func (e *unknownTypeError) Unwrap() error { return ErrUnknownType }

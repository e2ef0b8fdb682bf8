package outreach

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ResourceID identifies a resource. The API uses integer ids; ResourceID accepts
// numeric or string JSON values and writes numeric ids back as JSON numbers.
type ResourceID string

// IntID converts an integer id.
func IntID(id int64) ResourceID {
	return ResourceID(strconv.FormatInt(id, 10))
}

// String returns the id as a string.
func (id ResourceID) String() string {
	return string(id)
}

// MarshalJSON implements json.Marshaler.
func (id ResourceID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}

	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *ResourceID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("parsing resource id: %w", err)
		}

		*id = ResourceID(s)

		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parsing resource id: %w", err)
	}

	*id = ResourceID(n.String())

	return nil
}

// ResourceIdentifier is the {type, id} pair used in relationship linkage.
type ResourceIdentifier struct {
	Type string     `json:"type" yaml:"type"`
	ID   ResourceID `json:"id"   yaml:"id"`
}

// ResourceKey indexes included resources by type and id.
type ResourceKey struct {
	Type string
	ID   ResourceID
}

// Links maps link names to URLs.
type Links map[string]any

// Meta holds free-form metadata.
type Meta map[string]any

// Relationship holds resource linkage: a to-one identifier, a to-many list, or
// an explicit null (neither set).
type Relationship struct {
	Data  *ResourceIdentifier
	Many  []ResourceIdentifier
	Links Links
	Meta  Meta

	toMany bool
}

// ToOne builds a to-one relationship.
func ToOne(resourceType string, id ResourceID) Relationship {
	return Relationship{Data: &ResourceIdentifier{Type: resourceType, ID: id}}
}

// ToMany builds a to-many relationship. An empty list clears the relationship.
func ToMany(ids ...ResourceIdentifier) Relationship {
	if ids == nil {
		ids = []ResourceIdentifier{}
	}

	return Relationship{Many: ids, toMany: true}
}

// IsToMany reports whether the linkage is a list.
func (r Relationship) IsToMany() bool {
	return r.toMany || r.Many != nil
}

type relationshipJSON struct {
	Data  json.RawMessage `json:"data"`
	Links Links           `json:"links,omitempty"`
	Meta  Meta            `json:"meta,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r Relationship) MarshalJSON() ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch {
	case r.IsToMany():
		many := r.Many
		if many == nil {
			many = []ResourceIdentifier{}
		}

		data, err = json.Marshal(many)
	case r.Data != nil:
		data, err = json.Marshal(r.Data)
	default:
		data = []byte("null")
	}

	if err != nil {
		return nil, fmt.Errorf("encoding relationship data: %w", err)
	}

	out, err := json.Marshal(relationshipJSON{Data: data, Links: r.Links, Meta: r.Meta})
	if err != nil {
		return nil, fmt.Errorf("encoding relationship: %w", err)
	}

	return out, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Relationship) UnmarshalJSON(raw []byte) error {
	var rel relationshipJSON
	if err := json.Unmarshal(raw, &rel); err != nil {
		return fmt.Errorf("parsing relationship: %w", err)
	}

	*r = Relationship{Links: rel.Links, Meta: rel.Meta}

	data := bytes.TrimSpace(rel.Data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '[':
		r.toMany = true
		if err := json.Unmarshal(data, &r.Many); err != nil {
			return fmt.Errorf("parsing to-many relationship: %w", err)
		}
	default:
		r.Data = &ResourceIdentifier{}
		if err := json.Unmarshal(data, r.Data); err != nil {
			return fmt.Errorf("parsing to-one relationship: %w", err)
		}
	}

	return nil
}

// Identifiers returns the linkage as a list regardless of cardinality.
func (r Relationship) Identifiers() []ResourceIdentifier {
	if r.IsToMany() {
		return r.Many
	}

	if r.Data != nil {
		return []ResourceIdentifier{*r.Data}
	}

	return nil
}

// Resource is a single resource object of a document.
type Resource struct {
	Type          string                  `json:"type"                    yaml:"type"`
	ID            ResourceID              `json:"id,omitempty"            yaml:"id,omitempty"`
	Attributes    map[string]any          `json:"attributes,omitempty"    yaml:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Links         Links                   `json:"links,omitempty"         yaml:"links,omitempty"`
	Meta          Meta                    `json:"meta,omitempty"          yaml:"meta,omitempty"`
}

// Key returns the (type, id) key of the resource.
func (r *Resource) Key() ResourceKey {
	return ResourceKey{Type: r.Type, ID: r.ID}
}

// Attribute returns a single attribute value.
func (r *Resource) Attribute(name string) (any, bool) {
	v, ok := r.Attributes[name]

	return v, ok
}

// DecodeAttributes decodes the attributes of a resource into T.
func DecodeAttributes[T any](r *Resource) (T, error) {
	var out T

	data, err := json.Marshal(r.Attributes)
	if err != nil {
		return out, fmt.Errorf("encoding attributes: %w", err)
	}

	err = json.Unmarshal(data, &out)
	if err != nil {
		return out, fmt.Errorf("decoding attributes into %T: %w", out, err)
	}

	return out, nil
}

// Included is the "included" section of a document.
type Included []Resource

// Index keys included resources by type and id.
func (inc Included) Index() map[ResourceKey]*Resource {
	index := make(map[ResourceKey]*Resource, len(inc))
	for i := range inc {
		index[inc[i].Key()] = &inc[i]
	}

	return index
}

// Find returns the included resource with the given type and id.
func (inc Included) Find(resourceType string, id ResourceID) (*Resource, bool) {
	for i := range inc {
		if inc[i].Type == resourceType && inc[i].ID == id {
			return &inc[i], true
		}
	}

	return nil, false
}

// Related resolves a relationship of r against the included resources.
// Identifiers with no included counterpart are skipped.
func (inc Included) Related(r *Resource, relationship string) []*Resource {
	rel, ok := r.Relationships[relationship]
	if !ok {
		return nil
	}

	var related []*Resource

	for _, ident := range rel.Identifiers() {
		if found, ok := inc.Find(ident.Type, ident.ID); ok {
			related = append(related, found)
		}
	}

	return related
}

// ListResult is a decoded collection document.
type ListResult struct {
	Data     []Resource `json:"data"               yaml:"data"`
	Included Included   `json:"included,omitempty" yaml:"included,omitempty"`
	Links    Links      `json:"links,omitempty"    yaml:"links,omitempty"`
	Meta     Meta       `json:"meta,omitempty"     yaml:"meta,omitempty"`
}

// Result is a decoded single-resource document.
type Result struct {
	Data     Resource `json:"data"               yaml:"data"`
	Included Included `json:"included,omitempty" yaml:"included,omitempty"`
	Links    Links    `json:"links,omitempty"    yaml:"links,omitempty"`
	Meta     Meta     `json:"meta,omitempty"     yaml:"meta,omitempty"`
}

// Document is the raw top-level envelope before the primary data is decoded.
type Document struct {
	Data     json.RawMessage `json:"data"`
	Included Included        `json:"included,omitempty"`
	Links    Links           `json:"links,omitempty"`
	Meta     Meta            `json:"meta,omitempty"`
	Errors   []APIError      `json:"errors,omitempty"`
}

// ResourceObject is the primary data of a create or update request body.
type ResourceObject struct {
	Type          string                  `json:"type"`
	ID            ResourceID              `json:"id,omitempty"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// RequestDocument is the body of a create or update request.
type RequestDocument struct {
	Data ResourceObject `json:"data"`
}

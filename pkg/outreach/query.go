package outreach

import (
	"net/url"
	"strings"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
)

// QueryParams holds the request options recognized by the resource API.
// Every option is independently optional; a nil or empty option is omitted
// from the query string entirely.
type QueryParams struct {
	// Filters maps an attribute name to the values it must match. A dotted
	// name ("emailAddresses.email") filters on a related resource attribute.
	Filters map[string][]string
	// Sort lists attribute names; a leading "-" sorts descending.
	Sort []string
	// Include lists relationship paths, dot-separated for nested paths.
	Include []string
	// Fields maps a resource type to its sparse fieldset.
	Fields map[string][]string
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
		Fields:  make(map[string][]string),
	}
}

// WithFilter appends filter values for an attribute.
func (p *QueryParams) WithFilter(attribute string, values ...string) *QueryParams {
	if p.Filters == nil {
		p.Filters = make(map[string][]string)
	}

	p.Filters[attribute] = append(p.Filters[attribute], values...)

	return p
}

// WithSort appends sort attributes.
func (p *QueryParams) WithSort(attributes ...string) *QueryParams {
	p.Sort = append(p.Sort, attributes...)

	return p
}

// WithInclude appends relationship paths to include.
func (p *QueryParams) WithInclude(paths ...string) *QueryParams {
	p.Include = append(p.Include, paths...)

	return p
}

// WithFields replaces the sparse fieldset for a resource type.
func (p *QueryParams) WithFields(resourceType string, attributes ...string) *QueryParams {
	if p.Fields == nil {
		p.Fields = make(map[string][]string)
	}

	p.Fields[resourceType] = attributes

	return p
}

// WithFieldPaths partitions dotted field paths into per-type fieldsets. A bare
// attribute belongs to primaryType; "account.name" adds "name" to the
// "account" fieldset, and "account.owner.name" adds "name" to "owner".
func (p *QueryParams) WithFieldPaths(primaryType string, paths ...string) *QueryParams {
	if p.Fields == nil {
		p.Fields = make(map[string][]string)
	}

	for _, path := range paths {
		resourceType, attribute := primaryType, path

		if idx := strings.LastIndex(path, "."); idx >= 0 {
			owner := path[:idx]
			attribute = path[idx+1:]

			if last := strings.LastIndex(owner, "."); last >= 0 {
				owner = owner[last+1:]
			}

			resourceType = owner
		}

		if resourceType == "" || attribute == "" {
			continue
		}

		p.Fields[resourceType] = append(p.Fields[resourceType], attribute)
	}

	return p
}

// ToValues converts the parameters to url.Values.
func (p *QueryParams) ToValues() url.Values {
	values := url.Values{}
	if p == nil {
		return values
	}

	for attribute, matches := range p.Filters {
		if attribute == "" || len(matches) == 0 {
			continue
		}

		values.Set(FilterKey(attribute), strings.Join(matches, ","))
	}

	if sort := nonEmpty(p.Sort); len(sort) > 0 {
		values.Set(constants.QuerySort, strings.Join(sort, ","))
	}

	if include := nonEmpty(p.Include); len(include) > 0 {
		values.Set(constants.QueryInclude, strings.Join(include, ","))
	}

	for resourceType, attributes := range p.Fields {
		attributes = nonEmpty(attributes)
		if resourceType == "" || len(attributes) == 0 {
			continue
		}

		values.Set(constants.QueryFields+"["+resourceType+"]", strings.Join(attributes, ","))
	}

	return values
}

// SingleResourceValues returns only the options that apply to a
// single-resource request (include and fields).
func (p *QueryParams) SingleResourceValues() url.Values {
	if p == nil {
		return url.Values{}
	}

	scoped := &QueryParams{Include: p.Include, Fields: p.Fields}

	return scoped.ToValues()
}

// FilterKey returns the bracketed query key for an attribute; each dotted
// segment becomes its own bracket.
func FilterKey(attribute string) string {
	var b strings.Builder

	b.WriteString(constants.QueryFilter)

	for _, part := range strings.Split(attribute, ".") {
		b.WriteString("[")
		b.WriteString(part)
		b.WriteString("]")
	}

	return b.String()
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))

	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}

	return out
}

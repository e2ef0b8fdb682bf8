package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ExecutiveSearchAI/outreach-sdk/internal/constants"
	"github.com/ExecutiveSearchAI/outreach-sdk/pkg/outreach"
)

func splitKeyValue(pair string) (string, string, error) {
	key, value, ok := strings.Cut(pair, "=")

	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("%w: %q", constants.ErrInvalidKeyValue, pair)
	}

	return key, value, nil
}

// parseFilters turns "attr=v1,v2" pairs into query filters. Repeating an
// attribute appends to its values.
func parseFilters(pairs []string) (map[string][]string, error) {
	filters := make(map[string][]string, len(pairs))

	for _, pair := range pairs {
		key, value, err := splitKeyValue(pair)
		if err != nil {
			return nil, err
		}

		filters[key] = append(filters[key], strings.Split(value, ",")...)
	}

	return filters, nil
}

// parseAttributes turns "name=value" pairs into resource attributes. Values
// that parse as JSON (numbers, booleans, null, arrays, objects) keep their
// type; anything else is a string.
func parseAttributes(pairs []string) (map[string]any, error) {
	attributes := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, value, err := splitKeyValue(pair)
		if err != nil {
			return nil, err
		}

		attributes[key] = attributeValue(value)
	}

	return attributes, nil
}

func attributeValue(raw string) any {
	var decoded any

	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()

	if err := decoder.Decode(&decoded); err != nil || decoder.More() {
		return raw
	}

	return decoded
}

// parseRelationships turns "name=type:id[,type:id...]" pairs into
// relationships. One identifier is a to-one link, several are a to-many
// link, "name=null" clears a to-one link and "name=" clears a to-many link.
func parseRelationships(pairs []string) (map[string]outreach.Relationship, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	relationships := make(map[string]outreach.Relationship, len(pairs))

	for _, pair := range pairs {
		name, value, err := splitKeyValue(pair)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidRelationship, pair)
		}

		value = strings.TrimSpace(value)

		switch value {
		case "null":
			relationships[name] = outreach.Relationship{}

			continue
		case "":
			relationships[name] = outreach.ToMany()

			continue
		}

		identifiers, err := parseIdentifiers(value)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, pair)
		}

		if len(identifiers) == 1 {
			relationships[name] = outreach.ToOne(identifiers[0].Type, identifiers[0].ID)
		} else {
			relationships[name] = outreach.ToMany(identifiers...)
		}
	}

	return relationships, nil
}

func parseIdentifiers(value string) ([]outreach.ResourceIdentifier, error) {
	parts := strings.Split(value, ",")
	identifiers := make([]outreach.ResourceIdentifier, 0, len(parts))

	for _, part := range parts {
		resourceType, id, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok || resourceType == "" || id == "" {
			return nil, constants.ErrInvalidRelationship
		}

		identifiers = append(identifiers, outreach.ResourceIdentifier{Type: resourceType, ID: outreach.ResourceID(id)})
	}

	return identifiers, nil
}

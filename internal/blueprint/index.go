package blueprint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// refPrefix marks a blueprint reference inside game data ("!bp_<guid>").
const refPrefix = "!bp_"

// Leaf is a scalar value in blueprint data with its dotted path.
type Leaf struct {
	Path   string
	Value  string
	String bool // the value was a JSON string
}

// ParseRef reports whether s is a blueprint reference and returns its ID.
// Both bare GUIDs and "!bp_"-prefixed GUIDs are accepted.
func ParseRef(s string) (uuid.UUID, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), refPrefix)
	// uuid.Parse also accepts urn and braced forms; only plain ones are references.
	if len(s) != 36 && len(s) != 32 {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// Flatten walks JSON data in document order and returns its scalar leaves.
// Empty objects and arrays appear as "{}" and "[]" leaves.
func Flatten(data json.RawMessage) ([]Leaf, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var leaves []Leaf
	if err := flattenValue(dec, "", &leaves); err != nil {
		return nil, fmt.Errorf("flattening blueprint data: %w", err)
	}
	return leaves, nil
}

func flattenValue(dec *json.Decoder, path string, out *[]Leaf) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			n := 0
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := keyTok.(string)
				if err := flattenValue(dec, joinPath(path, key), out); err != nil {
					return err
				}
				n++
			}
			if _, err := dec.Token(); err != nil {
				return err
			}
			if n == 0 {
				*out = append(*out, Leaf{Path: path, Value: "{}"})
			}
		case '[':
			n := 0
			for dec.More() {
				if err := flattenValue(dec, fmt.Sprintf("%s[%d]", path, n), out); err != nil {
					return err
				}
				n++
			}
			if _, err := dec.Token(); err != nil {
				return err
			}
			if n == 0 {
				*out = append(*out, Leaf{Path: path, Value: "[]"})
			}
		}
	case string:
		*out = append(*out, Leaf{Path: path, Value: t, String: true})
	case json.Number:
		*out = append(*out, Leaf{Path: path, Value: t.String()})
	case bool:
		*out = append(*out, Leaf{Path: path, Value: strconv.FormatBool(t)})
	case nil:
		*out = append(*out, Leaf{Path: path, Value: "null"})
	}
	return nil
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// Links returns the distinct blueprint references in data, in document order.
func Links(data json.RawMessage) ([]uuid.UUID, error) {
	leaves, err := Flatten(data)
	if err != nil {
		return nil, err
	}
	var links []uuid.UUID
	seen := make(map[uuid.UUID]bool)
	for _, leaf := range leaves {
		if !leaf.String {
			continue
		}
		if id, ok := ParseRef(leaf.Value); ok && !seen[id] {
			seen[id] = true
			links = append(links, id)
		}
	}
	return links, nil
}

// IndexBackReferences fills BackReferences on every handle from the links
// found in the others' data. Links to unknown blueprints are ignored.
// A blueprint linking to itself gets itself as a back-reference; viewers
// are expected to skip it.
func IndexBackReferences(handles []*Handle) error {
	byID := make(map[uuid.UUID]*Handle, len(handles))
	for _, h := range handles {
		h.BackReferences = nil
		byID[h.ID] = h
	}
	for _, h := range handles {
		links, err := Links(h.Data)
		if err != nil {
			return fmt.Errorf("indexing %s (%s): %w", h.Name, h.ID, err)
		}
		for _, id := range links {
			if target, ok := byID[id]; ok {
				target.BackReferences = append(target.BackReferences, h.ID)
			}
		}
	}
	return nil
}

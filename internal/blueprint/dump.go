package blueprint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Record is one blueprint in a JSON dump file.
type Record struct {
	GUID string          `json:"guid"`
	Name string          `json:"name"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Decode reads a JSON array of records and returns handles with their
// back-references indexed.
func Decode(r io.Reader) ([]*Handle, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding blueprint dump: %w", err)
	}

	handles := make([]*Handle, 0, len(records))
	seen := make(map[uuid.UUID]bool, len(records))
	for i, rec := range records {
		id, err := uuid.Parse(strings.TrimSpace(rec.GUID))
		if err != nil {
			return nil, fmt.Errorf("record %d: parsing guid %q: %w", i, rec.GUID, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("record %d: duplicate guid %s", i, id)
		}
		seen[id] = true

		name := rec.Name
		if name == "" {
			name = id.String()
		}
		handles = append(handles, &Handle{
			ID:   id,
			Name: name,
			Type: rec.Type,
			Data: rec.Data,
		})
	}

	if err := IndexBackReferences(handles); err != nil {
		return nil, err
	}
	return handles, nil
}

// Encode writes handles in the dump format, indented.
func Encode(w io.Writer, handles ...*Handle) error {
	records := make([]Record, len(handles))
	for i, h := range handles {
		records[i] = Record{
			GUID: h.GUIDText(),
			Name: h.Name,
			Type: h.Type,
			Data: h.Data,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

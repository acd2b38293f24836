package api

import (
	"encoding/json"
	"fmt"
)

// Category normalizes the two shapes the API transports categories in:
// a plain name string or a {id, name} record. Whichever arrives, the
// canonical form on this side of the boundary is this struct; Name is
// always set.
type Category struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func (c *Category) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return err
		}

		*c = Category{Name: name}

		return nil
	}

	type plain Category

	var rec plain
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("category must be a string or {id, name}: %w", err)
	}

	*c = Category(rec)

	return nil
}

// MarshalJSON always emits the plain-name form; the server accepts it
// and round-trips stay canonical.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Name)
}

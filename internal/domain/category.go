package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Category is a topical grouping of questions. IDs are the server's stable
// category ids and start at 1.
type Category struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Categories is the ordered category collection shown in the sidebar.
type Categories []Category

// UnmarshalJSON accepts the three shapes the API has been seen to send:
// a list of labels (ids are 1-based positions), an object keyed by id,
// or a list of {id, label|type} objects.
func (c *Categories) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = nil
		return nil
	}

	var labels []string
	if err := json.Unmarshal(data, &labels); err == nil {
		out := make(Categories, 0, len(labels))
		for i, label := range labels {
			out = append(out, Category{ID: i + 1, Label: label})
		}
		*c = out
		return nil
	}

	var keyed map[string]string
	if err := json.Unmarshal(data, &keyed); err == nil {
		out := make(Categories, 0, len(keyed))
		for k, label := range keyed {
			id, err := strconv.Atoi(k)
			if err != nil {
				return fmt.Errorf("category key %q is not an id: %w", k, err)
			}
			out = append(out, Category{ID: id, Label: label})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		*c = out
		return nil
	}

	var objects []struct {
		ID    int    `json:"id"`
		Label string `json:"label"`
		Type  string `json:"type"`
	}
	if err := json.Unmarshal(data, &objects); err != nil {
		return fmt.Errorf("unrecognised categories payload: %w", err)
	}
	out := make(Categories, 0, len(objects))
	for _, o := range objects {
		label := o.Label
		if label == "" {
			label = o.Type
		}
		out = append(out, Category{ID: o.ID, Label: label})
	}
	*c = out
	return nil
}

// ByID returns the category with the given id.
func (c Categories) ByID(id int) (Category, bool) {
	for _, cat := range c {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

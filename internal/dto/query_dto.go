package dto

import (
	"encoding/json"
	"fmt"
)

// DocIDList normalizes the loosely-typed wire shape of doc_ids: clients may
// send a single string or an array of strings. Everything past the boundary
// sees one canonical []string.
type DocIDList []string

func (d *DocIDList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*d = nil
		} else {
			*d = DocIDList{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*d = DocIDList(many)
		return nil
	}
	return fmt.Errorf("doc_ids must be a string or an array of strings")
}

type QueryRequest struct {
	Q      string    `json:"q" validate:"required"`
	DocIDs DocIDList `json:"doc_ids,omitempty"`
	Stream bool      `json:"stream,omitempty"`
}

type QuerySource struct {
	DocID      string  `json:"doc_id"`
	Source     string  `json:"source"`
	ChunkIndex int     `json:"chunk_index"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
}

type QueryResponse struct {
	Answer  string        `json:"answer"`
	Sources []QuerySource `json:"sources"`
}

package dto

// IngestURLRequest is the JSON body variant of ingestion; file uploads come
// in as multipart instead.
type IngestURLRequest struct {
	URL string `json:"url" validate:"required,url"`
}

type IngestResponse struct {
	DocID          string `json:"doc_id"`
	Source         string `json:"source"`
	ChunksIngested int    `json:"chunks_ingested"`
}

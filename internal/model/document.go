package model

// Document is the normalized shape every source fetcher produces,
// regardless of the provider payload it came from.
type Document struct {
	Content string `json:"content"`
	Source  string `json:"source"`
	Link    string `json:"link"`
	Ticker  string `json:"ticker"`
}

// VectorRecord is the terminal artifact of an ingestion run. A record
// with an empty Embedding is excluded from persistence.
type VectorRecord struct {
	ID        string    `json:"id"`
	Embedding []float32 `json:"embedding"`
	Text      string    `json:"text"`
	Ticker    string    `json:"ticker"`
	Source    string    `json:"source"`
	Link      string    `json:"link"`
}

// SearchHit is a single nearest-neighbor match from the vector repo,
// ordered by ascending cosine distance.
type SearchHit struct {
	Text     string  `json:"text"`
	Source   string  `json:"source"`
	Link     string  `json:"link"`
	Distance float64 `json:"distance"`
}

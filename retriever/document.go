package retriever

type Document struct {
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	Distance  float64   `json:"distance"`
	Embedding []float32 `json:"embedding,omitempty"`
}

package qa

// Item is a single question/answer training pair. No uniqueness is
// enforced; order reflects the chunk the item was generated from.
type Item struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

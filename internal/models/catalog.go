package models

// Lesson is a catalog entry. Catalog data is static reference data loaded
// once at startup; lessons keep their file order, which defines "first
// lesson in a topic".
type Lesson struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Topic         string   `json:"topic" yaml:"topic"`
	Description   string   `json:"description,omitempty" yaml:"description,omitempty"`
	Prerequisites []string `json:"prerequisites,omitempty" yaml:"prerequisites,omitempty"`
}

// LearningPath is an ordered curriculum track. Lesson order matters for
// next-in-path decisions.
type LearningPath struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Lessons []string `json:"lessons" yaml:"lessons"`
}

// FallbackLesson substitutes for a lesson id referenced by a path but
// missing from the catalog, so a stale path never crashes a request.
func FallbackLesson(id string) Lesson {
	return Lesson{ID: id, Title: id, Topic: "General"}
}

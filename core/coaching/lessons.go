package coaching

// Lesson is a multi-step guided lesson as served by the backend.
type Lesson struct {
	ID       string
	Title    string
	Subtitle string
	Steps    []string
	// CurrentStep is 1-based.
	CurrentStep int
}

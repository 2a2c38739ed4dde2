package driven

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string) bool
}

package exam

// ValidationError names the first schema violation found in a question.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return "invalid question: " + e.Field + " " + e.Reason }

// Validate is the pre-persist gate. The first violation short-circuits;
// a question that fails here must not be written to disk.
func Validate(q Question) error {
	if q.ID == 0 {
		return &ValidationError{Field: "id", Reason: "is missing"}
	}
	if q.Question == "" {
		return &ValidationError{Field: "question", Reason: "is missing"}
	}
	if len(q.Options) == 0 {
		return &ValidationError{Field: "options", Reason: "must be a non-empty list"}
	}
	if q.Type != TypeSingle && q.Type != TypeMultiple {
		return &ValidationError{Field: "type", Reason: `must be "single" or "multiple"`}
	}
	if q.Explanation == "" {
		return &ValidationError{Field: "explanation", Reason: "is missing"}
	}
	if q.Reference.Document == "" {
		return &ValidationError{Field: "reference.document", Reason: "is missing"}
	}
	if q.Reference.URL == "" {
		return &ValidationError{Field: "reference.url", Reason: "is missing"}
	}
	if len(q.Answer.Values) == 0 {
		return &ValidationError{Field: "answer", Reason: "is missing"}
	}
	if q.Type == TypeMultiple && !q.Answer.Multi {
		return &ValidationError{Field: "answer", Reason: "must be a list for multiple-answer questions"}
	}
	if q.Type == TypeSingle && q.Answer.Multi {
		return &ValidationError{Field: "answer", Reason: "must be a single string for single-answer questions"}
	}
	return nil
}

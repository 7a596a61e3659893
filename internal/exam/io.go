package exam

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileError wraps a missing or malformed exam file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return "exam file " + e.Path + ": " + e.Err.Error() }
func (e *FileError) Unwrap() error { return e.Err }

// NotFoundError means the requested question id is absent from the exam.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("question %d not found", e.ID) }

func Load(path string) (*Exam, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	var ex Exam
	if err := json.Unmarshal(raw, &ex); err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return &ex, nil
}

func (ex *Exam) Find(id int) (Question, error) {
	for _, q := range ex.Questions {
		if q.ID == id {
			return q.Clone(), nil
		}
	}
	return Question{}, &NotFoundError{ID: id}
}

// Save writes a one-question exam document, pretty-printed with HTML
// escaping off so non-ASCII text survives the round trip.
func Save(path, name string, q Question) error {
	f, err := os.Create(path)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Exam{Name: name, Questions: []Question{q}}); err != nil {
		f.Close()
		return &FileError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &FileError{Path: path, Err: err}
	}
	return nil
}

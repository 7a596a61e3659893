package exam

import (
	"encoding/json"
)

type QuestionType string

const (
	TypeSingle   QuestionType = "single"
	TypeMultiple QuestionType = "multiple"
)

// Answer is either one answer string or a list of answer strings.
// On the wire it is a bare JSON string for single-answer questions and a
// JSON array for multiple-answer ones.
type Answer struct {
	Values []string
	Multi  bool
}

func Single(v string) Answer { return Answer{Values: []string{v}} }

func Multiple(vs ...string) Answer { return Answer{Values: vs, Multi: true} }

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.Multi {
		return json.Marshal(a.Values)
	}
	if len(a.Values) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.Values[0])
}

func (a *Answer) UnmarshalJSON(b []byte) error {
	var s string
	if json.Unmarshal(b, &s) == nil {
		*a = Answer{Values: []string{s}}
		return nil
	}
	var vs []string
	if err := json.Unmarshal(b, &vs); err != nil {
		return err
	}
	*a = Answer{Values: vs, Multi: true}
	return nil
}

type Reference struct {
	Document string `json:"document"`
	URL      string `json:"url"`
}

type Question struct {
	ID          int          `json:"id"`
	Question    string       `json:"question"`
	Options     []string     `json:"options"`
	Answer      Answer       `json:"answer"`
	Type        QuestionType `json:"type"`
	Explanation string       `json:"explanation"`
	Reference   Reference    `json:"reference"`
}

// Clone returns a deep copy so callers can overlay parsed fields without
// touching the loaded record.
func (q Question) Clone() Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	out.Answer.Values = append([]string(nil), q.Answer.Values...)
	return out
}

type Exam struct {
	Name      string     `json:"name"`
	Questions []Question `json:"questions"`
}

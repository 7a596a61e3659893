package validator

import (
	"strings"
	"testing"
)

func TestBuildTaskSingle(t *testing.T) {
	q := originalSingle()
	task := BuildTask(q, "https://docs.example.com")

	for _, want := range []string{
		"Question ID: 7",
		`Question: "Which connector supports incremental import?"`,
		"Type: single",
		`"REST"`,
		"Start at: https://docs.example.com/old", // reference URL wins over the docs root
		`"answer": "Correct answer with proper capitalization"`,
		`"type": "single"`,
	} {
		if !strings.Contains(task, want) {
			t.Errorf("task missing %q", want)
		}
	}
	if strings.Contains(task, `"First correct answer"`) {
		t.Error("single-answer task must not carry the array schema")
	}
}

func TestBuildTaskMultiple(t *testing.T) {
	q := originalMultiple()
	q.Reference.URL = ""
	task := BuildTask(q, "https://docs.example.com")

	if !strings.Contains(task, "Start at: https://docs.example.com") {
		t.Error("expected the docs root as starting URL when the reference is empty")
	}
	if !strings.Contains(task, `"First correct answer"`) {
		t.Error("multiple-answer task must carry the array schema")
	}
	if !strings.Contains(task, `Current Answer(s): ["REST"]`) {
		t.Error("current answers not embedded")
	}
}

func TestBuildTaskDeterministic(t *testing.T) {
	q := originalSingle()
	if BuildTask(q, "https://docs.example.com") != BuildTask(q, "https://docs.example.com") {
		t.Error("BuildTask must be deterministic")
	}
}

package validator

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/emandor/docvet/internal/exam"
)

// AgentResult is the raw outcome of an agent run. A nil value means the
// run produced nothing usable.
type AgentResult interface {
	FinalText() string
}

// TextResult wraps plain text as an AgentResult.
type TextResult string

func (t TextResult) FinalText() string { return string(t) }

type parseOutcome int

const (
	parseFail  parseOutcome = iota // try the next strategy
	parseOK                        // parsed, fields overlaid
	parseAbort                     // never partially apply: keep the original
)

type strategy struct {
	name  string
	apply func(text string, original exam.Question) (exam.Question, parseOutcome)
}

// Strategies are tried in order, stopping at the first success. The JSON
// paths overlay the full record; the markdown path recovers only the
// explanation and reference.
var strategies = []strategy{
	{"strict_json", parseStrictJSON},
	{"fenced_json", parseFencedJSON},
	{"embedded_json", parseEmbeddedJSON},
	{"markdown_blocks", parseMarkdownBlocks},
}

// Normalize coerces the agent's raw output into a schema-shaped question.
// On total failure it returns the original untouched and ok=false; callers
// always get back some usable record.
func Normalize(res AgentResult, original exam.Question, log zerolog.Logger) (exam.Question, bool) {
	if res == nil {
		log.Warn().Msg("agent_result_absent")
		return original, false
	}
	text := strings.TrimSpace(res.FinalText())
	if text == "" {
		log.Warn().Msg("agent_result_empty")
		return original, false
	}

	for _, st := range strategies {
		q, outcome := st.apply(text, original)
		switch outcome {
		case parseOK:
			log.Info().Str("strategy", st.name).Msg("response_parsed")
			return q, true
		case parseAbort:
			log.Error().Str("strategy", st.name).Str("raw", clip(text, 2000)).Msg("response_rejected")
			return original, false
		}
	}

	log.Error().Str("raw", clip(text, 2000)).Msg("response_parse_exhausted")
	return original, false
}

func parseStrictJSON(text string, original exam.Question) (exam.Question, parseOutcome) {
	return applyJSONObject(text, original)
}

func parseFencedJSON(text string, original exam.Question) (exam.Question, parseOutcome) {
	s := extractCodeFenceJSON(text)
	if s == "" {
		return original, parseFail
	}
	return applyJSONObject(s, original)
}

func parseEmbeddedJSON(text string, original exam.Question) (exam.Question, parseOutcome) {
	s := firstJSONObject(text)
	if s == "" {
		return original, parseFail
	}
	return applyJSONObject(s, original)
}

var requiredFields = []string{"id", "question", "options", "answer", "type", "explanation", "reference"}

// applyJSONObject parses s as a complete question object and overlays it on
// a deep copy of the original. Fields the payload does not produce keep the
// original's values.
func applyJSONObject(s string, original exam.Question) (exam.Question, parseOutcome) {
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return original, parseFail
	}
	for _, f := range requiredFields {
		if _, ok := m[f]; !ok {
			return original, parseFail
		}
	}

	// options must end up a list; a string is retried as double-encoded
	// JSON, and a malformed double-encoding aborts the whole parse
	var opts []string
	switch v := m["options"].(type) {
	case []any:
		for _, it := range v {
			str, ok := it.(string)
			if !ok {
				return original, parseFail
			}
			opts = append(opts, str)
		}
	case string:
		if err := json.Unmarshal([]byte(v), &opts); err != nil {
			return original, parseAbort
		}
	default:
		return original, parseFail
	}
	if len(opts) == 0 {
		return original, parseFail
	}

	q := original.Clone()
	q.Options = opts

	switch v := m["answer"].(type) {
	case string:
		q.Answer = exam.Single(v)
	case []any:
		vals := make([]string, 0, len(v))
		for _, it := range v {
			str, ok := it.(string)
			if !ok {
				return original, parseFail
			}
			vals = append(vals, str)
		}
		q.Answer = exam.Multiple(vals...)
	default:
		return original, parseFail
	}

	if f, ok := m["id"].(float64); ok && f != 0 {
		q.ID = int(f)
	}
	if str, ok := m["question"].(string); ok && str != "" {
		q.Question = str
	}
	if str, ok := m["type"].(string); ok && str != "" {
		q.Type = exam.QuestionType(str)
	}
	if str, ok := m["explanation"].(string); ok {
		q.Explanation = str
	}
	if ref, ok := m["reference"].(map[string]any); ok {
		if str, ok := ref["document"].(string); ok && str != "" {
			q.Reference.Document = str
		}
		if str, ok := ref["url"].(string); ok && str != "" {
			q.Reference.URL = str
		}
	}
	return q, parseOK
}

var rxFence = regexp.MustCompile("(?is)```json\\s*(\\{[\\s\\S]*?\\})\\s*```")

func extractCodeFenceJSON(s string) string {
	m := rxFence.FindStringSubmatch(s)
	if len(m) > 1 {
		return m[1]
	}
	return ""
}

// find the first JSON object by simple brace balancing
func firstJSONObject(s string) string {
	start := strings.Index(s, "{")
	if start < 0 {
		return ""
	}
	level := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

var rxMarkdownLink = regexp.MustCompile(`\[[^\]]*\]\(([^)]+)\)`)

// parseMarkdownBlocks is the narrow recovery path: a labelled Explanation
// block collected until a Reference label, then labelled Document/URL lines.
// Only explanation and reference are updated; everything else keeps the
// original values.
func parseMarkdownBlocks(text string, original exam.Question) (exam.Question, parseOutcome) {
	var (
		expl          []string
		doc, url      string
		inExplanation bool
		inReference   bool
	)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		plain := strings.Trim(trimmed, "#*_ ")
		switch {
		case hasLabel(plain, "explanation"):
			inExplanation, inReference = true, false
			if rest := labelRest(plain, "explanation"); rest != "" {
				expl = append(expl, rest)
			}
		case hasLabel(plain, "reference"):
			inExplanation, inReference = false, true
			// the URL may share the label line, as in "Reference URL: https://..."
			if rest := labelRest(plain, "reference"); rest != "" {
				switch {
				case hasLabel(rest, "url"):
					url = extractURL(labelRest(rest, "url"))
				case strings.Contains(rest, "http"):
					url = extractURL(rest)
				}
			}
		case inReference && hasLabel(plain, "document"):
			doc = labelRest(plain, "document")
		case inReference && hasLabel(plain, "url"):
			url = extractURL(labelRest(plain, "url"))
		case inExplanation && trimmed != "":
			expl = append(expl, trimmed)
		}
	}
	if len(expl) == 0 || url == "" {
		return original, parseFail
	}

	q := original.Clone()
	q.Explanation = strings.Join(expl, " ")
	if doc != "" {
		q.Reference.Document = doc
	}
	q.Reference.URL = url
	return q, parseOK
}

func hasLabel(line, label string) bool {
	return strings.HasPrefix(strings.ToLower(line), label)
}

func labelRest(line, label string) string {
	rest := line[len(label):]
	return strings.TrimSpace(strings.TrimLeft(rest, ":*_ "))
}

// extractURL pulls the target out of a markdown link, or returns the text
// as-is when there is no link.
func extractURL(s string) string {
	if m := rxMarkdownLink.FindStringSubmatch(s); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(s)
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max] + "…"
	}
	return s
}

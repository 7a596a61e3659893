package validator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/emandor/docvet/internal/exam"
)

const singleAnswerSchema = `    "answer": "Correct answer with proper capitalization",`

const multipleAnswerSchema = `    "answer": [
        "First correct answer",
        "Second correct answer"
    ],`

// BuildTask renders the question into the agent's instruction set. Pure and
// deterministic; the template is advisory text for an LLM, so absent fields
// simply render empty.
func BuildTask(q exam.Question, docsURL string) string {
	answerJSON, _ := json.Marshal(q.Answer)
	optionsJSON, _ := json.Marshal(q.Options)
	optionsPretty, _ := json.MarshalIndent(q.Options, "", "  ")

	startURL := q.Reference.URL
	if startURL == "" {
		startURL = docsURL
	}

	answerSchema := singleAnswerSchema
	if q.Type == exam.TypeMultiple {
		answerSchema = multipleAnswerSchema
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are validating product documentation. Follow this EXACT process:

IMPORTANT: You must ONLY use the documentation website.
- YOU MUST use the latest version of the documentation
- DO NOT use Google or any other search engine.

1. ANALYZE QUESTION AND CONTEXT:
- Question ID: %d
- Question: "%s"
- Type: %s (single=one answer, multiple=several answers)
- Current Answer(s): %s
- Extract key technical terms and features
- Options: %s

2. DOCUMENTATION SEARCH STRATEGY:
- Start at: %s
- Use the site search with extracted key terms
- Use the left navigation menu for context
- YOU MUST use the latest version of the documentation
- DO NOT use external search engines like Google

3. VALIDATE EACH OPTION:
Options to verify:
%s

For each option:
- Find explicit documentation evidence supporting or refuting it
- Note the specific section where evidence is found
- For multiple-answer questions, validate each option independently
- Consider configuration requirements and limitations

4. CRAFT DETAILED EXPLANATION:
- Explain WHY correct answers are correct and incorrect answers are incorrect
- FOCUS on WHY the answer is correct or incorrect, not WHAT the answer is.
- For incorrect options, explain why they're wrong
- Include configuration context if relevant
- Reference specific documentation sections
- For scenario questions, explain the reasoning for each option
- Provide a detailed, well-written explanation with a clear and concise answer, providing context where helpful for learning.
- Ensure the reference URL points to a specific relevant section of the documentation.
- DO NOT state that the answer is because the documentation says so, such as "The documentation indicates that..." since it is obvious that the documentation is the source of the answer.

5. VERIFY AND UPDATE REFERENCE:
- Ensure the URL points to the specific relevant section
- Include the exact document title
- Verify the URL is accessible and on the current version

6. RETURN AND FORMAT:
IMPORTANT:
- Return a properly formatted JSON object
- Use proper grammar and capitalization in all text
- Ensure options are returned as a proper array, not a string

Format the response exactly like this:
{
    "id": %d,
    "question": "Question text with proper capitalization",
    "options": [
        "Option 1",
        "Option 2",
        "Option 3"
    ],
%s
    "type": "%s",
    "explanation": "Detailed explanation with proper grammar and capitalization",
    "reference": {
        "document": "Exact document title",
        "url": "Specific documentation URL"
    }
}
`,
		q.ID, q.Question, q.Type, answerJSON, optionsJSON,
		startURL,
		optionsPretty,
		q.ID, answerSchema, q.Type,
	)
	return b.String()
}

package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ExamFile string
	DocsURL  string

	OpenRouterKey string
	Model         string
	Temperature   float64

	AgentMaxSteps int
	Headless      bool
	BrowserWidth  int
	BrowserHeight int

	LLMRPS    int
	LLMBurst  int
	LLMDryRun bool
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ExamFile:      get("EXAM_FILE", "exam.json"),
		DocsURL:       get("DOCS_URL", "https://docs.saviyntcloud.com"),
		OpenRouterKey: get("OPENROUTER_API_KEY", ""),
		Model:         get("LLM_MODEL", "gpt-4o"),
		Temperature:   parseFloat(get("LLM_TEMPERATURE", "0.7")),
		AgentMaxSteps: atoi(get("AGENT_MAX_STEPS", "20")),
		Headless:      parseBool(get("BROWSER_HEADLESS", "false")),
		BrowserWidth:  atoi(get("BROWSER_WIDTH", "1280")),
		BrowserHeight: atoi(get("BROWSER_HEIGHT", "1100")),
		LLMRPS:        atoi(get("LLM_RPS", "2")),
		LLMBurst:      atoi(get("LLM_BURST", "2")),
		LLMDryRun:     parseBool(get("LLM_DRY_RUN", "false")),
	}
}

func get(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
func atoi(s string) int       { i, _ := strconv.Atoi(s); return i }
func parseBool(s string) bool { b, _ := strconv.ParseBool(s); return b }
func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

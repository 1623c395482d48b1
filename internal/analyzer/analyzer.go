package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"google.golang.org/genai"
	"gorm.io/gorm"

	"github.com/scamscan/scamscan/internal/db"
	"github.com/scamscan/scamscan/internal/service"
)

// ErrNoAPIKey indicates that neither the settings override nor the
// process-level GEMINI_API_KEY is configured. Fatal to the job.
var ErrNoAPIKey = errors.New("no Gemini API key configured")

// ModelResponseError is empty or unparseable model output. The scam and
// secrets paths substitute a well-formed empty result instead of raising
// it; the code-audit path propagates it, since there is no meaningful
// default grade.
type ModelResponseError struct {
	Reason string
	Err    error
}

func (e *ModelResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model response error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("model response error: %s", e.Reason)
}

func (e *ModelResponseError) Unwrap() error {
	return e.Err
}

// Analysis is the parsed structured output of a scam or secrets scan.
// Severities and the overall tier are normalized to the known RiskLevel
// set at parse time.
type Analysis struct {
	OverallRisk      db.RiskLevel `json:"overallRisk"`
	RiskScore        int          `json:"riskScore"`
	Summary          string       `json:"summary"`
	DetailedAnalysis []db.Finding `json:"detailedAnalysis"`
}

// Audit is the parsed structured output of a code audit.
type Audit struct {
	Summary          string            `json:"summary"`
	DetailedAnalysis []db.AuditFinding `json:"detailedAnalysis"`
}

// Analyzer submits aggregated content to the generative model with one of
// the fixed prompt/schema variants. Settings are read before each call so
// a per-deployment API key override and token budget take effect without a
// restart.
type Analyzer struct {
	db         *gorm.DB
	client     ModelClient
	defaultKey string
}

// New creates an analyzer. The process-level key comes from
// GEMINI_API_KEY.
func New(dbConn *gorm.DB, client ModelClient) *Analyzer {
	return &Analyzer{
		db:         dbConn,
		client:     client,
		defaultKey: os.Getenv("GEMINI_API_KEY"),
	}
}

// AnalyzeGeneral runs the general risk scan. Empty or unparseable model
// output yields a well-formed empty result, never an error, so merge
// logic downstream has no special case for "no response".
func (a *Analyzer) AnalyzeGeneral(ctx context.Context, content string) (*Analysis, error) {
	return a.analyze(ctx, generalPrompt, content)
}

// AnalyzeSecrets runs the secrets-only scan with the same fallback
// behavior as AnalyzeGeneral.
func (a *Analyzer) AnalyzeSecrets(ctx context.Context, content string) (*Analysis, error) {
	return a.analyze(ctx, secretsPrompt, content)
}

// AnalyzeCode runs the code-audit scan. Unlike the scam/secrets paths,
// empty or malformed output is a *ModelResponseError.
func (a *Analyzer) AnalyzeCode(ctx context.Context, content string) (*Audit, error) {
	raw, err := a.generate(ctx, auditPrompt, auditSchema, content)
	if err != nil {
		return nil, err
	}

	cleaned := CleanModelJSON(raw)
	if cleaned == "" {
		return nil, &ModelResponseError{Reason: "model returned no output"}
	}

	var audit Audit
	if err := json.Unmarshal([]byte(cleaned), &audit); err != nil {
		return nil, &ModelResponseError{Reason: "model returned invalid JSON", Err: err}
	}
	return &audit, nil
}

func (a *Analyzer) analyze(ctx context.Context, prompt, content string) (*Analysis, error) {
	raw, err := a.generate(ctx, prompt, analysisSchema, content)
	if err != nil {
		return nil, err
	}

	cleaned := CleanModelJSON(raw)
	if cleaned == "" {
		log.Println("Model returned empty output, substituting empty result")
		return emptyAnalysis("The model returned no output; the content could not be analyzed."), nil
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(cleaned), &analysis); err != nil {
		log.Printf("Model returned invalid JSON, substituting empty result: %v", err)
		return emptyAnalysis("The model returned an unreadable response; the content could not be analyzed."), nil
	}

	analysis.OverallRisk = db.ParseRiskLevel(string(analysis.OverallRisk))
	for i := range analysis.DetailedAnalysis {
		analysis.DetailedAnalysis[i].Severity = db.ParseRiskLevel(string(analysis.DetailedAnalysis[i].Severity))
	}
	return &analysis, nil
}

// generate resolves the API key and token budget, then issues the model
// call with the prompt prepended to the content.
func (a *Analyzer) generate(ctx context.Context, prompt string, schema *genai.Schema, content string) (string, error) {
	apiKey := a.defaultKey
	maxTokens := int32(8192)

	settings, err := service.GetSettings(a.db)
	if err != nil {
		log.Printf("Could not load settings, using process defaults: %v", err)
	} else {
		if settings.GeminiAPIKey != "" {
			apiKey = settings.GeminiAPIKey
		}
		if settings.MaxOutputTokens > 0 {
			maxTokens = int32(settings.MaxOutputTokens)
		}
	}

	if apiKey == "" {
		return "", ErrNoAPIKey
	}

	return a.client.Generate(ctx, apiKey, prompt+"\n\n"+content, schema, maxTokens)
}

func emptyAnalysis(summary string) *Analysis {
	return &Analysis{
		OverallRisk:      db.RiskUnknown,
		RiskScore:        0,
		Summary:          summary,
		DetailedAnalysis: []db.Finding{},
	}
}

var trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)

// CleanModelJSON strips markdown code-fence markers and trailing commas
// before closing brackets, tolerating slightly malformed model output.
func CleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

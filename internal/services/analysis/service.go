// Package analysis generates AI analyses of company fundamentals
package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/llmjson"
	"github.com/Tejaspatil1175/finora/internal/models"
)

// Service implements AnalysisService
type Service struct {
	storage  interfaces.StorageManager
	company  interfaces.CompanyService
	llm      interfaces.LLMClient
	cacheTTL time.Duration
	logger   *common.Logger
}

var _ interfaces.AnalysisService = (*Service)(nil)

// NewService creates a new analysis service
func NewService(
	storage interfaces.StorageManager,
	company interfaces.CompanyService,
	llm interfaces.LLMClient,
	cacheTTL time.Duration,
	logger *common.Logger,
) *Service {
	return &Service{
		storage:  storage,
		company:  company,
		llm:      llm,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// AnalyzeCompany returns the stored analysis while it is fresh and
// generates a new one otherwise. Generation ensures the company record
// exists first, so analyzing an unknown symbol triggers a provider fetch.
func (s *Service) AnalyzeCompany(ctx context.Context, symbol string) (*models.Analysis, bool, error) {
	data, err := s.company.GetCompanyData(ctx, symbol)
	if err != nil {
		return nil, false, err
	}
	symbol = data.Symbol

	if data.Analysis != nil && common.IsFresh(data.Analysis.CreatedAt, s.cacheTTL) {
		s.logger.Debug().Str("symbol", symbol).Msg("Serving cached analysis")
		return data.Analysis, true, nil
	}

	analysis, err := s.generate(ctx, data.Metrics)
	if err != nil {
		return nil, false, err
	}

	record, err := s.storage.Companies().Get(ctx, symbol)
	if err != nil {
		return nil, false, err
	}
	record.Analysis = analysis
	if err := s.storage.Companies().Upsert(ctx, record); err != nil {
		return nil, false, err
	}

	s.logger.Info().Str("symbol", symbol).Str("risk", analysis.Risk).Msg("Analysis generated")
	return analysis, false, nil
}

// GetAnalysis returns the stored analysis without generating.
func (s *Service) GetAnalysis(ctx context.Context, symbol string) (*models.Analysis, error) {
	record, err := s.storage.Companies().Get(ctx, normalizeSymbol(symbol))
	if err != nil {
		return nil, err
	}
	if record.Analysis == nil {
		return nil, fmt.Errorf("analysis for '%s': %w", record.Symbol, models.ErrNotFound)
	}
	return record.Analysis, nil
}

// DeleteAnalysis removes the stored analysis so the next request
// regenerates.
func (s *Service) DeleteAnalysis(ctx context.Context, symbol string) error {
	record, err := s.storage.Companies().Get(ctx, normalizeSymbol(symbol))
	if err != nil {
		return err
	}
	record.Analysis = nil
	return s.storage.Companies().Upsert(ctx, record)
}

// parsedAnalysis is the JSON shape the prompt demands from the model
type parsedAnalysis struct {
	Summary    string                  `json:"summary"`
	Insights   models.AnalysisInsights `json:"insights"`
	Risk       string                  `json:"risk"`
	Suggestion string                  `json:"suggestion"`
}

// generate runs the LLM over the metrics and parses the response
// tolerantly. An unparsable response still yields a usable analysis with
// the raw text as summary.
func (s *Service) generate(ctx context.Context, metrics models.CompanyMetrics) (*models.Analysis, error) {
	prompt, err := buildAnalysisPrompt(metrics)
	if err != nil {
		return nil, err
	}

	text, err := s.llm.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate analysis: %w", err)
	}

	analysis := &models.Analysis{
		AnalysisID:  uuid.New().String(),
		Model:       s.llm.Model(),
		RawResponse: text,
		CreatedAt:   time.Now().UTC(),
	}

	var parsed parsedAnalysis
	if llmjson.RepairAndParse(text, &parsed) {
		analysis.Summary = parsed.Summary
		analysis.Insights = parsed.Insights
		analysis.Risk = parsed.Risk
		analysis.Suggestion = parsed.Suggestion
	} else {
		s.logger.Warn().Str("model", analysis.Model).Msg("Analysis response not parsable as JSON, using fallback")
		analysis.Summary = text
		analysis.Risk = "Medium"
		analysis.Suggestion = "Further analysis recommended"
	}

	return analysis, nil
}

// buildAnalysisPrompt renders the fixed analysis prompt over the metrics.
func buildAnalysisPrompt(metrics models.CompanyMetrics) (string, error) {
	metricsJSON, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode metrics: %w", err)
	}

	return fmt.Sprintf(`You are an expert financial analyst. Analyze the following company metrics and provide a comprehensive analysis in JSON format.

Company Metrics:
%s

Provide your analysis in the following JSON structure:
{
  "summary": "2-3 sentence summary of the company's overall financial health",
  "insights": {
    "peRatio": "Plain English explanation of PE Ratio (1 sentence)",
    "roe": "Plain English explanation of ROE (1 sentence)",
    "debtEquity": "Plain English explanation of Debt/Equity ratio (1 sentence)",
    "profitMargin": "Plain English explanation of Profit Margin (1 sentence)",
    "revenue": "Plain English explanation of Revenue trends (1 sentence)",
    "eps": "Plain English explanation of EPS (1 sentence)"
  },
  "risk": "Low/Medium/High with brief justification",
  "suggestion": "One-line actionable suggestion for retail investors"
}

Important:
- Use simple language that a beginner investor can understand
- Avoid jargon where possible, or explain it
- Be honest about risks
- Base analysis only on provided data
- Return ONLY valid JSON, no markdown or extra text`, metricsJSON), nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

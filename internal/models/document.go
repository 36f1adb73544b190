package models

import "time"

// Document processing states. Transitions are persisted before and after
// each pipeline stage so a crash leaves an inspectable status; FAILED is
// terminal and reachable from any in-progress state.
const (
	DocumentUploaded   = "UPLOADED"
	DocumentExtracting = "EXTRACTING"
	DocumentExtracted  = "EXTRACTED"
	DocumentAnalyzing  = "ANALYZING"
	DocumentCompleted  = "COMPLETED"
	DocumentFailed     = "FAILED"
)

// Document categories select the analysis prompt template.
const (
	CategoryBankStatement = "BANK_STATEMENT"
	CategoryCompanyReport = "COMPANY_REPORT"
	CategoryOther         = "OTHER"
)

// InProgressStatus reports whether a status is a non-terminal pipeline state.
func InProgressStatus(status string) bool {
	switch status {
	case DocumentExtracting, DocumentExtracted, DocumentAnalyzing:
		return true
	}
	return false
}

// ChartSeries is a labelled value series inside a document analysis
// (e.g. monthly spending, revenue growth).
type ChartSeries struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// DocumentAnalysis is the structured financial-findings record produced by
// the document analysis engine. Field sets vary by category, so metrics and
// insights stay loosely typed.
type DocumentAnalysis struct {
	Summary          string                 `json:"summary"`
	KeyFindings      []string               `json:"keyFindings"`
	FinancialMetrics map[string]any         `json:"financialMetrics"`
	Insights         map[string]any         `json:"insights"`
	ChartData        map[string]ChartSeries `json:"chartData"`
	Risks            []string               `json:"risks"`
	Opportunities    []string               `json:"opportunities"`
	Model            string                 `json:"llmModel,omitempty"`
	AnalyzedAt       time.Time              `json:"analyzedAt"`
}

// Document is an uploaded financial document and its processing state,
// keyed by document ID. ExtractedText is large and excluded from listing
// responses; it is loaded on demand only.
type Document struct {
	DocumentID      string            `json:"documentId" badgerhold:"key"`
	UserID          string            `json:"userId" badgerhold:"index"`
	FileName        string            `json:"fileName"`
	FileType        string            `json:"fileType"` // PDF, CSV, TEXT
	Category        string            `json:"category"`
	FileSize        int64             `json:"fileSize"`
	FilePath        string            `json:"-"`
	Status          string            `json:"processingStatus"`
	ExtractedText   string            `json:"extractedText,omitempty"`
	Analysis        *DocumentAnalysis `json:"analysis,omitempty"`
	ProcessingError string            `json:"processingError,omitempty"`
	UploadedAt      time.Time         `json:"uploadedAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Listing returns a copy with the large extracted-text field cleared.
func (d *Document) Listing() *Document {
	c := *d
	c.ExtractedText = ""
	return &c
}

// Package document manages uploaded financial documents and their
// asynchronous extraction and analysis pipeline.
package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/llmjson"
	"github.com/Tejaspatil1175/finora/internal/models"
)

const queueCapacity = 256

// Service implements DocumentService. Uploads are acknowledged immediately
// in UPLOADED state and processed by background workers.
type Service struct {
	storage   interfaces.StorageManager
	llm       interfaces.LLMClient
	uploadDir string
	workers   int
	logger    *common.Logger

	queue chan string
	wg    sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

var _ interfaces.DocumentService = (*Service)(nil)

// NewService creates a new document service
func NewService(
	storage interfaces.StorageManager,
	llm interfaces.LLMClient,
	uploadDir string,
	workers int,
	logger *common.Logger,
) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		storage:   storage,
		llm:       llm,
		uploadDir: uploadDir,
		workers:   workers,
		logger:    logger,
		queue:     make(chan string, queueCapacity),
	}
}

// Start sweeps orphaned in-progress documents and launches the worker
// pool. Documents left mid-pipeline by a previous run are marked FAILED
// rather than silently resumed.
func (s *Service) Start(ctx context.Context) error {
	var startErr error
	s.startOnce.Do(func() {
		if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
			startErr = fmt.Errorf("failed to create upload directory: %w", err)
			return
		}

		if err := s.recoverOrphans(ctx); err != nil {
			startErr = err
			return
		}

		for i := 0; i < s.workers; i++ {
			s.safeGo(fmt.Sprintf("document-worker-%d", i), func() {
				s.workerLoop(ctx)
			})
		}
		s.logger.Info().Int("workers", s.workers).Msg("Document workers started")
	})
	return startErr
}

// Stop closes the queue and waits for in-flight processing to finish.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.queue)
		s.wg.Wait()
		s.logger.Info().Msg("Document workers stopped")
	})
}

// Submit stores the upload and enqueues it for processing. The returned
// document is in UPLOADED state; processing happens in the background.
func (s *Service) Submit(ctx context.Context, userID, fileName, fileType, category string, content []byte) (*models.Document, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if fileName == "" {
		return nil, fmt.Errorf("file name is required")
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	if fileType == "" {
		fileType = FileTypeForName(fileName)
	}

	documentID := "DOC-" + uuid.New().String()
	storedName := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), documentID, filepath.Ext(fileName))
	path := filepath.Join(s.uploadDir, storedName)

	if err := os.WriteFile(path, content, 0644); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	now := time.Now().UTC()
	doc := &models.Document{
		DocumentID: documentID,
		UserID:     userID,
		FileName:   fileName,
		FileType:   fileType,
		Category:   normalizeCategory(category),
		FileSize:   int64(len(content)),
		FilePath:   path,
		Status:     models.DocumentUploaded,
		UploadedAt: now,
		UpdatedAt:  now,
	}

	if err := s.storage.Documents().Upsert(ctx, doc); err != nil {
		os.Remove(path)
		return nil, err
	}

	select {
	case s.queue <- documentID:
	default:
		s.failDocument(ctx, doc, fmt.Errorf("processing queue full"))
		return nil, fmt.Errorf("processing queue full, try again later")
	}

	s.logger.Info().
		Str("document", documentID).
		Str("user", userID).
		Str("type", fileType).
		Int64("size", doc.FileSize).
		Msg("Document submitted for processing")

	return doc, nil
}

// Get returns one document with its extracted text and analysis.
func (s *Service) Get(ctx context.Context, userID, documentID string) (*models.Document, error) {
	doc, err := s.storage.Documents().Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.UserID != userID {
		return nil, fmt.Errorf("document '%s': %w", documentID, models.ErrNotFound)
	}
	return doc, nil
}

// List returns the user's documents, newest first, without extracted text.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Document, error) {
	docs, err := s.storage.Documents().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	listings := make([]*models.Document, len(docs))
	for i := range docs {
		listings[i] = docs[i].Listing()
	}
	return listings, nil
}

// Delete removes the document record and its stored file.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	doc, err := s.Get(ctx, userID, documentID)
	if err != nil {
		return err
	}
	if err := s.storage.Documents().Delete(ctx, documentID); err != nil {
		return err
	}
	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn().Str("document", documentID).Err(err).Msg("Failed to remove stored file")
		}
	}
	return nil
}

// recoverOrphans marks documents stuck mid-pipeline as FAILED.
func (s *Service) recoverOrphans(ctx context.Context) error {
	stuck, err := s.storage.Documents().ListInProgress(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep orphaned documents: %w", err)
	}
	for i := range stuck {
		doc := &stuck[i]
		doc.Status = models.DocumentFailed
		doc.ProcessingError = "processing interrupted by server restart"
		doc.UpdatedAt = time.Now().UTC()
		if err := s.storage.Documents().Upsert(ctx, doc); err != nil {
			return err
		}
		s.logger.Warn().Str("document", doc.DocumentID).Msg("Orphaned document marked failed")
	}
	return nil
}

func (s *Service) workerLoop(ctx context.Context) {
	for documentID := range s.queue {
		s.process(ctx, documentID)
	}
}

// process runs the full pipeline for one document. The status is persisted
// before and after each stage; any error short-circuits to FAILED. A panic
// in a stage (malformed PDFs can panic the parser) is recovered here so the
// document lands in FAILED and the worker survives to take the next task.
func (s *Service) process(ctx context.Context, documentID string) {
	doc, err := s.storage.Documents().Get(ctx, documentID)
	if err != nil {
		s.logger.Error().Str("document", documentID).Err(err).Msg("Queued document vanished")
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("document", documentID).
				Str("panic", fmt.Sprintf("%v", r)).
				Str("stack", string(debug.Stack())).
				Msg("Recovered from panic while processing document")
			s.failDocument(ctx, doc, fmt.Errorf("processing panicked: %v", r))
		}
	}()

	s.runPipeline(ctx, doc)
}

func (s *Service) runPipeline(ctx context.Context, doc *models.Document) {
	if err := s.setStatus(ctx, doc, models.DocumentExtracting); err != nil {
		return
	}

	text, err := ExtractText(doc.FilePath, doc.FileType)
	if err != nil {
		s.failDocument(ctx, doc, err)
		return
	}
	doc.ExtractedText = text
	if err := s.setStatus(ctx, doc, models.DocumentExtracted); err != nil {
		return
	}

	if err := s.setStatus(ctx, doc, models.DocumentAnalyzing); err != nil {
		return
	}

	analysis, err := s.analyze(ctx, text, doc.Category)
	if err != nil {
		s.failDocument(ctx, doc, err)
		return
	}
	doc.Analysis = analysis
	if err := s.setStatus(ctx, doc, models.DocumentCompleted); err != nil {
		return
	}

	s.logger.Info().
		Str("document", doc.DocumentID).
		Int("text_chars", len(text)).
		Msg("Document processed")
}

// analyze runs the category prompt over the extracted text and parses the
// response tolerantly. Unparsable output still completes with the raw text
// as summary and empty containers.
func (s *Service) analyze(ctx context.Context, text, category string) (*models.DocumentAnalysis, error) {
	prompt := buildAnalysisPrompt(text, category)

	response, err := s.llm.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze document: %w", err)
	}

	analysis := &models.DocumentAnalysis{
		Model:      s.llm.Model(),
		AnalyzedAt: time.Now().UTC(),
	}
	var parsed models.DocumentAnalysis
	if llmjson.RepairAndParse(response, &parsed) {
		analysis.Summary = parsed.Summary
		analysis.KeyFindings = parsed.KeyFindings
		analysis.FinancialMetrics = parsed.FinancialMetrics
		analysis.Insights = parsed.Insights
		analysis.ChartData = parsed.ChartData
		analysis.Risks = parsed.Risks
		analysis.Opportunities = parsed.Opportunities
	} else {
		s.logger.Warn().Msg("Document analysis response not parsable as JSON, using fallback")
		analysis.Summary = response
		analysis.KeyFindings = []string{}
		analysis.FinancialMetrics = map[string]any{}
		analysis.Insights = map[string]any{}
		analysis.ChartData = map[string]models.ChartSeries{}
		analysis.Risks = []string{}
		analysis.Opportunities = []string{}
	}
	return analysis, nil
}

func (s *Service) setStatus(ctx context.Context, doc *models.Document, status string) error {
	doc.Status = status
	doc.UpdatedAt = time.Now().UTC()
	if err := s.storage.Documents().Upsert(ctx, doc); err != nil {
		s.logger.Error().Str("document", doc.DocumentID).Str("status", status).Err(err).Msg("Failed to persist document status")
		return err
	}
	return nil
}

func (s *Service) failDocument(ctx context.Context, doc *models.Document, cause error) {
	doc.Status = models.DocumentFailed
	doc.ProcessingError = cause.Error()
	doc.UpdatedAt = time.Now().UTC()
	if err := s.storage.Documents().Upsert(ctx, doc); err != nil {
		s.logger.Error().Str("document", doc.DocumentID).Err(err).Msg("Failed to persist FAILED status")
	}
	s.logger.Warn().Str("document", doc.DocumentID).Err(cause).Msg("Document processing failed")
}

// safeGo launches fn on a tracked goroutine with panic recovery.
func (s *Service) safeGo(name string, fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error().
					Str("goroutine", name).
					Str("panic", fmt.Sprintf("%v", r)).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic in document worker")
			}
		}()
		fn()
	}()
}

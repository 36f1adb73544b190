// Package chat orchestrates conversational turns over multi-source
// financial context.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/interfaces"
	"github.com/Tejaspatil1175/finora/internal/llmjson"
	"github.com/Tejaspatil1175/finora/internal/models"
)

// Service implements ChatService
type Service struct {
	storage   interfaces.StorageManager
	portfolio interfaces.PortfolioService
	llm       interfaces.LLMClient
	search    interfaces.WebSearchClient
	logger    *common.Logger
}

var _ interfaces.ChatService = (*Service)(nil)

// NewService creates a new chat service
func NewService(
	storage interfaces.StorageManager,
	portfolio interfaces.PortfolioService,
	llm interfaces.LLMClient,
	search interfaces.WebSearchClient,
	logger *common.Logger,
) *Service {
	return &Service{
		storage:   storage,
		portfolio: portfolio,
		llm:       llm,
		search:    search,
		logger:    logger,
	}
}

// turnContext carries everything gathered for one conversational turn.
// Sources that fail to load stay nil; a missing source never fails the
// turn.
type turnContext struct {
	company   *models.CompanyRecord
	portfolio *models.PortfolioContext
	documents []models.Document
	results   []models.SearchResult
}

// Chat runs one conversational turn. Context sources are gathered
// concurrently and each failure is logged and dropped rather than
// propagated; only LLM generation and session persistence are fatal.
func (s *Service) Chat(ctx context.Context, userID, sessionID, symbol, message string) (*models.ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	tc := s.gatherContext(ctx, userID, symbol)

	session, err := s.storage.Chats().Get(ctx, sessionID)
	if err != nil {
		now := time.Now().UTC()
		session = &models.ChatSession{
			SessionID: sessionID,
			Symbol:    sessionSymbol(symbol),
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	history := session.Tail(common.MaxHistoryMessages)

	usedWebSearch := s.shouldUseWebSearch(ctx, message, tc.company)

	var webSources []models.Source
	if usedWebSearch {
		tc.results, webSources = s.performSearch(ctx, message, tc.company)
	}

	prompt := buildChatPrompt(message, tc, history)

	text, err := s.llm.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate chat response: %w", err)
	}

	parsed := parseChatResponse(text)
	parsed.Sources = append(parsed.Sources, webSources...)

	now := time.Now().UTC()
	session.Messages = append(session.Messages,
		models.ChatMessage{
			Role:      models.RoleUser,
			Content:   message,
			Timestamp: now,
		},
		models.ChatMessage{
			Role:          models.RoleAssistant,
			Content:       parsed.Answer,
			Timestamp:     now,
			UsedWebSearch: usedWebSearch,
			Sources:       parsed.Sources,
			Chart:         parsed.Chart,
		},
	)
	session.UpdatedAt = now

	if err := s.storage.Chats().Upsert(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("session", sessionID).
		Str("symbol", session.Symbol).
		Bool("web_search", usedWebSearch).
		Msg("Chat turn complete")

	return &models.ChatReply{
		SessionID:     sessionID,
		Answer:        parsed.Answer,
		Chart:         parsed.Chart,
		Sources:       parsed.Sources,
		UsedWebSearch: usedWebSearch,
		Timestamp:     now,
	}, nil
}

// NewSession mints a session scoped to the symbol without persisting it;
// the session is stored on its first turn.
func (s *Service) NewSession(_ context.Context, symbol string) (*models.ChatSession, error) {
	now := time.Now().UTC()
	return &models.ChatSession{
		SessionID: uuid.New().String(),
		Symbol:    sessionSymbol(strings.ToUpper(strings.TrimSpace(symbol))),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetHistory returns the session's messages, oldest first.
func (s *Service) GetHistory(ctx context.Context, sessionID string) (*models.ChatSession, error) {
	return s.storage.Chats().Get(ctx, sessionID)
}

// DeleteSession removes the session and its history.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.storage.Chats().Get(ctx, sessionID); err != nil {
		return err
	}
	return s.storage.Chats().Delete(ctx, sessionID)
}

// gatherContext loads the company record, portfolio snapshot, and completed
// documents in parallel. Each source is isolated: a failing source logs and
// contributes nothing.
func (s *Service) gatherContext(ctx context.Context, userID, symbol string) *turnContext {
	tc := &turnContext{}

	var wg sync.WaitGroup

	if symbol != "" && symbol != models.GeneralSymbol {
		wg.Add(1)
		go func() {
			defer wg.Done()
			record, err := s.storage.Companies().Get(ctx, symbol)
			if err != nil {
				s.logger.Debug().Str("symbol", symbol).Err(err).Msg("No company context for chat")
				return
			}
			tc.company = record
		}()
	}

	if userID != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pc, err := s.portfolio.ContextSummary(ctx, userID)
			if err != nil {
				s.logger.Warn().Str("user", userID).Err(err).Msg("Failed to load portfolio context for chat")
				return
			}
			tc.portfolio = pc
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			docs, err := s.storage.Documents().ListByUser(ctx, userID)
			if err != nil {
				s.logger.Warn().Str("user", userID).Err(err).Msg("Failed to load documents for chat")
				return
			}
			for _, d := range docs {
				if d.Status != models.DocumentCompleted || d.Analysis == nil {
					continue
				}
				tc.documents = append(tc.documents, d)
				if len(tc.documents) == common.MaxContextDocs {
					break
				}
			}
		}()
	}

	wg.Wait()
	return tc
}

// shouldUseWebSearch asks the LLM whether the question needs current
// information. Any failure or ambiguous answer means no search.
func (s *Service) shouldUseWebSearch(ctx context.Context, message string, company *models.CompanyRecord) bool {
	companyJSON := "null"
	if company != nil {
		if data, err := marshalIndent(company.Metrics); err == nil {
			companyJSON = data
		}
	}

	prompt := fmt.Sprintf(`Given this user question about a company: "%s"

And this available company data:
%s

Respond with ONLY "YES" or "NO" - does this question require current/real-time information that isn't in the company data?

Examples:
- "What's the current stock price?" -> YES
- "Latest news about this company?" -> YES
- "What's the PE ratio?" -> NO (if in data)
- "Explain the profit margin" -> NO
- "Recent earnings report?" -> YES

Your answer (YES or NO):`, message, companyJSON)

	answer, err := s.llm.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Web search classifier failed, skipping search")
		return false
	}
	return strings.Contains(strings.ToUpper(strings.TrimSpace(answer)), "YES")
}

// performSearch runs the web search and converts hits to citation sources.
// Failures degrade to no results.
func (s *Service) performSearch(ctx context.Context, message string, company *models.CompanyRecord) ([]models.SearchResult, []models.Source) {
	query := message
	if company != nil {
		query = fmt.Sprintf("%s %s %s", company.Metrics.Name, company.Symbol, message)
	}

	results, err := s.search.Search(ctx, query, common.MaxSearchResults)
	if err != nil {
		s.logger.Warn().Str("query", query).Err(err).Msg("Web search failed, continuing without results")
		return nil, nil
	}

	sources := make([]models.Source, 0, len(results))
	for _, r := range results {
		name := r.Source
		if name == "" {
			name = r.Title
		}
		sources = append(sources, models.Source{Name: name, URL: r.URL})
	}
	return results, sources
}

// chatResponse is the JSON shape the prompt demands from the model
type chatResponse struct {
	Answer  string            `json:"answer"`
	Chart   *models.ChartSpec `json:"chart"`
	Sources []models.Source   `json:"sources"`
}

// parseChatResponse parses the model output tolerantly; an unparsable
// response becomes a plain answer with no chart or sources.
func parseChatResponse(text string) *chatResponse {
	var parsed chatResponse
	if llmjson.RepairAndParse(text, &parsed) && parsed.Answer != "" {
		return &parsed
	}
	return &chatResponse{Answer: text}
}

func sessionSymbol(symbol string) string {
	if symbol == "" {
		return models.GeneralSymbol
	}
	return symbol
}

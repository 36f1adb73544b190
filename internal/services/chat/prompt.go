package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Tejaspatil1175/finora/internal/models"
)

// buildChatPrompt composes the generation prompt. Sections for absent
// context are omitted entirely, never rendered empty, and the section
// order is fixed: question, company, portfolio, documents, web results,
// history, then the output format instructions.
func buildChatPrompt(message string, tc *turnContext, history []models.ChatMessage) string {
	var b strings.Builder

	b.WriteString("You are Finora, an AI-powered financial analyst and investment advisor.\n\n")
	fmt.Fprintf(&b, "USER QUESTION: %s\n\n", message)

	if tc.company != nil {
		m := tc.company.Metrics
		fmt.Fprintf(&b, "COMPANY DATA (%s - %s):\n", tc.company.Symbol, m.Name)
		fmt.Fprintf(&b, "- Market Cap: %s\n", fmtNum(m.MarketCap))
		fmt.Fprintf(&b, "- P/E Ratio: %s\n", fmtNum(m.PERatio))
		fmt.Fprintf(&b, "- EPS: %s\n", fmtNum(m.EPS))
		fmt.Fprintf(&b, "- Sector: %s\n", fmtStr(m.Sector))
		fmt.Fprintf(&b, "- Revenue: %s\n\n", fmtNum(m.Revenue))

		summary, risk := "Not available", "Unknown"
		if tc.company.Analysis != nil {
			if tc.company.Analysis.Summary != "" {
				summary = tc.company.Analysis.Summary
			}
			if tc.company.Analysis.Risk != "" {
				risk = tc.company.Analysis.Risk
			}
		}
		fmt.Fprintf(&b, "Analysis Summary: %s\n", summary)
		fmt.Fprintf(&b, "Risk Level: %s\n\n", risk)
	}

	if tc.portfolio != nil {
		p := tc.portfolio
		b.WriteString("USER PORTFOLIO:\n")
		fmt.Fprintf(&b, "- Cash Balance: $%.2f\n", p.CashBalance)
		fmt.Fprintf(&b, "- Total Portfolio Value: $%.2f\n", p.TotalValue)
		fmt.Fprintf(&b, "- Total Invested: $%.2f\n", p.TotalInvested)
		fmt.Fprintf(&b, "- Overall P/L: $%.2f\n\n", p.ProfitLoss)

		b.WriteString("Current Holdings:\n")
		if len(p.Holdings) == 0 {
			b.WriteString("None\n")
		}
		for _, h := range p.Holdings {
			fmt.Fprintf(&b, "  - %s: %g shares @ $%.2f (P/L: %.2f%%)\n",
				h.Symbol, h.Quantity, h.CurrentPrice, h.ProfitLossPct)
		}
		b.WriteString("\n")
	}

	if len(tc.documents) > 0 {
		b.WriteString("USER DOCUMENTS:\n")
		for _, doc := range tc.documents {
			fmt.Fprintf(&b, "- %s (%s):\n", doc.FileName, doc.Category)
			fmt.Fprintf(&b, "  Summary: %s\n", fmtStr(doc.Analysis.Summary))
			fmt.Fprintf(&b, "  Key Findings: %s\n", fmtStr(strings.Join(doc.Analysis.KeyFindings, ", ")))
		}
		b.WriteString("\n")
	}

	if len(tc.results) > 0 {
		b.WriteString("LATEST WEB SEARCH RESULTS:\n")
		for i, r := range tc.results {
			fmt.Fprintf(&b, "%d. %s\n", i+1, r.Title)
			fmt.Fprintf(&b, "   Source: %s - %s\n", r.Source, r.URL)
			fmt.Fprintf(&b, "   %s\n", r.Snippet)
		}
		b.WriteString("\n")
	}

	if len(history) > 0 {
		b.WriteString("RECENT CONVERSATION:\n")
		for _, msg := range history {
			role := "Assistant"
			if msg.Role == models.RoleUser {
				role = "User"
			}
			fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
		}
		b.WriteString("\n")
	}

	b.WriteString(`INSTRUCTIONS:
1. Provide a comprehensive, intelligent answer based on ALL available data above
2. If you use web search results, cite the sources properly
3. If the question involves financial analysis, provide specific recommendations
4. Consider the user's portfolio and risk tolerance in your advice
5. If appropriate, generate chart data for visualization

Return your response in the following JSON format:
{
  "answer": "Your detailed response here",
  "chart": {
    "type": "line" | "bar" | "pie",
    "title": "Chart title",
    "labels": ["Label1", "Label2"],
    "values": [100, 200]
  },
  "sources": [
    { "name": "Source Name", "url": "https://..." }
  ]
}

If no chart is needed, omit the "chart" field.
If no external sources were used, omit the "sources" field.

RESPOND ONLY WITH THE JSON, NO ADDITIONAL TEXT.`)

	return b.String()
}

func fmtNum(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%g", *v)
}

func fmtStr(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func marshalIndent(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

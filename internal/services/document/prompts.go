package document

import (
	"fmt"
	"unicode/utf8"

	"github.com/Tejaspatil1175/finora/internal/common"
	"github.com/Tejaspatil1175/finora/internal/models"
)

// buildAnalysisPrompt selects the category template and renders it over the
// extracted text, truncated to MaxDocumentChars on a rune boundary.
func buildAnalysisPrompt(extractedText, category string) string {
	if len(extractedText) > common.MaxDocumentChars {
		cut := common.MaxDocumentChars
		for cut > 0 && !utf8.RuneStart(extractedText[cut]) {
			cut--
		}
		extractedText = extractedText[:cut]
	}

	switch category {
	case models.CategoryBankStatement:
		return fmt.Sprintf(bankStatementPrompt, extractedText)
	case models.CategoryCompanyReport:
		return fmt.Sprintf(companyReportPrompt, extractedText)
	default:
		return fmt.Sprintf(genericPrompt, extractedText)
	}
}

const bankStatementPrompt = `Analyze this bank statement and extract key financial information.

Bank Statement Text:
%s

Return a JSON response with:
{
  "summary": "Brief summary of the account activity",
  "keyFindings": ["finding1", "finding2"],
  "financialMetrics": {
    "totalIncome": number,
    "totalExpenses": number,
    "averageBalance": number,
    "largestTransaction": number,
    "transactionCount": number
  },
  "insights": {
    "spendingPattern": "description",
    "savingsRate": number,
    "cashFlow": "positive/negative"
  },
  "chartData": {
    "monthlySpending": {
      "labels": ["Jan", "Feb", "Mar"],
      "values": [1000, 1200, 900]
    },
    "categoryBreakdown": {
      "labels": ["Food", "Rent", "Transport"],
      "values": [500, 1500, 300]
    }
  },
  "risks": ["risk1", "risk2"],
  "opportunities": ["opportunity1", "opportunity2"]
}

Provide only the JSON response, no additional text.`

const companyReportPrompt = `Analyze this company financial report and extract key information.

Report Text:
%s

Return a JSON response with:
{
  "summary": "Brief summary of company performance",
  "keyFindings": ["finding1", "finding2"],
  "financialMetrics": {
    "revenue": number,
    "netIncome": number,
    "profitMargin": number,
    "growth": number,
    "cashFlow": number
  },
  "insights": {
    "performance": "description",
    "competitivePosition": "description",
    "futureOutlook": "description"
  },
  "chartData": {
    "revenueGrowth": {
      "labels": ["2021", "2022", "2023"],
      "values": [100, 120, 150]
    },
    "profitability": {
      "labels": ["Q1", "Q2", "Q3", "Q4"],
      "values": [10, 12, 15, 18]
    }
  },
  "risks": ["risk1", "risk2"],
  "opportunities": ["opportunity1", "opportunity2"]
}

Provide only the JSON response, no additional text.`

const genericPrompt = `Analyze this financial document and extract key information.

Document Text:
%s

Return a JSON response with:
{
  "summary": "Brief summary",
  "keyFindings": ["finding1", "finding2"],
  "financialMetrics": {},
  "insights": {},
  "chartData": {},
  "risks": [],
  "opportunities": []
}

Provide only the JSON response, no additional text.`

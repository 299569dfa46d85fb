// Package advisor answers free-form questions about the current period through a language model.
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"cashflow/internal/aggregate"
	"cashflow/internal/core"
)

// ActionRequiredPrefix marks replies that tell the user to fix their model setup.
const ActionRequiredPrefix = "ACTION_REQUIRED:"

const (
	DefaultModel = "gemini-2.5-flash"

	emptyReply    = "I processed your request but couldn't formulate a text response. Please try rephrasing."
	noAccessReply = ActionRequiredPrefix + " The configured API key does not have access to the selected model. Choose a project with billing enabled."
	badKeyReply   = ActionRequiredPrefix + " There is an issue with the API key. Check that it is valid and belongs to a project with billing enabled."
)

var ErrEmptyQuestion = errors.New("question is empty")

// Advisor produces advice text for a question about the given period.
type Advisor interface {
	Advise(ctx context.Context, question string, summary aggregate.Summary, txs []core.Transaction) (string, error)
}

// NeedsReconfiguration reports whether text is an ACTION_REQUIRED reply and
// returns the message without the marker.
func NeedsReconfiguration(text string) (string, bool) {
	rest, ok := strings.CutPrefix(text, ActionRequiredPrefix)
	if !ok {
		return text, false
	}
	return strings.TrimSpace(rest), true
}

type promptTx struct {
	Name     string               `json:"name"`
	Amount   float64              `json:"amount"`
	Type     core.TransactionType `json:"type"`
	Category string               `json:"category"`
	Date     core.Day             `json:"date"`
}

// BuildPrompt renders the system instruction for one period.
func BuildPrompt(summary aggregate.Summary, txs []core.Transaction) string {
	list := make([]promptTx, 0, len(txs))
	for _, tx := range txs {
		cat := tx.Category
		if cat == "" {
			cat = "N/A"
		}
		list = append(list, promptTx{Name: tx.Name, Amount: tx.ActualAmount, Type: tx.Type, Category: cat, Date: tx.Date})
	}
	txJSON, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		txJSON = []byte("[]")
	}

	var b strings.Builder
	b.WriteString("You are a financial advisor and data analyst for a personal budgeting app.\n")
	b.WriteString("The user has provided their cash flow data for the current period.\n\n")
	b.WriteString("Help them understand their finances, find ways to save and identify spending patterns.\n\n")
	b.WriteString("Current Financial Snapshot:\n")
	fmt.Fprintf(&b, "- Total Income: %s\n", summary.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "- Total Savings: %s\n", summary.TotalSavings.StringFixed(2))
	fmt.Fprintf(&b, "- Total Expenses: %s\n", summary.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&b, "- Variable Expenses (included in total): %s\n", summary.VariableExpenses.StringFixed(2))
	fmt.Fprintf(&b, "- Net Balance: %s\n\n", summary.Balance.StringFixed(2))
	b.WriteString("Detailed Transaction List:\n")
	b.Write(txJSON)
	b.WriteString("\n\nInstructions:\n")
	b.WriteString("1. When asked about specific numbers, be precise.\n")
	b.WriteString("2. If asked for advice, analyze the categories.\n")
	b.WriteString("3. Use markdown for tables or lists.\n")
	b.WriteString("4. For complex questions, break down the calculation and trade-offs.\n")
	b.WriteString("5. If the balance is negative, suggest immediate reductions among the variable expenses.\n")
	return b.String()
}

// generator is the single model call the advisor needs.
type generator interface {
	generate(ctx context.Context, model, system, question string) (string, error)
}

type genaiGenerator struct {
	client *genai.Client
}

func (g genaiGenerator) generate(ctx context.Context, model, system, question string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(question), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

// GeminiAdvisor calls the Gemini API.
type GeminiAdvisor struct {
	gen   generator
	model string
}

var _ Advisor = (*GeminiAdvisor)(nil)

// NewGeminiAdvisor creates a client for the Gemini API. An empty apiKey lets
// the SDK read GOOGLE_API_KEY / GEMINI_API_KEY from the environment.
func NewGeminiAdvisor(ctx context.Context, apiKey, model string) (*GeminiAdvisor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiAdvisor{gen: genaiGenerator{client: client}, model: model}, nil
}

// Advise returns the model's answer. Key and access problems come back as
// ACTION_REQUIRED text rather than errors so the caller can show them as-is.
func (a *GeminiAdvisor) Advise(ctx context.Context, question string, summary aggregate.Summary, txs []core.Transaction) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	text, err := a.gen.generate(ctx, a.model, BuildPrompt(summary, txs), question)
	if err != nil {
		if reply, ok := reconfigurationReply(err); ok {
			slog.WarnContext(ctx, "Advisor needs reconfiguration", "model", a.model, "error", err)
			return reply, nil
		}
		return "", fmt.Errorf("generate advice: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return emptyReply, nil
	}
	return text, nil
}

func reconfigurationReply(err error) (string, bool) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Requested entity was not found"):
		return noAccessReply, true
	case strings.Contains(msg, "API_KEY_INVALID"), strings.Contains(msg, "401"), strings.Contains(msg, "403"):
		return badKeyReply, true
	}
	return "", false
}

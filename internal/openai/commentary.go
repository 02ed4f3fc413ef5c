// Package openai generates a short natural-language commentary for a
// computed portfolio performance result.
package openai

import (
	"context"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"portdash/internal/portfolio"
)

type Commentator struct {
	cli oa.Client
}

func NewCommentator(apiKey string) *Commentator {
	client := oa.NewClient(option.WithAPIKey(apiKey))
	return &Commentator{cli: client}
}

// Comment produces a one-paragraph plain-language read of the result:
// how the portfolio performed over the window, how risk-adjusted return
// compares to its target, and what the drawdown implies.
func (c *Commentator) Comment(ctx context.Context, p portfolio.Portfolio, res *portfolio.PerformanceResult) (string, error) {
	if res == nil {
		return "", fmt.Errorf("no performance result to comment on")
	}

	systemPrompt := `You are a financial analyst writing a brief portfolio performance commentary for a dashboard.

Guidelines:
- One short paragraph, plain language, no headings or bullet points
- Mention total return, Sharpe ratio versus its target, and max drawdown
- Neutral, factual tone; never give buy/sell advice
- Do not invent numbers beyond those provided`

	var holdings []string
	for _, inst := range p.Active() {
		holdings = append(holdings, fmt.Sprintf("%s %.0f%%", inst.Name, inst.Weight*100))
	}

	userPrompt := fmt.Sprintf(
		"Portfolio %q (%s).\nHoldings: %s.\nSince %s over %d trading days: total return %.2f%%, annualized %.2f%%, max drawdown %.2f%%, Sharpe %.2f (target %.2f).",
		p.Name, p.Description, strings.Join(holdings, ", "),
		res.Index.Dates[0].Format("2006-01-02"), res.Days,
		res.TotalReturnPct, res.AnnualReturnPct, res.MDDPct,
		res.SharpeRatio, res.TargetSharpe,
	)

	resp, err := c.cli.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
		Model: "gpt-4",
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(userPrompt),
		},
		MaxTokens: oa.Int(400),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return resp.Choices[0].Message.Content, nil
}

package telegram

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"portdash/internal/charts"
	"portdash/internal/portfolio"
)

var (
	// /port <portfolio name> (names may contain spaces)
	rePort = regexp.MustCompile(`^/port(?:@[\w_]+)?\s+(.+)$`)
	// /ports
	rePorts = regexp.MustCompile(`^/ports(?:@[\w_]+)?$`)
	// /help or /start
	reHelp = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
)

const computeTimeout = 30 * time.Second

type Handlers struct {
	api      *tgbotapi.BotAPI
	svc      *portfolio.Service
	renderer *charts.Renderer
	log      zerolog.Logger
}

func NewHandlers(api *tgbotapi.BotAPI, svc *portfolio.Service, renderer *charts.Renderer, log zerolog.Logger) *Handlers {
	return &Handlers{api: api, svc: svc, renderer: renderer, log: log}
}

func (h *Handlers) HandleMessage(m *tgbotapi.Message) {
	txt := strings.TrimSpace(m.Text)
	switch {
	case rePort.MatchString(txt):
		g := rePort.FindStringSubmatch(txt)
		h.handlePortfolio(m.Chat.ID, strings.TrimSpace(g[1]))
	case rePorts.MatchString(txt):
		h.handleList(m.Chat.ID)
	case reHelp.MatchString(txt):
		h.handleHelp(m.Chat.ID)
	}
}

func (h *Handlers) handleList(chatID int64) {
	all := h.svc.List()
	if len(all) == 0 {
		h.reply(chatID, "No portfolios configured.")
		return
	}
	var b strings.Builder
	b.WriteString("Configured portfolios:\n")
	for _, p := range all {
		var parts []string
		for _, inst := range p.Active() {
			parts = append(parts, fmt.Sprintf("%s %.0f%%", inst.Name, inst.Weight*100))
		}
		fmt.Fprintf(&b, "\n%s (target Sharpe %.2f)\n  %s\n", p.Name, p.TargetSharpe, strings.Join(parts, ", "))
	}
	h.reply(chatID, b.String())
}

func (h *Handlers) handlePortfolio(chatID int64, name string) {
	if _, ok := h.svc.Lookup(name); !ok {
		h.reply(chatID, fmt.Sprintf("Unknown portfolio %q. Try /ports.", name))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), computeTimeout)
	defer cancel()
	res, err := h.svc.Compute(ctx, name)
	if err != nil {
		h.log.Error().Err(err).Str("portfolio", name).Msg("compute failed")
		h.reply(chatID, "Computation failed, try again later.")
		return
	}
	if res == nil {
		h.reply(chatID, fmt.Sprintf("No price data available for %q right now.", name))
		return
	}

	caption := fmt.Sprintf(
		"%s\nTotal return: %.2f%%\nAnnualized: %.2f%%\nMax drawdown: %.2f%%\nSharpe: %.2f (target %.2f)\nAs of %s (%d trading days)",
		res.Portfolio, res.TotalReturnPct, res.AnnualReturnPct, res.MDDPct,
		res.SharpeRatio, res.TargetSharpe,
		res.LastUpdated.Format("2006-01-02"), res.Days,
	)

	img, err := h.renderer.Render(res)
	if err != nil {
		h.log.Warn().Err(err).Str("portfolio", name).Msg("chart render failed")
		h.reply(chatID, caption)
		return
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "performance.png", Bytes: img})
	photo.Caption = caption
	if _, err := h.api.Send(photo); err != nil {
		h.log.Warn().Err(err).Msg("photo send failed")
		h.reply(chatID, caption)
	}
}

func (h *Handlers) handleHelp(chatID int64) {
	h.reply(chatID, strings.Join([]string{
		"Commands:",
		"/ports - list configured portfolios",
		"/port <name> - performance report with chart",
		"/help - this message",
	}, "\n"))
}

func (h *Handlers) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.api.Send(msg); err != nil {
		h.log.Warn().Err(err).Msg("reply failed")
	}
}

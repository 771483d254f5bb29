package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Manjussha/zhseg/internal/db"
	"github.com/Manjussha/zhseg/internal/history"
	"github.com/Manjussha/zhseg/internal/learning"
	"github.com/Manjussha/zhseg/internal/metrics"
)

// maxSegChars bounds the text accepted by /seg.
const maxSegChars = 4000

// Segmenter is the part of the segmenter the bot needs.
type Segmenter interface {
	Segment(text string) []string
	LexiconSize() int
}

type replier interface {
	reply(chatID int64, text string)
}

// CommandHandler handles Telegram bot commands.
type CommandHandler struct {
	seg     Segmenter
	history *history.Store
	table   *learning.Table
	metrics *metrics.Metrics
	out     replier
}

// NewCommandHandler creates a CommandHandler. hist, table and m may be nil.
func NewCommandHandler(seg Segmenter, hist *history.Store, table *learning.Table, m *metrics.Metrics) *CommandHandler {
	return &CommandHandler{seg: seg, history: hist, table: table, metrics: m}
}

// Handle dispatches incoming messages to the correct command handler.
func (h *CommandHandler) Handle(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil || !msg.IsCommand() || h.out == nil {
		return
	}
	switch msg.Command() {
	case "seg":
		h.handleSeg(ctx, msg)
	case "stats":
		h.handleStats(msg)
	case "help", "start":
		h.handleHelp(msg)
	default:
		h.out.reply(msg.Chat.ID, "Unknown command. Use /help for a list of commands.")
	}
}

func (h *CommandHandler) handleSeg(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.CommandArguments())
	if text == "" {
		h.metrics.IncRejected("telegram", "empty")
		h.out.reply(msg.Chat.ID, "Usage: /seg <text>")
		return
	}
	if len([]rune(text)) > maxSegChars {
		h.metrics.IncRejected("telegram", "too_long")
		h.out.reply(msg.Chat.ID, fmt.Sprintf("Text is too long (max %d characters).", maxSegChars))
		return
	}

	start := time.Now()
	tokens := h.seg.Segment(text)
	elapsed := time.Since(start)
	h.metrics.ObserveSegment("telegram", len(tokens), elapsed)

	if h.history != nil {
		if _, err := h.history.Record(ctx, &db.Segmentation{
			Source:    "telegram",
			Text:      text,
			Tokens:    tokens,
			ElapsedUS: elapsed.Microseconds(),
		}); err != nil {
			log.Printf("telegram: record history: %v", err)
		}
	}
	h.out.reply(msg.Chat.ID, strings.Join(tokens, " / "))
}

func (h *CommandHandler) handleStats(msg *tgbotapi.Message) {
	var sb strings.Builder
	sb.WriteString("Dictionary\n\n")
	sb.WriteString(fmt.Sprintf("Words: %d\n", h.seg.LexiconSize()))
	if h.table != nil {
		sb.WriteString(fmt.Sprintf("Learned words: %d\n", h.table.Len()))
		for i, ww := range h.table.Top(5) {
			sb.WriteString(fmt.Sprintf("%d. %s (%.2f)\n", i+1, ww.Word, ww.Weight))
		}
	}
	h.out.reply(msg.Chat.ID, sb.String())
}

func (h *CommandHandler) handleHelp(msg *tgbotapi.Message) {
	help := `zhseg commands

/seg <text> - Segment Chinese text
/stats - Dictionary and learning statistics
/help - This help`
	h.out.reply(msg.Chat.ID, help)
}

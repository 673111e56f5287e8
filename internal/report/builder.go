package report

import (
	"fmt"
	"strings"

	"github.com/kenkkoko/SmartDCA-BOT/internal/fetcher"
	"github.com/kenkkoko/SmartDCA-BOT/internal/sentiment"
)

// Fixed message sections. Section order is always header → market blocks →
// advisory → call-to-action.
const (
	TriggerHeader = "🔥 Smart DCA 訊號觸發 🔥"
	CalmHeader    = "📊 Smart DCA 市場觀察（今日無進場訊號）"

	triggerCallToAction = "💡 建議分批進場"
	calmCallToAction    = "💡 維持紀律，按計劃定投"

	adviceHeading = "🤖 AI 建議:"
)

// Input collects everything the message needs for one run.
type Input struct {
	Result sentiment.RunResult
	// Stats optionally enriches market blocks with price context.
	Stats map[sentiment.MarketKey]fetcher.PriceStats
	// Advice is the resolved advisory text (or fallback); empty omits the block.
	Advice string
}

// Build assembles the outgoing notification text. Triggered runs list the
// triggered markets; calm runs (always-report mode) list every present
// market under the calm header.
func Build(in Input) string {
	var b strings.Builder

	blocks := in.Result.Triggers()
	if in.Result.Triggered {
		b.WriteString(TriggerHeader)
	} else {
		b.WriteString(CalmHeader)
		blocks = in.Result.Reports
	}
	b.WriteString("\n")

	for _, rep := range blocks {
		b.WriteString("\n")
		b.WriteString(rep.Describe())
		if stats, ok := in.Stats[rep.Market.Key]; ok {
			b.WriteString(fmt.Sprintf("\n　├ 現價: %s", stats.Current.StringFixed(2)))
			b.WriteString(fmt.Sprintf("\n　└ 52週高/低: %s / %s",
				stats.High52w.StringFixed(2), stats.Low52w.StringFixed(2)))
		}
	}

	if advice := strings.TrimSpace(in.Advice); advice != "" {
		b.WriteString("\n\n")
		b.WriteString(adviceHeading)
		b.WriteString("\n")
		b.WriteString(advice)
	}

	b.WriteString("\n\n")
	if in.Result.Triggered {
		b.WriteString(triggerCallToAction)
	} else {
		b.WriteString(calmCallToAction)
	}

	return b.String()
}

// BuildPrompt serialises the trigger descriptions into the advisory prompt.
func BuildPrompt(result sentiment.RunResult) string {
	var b strings.Builder
	b.WriteString("以下市場目前出現恐慌訊號:\n")
	for _, line := range result.TriggerLines() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("請以繁體中文提供一段不超過100字的分批進場建議，語氣務實，不要免責聲明。")
	return b.String()
}

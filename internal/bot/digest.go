package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BroadcastDigest sends the current cross-market ranking to every
// active subscriber and returns how many deliveries succeeded.
func (s *Service) BroadcastDigest() (int, error) {
	report, err := s.analyzer.CompareMarkets(nil)
	if err != nil {
		return 0, fmt.Errorf("build digest: %w", err)
	}

	subs, err := s.db.ActiveSubscribers()
	if err != nil {
		return 0, fmt.Errorf("load subscribers: %w", err)
	}
	if len(subs) == 0 {
		s.logger.Info().Msg("no active subscribers, digest skipped")
		return 0, nil
	}

	var b strings.Builder
	b.WriteString("*Market Entry Digest*\n\n")
	for _, r := range report.Rankings {
		fmt.Fprintf(&b, "%d. %s - %.1f (%s, %s)\n", r.Rank, r.Country, r.Score, r.Status, r.RiskRating)
	}
	text := b.String()

	sent := 0
	for _, sub := range subs {
		msg := tgbotapi.NewMessage(sub.ChatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := s.api.Send(msg); err != nil {
			s.logger.Error().Err(err).Int64("chat_id", sub.ChatID).Msg("digest delivery failed")
			continue
		}
		sent++
	}

	s.logger.Info().Int("sent", sent).Int("subscribers", len(subs)).Msg("digest broadcast complete")
	return sent, nil
}

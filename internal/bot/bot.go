// Package bot delivers market assessments over Telegram. The free tier
// gets the headline score; risk detail and the five-year outlook are
// gated behind an active subscription.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Hamid14147/market-analysis/internal/analyzer"
	"github.com/Hamid14147/market-analysis/internal/database"
	"github.com/Hamid14147/market-analysis/internal/dataset"
	"github.com/Hamid14147/market-analysis/internal/model"
	"github.com/Hamid14147/market-analysis/internal/payment"
)

// Conversation stages.
const (
	stageInitial = iota
	stageAwaitingCountry
	stageAwaitingPayment
)

// userState tracks where one user is in the menu flow.
type userState struct {
	stage        int
	countryCode  string
	lastActivity time.Time
	sessionID    string
}

// Service is the Telegram delivery layer.
type Service struct {
	api      *tgbotapi.BotAPI
	db       *database.DB
	catalog  *dataset.Catalog
	analyzer *analyzer.Analyzer
	payments *payment.Service
	logger   zerolog.Logger

	mu     sync.Mutex
	states map[int64]*userState
}

// New builds the bot service around an authorized API client.
func New(api *tgbotapi.BotAPI, db *database.DB, catalog *dataset.Catalog, an *analyzer.Analyzer, payments *payment.Service) *Service {
	return &Service{
		api:      api,
		db:       db,
		catalog:  catalog,
		analyzer: an,
		payments: payments,
		logger:   log.With().Str("component", "bot").Logger(),
		states:   make(map[int64]*userState),
	}
}

// Run polls for updates until the context is cancelled. An hourly sweep
// closes subscriptions whose paid period ran out.
func (s *Service) Run(ctx context.Context) {
	s.logger.Info().Str("username", s.api.Self.UserName).Msg("bot authorized")

	go s.sweepExpirations(ctx)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := s.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			s.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				s.handleMessage(update.Message)
			} else if update.CallbackQuery != nil {
				s.handleCallback(update.CallbackQuery)
			}
		}
	}
}

func (s *Service) sweepExpirations(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.db.CheckAndUpdateExpirations(); err != nil {
				s.logger.Error().Err(err).Msg("expiration sweep failed")
			}
		}
	}
}

func (s *Service) state(userID int64) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	if !ok {
		st = &userState{stage: stageInitial}
		s.states[userID] = st
	}
	st.lastActivity = time.Now()
	return st
}

func (s *Service) handleMessage(message *tgbotapi.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	st := s.state(userID)

	switch {
	case strings.HasPrefix(message.Text, "/start"):
		if param := startParam(message.Text); param == "payment_success" {
			s.handlePaymentSuccess(userID, chatID)
			return
		} else if param == "payment_cancel" {
			s.send(tgbotapi.NewMessage(chatID, "Payment cancelled. You can subscribe later from the menu."))
		}
		st.stage = stageInitial
		msg := tgbotapi.NewMessage(chatID, "Welcome to the Market Entry Analyzer! Pick a market and run an analysis.")
		msg.ReplyMarkup = mainMenuKeyboard(s.isPremium(userID))
		s.send(msg)

	case message.Text == "Select Market":
		s.sendCountryMenu(chatID)
		st.stage = stageAwaitingCountry

	case message.Text == "Run Analysis":
		s.runAnalysis(userID, chatID, st)

	case message.Text == "Subscribe":
		s.startCheckout(userID, chatID, st)

	case message.Text == "Cancel Subscription":
		s.cancelSubscription(userID, chatID, st)

	case message.Text == "/status":
		s.sendStatus(userID, chatID)

	default:
		// Country name typed by hand while the menu is open.
		if st.stage == stageAwaitingCountry {
			if code, ok := s.lookupByName(message.Text); ok {
				s.selectCountry(userID, chatID, st, code)
				return
			}
			s.send(tgbotapi.NewMessage(chatID, "Unknown market. Please choose from the list:"))
			s.sendCountryMenu(chatID)
			return
		}
		msg := tgbotapi.NewMessage(chatID, "Please use the menu buttons to interact with the bot.")
		msg.ReplyMarkup = mainMenuKeyboard(s.isPremium(userID))
		s.send(msg)
	}
}

func (s *Service) handleCallback(callback *tgbotapi.CallbackQuery) {
	userID := callback.From.ID
	chatID := callback.Message.Chat.ID
	st := s.state(userID)

	s.api.Request(tgbotapi.NewCallback(callback.ID, ""))

	switch {
	case strings.HasPrefix(callback.Data, "country_"):
		code := strings.TrimPrefix(callback.Data, "country_")
		s.selectCountry(userID, chatID, st, code)

	case callback.Data == "run_analysis":
		s.runAnalysis(userID, chatID, st)

	case callback.Data == "subscribe":
		s.startCheckout(userID, chatID, st)

	case callback.Data == "main_menu":
		st.stage = stageInitial
		msg := tgbotapi.NewMessage(chatID, "What would you like to do?")
		msg.ReplyMarkup = mainMenuKeyboard(s.isPremium(userID))
		s.send(msg)
	}
}

func (s *Service) selectCountry(userID, chatID int64, st *userState, code string) {
	country, ok := s.catalog.Get(code)
	if !ok {
		s.send(tgbotapi.NewMessage(chatID, "Unknown market. Please choose from the list:"))
		s.sendCountryMenu(chatID)
		return
	}

	st.countryCode = country.Code
	st.stage = stageInitial

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("Selected market: %s.\nYou can now run the analysis.", country.Name))
	msg.ReplyMarkup = mainMenuKeyboard(s.isPremium(userID))
	s.send(msg)
}

func (s *Service) runAnalysis(userID, chatID int64, st *userState) {
	if st.countryCode == "" {
		s.send(tgbotapi.NewMessage(chatID, "Please select a market first."))
		s.sendCountryMenu(chatID)
		st.stage = stageAwaitingCountry
		return
	}

	assessment, err := s.analyzer.AssessCountry(st.countryCode)
	if err != nil {
		s.logger.Error().Err(err).Str("country", st.countryCode).Msg("assessment failed")
		s.send(tgbotapi.NewMessage(chatID, "Sorry, the analysis failed. Please try again later."))
		return
	}

	premium := s.isPremium(userID)
	var text string
	if premium {
		text = formatFullAssessment(assessment)
		if err := s.db.UpdateLastAssessed(userID); err != nil {
			s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to record analysis run")
		}
	} else {
		text = formatFreeAssessment(assessment)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if !premium {
		msg.ReplyMarkup = subscribeKeyboard()
	}
	s.send(msg)
}

func (s *Service) startCheckout(userID, chatID int64, st *userState) {
	if st.countryCode == "" {
		s.send(tgbotapi.NewMessage(chatID, "Please select the market you want to follow before subscribing."))
		s.sendCountryMenu(chatID)
		st.stage = stageAwaitingCountry
		return
	}

	if _, err := s.db.CreateSubscription(userID, chatID, st.countryCode, 30); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to create subscription row")
		s.send(tgbotapi.NewMessage(chatID, "Sorry, there was an error. Please try again later."))
		return
	}

	sessionID, paymentURL, err := s.payments.CreateCheckoutSession(userID, st.countryCode)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to create checkout session")
		s.send(tgbotapi.NewMessage(chatID, "Payment system error. Please try again or contact support."))
		return
	}

	st.sessionID = sessionID
	st.stage = stageAwaitingPayment

	msg := tgbotapi.NewMessage(chatID, "Complete your payment to unlock risk detail and the five-year outlook.")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Pay Now", paymentURL),
		),
	)
	s.send(msg)
	s.send(tgbotapi.NewMessage(chatID, "After completing payment, return to this chat. Your subscription activates automatically."))
}

func (s *Service) cancelSubscription(userID, chatID int64, st *userState) {
	sub, err := s.db.GetSubscription(userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load subscription")
		s.send(tgbotapi.NewMessage(chatID, "Sorry, there was an error. Please try again later."))
		return
	}
	if sub == nil || sub.Status == model.PaymentStatusClosed {
		s.send(tgbotapi.NewMessage(chatID, "You have no active subscription."))
		return
	}

	if err := s.db.CloseSubscription(userID); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to close subscription")
		s.send(tgbotapi.NewMessage(chatID, "Could not cancel the subscription. Please contact support."))
		return
	}

	st.stage = stageInitial
	msg := tgbotapi.NewMessage(chatID, "Subscription cancelled. You keep the free tier: score and status.")
	msg.ReplyMarkup = mainMenuKeyboard(false)
	s.send(msg)
	s.logger.Info().Int64("user_id", userID).Msg("subscription cancelled")
}

func (s *Service) handlePaymentSuccess(userID, chatID int64) {
	sub, err := s.db.GetSubscription(userID)
	if err != nil || sub == nil {
		s.send(tgbotapi.NewMessage(chatID, "Thanks for your payment! Your subscription is being processed."))
		return
	}

	// Fallback if the webhook has not landed yet.
	if sub.Status == model.PaymentStatusPending {
		paymentID := fmt.Sprintf("manual_%d_%d", userID, time.Now().Unix())
		if err := s.db.UpdateSubscriptionStatus(userID, model.PaymentStatusAccepted, paymentID); err != nil {
			s.logger.Error().Err(err).Int64("user_id", userID).Msg("manual activation failed")
			s.send(tgbotapi.NewMessage(chatID, "Thanks for your payment! Your subscription will activate shortly."))
			return
		}
	}

	msg := tgbotapi.NewMessage(chatID, "Your subscription is active. Full risk detail and the five-year outlook are unlocked.")
	msg.ReplyMarkup = mainMenuKeyboard(true)
	s.send(msg)
}

func (s *Service) sendStatus(userID, chatID int64) {
	sub, err := s.db.GetSubscription(userID)
	if err != nil {
		s.send(tgbotapi.NewMessage(chatID, "Sorry, there was an error. Please try again later."))
		return
	}

	var text string
	switch {
	case sub == nil:
		text = "You are on the free tier: score and suitability status. Subscribe for full reports."
	case sub.Status == model.PaymentStatusPending:
		text = "Your subscription is pending payment."
	case sub.Status == model.PaymentStatusAccepted:
		daysLeft := int(time.Until(sub.ExpiresAt).Hours() / 24)
		text = fmt.Sprintf("Active subscription (market: %s), expires in %d days.", sub.CountryCode, daysLeft)
	default:
		text = "Your subscription has expired. Subscribe again for full reports."
	}
	s.send(tgbotapi.NewMessage(chatID, text))
}

func (s *Service) sendCountryMenu(chatID int64) {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton

	for i, country := range s.catalog.List() {
		if i%2 == 0 && i > 0 {
			keyboard = append(keyboard, row)
			row = nil
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(country.Name, "country_"+country.Code))
	}
	if len(row) > 0 {
		keyboard = append(keyboard, row)
	}
	keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("Back to Main Menu", "main_menu"),
	})

	msg := tgbotapi.NewMessage(chatID, "Select a market:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	s.send(msg)
}

func (s *Service) lookupByName(name string) (string, bool) {
	for _, country := range s.catalog.List() {
		if strings.EqualFold(country.Name, strings.TrimSpace(name)) {
			return country.Code, true
		}
	}
	return "", false
}

func (s *Service) isPremium(userID int64) bool {
	sub, err := s.db.GetSubscription(userID)
	if err != nil || sub == nil {
		return false
	}
	return sub.Active(time.Now())
}

func (s *Service) send(c tgbotapi.Chattable) {
	if _, err := s.api.Send(c); err != nil {
		s.logger.Error().Err(err).Msg("send failed")
	}
}

func mainMenuKeyboard(premium bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Select Market"),
			tgbotapi.NewKeyboardButton("Run Analysis"),
		),
	}
	if premium {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Cancel Subscription"),
		))
	} else {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Subscribe"),
		))
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func subscribeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Unlock Full Report", "subscribe"),
		),
	)
}

func startParam(text string) string {
	parts := strings.Fields(text)
	if len(parts) > 1 {
		return parts[1]
	}
	return ""
}

package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kenkkoko/SmartDCA-BOT/internal/advisor"
	"github.com/kenkkoko/SmartDCA-BOT/internal/config"
	"github.com/kenkkoko/SmartDCA-BOT/internal/fetcher"
	"github.com/kenkkoko/SmartDCA-BOT/internal/notify"
	"github.com/kenkkoko/SmartDCA-BOT/internal/report"
	"github.com/kenkkoko/SmartDCA-BOT/internal/sentiment"
	"github.com/kenkkoko/SmartDCA-BOT/internal/storage"
)

// adviceFallback replaces the advisory block when the text service fails.
// The core trigger report must still go out.
const adviceFallback = "（AI 建議暫時無法取得，請依個人紀律分批進場）"

// Service orchestrates one signal evaluation: fetch, classify, aggregate,
// enrich, deliver, persist.
type Service struct {
	crypto   fetcher.CryptoSentimentFetcher
	us       fetcher.EquitySentimentFetcher
	prices   fetcher.PriceHistoryFetcher
	advisor  advisor.Advisor
	notifier notify.Notifier
	store    storage.RunStore
	logger   zerolog.Logger

	markets      []sentiment.Market
	twTicker     string
	twLookback   string
	alwaysReport bool
	priceStats   bool
}

// New constructs the signal service. advisor and store may be nil when the
// respective features are disabled.
func New(
	cfg *config.Config,
	crypto fetcher.CryptoSentimentFetcher,
	us fetcher.EquitySentimentFetcher,
	prices fetcher.PriceHistoryFetcher,
	adv advisor.Advisor,
	notifier notify.Notifier,
	store storage.RunStore,
	logger zerolog.Logger,
) *Service {
	return &Service{
		crypto:       crypto,
		us:           us,
		prices:       prices,
		advisor:      adv,
		notifier:     notifier,
		store:        store,
		logger:       logger.With().Str("component", "service").Logger(),
		markets:      sentiment.DefaultMarkets(cfg.Sources.TW.Ticker),
		twTicker:     cfg.Sources.TW.Ticker,
		twLookback:   cfg.Sources.TW.Lookback,
		alwaysReport: cfg.Report.AlwaysReport,
		priceStats:   cfg.Report.PriceStats,
	}
}

// Run executes a single evaluation. Per-market fetch failures degrade that
// market to unavailable; advisory failures fall back to a fixed string;
// delivery failures are logged. None of them abort the run.
func (s *Service) Run(ctx context.Context) error {
	runTS := time.Now().UTC()

	crypto := s.fetchCrypto(ctx)
	us := s.fetchUS(ctx)
	tw := s.fetchTWRSI(ctx)

	result := sentiment.Aggregate([]sentiment.Reading{
		{Market: s.markets[0], Value: crypto},
		{Market: s.markets[1], Value: us},
		{Market: s.markets[2], Value: tw},
	})

	s.logger.Info().
		Bool("triggered", result.Triggered).
		Int("markets_present", len(result.Reports)).
		Int("triggers", len(result.Triggers())).
		Msg("run evaluated")

	send := result.Triggered || s.alwaysReport

	var message, advice string
	if send {
		stats := s.fetchStats(ctx, result)
		if result.Triggered {
			advice = s.resolveAdvice(ctx, result)
		}
		message = report.Build(report.Input{Result: result, Stats: stats, Advice: advice})
	}

	delivered := false
	if send {
		if err := s.notifier.Notify(ctx, message); err != nil {
			s.logger.Error().Err(err).Msg("failed to deliver report")
		} else {
			delivered = true
		}
	} else {
		s.logger.Info().Msg("no buy signal detected; report suppressed")
	}

	s.persist(ctx, runTS, crypto, us, tw, result, delivered, message, advice)
	return nil
}

func (s *Service) fetchCrypto(ctx context.Context) sentiment.Indicator {
	value, err := s.crypto.FetchCryptoIndex(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("crypto sentiment unavailable")
		return sentiment.NoIndicator()
	}
	s.logger.Debug().Int("value", value).Msg("crypto sentiment")
	return sentiment.IndicatorOf(value)
}

func (s *Service) fetchUS(ctx context.Context) sentiment.Indicator {
	value, err := s.us.FetchEquityIndex(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("US sentiment unavailable")
		return sentiment.NoIndicator()
	}
	s.logger.Debug().Int("value", value).Msg("US sentiment")
	return sentiment.IndicatorOf(value)
}

func (s *Service) fetchTWRSI(ctx context.Context) sentiment.Indicator {
	closes, err := s.prices.FetchDailyCloses(ctx, s.twTicker, s.twLookback)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", s.twTicker).Msg("TW price history unavailable")
		return sentiment.NoIndicator()
	}
	rsi, err := sentiment.RSI(closes)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", s.twTicker).Int("closes", len(closes)).Msg("TW RSI unavailable")
		return sentiment.NoIndicator()
	}
	s.logger.Debug().Int("rsi", rsi).Msg("TW RSI")
	return sentiment.IndicatorOf(rsi)
}

// fetchStats enriches the TW block with 1-year price context. A failure
// only drops the sub-lines, never the report.
func (s *Service) fetchStats(ctx context.Context, result sentiment.RunResult) map[sentiment.MarketKey]fetcher.PriceStats {
	if !s.priceStats {
		return nil
	}
	twPresent := false
	for _, rep := range result.Reports {
		if rep.Market.Key == sentiment.MarketTW {
			twPresent = true
			break
		}
	}
	if !twPresent {
		return nil
	}

	stats, err := s.prices.FetchPriceStats(ctx, s.twTicker)
	if err != nil {
		s.logger.Warn().Err(err).Str("ticker", s.twTicker).Msg("price stats unavailable")
		return nil
	}
	return map[sentiment.MarketKey]fetcher.PriceStats{sentiment.MarketTW: stats}
}

func (s *Service) resolveAdvice(ctx context.Context, result sentiment.RunResult) string {
	if s.advisor == nil {
		return ""
	}
	advice, err := s.advisor.Advise(ctx, report.BuildPrompt(result))
	if err != nil {
		s.logger.Warn().Err(err).Msg("advisory generation failed; using fallback")
		return adviceFallback
	}
	return advice
}

func (s *Service) persist(ctx context.Context, runTS time.Time, crypto, us, tw sentiment.Indicator, result sentiment.RunResult, delivered bool, message, advice string) {
	if s.store == nil {
		return
	}
	rec := storage.RunRecord{
		RunTS:        runTS,
		CryptoIndex:  indicatorPtr(crypto),
		USIndex:      indicatorPtr(us),
		TWRSI:        indicatorPtr(tw),
		Triggered:    result.Triggered,
		TriggerCount: len(result.Triggers()),
		Delivered:    delivered,
		Message:      message,
		Advice:       advice,
	}
	if _, err := s.store.InsertRun(ctx, rec); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist run snapshot")
	}
}

func indicatorPtr(i sentiment.Indicator) *int {
	v, ok := i.Value()
	if !ok {
		return nil
	}
	return &v
}

package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"svcpulse/internal/config"
	apperrors "svcpulse/internal/errors"
	"svcpulse/pkg/contracts/domain"
)

// DefaultProgressInterval is the number of admitted rows between progress logs.
const DefaultProgressInterval = 5000

// RankLimits holds the top-N truncation per ranked dimension. Zero or a
// negative value keeps every entry.
type RankLimits struct {
	ITSystems      int
	Services       int
	Operations     int
	SupportSystems int
	Versions       int
	Matrix         int
	KlasseFlat     int
}

// DefaultRankLimits returns the limits used by the dashboard.
func DefaultRankLimits() RankLimits {
	return RankLimitsFrom(config.Default().Ranking)
}

// RankLimitsFrom copies the ranking section of the configuration.
func RankLimitsFrom(cfg config.RankingConfig) RankLimits {
	return RankLimits{
		ITSystems:      cfg.TopITSystems,
		Services:       cfg.TopServices,
		Operations:     cfg.TopOperations,
		SupportSystems: cfg.SupportSystems,
		Versions:       cfg.ServiceVersions,
		Matrix:         cfg.Matrix,
		KlasseFlat:     cfg.KlasseFlat,
	}
}

// ServiceProcessorConfig configures a ServiceProcessor.
type ServiceProcessorConfig struct {
	Layout           ColumnLayout
	Delimiter        rune
	NullMarker       string
	Limits           RankLimits
	ProgressInterval int
}

// DefaultServiceProcessorConfig returns the settings for KOSDY extracts.
func DefaultServiceProcessorConfig() ServiceProcessorConfig {
	return ServiceProcessorConfig{
		Layout:           DefaultServiceLayout(),
		Delimiter:        ',',
		NullMarker:       config.NullMarker,
		Limits:           DefaultRankLimits(),
		ProgressInterval: DefaultProgressInterval,
	}
}

// ServiceProcessor turns the lines of one service-call extract into a
// ServiceDayResult. It holds no per-source state and is safe for concurrent
// use; every call works on its own Aggregator.
type ServiceProcessor struct {
	config    ServiceProcessorConfig
	extractor *Extractor
	logger    *slog.Logger
}

// NewServiceProcessor validates cfg and returns a processor.
func NewServiceProcessor(cfg ServiceProcessorConfig, logger *slog.Logger) (*ServiceProcessor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Delimiter == 0 {
		cfg.Delimiter = ','
	}
	if cfg.ProgressInterval <= 0 {
		cfg.ProgressInterval = DefaultProgressInterval
	}

	extractor, err := NewExtractor(cfg.Layout, cfg.NullMarker)
	if err != nil {
		return nil, err
	}

	return &ServiceProcessor{
		config:    cfg,
		extractor: extractor,
		logger:    logger,
	}, nil
}

// ProcessLines aggregates one source. Blank lines are dropped and the first
// remaining line is treated as the header. Row-level problems never fail the
// call; only context cancellation does.
func (p *ServiceProcessor) ProcessLines(ctx context.Context, lines []string) (*domain.ServiceDayResult, error) {
	start := time.Now()
	agg := NewAggregator()
	headerSeen := false

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}

		ev, ok := p.extractor.Extract(SplitLine(line, p.config.Delimiter))
		if !ok {
			agg.Reject()
			continue
		}
		agg.Add(ev)

		if agg.Admitted%p.config.ProgressInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			p.logger.DebugContext(ctx, "Processing rows",
				slog.Int("processed_rows", agg.Admitted))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := p.buildResult(agg)

	p.logger.DebugContext(ctx, "Source aggregated",
		slog.Int("processed_rows", result.ProcessedRows),
		slog.Int("filtered_rows", result.FilteredRows),
		slog.Int64("total_calls", result.TotalCalls),
		slog.Duration("duration", time.Since(start)))

	return result, nil
}

func (p *ServiceProcessor) buildResult(agg *Aggregator) *domain.ServiceDayResult {
	limits := p.config.Limits
	hourly := SortByKey(agg.Hourly)
	topIT := Rank(agg.ITSystems, limits.ITSystems)

	mostActiveIT := UnknownValue
	if len(topIT) > 0 {
		mostActiveIT = topIT[0].Key
	}

	return &domain.ServiceDayResult{
		TotalCalls:         agg.TotalCalls,
		ProcessedRows:      agg.Admitted,
		FilteredRows:       agg.Filtered,
		UniqueITSystems:    len(agg.ITSystems),
		UniqueServices:     len(agg.Services),
		UniqueOperations:   len(agg.Operations),
		MostActiveHour:     MostActiveHour(hourly),
		MostActiveITSystem: mostActiveIT,
		Hourly:             toHourly(hourly),
		TopITSystems:       toRanked(topIT),
		TopServices:        toRanked(Rank(agg.Services, limits.Services)),
		TopOperations:      toRanked(Rank(agg.Operations, limits.Operations)),
		SupportSystems:     toRanked(Rank(agg.SupportSystems, limits.SupportSystems)),
		ServiceVersions:    toVersions(Rank(agg.Versions, limits.Versions)),
		ITSystemOperations: RankMatrix(agg.Matrix, limits.Matrix),
	}
}

// MostActiveHour returns the first hour of an ascending series whose calls
// are strictly greater than every earlier hour, or DefaultHour when no hour
// has positive calls.
func MostActiveHour(hourly []Entry) string {
	best := Entry{Key: DefaultHour}
	for _, e := range hourly {
		if e.Count > best.Count {
			best = e
		}
	}
	return best.Key
}

// ParseSourceDate extracts the date of a source named
// <prefix>YYYYMMDD<suffix> and returns it as YYYY-MM-DD. Names that do not
// fit the pattern yield a SOURCE_DATE error, and so do eight digits that
// are not a real calendar date (KOSDY-PROD.20251340.csv), so such sources
// are skipped rather than emitted under an impossible date.
func ParseSourceDate(name, prefix, suffix string) (string, error) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) ||
		len(name) != len(prefix)+8+len(suffix) {
		return "", apperrors.NewSourceDateError(name)
	}

	digits := name[len(prefix) : len(prefix)+8]
	d, err := time.Parse("20060102", digits)
	if err != nil {
		return "", apperrors.NewSourceDateError(name)
	}
	return d.Format(time.DateOnly), nil
}

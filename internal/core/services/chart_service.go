package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/currensee/currency_converter_app/internal/core/domain"
	portsrepo "github.com/currensee/currency_converter_app/internal/core/ports/repositories"
	portssvc "github.com/currensee/currency_converter_app/internal/core/ports/services"
	"github.com/currensee/currency_converter_app/internal/dto"
	"github.com/shopspring/decimal"
)

// seriesLength is the fixed number of points every rate series carries.
const seriesLength = 7

// distributionLimit caps the by-currency distribution chart.
const distributionLimit = 10

// seriesLabelFormat renders point timestamps as day/month/year hour:minute in
// local time.
const seriesLabelFormat = "02/01/2006 15:04"

// ChartService builds chart payloads from the conversion history: a 7-point
// rate series per pair (reconciled from direct and inverted records,
// gap-filled when sparse) and two distribution charts.
type ChartService struct {
	BaseService
	conversionRepo portsrepo.ConversionReader
	randFloat      func() float64
	now            func() time.Time
}

// ChartServiceOption is a functional option for configuring the chart service
type ChartServiceOption func(*ChartService)

// WithRandSource overrides the random source used to perturb synthesized
// rates, making gap filling deterministic under test.
func WithRandSource(randFloat func() float64) ChartServiceOption {
	return func(s *ChartService) {
		s.randFloat = randFloat
	}
}

// WithClock overrides the clock used to anchor synthesized points.
func WithClock(now func() time.Time) ChartServiceOption {
	return func(s *ChartService) {
		s.now = now
	}
}

// NewChartService creates a new chart service with the provided options.
func NewChartService(conversionRepo portsrepo.ConversionReader, options ...ChartServiceOption) *ChartService {
	svc := &ChartService{
		conversionRepo: conversionRepo,
		randFloat:      rand.Float64,
		now:            time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// SeriesForPair returns a chronological 7-point rate series for the directed
// pair. Sparse or empty history never fails: missing points are synthesized.
func (s *ChartService) SeriesForPair(ctx context.Context, sourceCode, targetCode string) (*dto.RateSeriesResponse, error) {
	source := strings.ToUpper(sourceCode)
	target := strings.ToUpper(targetCode)

	points, err := s.reconcile(ctx, source, target)
	if err != nil {
		return nil, err
	}

	points = s.fillGaps(points, source, target)
	sort.Slice(points, func(i, j int) bool {
		return points[i].At.Before(points[j].At)
	})

	labels := make([]string, len(points))
	rates := make([]float64, len(points))
	for i, p := range points {
		labels[i] = p.At.Format(seriesLabelFormat)
		rates[i] = p.Rate.InexactFloat64()
	}

	s.LogDebug(ctx, "Rate series assembled",
		"source", source, "target", target, "points", len(points))
	return &dto.RateSeriesResponse{
		SourceCode: source,
		TargetCode: target,
		Labels:     labels,
		Rates:      rates,
	}, nil
}

// reconcile merges direct and, when direct history covers fewer than seven
// distinct days, direction-inverted records, then deduplicates them to at
// most one point per calendar day. Direct records are listed ahead of
// inverted ones so they win ties on identical timestamps.
func (s *ChartService) reconcile(ctx context.Context, source, target string) ([]domain.RatePoint, error) {
	direct, err := s.conversionRepo.FindByDirection(ctx, source, target)
	if err != nil {
		return nil, fmt.Errorf("failed to query pair history: %w", err)
	}

	records := direct
	if countDistinctDays(direct) < seriesLength {
		inverse, err := s.conversionRepo.FindByDirection(ctx, target, source)
		if err != nil {
			return nil, fmt.Errorf("failed to query inverse pair history: %w", err)
		}
		for _, conv := range inverse {
			records = append(records, conv.Inverted())
		}
	}

	// Newest first; the stable sort keeps direct records ahead of inverted
	// ones that share the exact same timestamp.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ConvertedAt.After(records[j].ConvertedAt)
	})

	seen := make(map[string]bool, len(records))
	points := make([]domain.RatePoint, 0, len(records))
	for _, conv := range records {
		// Rows with a non-positive rate cannot chart; inverting one yields a
		// zero rate as well.
		if !conv.Rate.IsPositive() {
			continue
		}
		key := dayKey(conv.ConvertedAt)
		if seen[key] {
			continue
		}
		seen[key] = true
		points = append(points, domain.RatePoint{At: conv.ConvertedAt, Rate: conv.Rate})
	}
	return points, nil
}

// fillGaps synthesizes points until the series holds exactly seriesLength
// entries. Real points are never altered or dropped.
func (s *ChartService) fillGaps(points []domain.RatePoint, source, target string) []domain.RatePoint {
	if len(points) == 0 {
		return s.simulateSeries(source, target)
	}
	if len(points) >= seriesLength {
		return points
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].At.Before(points[j].At)
	})

	existing := make(map[string]bool, seriesLength)
	for _, p := range points {
		existing[dayKey(p.At)] = true
	}

	firstDay := atMidnight(points[0].At)
	today := atMidnight(s.now())
	// Seed synthesized rates from the latest real observation.
	baseRate := points[len(points)-1].Rate

	// Fill backward from the day before the earliest real point.
	day := firstDay.AddDate(0, 0, -1)
	added := 0
	for len(points) < seriesLength && added < seriesLength-1 {
		if !existing[dayKey(day)] {
			points = append(points, domain.RatePoint{At: day, Rate: s.perturb(baseRate, 0.96, 0.08)})
			existing[dayKey(day)] = true
			added++
		}
		day = day.AddDate(0, 0, -1)
	}

	// Still short: fill from today backward, at midday.
	day = today
	added = 0
	for len(points) < seriesLength && added < seriesLength-1 {
		if !existing[dayKey(day)] {
			points = append(points, domain.RatePoint{At: day.Add(12 * time.Hour), Rate: s.perturb(baseRate, 0.96, 0.08)})
			existing[dayKey(day)] = true
			added++
		}
		day = day.AddDate(0, 0, -1)
	}

	return points
}

// simulateSeries fabricates a full series for a pair with no history at all:
// one point per day ending today, at local noon, around a pair-specific seed
// rate.
func (s *ChartService) simulateSeries(source, target string) []domain.RatePoint {
	seed := seedRate(source, target)
	now := s.now()

	points := make([]domain.RatePoint, 0, seriesLength)
	for i := seriesLength - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		at := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())
		points = append(points, domain.RatePoint{At: at, Rate: s.perturb(seed, 0.97, 0.06)})
	}
	return points
}

// perturb multiplies base by a uniform random factor in [low, low+span].
func (s *ChartService) perturb(base decimal.Decimal, low, span float64) decimal.Decimal {
	factor := low + s.randFloat()*span
	return base.Mul(decimal.NewFromFloat(factor))
}

// seedRate picks a plausible starting rate for a pair with no history. The
// values are visual placeholders, not market data.
func seedRate(source, target string) decimal.Decimal {
	switch {
	case source == "USD" && target == "EUR":
		return decimal.NewFromFloat(0.93)
	case source == "EUR" && target == "USD":
		return decimal.NewFromFloat(1.08)
	case source == "BTC":
		return decimal.NewFromInt(43000)
	case source == "ETH":
		return decimal.NewFromInt(3000)
	default:
		return decimal.NewFromInt(1)
	}
}

// DistributionByCurrency returns the ten most frequent source currencies in
// the history, by conversion count descending.
func (s *ChartService) DistributionByCurrency(ctx context.Context) (*dto.DistributionResponse, error) {
	conversions, err := s.conversionRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversion history: %w", err)
	}

	counts := make(map[string]int64)
	for _, conv := range conversions {
		counts[conv.SourceCode]++
	}

	type entry struct {
		code  string
		count int64
	}
	entries := make([]entry, 0, len(counts))
	for code, count := range counts {
		entries = append(entries, entry{code: code, count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].code < entries[j].code
	})
	if len(entries) > distributionLimit {
		entries = entries[:distributionLimit]
	}

	resp := &dto.DistributionResponse{
		Labels: make([]string, len(entries)),
		Counts: make([]int64, len(entries)),
	}
	for i, e := range entries {
		resp.Labels[i] = e.code
		resp.Counts[i] = e.count
	}
	return resp, nil
}

// DistributionByKind returns conversion counts split by kind.
func (s *ChartService) DistributionByKind(ctx context.Context) (*dto.DistributionResponse, error) {
	fiatCount, err := s.conversionRepo.CountByKind(ctx, domain.KindFiat)
	if err != nil {
		return nil, fmt.Errorf("failed to count fiat conversions: %w", err)
	}
	cryptoCount, err := s.conversionRepo.CountByKind(ctx, domain.KindCrypto)
	if err != nil {
		return nil, fmt.Errorf("failed to count crypto conversions: %w", err)
	}

	return &dto.DistributionResponse{
		Labels: []string{"Fiat", "Crypto"},
		Counts: []int64{fiatCount, cryptoCount},
	}, nil
}

// dayKey collapses a timestamp to its local calendar day.
func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// atMidnight truncates a timestamp to the start of its local calendar day.
func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// countDistinctDays counts the calendar days represented in a record set.
func countDistinctDays(conversions []domain.Conversion) int {
	days := make(map[string]bool, len(conversions))
	for _, conv := range conversions {
		days[dayKey(conv.ConvertedAt)] = true
	}
	return len(days)
}

// Ensure ChartService implements the chart facade
var _ portssvc.ChartSvcFacade = (*ChartService)(nil)

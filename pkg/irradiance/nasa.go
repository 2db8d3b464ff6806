package irradiance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/levenlabs/go-lflag"
	"github.com/raterudder/rooftopsolar/pkg/common"
	"github.com/raterudder/rooftopsolar/pkg/log"
	"github.com/raterudder/rooftopsolar/pkg/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	nasaParameter  = "ALLSKY_SFC_SW_DWN"
	nasaSource     = "NASA POWER API"
	daysPerMonth   = 30.44
	climatologyEnd = "2022"
)

var (
	// seasonalFactors scale the mean irradiance when a month is missing.
	seasonalFactors = [12]float64{0.6, 0.7, 0.85, 1.0, 1.15, 1.2, 1.2, 1.1, 0.95, 0.8, 0.65, 0.55}

	// defaultMonthly is a moderate climate profile in kWh/m²/day.
	defaultMonthly = [12]float64{2.5, 3.2, 4.1, 5.2, 6.0, 6.5, 6.3, 5.8, 4.8, 3.7, 2.8, 2.3}
)

type cacheKey struct {
	lat, lon float64
}

func newCacheKey(lat, lon float64) cacheKey {
	return cacheKey{
		lat: math.Round(lat*100) / 100,
		lon: math.Round(lon*100) / 100,
	}
}

// NASAPower implements Provider using the NASA POWER API. It fetches the
// 2010-2022 monthly climatology and the last year of daily values for the
// all-sky surface irradiance and caches the processed series per location.
type NASAPower struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	cache   *lru.Cache[cacheKey, types.SolarDataSeries]
	now     func() time.Time
}

// NewNASAPower returns a client for baseURL allowing requestsPerSecond
// requests and caching up to cacheSize locations.
func NewNASAPower(baseURL, apiKey string, requestsPerSecond float64, cacheSize int) (*NASAPower, error) {
	n := &NASAPower{
		client: common.HTTPClient(30 * time.Second),
		now:    time.Now,
	}
	if err := n.configure(baseURL, apiKey, requestsPerSecond, cacheSize); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *NASAPower) configure(baseURL, apiKey string, requestsPerSecond float64, cacheSize int) error {
	if baseURL == "" {
		return fmt.Errorf("nasa-power-url is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return fmt.Errorf("failed to parse nasa power url (%s): %w", baseURL, err)
	}
	if requestsPerSecond <= 0 {
		return fmt.Errorf("nasa-requests-per-second must be positive")
	}
	if cacheSize <= 0 {
		return fmt.Errorf("irradiance-cache-size must be positive")
	}
	cache, err := lru.New[cacheKey, types.SolarDataSeries](cacheSize)
	if err != nil {
		return fmt.Errorf("failed to create irradiance cache: %w", err)
	}
	n.baseURL = baseURL
	n.apiKey = apiKey
	// the monthly and daily requests go out together
	n.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 2)
	n.cache = cache
	return nil
}

// configuredNASAPower sets up flags for NASA POWER and returns the instance.
func configuredNASAPower() *NASAPower {
	n := &NASAPower{
		client: common.HTTPClient(30 * time.Second),
		now:    time.Now,
	}
	baseURL := lflag.String("nasa-power-url", "https://power.larc.nasa.gov/api/temporal", "Base URL for the NASA POWER temporal API")
	apiKey := lflag.String("nasa-api-key", "", "API key for NASA POWER (optional)")
	rps := 2.0
	lflag.JSON(&rps, "nasa-requests-per-second", rps, "Maximum requests per second sent to NASA POWER")
	cacheSize := 1024
	lflag.JSON(&cacheSize, "irradiance-cache-size", cacheSize, "Number of locations whose irradiance is cached")

	lflag.Do(func() {
		if err := n.configure(*baseURL, *apiKey, rps, cacheSize); err != nil {
			panic(fmt.Errorf("invalid nasa power config: %w", err))
		}
	})

	return n
}

// GetSolarData implements Provider. The monthly climatology is required; the
// daily series only improves the reported data quality so a failure fetching
// it is logged and ignored.
func (n *NASAPower) GetSolarData(ctx context.Context, latitude, longitude float64) (types.SolarDataSeries, error) {
	key := newCacheKey(latitude, longitude)
	if series, ok := n.cache.Get(key); ok {
		log.Ctx(ctx).DebugContext(ctx, "irradiance cache hit", slog.Float64("latitude", key.lat), slog.Float64("longitude", key.lon))
		series.Location = &types.Location{Latitude: latitude, Longitude: longitude}
		return series, nil
	}

	now := n.now().UTC()
	var monthly, daily map[string]float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		monthly, err = n.fetch(gctx, "monthly", key, "2010", climatologyEnd)
		if err != nil {
			return fmt.Errorf("failed to get monthly irradiance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		start := now.AddDate(0, 0, -365).Format("20060102")
		daily, err = n.fetch(gctx, "daily", key, start, now.Format("20060102"))
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "failed to get daily irradiance", slog.Any("error", err))
			daily = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.SolarDataSeries{}, err
	}

	series := processSeries(monthly, daily)
	series.Location = &types.Location{Latitude: latitude, Longitude: longitude}
	series.DataSource = nasaSource

	log.Ctx(ctx).DebugContext(
		ctx,
		"got nasa power irradiance",
		slog.Float64("latitude", latitude),
		slog.Float64("longitude", longitude),
		slog.Float64("annualIrradiance", *series.AnnualIrradiance),
		slog.String("dataQuality", string(series.DataQuality)),
	)

	n.cache.Add(key, series)
	return series, nil
}

type powerResponse struct {
	Properties struct {
		Parameter map[string]map[string]float64 `json:"parameter"`
	} `json:"properties"`
}

// fetch requests the parameter values for one temporal resolution.
func (n *NASAPower) fetch(ctx context.Context, resolution string, key cacheKey, start, end string) (map[string]float64, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u, err := url.Parse(n.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	u = u.JoinPath(resolution, "point")
	q := u.Query()
	q.Set("parameters", nasaParameter)
	q.Set("community", "RE")
	q.Set("latitude", strconv.FormatFloat(key.lat, 'f', 2, 64))
	q.Set("longitude", strconv.FormatFloat(key.lon, 'f', 2, 64))
	q.Set("start", start)
	q.Set("end", end)
	q.Set("format", "JSON")
	if n.apiKey != "" {
		q.Set("api_key", n.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s irradiance: %w", resolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status code from nasa power: %d: %s", resp.StatusCode, body)
	}

	var pr powerResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("failed to decode %s irradiance: %w", resolution, err)
	}
	values, ok := pr.Properties.Parameter[nasaParameter]
	if !ok {
		return nil, fmt.Errorf("%w: response is missing %s", ErrNoData, nasaParameter)
	}
	return values, nil
}

// processSeries turns the raw monthly ("YYYYMM") and daily ("YYYYMMDD")
// values into a series. Months are averaged across years; non-positive
// values are the API's fill value and are skipped, as is month 13 which is
// the yearly aggregate. With no usable monthly values the moderate climate
// profile is used.
func processSeries(monthly, daily map[string]float64) types.SolarDataSeries {
	var byMonth [12][]float64
	var all []float64
	var valid, total int
	// sorted so the averages don't depend on map order
	keys := make([]string, 0, len(monthly))
	for k := range monthly {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := monthly[k]
		m := monthOf(k)
		if m < 1 || m > 12 {
			continue
		}
		total++
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		valid++
		byMonth[m-1] = append(byMonth[m-1], v)
		all = append(all, v)
	}

	averages := make([]float64, 12)
	if len(all) > 0 {
		overall := mean(all)
		for i, vs := range byMonth {
			if len(vs) > 0 {
				averages[i] = mean(vs)
			} else {
				averages[i] = overall * seasonalFactors[i]
			}
		}
	} else {
		copy(averages, defaultMonthly[:])
	}

	var sum, maxIrr, minIrr float64
	minIrr = math.Inf(1)
	for _, v := range averages {
		sum += v
		maxIrr = math.Max(maxIrr, v)
		minIrr = math.Min(minIrr, v)
	}
	var variation float64
	if maxIrr > 0 {
		variation = (maxIrr - minIrr) / maxIrr
	}

	return types.SolarDataSeries{
		AnnualIrradiance:  types.Float64(sum * daysPerMonth),
		MonthlyIrradiance: averages,
		PeakSunHours:      peakSunHours(averages),
		SeasonalVariation: variation,
		DataQuality:       assessQuality(len(monthly) > 0, valid, total, hasValid(daily)),
	}
}

// assessQuality scores 40 for having monthly data, up to 40 more for its
// completeness and 20 for having daily data.
func assessQuality(haveMonthly bool, valid, total int, haveDaily bool) types.DataQuality {
	var score int
	if haveMonthly {
		score += 40
		if total > 0 {
			score += int(float64(valid) / float64(total) * 40)
		}
	}
	if haveDaily {
		score += 20
	}
	switch {
	case score >= 80:
		return types.DataQualityExcellent
	case score >= 60:
		return types.DataQualityGood
	case score >= 40:
		return types.DataQualityFair
	default:
		return types.DataQualityEstimated
	}
}

// monthOf returns the month of a "YYYYMM" key or 0 if it isn't one.
func monthOf(key string) int {
	if len(key) != 6 {
		return 0
	}
	m, err := strconv.Atoi(key[4:])
	if err != nil {
		return 0
	}
	return m
}

func hasValid(values map[string]float64) bool {
	for _, v := range values {
		if v > 0 {
			return true
		}
	}
	return false
}

func mean(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

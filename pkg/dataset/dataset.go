// Package dataset holds the static figures behind the dashboard: counter
// baselines and the reference tables that widgets chart. The data ships
// embedded in the binary as YAML and is decoded once on first use.
package dataset

import (
	_ "embed"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/debt-pulse/pkg/projection"
)

//go:embed dataset.yaml
var raw []byte

// Counter is a projection baseline. A nil Since means the counter starts
// at whatever instant its owner is created.
type Counter struct {
	Since *time.Time `yaml:"since"`
	Value float64    `yaml:"value"`
	Rate  float64    `yaml:"rate"`
}

// Spec anchors the counter and returns its projection. mount is used only
// when the counter has no fixed Since.
func (c Counter) Spec(mount time.Time, opts ...projection.Option) projection.Spec {
	base := mount
	if c.Since != nil {
		base = *c.Since
	}
	return projection.Must(base, c.Value, c.Rate, opts...)
}

// Counters lists the baselines by name.
type Counters struct {
	Debt                Counter `yaml:"debt"`
	Population          Counter `yaml:"population"`
	PerCapitaDebt       Counter `yaml:"per_capita_debt"`
	PerCapitaPopulation Counter `yaml:"per_capita_population"`
	TaxSpending         Counter `yaml:"tax_spending"`
	TaxRevenue          Counter `yaml:"tax_revenue"`
	IdleDebt            Counter `yaml:"idle_debt"`
	Workers             Counter `yaml:"workers"`
	Elders              Counter `yaml:"elders"`
	InfraPopulation     Counter `yaml:"infra_population"`
	VacantHouses        Counter `yaml:"vacant_houses"`
	AgedPipesKm         Counter `yaml:"aged_pipes_km"`
}

type Infrastructure struct {
	HousingStock     float64 `yaml:"housing_stock"`
	PipeNetworkKm    float64 `yaml:"pipe_network_km"`
	PublicFacilityM2 float64 `yaml:"public_facility_m2"`
	UpkeepYenPerM2   float64 `yaml:"upkeep_yen_per_m2"`
}

type CountryTurnover struct {
	Country string  `yaml:"country"`
	Entry   float64 `yaml:"entry"`
	Exit    float64 `yaml:"exit"`
	Total   float64 `yaml:"total"`
}

type Corporate struct {
	YearlyExits     float64           `yaml:"yearly_exits"`
	YearlyCreations float64           `yaml:"yearly_creations"`
	International   []CountryTurnover `yaml:"international"`
}

type Asset struct {
	Name string  `yaml:"name"`
	Cost float64 `yaml:"cost"`
	Unit string  `yaml:"unit"`
}

type DecisionMakers struct {
	Bands       []string  `yaml:"bands"`
	CEO         []float64 `yaml:"ceo"`
	Diet        []float64 `yaml:"diet"`
	Over60Bands int       `yaml:"over60_bands"`
}

// Over60 sums the leading bands of shares.
func (d DecisionMakers) Over60(shares []float64) float64 {
	n := min(d.Over60Bands, len(shares))
	return lo.Sum(shares[:n])
}

type HistoricalIncome struct {
	Age     string  `yaml:"age"`
	Peak    float64 `yaml:"peak"`
	Current float64 `yaml:"current"`
}

type InternationalIncome struct {
	Age string  `yaml:"age"`
	JP  float64 `yaml:"jp"`
	US  float64 `yaml:"us"`
	KR  float64 `yaml:"kr"`
}

type AgeIncome struct {
	Historical    []HistoricalIncome    `yaml:"historical"`
	International []InternationalIncome `yaml:"international"`
}

type RiskyPrefecture struct {
	Name   string  `yaml:"name"`
	Rate   float64 `yaml:"rate"`
	AtRisk int     `yaml:"at_risk"`
	Total  int     `yaml:"total"`
}

type NotableCity struct {
	Name string `yaml:"name"`
	Memo string `yaml:"memo"`
}

type Disappearing struct {
	TotalMunicipalities int               `yaml:"total_municipalities"`
	Prefectures         []RiskyPrefecture `yaml:"prefectures"`
	Cities              []NotableCity     `yaml:"cities"`
}

type NetBenefit struct {
	Generation string  `yaml:"generation"`
	Value      float64 `yaml:"value"`
}

type Cause struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

type Generations struct {
	NetBenefit []NetBenefit `yaml:"net_benefit"`
	Causes     []Cause      `yaml:"causes"`
}

type Bridge struct {
	Region      string `yaml:"region"`
	Total       int    `yaml:"total"`
	Unaddressed int    `yaml:"unaddressed"`
}

// Ratio is the unaddressed share in [0,1].
func (b Bridge) Ratio() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Unaddressed) / float64(b.Total)
}

// BridgeSite is one entry of the judgement IV inventory. Year is 0 when the
// completion year is unknown.
type BridgeSite struct {
	Name     string  `yaml:"name"`
	Location string  `yaml:"location"`
	Lat      float64 `yaml:"lat"`
	Lng      float64 `yaml:"lng"`
	Year     int     `yaml:"year"`
	Memo     string  `yaml:"memo"`
}

// Age is the bridge's age in the given year; ok is false when the
// completion year is unknown.
func (b BridgeSite) Age(year int) (age int, ok bool) {
	if b.Year <= 0 {
		return 0, false
	}
	return year - b.Year, true
}

type DemographicPoint struct {
	Year    int     `yaml:"year"`
	Working float64 `yaml:"working"`
	Elderly float64 `yaml:"elderly"`
}

type VotingBlock struct {
	Age        string  `yaml:"age"`
	Population float64 `yaml:"population"`
	Turnout    float64 `yaml:"turnout"`
	Votes      float64 `yaml:"votes"`
}

type CountryValue struct {
	Country string  `yaml:"country"`
	Value   float64 `yaml:"value"`
}

type FX struct {
	BigMacUSD float64        `yaml:"bigmac_usd"`
	BigMacJPY float64        `yaml:"bigmac_jpy"`
	WagesUSD  []CountryValue `yaml:"wages_usd"`
}

// ImpliedRate is the yen per dollar that equalises Big Mac prices.
func (f FX) ImpliedRate() float64 {
	if f.BigMacUSD == 0 {
		return 0
	}
	return f.BigMacJPY / f.BigMacUSD
}

type Regional struct {
	HorizonSeconds float64 `yaml:"horizon_seconds"`
	Acceleration   float64 `yaml:"acceleration"`
	PeriodSeconds  float64 `yaml:"period_seconds"`
	DefaultRegion  string  `yaml:"default_region"`
}

// Prefecture is one row of the regional table. Rank is filled in after
// decoding: 1 is the steepest projected decline.
type Prefecture struct {
	Key     string  `yaml:"key"`
	Name    string  `yaml:"name"`
	Current float64 `yaml:"current"`
	Pro2050 float64 `yaml:"pro2050"`
	Rank    int     `yaml:"-"`
}

// DeclineRate is the fraction of today's population gone by 2050.
// Negative for growing prefectures.
func (p Prefecture) DeclineRate() float64 {
	if p.Current == 0 {
		return 0
	}
	return (p.Current - p.Pro2050) / p.Current
}

// Data is the decoded dataset.
type Data struct {
	Counters        Counters           `yaml:"counters"`
	Infrastructure  Infrastructure     `yaml:"infrastructure"`
	Corporate       Corporate          `yaml:"corporate"`
	Assets          []Asset            `yaml:"opportunity_assets"`
	DecisionMakers  DecisionMakers     `yaml:"decision_makers"`
	AgeIncome       AgeIncome          `yaml:"age_income"`
	Disappearing    Disappearing       `yaml:"disappearing"`
	Generations     Generations        `yaml:"generations"`
	Bridges         []Bridge           `yaml:"bridges"`
	BridgeSites     []BridgeSite       `yaml:"bridge_inventory"`
	Demographics    []DemographicPoint `yaml:"demographics"`
	SilverDemocracy []VotingBlock      `yaml:"silver_democracy"`
	FX              FX                 `yaml:"fx"`
	Tokyo1980s      []float64          `yaml:"tokyo_1980s_monthly"`
	Regional        Regional           `yaml:"regional"`
	Prefectures     []Prefecture       `yaml:"prefectures"`

	byKey map[string]Prefecture
}

// Prefecture looks up a prefecture by its English key ("Tokyo", "Akita").
func (d *Data) Prefecture(key string) (Prefecture, bool) {
	p, ok := d.byKey[key]
	return p, ok
}

// DefaultPrefecture returns the fallback region.
func (d *Data) DefaultPrefecture() Prefecture {
	return d.byKey[d.Regional.DefaultRegion]
}

// Ranked returns the prefectures ordered by rank, steepest decline first.
func (d *Data) Ranked() []Prefecture {
	out := make([]Prefecture, len(d.Prefectures))
	copy(out, d.Prefectures)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

var (
	loadOnce sync.Once
	loaded   *Data
	loadErr  error
)

// Load decodes the embedded dataset once and returns it.
func Load() (*Data, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(raw)
	})
	return loaded, loadErr
}

// MustLoad is Load for callers that cannot proceed without the dataset.
func MustLoad() *Data {
	d, err := Load()
	if err != nil {
		panic(err)
	}
	return d
}

// Parse decodes a dataset document and derives the prefecture ranking.
func Parse(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if len(d.Prefectures) == 0 {
		return nil, fmt.Errorf("decode dataset: no prefectures")
	}

	rankPrefectures(d.Prefectures)
	d.byKey = lo.KeyBy(d.Prefectures, func(p Prefecture) string { return p.Key })

	if _, ok := d.byKey[d.Regional.DefaultRegion]; !ok {
		return nil, fmt.Errorf("decode dataset: default region %q not in prefecture table", d.Regional.DefaultRegion)
	}
	if len(d.Tokyo1980s) != 12 {
		return nil, fmt.Errorf("decode dataset: want 12 monthly temperatures, got %d", len(d.Tokyo1980s))
	}
	return &d, nil
}

// rankPrefectures assigns Rank in place by descending decline rate.
func rankPrefectures(ps []Prefecture) {
	order := lo.Range(len(ps))
	sort.SliceStable(order, func(i, j int) bool {
		return ps[order[i]].DeclineRate() > ps[order[j]].DeclineRate()
	})
	for rank, idx := range order {
		ps[idx].Rank = rank + 1
	}
}

// DropPerPeriod is how many people the simulation removes from p every
// period. Growing prefectures do not move.
func (r Regional) DropPerPeriod(p Prefecture) float64 {
	diff := p.Current - p.Pro2050
	if diff <= 0 || r.HorizonSeconds <= 0 {
		return 0
	}
	return math.Max(1, math.Floor(diff/r.HorizonSeconds*r.PeriodSeconds*r.Acceleration))
}

// Spec projects p's population from mount, never dropping below its 2050
// estimate.
func (r Regional) Spec(p Prefecture, mount time.Time) projection.Spec {
	drop := r.DropPerPeriod(p)
	if drop == 0 {
		return projection.Must(mount, p.Current, 0)
	}
	period := time.Duration(r.PeriodSeconds * float64(time.Second))
	return projection.PerPeriod(mount, p.Current, -drop, period, projection.WithFloor(p.Pro2050))
}

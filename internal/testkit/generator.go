package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"autoinsight/domain/dataset"
)

// ChurnColumns is the schema GenerateChurn emits, in order.
var ChurnColumns = []string{
	"customer_id",
	"age",
	"tenure_months",
	"monthly_spend",
	"support_tickets",
	"plan",
	"region",
	"country",
	"signup_date",
	"churn",
}

// ChurnConfig configures the synthetic subscription-churn generator.
type ChurnConfig struct {
	Customers     int     `json:"customers"`
	Seed          int64   `json:"seed"`
	MissingRate   float64 `json:"missing_rate"`   // share of age/plan cells left blank
	DuplicateRate float64 `json:"duplicate_rate"` // share of rows repeated verbatim
	OutlierRate   float64 `json:"outlier_rate"`   // share of monthly_spend values inflated 10x
	StartDate     time.Time
}

// DefaultChurnConfig returns a small dataset that exercises every cleaning step.
func DefaultChurnConfig() ChurnConfig {
	return ChurnConfig{
		Customers:     200,
		Seed:          42,
		MissingRate:   0.05,
		DuplicateRate: 0.03,
		OutlierRate:   0.02,
		StartDate:     time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

var (
	plans   = []string{"basic", "pro", "enterprise"}
	regions = []string{"north", "south", "east", "west"}
)

// ChurnGenerator produces deterministic customer records for a seed.
type ChurnGenerator struct {
	config ChurnConfig
	rng    *rand.Rand
}

func NewChurnGenerator(config ChurnConfig) *ChurnGenerator {
	return &ChurnGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Records generates the raw rows keyed by ChurnColumns.
func (g *ChurnGenerator) Records() []map[string]any {
	records := make([]map[string]any, 0, g.config.Customers)
	for i := 0; i < g.config.Customers; i++ {
		rec := g.customer(i)
		records = append(records, rec)
		if g.rng.Float64() < g.config.DuplicateRate {
			records = append(records, copyRecord(rec))
		}
	}
	return records
}

// Generate builds the dataset.
func (g *ChurnGenerator) Generate() (*dataset.Dataset, error) {
	return dataset.FromRecords(ChurnColumns, g.Records())
}

func (g *ChurnGenerator) customer(i int) map[string]any {
	tenure := 1 + g.rng.Intn(60)
	tickets := g.rng.Intn(8)
	plan := plans[g.rng.Intn(len(plans))]

	spend := 20 + float64(tenure)*0.8 + g.rng.NormFloat64()*5
	switch plan {
	case "pro":
		spend += 30
	case "enterprise":
		spend += 80
	}
	if g.rng.Float64() < g.config.OutlierRate {
		spend *= 10
	}

	// churn grows with tickets and shrinks with tenure
	p := 0.15 + 0.08*float64(tickets) - 0.004*float64(tenure)
	churn := "No"
	if g.rng.Float64() < math.Max(0.02, math.Min(0.95, p)) {
		churn = "Yes"
	}

	var age any = 18 + g.rng.Intn(55)
	var planCell any = plan
	if g.rng.Float64() < g.config.MissingRate {
		age = nil
	}
	if g.rng.Float64() < g.config.MissingRate {
		planCell = nil
	}

	signup := g.config.StartDate.AddDate(0, 0, g.rng.Intn(365))
	return map[string]any{
		"customer_id":     1000 + i,
		"age":             age,
		"tenure_months":   tenure,
		"monthly_spend":   round2(spend),
		"support_tickets": tickets,
		"plan":            planCell,
		"region":          regions[g.rng.Intn(len(regions))],
		"country":         "US",
		"signup_date":     signup.Format("2006-01-02"),
		"churn":           churn,
	}
}

func copyRecord(rec map[string]any) map[string]any {
	out := make(map[string]any, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ChurnDataset generates n customers with the default rates and the given seed.
func ChurnDataset(n int, seed int64) *dataset.Dataset {
	cfg := DefaultChurnConfig()
	cfg.Customers = n
	cfg.Seed = seed
	ds, err := NewChurnGenerator(cfg).Generate()
	if err != nil {
		panic(fmt.Sprintf("testkit: churn dataset: %v", err))
	}
	return ds
}

// MustDataset builds a dataset from records or panics.
func MustDataset(header []string, records []map[string]any) *dataset.Dataset {
	ds, err := dataset.FromRecords(header, records)
	if err != nil {
		panic(fmt.Sprintf("testkit: %v", err))
	}
	return ds
}

// NumericColumn builds a one-column record set from xs.
func NumericColumn(name string, xs ...float64) []map[string]any {
	out := make([]map[string]any, len(xs))
	for i, x := range xs {
		out[i] = map[string]any{name: x}
	}
	return out
}

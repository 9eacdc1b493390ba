package testkit

import (
	"math"
	"math/rand"

	"govista/domain/indicator"
)

// Indicator names used by the synthetic dataset. They mirror the World Bank
// naming convention of the real export so demo output reads like production
// data.
const (
	GDP            = "GDP (current US$)"
	GDPGrowth      = "GDP growth (annual %)"
	Inflation      = "Inflation, consumer prices (annual %)"
	LifeExpectancy = "Life expectancy at birth, total (years)"
	Exports        = "Exports of goods and services (% of GDP)"
)

const (
	startYear = 2000
	endYear   = 2023
)

// Kit provides deterministic synthetic indicator data for tests and for the
// server's demo mode when no data file is configured.
type Kit struct {
	rng *rand.Rand
}

// NewKit creates a kit with a fixed seed so every run sees the same data
func NewKit() *Kit {
	return NewKitWithSeed(42)
}

// NewKitWithSeed creates a kit with an explicit seed
func NewKitWithSeed(seed int64) *Kit {
	return &Kit{rng: rand.New(rand.NewSource(seed))}
}

// GenerateDataset builds a small country-indicator table with known
// relationships: GDP and life expectancy trend up together, inflation moves
// against GDP growth, and two series carry deliberate gaps so pairwise
// exclusion paths get exercised.
func (k *Kit) GenerateDataset() *indicator.Dataset {
	obs := make([]indicator.Observation, 0, 5*(endYear-startYear+1))

	gdp := 16.0e9
	life := 71.0
	for year := startYear; year <= endYear; year++ {
		growth := 4.5 + k.rng.NormFloat64()*2.5
		if year == 2020 {
			growth = -3.6 + k.rng.NormFloat64()*0.5
		}
		gdp *= 1 + growth/100
		life += 0.18 + k.rng.NormFloat64()*0.05
		inflation := 8.0 - 0.6*growth + k.rng.NormFloat64()*1.5
		exports := 25.0 + 0.4*growth + k.rng.NormFloat64()*2.0

		obs = append(obs,
			indicator.Observation{Indicator: GDP, Year: year, Value: gdp},
			indicator.Observation{Indicator: GDPGrowth, Year: year, Value: growth},
			indicator.Observation{Indicator: LifeExpectancy, Year: year, Value: life},
		)

		// Inflation reporting stops after 2021, exports has sparse early
		// coverage; both gaps are intentional
		if year <= 2021 {
			obs = append(obs, indicator.Observation{Indicator: Inflation, Year: year, Value: inflation})
		} else {
			obs = append(obs, indicator.Observation{Indicator: Inflation, Year: year, Value: math.NaN()})
		}
		if year >= 2005 {
			obs = append(obs, indicator.Observation{Indicator: Exports, Year: year, Value: exports})
		}
	}

	return indicator.NewDataset("testkit://synthetic", obs)
}

// AllIndicators returns the names the synthetic dataset covers
func AllIndicators() []string {
	return []string{GDP, GDPGrowth, Inflation, LifeExpectancy, Exports}
}

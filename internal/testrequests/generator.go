package testrequests

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/healthwatch/riskd/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	archetypeDivisor   = 8
)

// Cohort parameter ranges. Each archetype draws metrics from a band that
// should land in a predictable risk level, which the verifier checks.
const (
	healthyAgeMin   = 18
	healthyAgeRange = 22
	healthyBMIMin   = 19.0
	healthyBMIRange = 5.5
	healthyBPMin    = 95
	healthyBPRange  = 24

	overweightAgeMin   = 40
	overweightAgeRange = 20
	overweightBMIMin   = 25.5
	overweightBMIRange = 4.0
	overweightBPMin    = 122
	overweightBPRange  = 16

	elderlyAgeMin   = 65
	elderlyAgeRange = 25
	elderlyBMIMin   = 27.0
	elderlyBMIRange = 12.0
	elderlyBPMin    = 150
	elderlyBPRange  = 50

	underweightAgeMin   = 18
	underweightAgeRange = 17
	underweightBMIMin   = 13.5
	underweightBMIRange = 4.5
	underweightBPMin    = 90
	underweightBPRange  = 25

	obeseAgeMin   = 30
	obeseAgeRange = 30
	obeseBMIMin   = 31.0
	obeseBMIRange = 13.0
	obeseBPMin    = 128
	obeseBPRange  = 40

	boundaryAgeLow  = 1
	boundaryAgeHigh = 150
	boundaryBMILow  = 10.0
	boundaryBMIHigh = 80.0
	boundaryBPLow   = 50
	boundaryBPHigh  = 300

	wideAgeMin   = 1
	wideAgeRange = 149
	wideBMIMin   = 10.0
	wideBMIRange = 70.0
	wideBPMin    = 50
	wideBPRange  = 250
)

// Constants for archetype cases.
const (
	caseHealthy      = 0
	caseOverweight   = 1
	caseElderly      = 2
	caseUnderweight  = 3
	caseObese        = 4
	caseBoundaryLow  = 5
	caseBoundaryHigh = 6
	caseWideRange    = 7
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// getRandomInt returns a random int in [min, min+span).
func getRandomInt(min, span int) int {
	if span <= 0 {
		return min
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(span)))
	return min + int(n.Int64())
}

// generateProfiles creates the specified number of patient profiles across
// the cohort archetypes.
func generateProfiles(ctx context.Context, config *Config, stats *Stats) ([]Profile, error) {
	logger.Get().Info(ctx, "generating patient profiles", logger.Int("numRequests", config.NumRequests))

	profiles := make([]Profile, config.NumRequests)

	type profileResult struct {
		index   int
		profile Profile
		err     error
	}

	resultChan := make(chan profileResult, config.NumRequests)

	// Use worker pool for profile generation
	workerCount := minInt(config.Workers, config.NumRequests)
	profilesPerWorker := config.NumRequests / workerCount

	for worker := 0; worker < workerCount; worker++ {
		start := worker * profilesPerWorker
		end := start + profilesPerWorker
		if worker == workerCount-1 {
			end = config.NumRequests // Last worker gets remaining profiles
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					resultChan <- profileResult{index: i, err: ctx.Err()}
					return
				default:
					resultChan <- profileResult{index: i, profile: generateSingleProfile()}
				}
			}
		}(start, end)
	}

	// Collect results
	for i := 0; i < config.NumRequests; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during profile generation: %w", ctx.Err())
		case result := <-resultChan:
			if result.err != nil {
				return nil, fmt.Errorf("failed to generate profile %d: %w", result.index, result.err)
			}
			profiles[result.index] = result.profile
		}
	}

	stats.ProfilesGenerated = len(profiles)
	logger.Get().Info(ctx, "generated profiles successfully", logger.Int("count", len(profiles)))

	return profiles, nil
}

// generateSingleProfile draws one profile from a randomly chosen archetype.
func generateSingleProfile() Profile {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(archetypeDivisor))
	switch randNum.Int64() {
	case caseHealthy:
		return Profile{
			Archetype:  "healthy",
			Age:        getRandomInt(healthyAgeMin, healthyAgeRange),
			BMI:        healthyBMIMin + getRandomFloat()*healthyBMIRange,
			SystolicBP: getRandomInt(healthyBPMin, healthyBPRange),
		}
	case caseOverweight:
		return Profile{
			Archetype:  "overweight",
			Age:        getRandomInt(overweightAgeMin, overweightAgeRange),
			BMI:        overweightBMIMin + getRandomFloat()*overweightBMIRange,
			SystolicBP: getRandomInt(overweightBPMin, overweightBPRange),
		}
	case caseElderly:
		return Profile{
			Archetype:  "elderly_hypertensive",
			Age:        getRandomInt(elderlyAgeMin, elderlyAgeRange),
			BMI:        elderlyBMIMin + getRandomFloat()*elderlyBMIRange,
			SystolicBP: getRandomInt(elderlyBPMin, elderlyBPRange),
		}
	case caseUnderweight:
		return Profile{
			Archetype:  "underweight",
			Age:        getRandomInt(underweightAgeMin, underweightAgeRange),
			BMI:        underweightBMIMin + getRandomFloat()*underweightBMIRange,
			SystolicBP: getRandomInt(underweightBPMin, underweightBPRange),
		}
	case caseObese:
		return Profile{
			Archetype:  "obese",
			Age:        getRandomInt(obeseAgeMin, obeseAgeRange),
			BMI:        obeseBMIMin + getRandomFloat()*obeseBMIRange,
			SystolicBP: getRandomInt(obeseBPMin, obeseBPRange),
		}
	case caseBoundaryLow:
		return Profile{
			Archetype:  "boundary_low",
			Age:        boundaryAgeLow,
			BMI:        boundaryBMILow,
			SystolicBP: boundaryBPLow,
		}
	case caseBoundaryHigh:
		return Profile{
			Archetype:  "boundary_high",
			Age:        boundaryAgeHigh,
			BMI:        boundaryBMIHigh,
			SystolicBP: boundaryBPHigh,
		}
	case caseWideRange:
		fallthrough
	default:
		return Profile{
			Archetype:  "wide_range",
			Age:        getRandomInt(wideAgeMin, wideAgeRange),
			BMI:        wideBMIMin + getRandomFloat()*wideBMIRange,
			SystolicBP: getRandomInt(wideBPMin, wideBPRange),
		}
	}
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

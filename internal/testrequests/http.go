package testrequests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// submitResult captures the outcome of one prediction request.
type submitResult struct {
	outcome    string // "success", "rejected", or "failed"
	level      string
	verifyErrs []string
}

// submitProfiles submits profiles concurrently using worker pools and
// verifies each assessment as it comes back.
func submitProfiles(ctx context.Context, config *Config, profiles []Profile, stats *Stats) error {
	log.Printf("Submitting %d prediction requests with %d workers...", len(profiles), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/api/v1/predict"

	// Counters for statistics
	var (
		successful int64
		rejected   int64
		failed     int64
		submitted  int64
		verifyBad  int64
	)

	levelCounts := make(map[string]int)
	var levelMu sync.Mutex

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	profileChan := make(chan Profile, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for profile := range profileChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleProfile(ctx, client, url, profile)

					// Update counters
					atomic.AddInt64(&submitted, 1)
					switch result.outcome {
					case "success":
						atomic.AddInt64(&successful, 1)
						levelMu.Lock()
						levelCounts[result.level]++
						levelMu.Unlock()
					case "rejected":
						atomic.AddInt64(&rejected, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}
					if len(result.verifyErrs) > 0 {
						atomic.AddInt64(&verifyBad, 1)
						if config.Verbose {
							for _, msg := range result.verifyErrs {
								log.Printf("verification failure (%s): %s", profile.Archetype, msg)
							}
						}
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						rej := atomic.LoadInt64(&rejected)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("Progress: %d/%d submitted (success: %d, rejected: %d, failed: %d)",
								total, len(profiles), succ, rej, fail)
						} else {
							fmt.Printf("\rSubmitted: %d/%d (success: %d, rejected: %d, failed: %d)",
								total, len(profiles), succ, rej, fail)
						}
					}
				}
			}
		}()
	}

	// Send profiles to workers
	go func() {
		defer close(profileChan)
		for _, profile := range profiles {
			select {
			case <-ctx.Done():
				return
			case profileChan <- profile:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Update stats
	stats.RequestsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RequestsSuccessful = int(atomic.LoadInt64(&successful))
	stats.RequestsRejected = int(atomic.LoadInt64(&rejected))
	stats.RequestsFailed = int(atomic.LoadInt64(&failed))
	stats.VerificationFailures = int(atomic.LoadInt64(&verifyBad))
	stats.LevelCounts = levelCounts

	log.Printf(`Prediction submission completed:
   Successful: %d
   Rejected: %d
   Failed: %d
   Verification failures: %d
`, stats.RequestsSuccessful, stats.RequestsRejected, stats.RequestsFailed, stats.VerificationFailures)

	return nil
}

// submitSingleProfile submits one profile and verifies the assessment.
func submitSingleProfile(ctx context.Context, client *HTTPClient, url string, profile Profile) submitResult {
	resp, err := client.Post(ctx, url, profile)
	if err != nil {
		return submitResult{outcome: "failed"}
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return submitResult{outcome: "failed"}
	}

	switch resp.StatusCode {
	case StatusOK:
		var assessment Assessment
		if err := unmarshalJSON(body, &assessment); err != nil {
			return submitResult{outcome: "failed", verifyErrs: []string{"unparseable assessment: " + err.Error()}}
		}
		return submitResult{
			outcome:    "success",
			level:      assessment.RiskLevel,
			verifyErrs: verifyAssessment(profile, assessment),
		}
	case StatusUnprocessable:
		// The generator only emits in-range metrics, so a 422 is itself a
		// verification failure.
		return submitResult{outcome: "rejected", verifyErrs: []string{"in-range profile rejected with 422"}}
	default:
		return submitResult{outcome: "failed"}
	}
}

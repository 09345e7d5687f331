package testrequests

import "time"

// Config holds configuration for the prediction load test
type Config struct {
	BaseURL     string        // Base URL of the service
	NumRequests int           // Number of prediction requests to generate
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for generated profiles
	LogFile     string        // Log file for test output
	Verbose     bool          // Enable verbose logging
}

// Profile represents one synthetic patient profile to be submitted
type Profile struct {
	Age        int     `json:"age"`
	BMI        float64 `json:"bmi"`
	SystolicBP int     `json:"blood_pressure_systolic"`

	// Archetype labels the cohort the profile was drawn from; it is not
	// part of the wire request.
	Archetype string `json:"-"`
}

// Assessment represents the response from a prediction request
type Assessment struct {
	RiskScore           float64  `json:"risk_score"`
	RiskLevel           string   `json:"risk_level"`
	Confidence          float64  `json:"confidence"`
	ContributingFactors []string `json:"contributing_factors"`
	Timestamp           string   `json:"timestamp"`
}

// Stats holds test statistics
type Stats struct {
	ProfilesGenerated    int
	RequestsSubmitted    int
	RequestsSuccessful   int
	RequestsRejected     int
	RequestsFailed       int
	VerificationFailures int
	LevelCounts          map[string]int
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}

package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// APIBenchmark drives concurrent requests against a running server
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	Client      *http.Client
}

// BenchmarkResult aggregates the outcome of one benchmark run
type BenchmarkResult struct {
	URL            string        `json:"url"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	SuccessCount   int           `json:"success_count"`
	FailureCount   int           `json:"failure_count"`
	TotalTime      time.Duration `json:"total_time"`
	AverageTime    time.Duration `json:"average_time"`
	MinTime        time.Duration `json:"min_time"`
	MaxTime        time.Duration `json:"max_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Errors         []string      `json:"errors"`
}

// RequestResult is the outcome of a single request
type RequestResult struct {
	Duration   time.Duration
	StatusCode int
	Error      error
}

// NewAPIBenchmark creates a benchmark runner
func NewAPIBenchmark(baseURL string, concurrency, requests int) *APIBenchmark {
	return &APIBenchmark{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RunGET benchmarks a GET endpoint
func (b *APIBenchmark) RunGET(path string) *BenchmarkResult {
	return b.runTest(http.MethodGet, b.BaseURL+path, nil)
}

// RunPOST benchmarks a POST endpoint
func (b *APIBenchmark) RunPOST(path string, payload interface{}) *BenchmarkResult {
	url := b.BaseURL + path
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return &BenchmarkResult{
			URL:    url,
			Method: http.MethodPost,
			Errors: []string{fmt.Sprintf("json encode error: %v", err)},
		}
	}
	return b.runTest(http.MethodPost, url, jsonData)
}

func (b *APIBenchmark) runTest(method, url string, payload []byte) *BenchmarkResult {
	results := make(chan RequestResult, b.Requests)
	var wg sync.WaitGroup
	limiter := make(chan struct{}, b.Concurrency)

	startTime := time.Now()

	for i := 0; i < b.Requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()

			start := time.Now()
			req, err := http.NewRequest(method, url, bytes.NewBuffer(payload))
			if err != nil {
				results <- RequestResult{Error: err}
				return
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := b.Client.Do(req)
			if err != nil {
				results <- RequestResult{Error: err}
				return
			}
			defer resp.Body.Close()

			results <- RequestResult{
				Duration:   time.Since(start),
				StatusCode: resp.StatusCode,
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var minTime time.Duration = 1<<63 - 1
	var maxTime time.Duration
	var totalTime time.Duration
	successCount := 0
	failureCount := 0
	statusCodes := make(map[int]int)
	var errors []string

	for result := range results {
		if result.Error != nil {
			failureCount++
			errors = append(errors, result.Error.Error())
			continue
		}

		totalTime += result.Duration
		if result.Duration < minTime {
			minTime = result.Duration
		}
		if result.Duration > maxTime {
			maxTime = result.Duration
		}

		statusCodes[result.StatusCode]++
		if result.StatusCode >= 200 && result.StatusCode < 300 {
			successCount++
		} else {
			failureCount++
		}
	}

	totalElapsed := time.Since(startTime)
	averageTime := time.Duration(0)
	if successCount+failureCount > 0 {
		averageTime = totalTime / time.Duration(successCount+failureCount)
	}

	return &BenchmarkResult{
		URL:            url,
		Method:         method,
		Concurrency:    b.Concurrency,
		TotalRequests:  b.Requests,
		SuccessCount:   successCount,
		FailureCount:   failureCount,
		TotalTime:      totalElapsed,
		AverageTime:    averageTime,
		MinTime:        minTime,
		MaxTime:        maxTime,
		RequestsPerSec: float64(b.Requests) / totalElapsed.Seconds(),
		StatusCodes:    statusCodes,
		Errors:         errors,
	}
}

// PrintResult writes a human-readable summary
func (r *BenchmarkResult) PrintResult() {
	fmt.Printf("benchmark result:\n")
	fmt.Printf("  URL: %s\n", r.URL)
	fmt.Printf("  method: %s\n", r.Method)
	fmt.Printf("  concurrency: %d\n", r.Concurrency)
	fmt.Printf("  total requests: %d\n", r.TotalRequests)
	fmt.Printf("  success: %d, failure: %d\n", r.SuccessCount, r.FailureCount)
	fmt.Printf("  total time: %s, average: %s, min: %s, max: %s\n",
		r.TotalTime, r.AverageTime, r.MinTime, r.MaxTime)
	fmt.Printf("  requests/sec: %.2f\n", r.RequestsPerSec)
	fmt.Printf("  status codes:\n")
	for code, count := range r.StatusCodes {
		fmt.Printf("    %d: %d\n", code, count)
	}
	if len(r.Errors) > 0 {
		fmt.Printf("  errors (first 5):\n")
		for i, err := range r.Errors {
			if i >= 5 {
				fmt.Printf("    ... %d more\n", len(r.Errors)-5)
				break
			}
			fmt.Printf("    %s\n", err)
		}
	}
}

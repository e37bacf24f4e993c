package benchmark

import (
	"os"
	"testing"
)

// These benchmarks run against a live server. Set BENCHMARK_BASE_URL
// (e.g. http://localhost:5000/api) to enable them.

var baseURL string

func TestMain(m *testing.M) {
	baseURL = os.Getenv("BENCHMARK_BASE_URL")
	os.Exit(m.Run())
}

func requireServer(t *testing.T) {
	t.Helper()
	if baseURL == "" {
		t.Skip("BENCHMARK_BASE_URL not set, skipping live benchmark")
	}
}

func TestPingThroughput(t *testing.T) {
	requireServer(t)

	benchmark := NewAPIBenchmark(baseURL, 10, 100)
	result := benchmark.RunGET("/ping")
	result.PrintResult()

	if result.FailureCount > 0 {
		t.Errorf("ping benchmark failed: success rate %.2f%%",
			float64(result.SuccessCount)/float64(result.TotalRequests)*100)
	}
}

func TestCallListThroughput(t *testing.T) {
	requireServer(t)

	benchmark := NewAPIBenchmark(baseURL, 10, 100)
	result := benchmark.RunGET("/calls?page=1&pageSize=20")
	result.PrintResult()

	if result.FailureCount > 0 {
		t.Errorf("call list benchmark failed: success rate %.2f%%",
			float64(result.SuccessCount)/float64(result.TotalRequests)*100)
	}
}

func TestDashboardThroughput(t *testing.T) {
	requireServer(t)

	benchmark := NewAPIBenchmark(baseURL, 10, 100)
	result := benchmark.RunGET("/dashboard/stats")
	result.PrintResult()

	if result.FailureCount > 0 {
		t.Errorf("dashboard benchmark failed: success rate %.2f%%",
			float64(result.SuccessCount)/float64(result.TotalRequests)*100)
	}
}

func TestPersonListThroughput(t *testing.T) {
	requireServer(t)

	benchmark := NewAPIBenchmark(baseURL, 10, 100)
	result := benchmark.RunGET("/persons")
	result.PrintResult()

	if result.FailureCount > 0 {
		t.Errorf("person list benchmark failed: success rate %.2f%%",
			float64(result.SuccessCount)/float64(result.TotalRequests)*100)
	}
}

//go:build ignore

// Load test against a running server started with SEED_DEMO_DATA=true.
//
//	go run scripts/loadtest.go
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const (
	demoPhone    = "9876543210"
	demoPassword = "demo1234"
)

var baseURL = "http://localhost:8080"

type Stats struct {
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	TotalLatency    int64
	MaxLatency      int64
}

func (s *Stats) record(latency int64, ok bool) {
	atomic.AddInt64(&s.TotalRequests, 1)
	atomic.AddInt64(&s.TotalLatency, latency)
	if ok {
		atomic.AddInt64(&s.SuccessRequests, 1)
	} else {
		atomic.AddInt64(&s.FailedRequests, 1)
	}
	for {
		old := atomic.LoadInt64(&s.MaxLatency)
		if latency <= old || atomic.CompareAndSwapInt64(&s.MaxLatency, old, latency) {
			break
		}
	}
}

type client struct {
	token string
}

func main() {
	if u := os.Getenv("BASE_URL"); u != "" {
		baseURL = u
	}

	fmt.Println("WorkNearby Load Test")
	fmt.Println("====================")

	c := &client{}
	if err := c.login(); err != nil {
		log.Fatalf("login failed: %v", err)
	}

	workerIDs, err := c.approvedWorkers()
	if err != nil || len(workerIDs) == 0 {
		log.Fatalf("no approved workers to book (is SEED_DEMO_DATA on?): %v", err)
	}
	fmt.Printf("Found %d approved workers\n", len(workerIDs))

	fmt.Println("\n1. Searching workers (1000 requests, 50 concurrent)...")
	printStats("Worker Search", c.searchWorkers(1000, 50))

	fmt.Println("\n2. Creating bookings (200 requests, 20 concurrent)...")
	stats, bookingIDs := c.createBookings(workerIDs, 200, 20)
	printStats("Booking Creation", stats)

	fmt.Println("\n3. Racing advance calls (8 per booking)...")
	c.raceAdvance(bookingIDs, 8)

	fmt.Println("\nLoad test completed!")
}

func (c *client) do(method, path string, body interface{}, idempotencyKey string) (*http.Response, int64, error) {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, err := http.NewRequest(method, baseURL+path, &buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	start := time.Now()
	resp, err := http.DefaultClient.Do(req)
	return resp, time.Since(start).Milliseconds(), err
}

func (c *client) login() error {
	resp, _, err := c.do(http.MethodPost, "/v1/auth/login", map[string]string{
		"phone": demoPhone, "password": demoPassword,
	}, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	c.token = result.Token
	return nil
}

func (c *client) approvedWorkers() ([]string, error) {
	resp, _, err := c.do(http.MethodGet, "/v1/workers", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result struct {
		Workers []struct {
			ID string `json:"id"`
		} `json:"workers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(result.Workers))
	for _, w := range result.Workers {
		ids = append(ids, w.ID)
	}
	return ids, nil
}

func (c *client) searchWorkers(numRequests, concurrency int) *Stats {
	stats := &Stats{}
	queries := []string{"", "?category=Electrician", "?sort=rating", "?max_rate=400", "?q=repair"}
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, concurrency)

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(query string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			resp, latency, err := c.do(http.MethodGet, "/v1/workers"+query, nil, "")
			stats.record(latency, err == nil && resp.StatusCode == http.StatusOK)
			drain(resp)
		}(queries[rand.Intn(len(queries))])
	}

	wg.Wait()
	return stats
}

func (c *client) createBookings(workerIDs []string, numRequests, concurrency int) (*Stats, []string) {
	stats := &Stats{}
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		bookingIDs []string
	)
	semaphore := make(chan struct{}, concurrency)

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(idx int, workerID string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			booking := map[string]interface{}{
				"workerId":           workerID,
				"date":               time.Now().AddDate(0, 0, 1+idx%7).Format("2006-01-02"),
				"time":               fmt.Sprintf("%02d:00", 9+idx%9),
				"location":           "Koramangala, Bengaluru",
				"problemDescription": "load test booking",
			}
			key := fmt.Sprintf("load-test-booking-%d-%d", idx, time.Now().UnixNano())

			resp, latency, err := c.do(http.MethodPost, "/v1/bookings", booking, key)
			ok := err == nil && resp.StatusCode == http.StatusCreated
			stats.record(latency, ok)
			if !ok {
				drain(resp)
				return
			}

			var created struct {
				ID string `json:"id"`
			}
			json.NewDecoder(resp.Body).Decode(&created)
			drain(resp)

			mu.Lock()
			bookingIDs = append(bookingIDs, created.ID)
			mu.Unlock()
		}(i, workerIDs[rand.Intn(len(workerIDs))])
	}

	wg.Wait()
	return stats, bookingIDs
}

// raceAdvance fires concurrent confirm calls at each booking. Exactly one per
// booking should succeed; the rest must be rejected as invalid transitions.
func (c *client) raceAdvance(bookingIDs []string, callers int) {
	var won, rejected, other int64
	var wg sync.WaitGroup

	for _, id := range bookingIDs {
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				resp, _, err := c.do(http.MethodPost, "/v1/bookings/"+id+"/advance", map[string]string{"status": "confirmed"}, "")
				switch {
				case err != nil:
					atomic.AddInt64(&other, 1)
				case resp.StatusCode == http.StatusOK:
					atomic.AddInt64(&won, 1)
				case resp.StatusCode == http.StatusConflict:
					atomic.AddInt64(&rejected, 1)
				default:
					atomic.AddInt64(&other, 1)
				}
				drain(resp)
			}(id)
		}
	}
	wg.Wait()

	fmt.Printf("  Bookings:          %d\n", len(bookingIDs))
	fmt.Printf("  Successful:        %d\n", won)
	fmt.Printf("  Rejected (409):    %d\n", rejected)
	fmt.Printf("  Other:             %d\n", other)
	if won != int64(len(bookingIDs)) {
		fmt.Println("  WARNING: expected exactly one successful advance per booking")
	}
}

func drain(resp *http.Response) {
	if resp == nil {
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func printStats(name string, stats *Stats) {
	avgLatency := float64(0)
	if stats.TotalRequests > 0 {
		avgLatency = float64(stats.TotalLatency) / float64(stats.TotalRequests)
	}

	fmt.Printf("\n%s Results:\n", name)
	fmt.Printf("  Total Requests:   %d\n", stats.TotalRequests)
	fmt.Printf("  Successful:       %d\n", stats.SuccessRequests)
	fmt.Printf("  Failed:           %d\n", stats.FailedRequests)
	if stats.TotalRequests > 0 {
		fmt.Printf("  Success Rate:     %.2f%%\n", float64(stats.SuccessRequests)/float64(stats.TotalRequests)*100)
	}
	fmt.Printf("  Avg Latency:      %.2f ms\n", avgLatency)
	fmt.Printf("  Max Latency:      %d ms\n", stats.MaxLatency)
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

// User represents the structure of a user record to insert
type User struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

// loadConfig describes one load run
type loadConfig struct {
	ServerURL string
	Resource  string
	Records   int
	Workers   int
}

// loadStats summarizes a load run
type loadStats struct {
	Attempted int
	Succeeded int
	Failed    int
	Duplicate int
	Listed    int
	Elapsed   time.Duration
}

// generateRandomName generates a random 6-letter name
func generateRandomName(r *rand.Rand) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	name := make([]byte, 6)
	for i := range name {
		name[i] = letters[r.Intn(len(letters))]
	}
	// Capitalize first letter
	name[0] = name[0] - 32
	return string(name)
}

// insertUser sends a POST request and returns the id the server assigned
func insertUser(client *http.Client, url string, user User) (string, error) {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("failed to marshal user: %w", err)
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(userJSON))
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var id string
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return "", fmt.Errorf("failed to decode id: %w", err)
	}
	return id, nil
}

// countRecords lists the resource and returns how many records it holds
func countRecords(client *http.Client, url string) (int, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	var records []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// runLoad inserts cfg.Records users from cfg.Workers concurrent clients and
// checks that every generated id is unique
func runLoad(cfg loadConfig) (loadStats, error) {
	url := strings.TrimRight(cfg.ServerURL, "/") + "/" + cfg.Resource
	client := &http.Client{Timeout: 10 * time.Second}

	jobs := make(chan int)
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		seen  = make(map[string]struct{}, cfg.Records)
		stats = loadStats{Attempted: cfg.Records}
	)

	startTime := time.Now()
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := range jobs {
				name := generateRandomName(r)
				user := User{
					Name:  name,
					Age:   r.Intn(82) + 18,
					Email: fmt.Sprintf("%s@example.com", name),
				}

				id, err := insertUser(client, url, user)

				mu.Lock()
				switch {
				case err != nil:
					stats.Failed++
					fmt.Fprintf(os.Stderr, "Error inserting user %d (%s): %v\n", i+1, user.Name, err)
				default:
					if _, dup := seen[id]; dup {
						stats.Duplicate++
					}
					seen[id] = struct{}{}
					stats.Succeeded++
				}
				mu.Unlock()
			}
		}(time.Now().UnixNano() + int64(w))
	}

	for i := 0; i < cfg.Records; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	stats.Elapsed = time.Since(startTime)

	listed, err := countRecords(client, url)
	if err != nil {
		return stats, fmt.Errorf("failed to list %s: %w", cfg.Resource, err)
	}
	stats.Listed = listed
	return stats, nil
}

func printStats(stats loadStats) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("LOAD TEST COMPLETE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total users attempted: %d\n", stats.Attempted)
	fmt.Printf("Successful inserts:    %d\n", stats.Succeeded)
	fmt.Printf("Failed inserts:        %d\n", stats.Failed)
	fmt.Printf("Duplicate ids:         %d\n", stats.Duplicate)
	fmt.Printf("Records listed:        %d\n", stats.Listed)
	fmt.Printf("Total time:            %v\n", stats.Elapsed)
	if stats.Attempted > 0 {
		fmt.Printf("Average rate:          %.2f users/sec\n", float64(stats.Attempted)/stats.Elapsed.Seconds())
	}
}

func main() {
	cfg := loadConfig{}

	cmd := &cobra.Command{
		Use:   "insert_load",
		Short: "Insert random users into a running jserve instance",
		Example: `  go run ./test_scripts/insert_load -n 1000
  go run ./test_scripts/insert_load -n 1000 -w 16 --url http://127.0.0.1:3000`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Records <= 0 {
				return fmt.Errorf("number of users must be greater than 0")
			}
			if cfg.Workers <= 0 {
				return fmt.Errorf("number of workers must be greater than 0")
			}

			fmt.Printf("Starting load test: inserting %d users to %s/%s with %d workers\n",
				cfg.Records, cfg.ServerURL, cfg.Resource, cfg.Workers)

			stats, err := runLoad(cfg)
			printStats(stats)
			if err != nil {
				return err
			}
			if stats.Failed > 0 || stats.Duplicate > 0 {
				return fmt.Errorf("%d failed inserts, %d duplicate ids", stats.Failed, stats.Duplicate)
			}
			fmt.Println("\nLoad test completed successfully!")
			return nil
		},
	}
	cmd.Flags().IntVarP(&cfg.Records, "num", "n", 1000, "Number of users to insert")
	cmd.Flags().IntVarP(&cfg.Workers, "workers", "w", 8, "Number of concurrent clients")
	cmd.Flags().StringVar(&cfg.ServerURL, "url", "http://127.0.0.1:3000", "Server URL")
	cmd.Flags().StringVar(&cfg.Resource, "resource", "users", "Resource to insert into")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

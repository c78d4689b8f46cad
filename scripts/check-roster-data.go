package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/roster-api/internal/entities/pokemon"
)

// finding is one stored entry that breaks the slot rules
type finding struct {
	key      string
	field    string
	problems []string
	entry    *pokemon.RosterEntry // nil when the payload does not decode
}

func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := redis.NewClient(opt)
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning roster entries...")

	var findings []finding
	var checked int

	iter := client.Scan(ctx, 0, "roster:*:entries", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		values, err := client.HGetAll(ctx, key).Result()
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", key, err)
			continue
		}

		for field, raw := range values {
			checked++

			var entry pokemon.RosterEntry
			if err := json.Unmarshal([]byte(raw), &entry); err != nil {
				fmt.Printf("✗ %s %s does not decode: %v\n", key, field, err)
				findings = append(findings, finding{key: key, field: field, problems: []string{"corrupted JSON"}})
				continue
			}
			if entry.ID != field {
				fmt.Printf("✗ %s %s stores id %q\n", key, field, entry.ID)
			}
			if problems := entry.Problems(); len(problems) > 0 {
				fmt.Printf("✗ %s %s: %s\n", key, field, strings.Join(problems, "; "))
				findings = append(findings, finding{key: key, field: field, problems: problems, entry: &entry})
			}
		}
	}
	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d entries, found %d with problems\n", checked, len(findings))
	if len(findings) == 0 {
		return
	}

	// Undecodable entries are deleted; the rest have their slots repaired
	fmt.Print("\nRepair these entries? (yes/no): ")
	response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	if strings.TrimSpace(response) != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	for _, f := range findings {
		if f.entry == nil {
			if err := client.HDel(ctx, f.key, f.field).Err(); err != nil {
				fmt.Printf("Failed to delete %s %s: %v\n", f.key, f.field, err)
				continue
			}
			fmt.Printf("Deleted %s %s\n", f.key, f.field)
			continue
		}

		if !f.entry.Repair() {
			fmt.Printf("Left %s %s unchanged\n", f.key, f.field)
			continue
		}
		// open sessions only take copies newer than the one they hold
		f.entry.Revision++
		data, err := json.Marshal(f.entry)
		if err != nil {
			fmt.Printf("Failed to encode %s %s: %v\n", f.key, f.field, err)
			continue
		}
		if err := client.HSet(ctx, f.key, f.field, data).Err(); err != nil {
			fmt.Printf("Failed to write %s %s: %v\n", f.key, f.field, err)
			continue
		}
		// Live sessions reload on the change channel
		channel := strings.TrimSuffix(f.key, ":entries") + ":changes"
		_ = client.Publish(ctx, channel, "changed").Err()
		fmt.Printf("Repaired %s %s\n", f.key, f.field)
	}

	fmt.Println("\nRepair complete!")
}

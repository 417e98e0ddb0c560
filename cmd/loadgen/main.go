// Connectivity smoke tool: exercises the gateway's /tile endpoint, the Redis
// cache and the Kafka invalidation topic from one place.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/redis/go-redis/v9"

	"github.com/openterra/tilegate/internal/invalidation"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func testGateway(baseURL, assetID string) error {
	fmt.Println("Gateway /tile test")

	body, err := json.Marshal(map[string]any{
		"asset_id":   assetID,
		"vis_params": map[string]any{"min": 0, "max": 5000},
	})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(baseURL, "/") + "/tile"
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http post /tile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	out, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	fmt.Printf("status %d: %s\n", resp.StatusCode, strings.TrimSpace(string(out)))
	return nil
}

func testRedis(ctx context.Context, addr string) error {
	fmt.Println("Redis test")
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 2 * time.Second,
	})
	defer func() { _ = client.Close() }()

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	if err := client.Set(ctx, "hello", "world", 30*time.Second).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	val, err := client.Get(ctx, "hello").Result()
	if err != nil {
		return fmt.Errorf("redis get: %w", err)
	}
	fmt.Println("redis GET hello: ", val)
	return nil
}

func testKafka(brokers, topic, assetID string) error {
	fmt.Println("Kafka invalidation test")

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(strings.Split(brokers, ","), cfg)
	if err != nil {
		return fmt.Errorf("create producer: %w", err)
	}
	defer func() { _ = producer.Close() }()

	ev := invalidation.Event{
		Version: 1,
		Op:      "update",
		AssetID: assetID,
		TS:      time.Now().UTC(),
		Source:  "loadgen",
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	part, off, err := producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	fmt.Printf("event sent (partition=%d offset=%d)\n", part, off)
	return nil
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gateway := getenv("GATEWAY_URL", "http://localhost:8080")
	redisAddr := getenv("REDIS_ADDR", "localhost:6379")
	brokers := getenv("KAFKA_BROKERS", "localhost:9092")
	topic := getenv("KAFKA_TOPIC", "asset-updates")
	assetID := getenv("ASSET_ID", "USGS/SRTMGL1_003")

	failed := false
	if err := testGateway(gateway, assetID); err != nil {
		fmt.Println("gateway test failed:", err)
		failed = true
	}
	if err := testRedis(ctx, redisAddr); err != nil {
		fmt.Println("redis test failed:", err)
		failed = true
	}
	if err := testKafka(brokers, topic, assetID); err != nil {
		fmt.Println("kafka test failed:", err)
		failed = true
	}
	if failed {
		os.Exit(1)
	}
}

package config

import (
	"context"
	"fmt"
	"log"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// NewInfluxClient creates the InfluxDB client and checks the connection.
func NewInfluxClient(ctx context.Context, url, token string) (influxdb2.Client, error) {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPRequestTimeout(uint(10)))

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	health, err := client.Health(ctx)
	if err != nil {
		log.Printf("Error connecting to InfluxDB: %v", err)
		client.Close()
		return nil, fmt.Errorf("failed to connect to InfluxDB: %w", err)
	}

	if health.Status != "pass" {
		msg := ""
		if health.Message != nil {
			msg = *health.Message
		}
		log.Printf("InfluxDB health check failed: %s", msg)
		client.Close()
		return nil, fmt.Errorf("InfluxDB health check failed: %s", msg)
	}

	log.Println("Successfully connected to InfluxDB!")
	return client, nil
}

package dao

import (
	"context"
	"fmt"
	"log"
	"strings"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// bucketExists checks if a bucket exists in InfluxDB.
func bucketExists(ctx context.Context, client influxdb2.Client, name string) (bool, error) {
	_, err := client.BucketsAPI().FindBucketByName(ctx, name)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return false, nil
		}
		return false, fmt.Errorf("error checking bucket existence: %w", err)
	}
	return true, nil
}

// ensureBucket creates the bucket within the organization unless it already exists.
func ensureBucket(ctx context.Context, client influxdb2.Client, orgName, bucketName string) error {
	exists, err := bucketExists(ctx, client, bucketName)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("Bucket '%s' already exists", bucketName)
		return nil
	}

	org, err := client.OrganizationsAPI().FindOrganizationByName(ctx, orgName)
	if err != nil {
		log.Printf("Error finding organization '%s': %v", orgName, err)
		return fmt.Errorf("find organization %q: %w", orgName, err)
	}
	if org == nil {
		return fmt.Errorf("organization '%s' not found", orgName)
	}

	if _, err := client.BucketsAPI().CreateBucketWithName(ctx, org, bucketName); err != nil {
		log.Printf("Error creating bucket: %v", err)
		return fmt.Errorf("create bucket %q: %w", bucketName, err)
	}

	log.Printf("✅ Bucket '%s' created successfully.", bucketName)
	return nil
}

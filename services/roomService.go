package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ErrRoomListUnavailable is returned when the room list cannot be read or parsed.
var ErrRoomListUnavailable = errors.New("room list unavailable")

// RoomCatalog reads the room list from a JSON file or an http(s) URL.
type RoomCatalog struct {
	source string
	client *resty.Client
}

// NewRoomCatalog builds a catalog. client may be nil for file sources.
func NewRoomCatalog(source string, client *resty.Client) *RoomCatalog {
	if client == nil {
		client = resty.New()
	}
	return &RoomCatalog{source: source, client: client}
}

// Source returns where the list is read from.
func (c *RoomCatalog) Source() string {
	return c.source
}

// List returns the rooms in first-seen order with duplicates removed.
func (c *RoomCatalog) List(ctx context.Context) ([]string, error) {
	body, err := c.read(ctx)
	if err != nil {
		log.Printf("❌ Failed to read room list from %s: %v", c.source, err)
		return nil, fmt.Errorf("%w: %v", ErrRoomListUnavailable, err)
	}

	var raw []string
	if err := json.Unmarshal(body, &raw); err != nil {
		log.Printf("❌ Room list at %s is not a JSON array of strings: %v", c.source, err)
		return nil, fmt.Errorf("%w: %v", ErrRoomListUnavailable, err)
	}
	return UniqueRooms(raw), nil
}

func (c *RoomCatalog) read(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(c.source, "http://") || strings.HasPrefix(c.source, "https://") {
		resp, err := c.client.R().SetContext(ctx).Get(c.source)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("GET %s: %s", c.source, resp.Status())
		}
		return resp.Body(), nil
	}
	return os.ReadFile(c.source)
}

// UniqueRooms trims each entry, drops empties and keeps the first occurrence
// of every name.
func UniqueRooms(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

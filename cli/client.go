package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"termometro/models"
)

// ErrServer is returned when the server answers with an error body.
var ErrServer = errors.New("server error")

// ReportAPI is the HTTP surface the CLI talks to.
type ReportAPI interface {
	Rooms(ctx context.Context) ([]string, error)
	Submit(ctx context.Context, req models.ReportRequest) (models.ReportResponse, error)
	Stats(ctx context.Context) (models.Stats, error)
}

// Client calls the termometro HTTP API.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for baseURL, e.g. http://localhost:8000.
func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(20*time.Second).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "termometro-cli/1.0"),
	}
}

func (c *Client) Rooms(ctx context.Context) ([]string, error) {
	var out struct {
		Aulas []string `json:"aulas"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/aulas")
	if err := responseError(resp, err); err != nil {
		return nil, err
	}
	return out.Aulas, nil
}

// Submit posts a report. Every outcome the gate rules on comes back as a
// ReportResponse with a nil error, whatever the status code.
func (c *Client) Submit(ctx context.Context, req models.ReportRequest) (models.ReportResponse, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(req).Post("/api/reportes")
	if err != nil {
		return models.ReportResponse{}, fmt.Errorf("POST /api/reportes: %w", err)
	}

	var out models.ReportResponse
	if jsonErr := json.Unmarshal(resp.Body(), &out); jsonErr == nil && out.Resultado != "" {
		return out, nil
	}
	return models.ReportResponse{}, responseError(resp, nil)
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var out models.Stats
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/estadisticas")
	if err := responseError(resp, err); err != nil {
		return models.Stats{}, err
	}
	return out, nil
}

func responseError(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	var apiErr models.APIError
	if json.Unmarshal(resp.Body(), &apiErr) == nil && apiErr.Message != "" {
		return fmt.Errorf("%w: %s (%d)", ErrServer, apiErr.Message, resp.StatusCode())
	}
	return fmt.Errorf("%w: %s", ErrServer, resp.Status())
}

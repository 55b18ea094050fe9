package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/RubachokBoss/student-records/internal/models"
	"github.com/rs/zerolog"
)

const restPrefix = "/rest/v1/"

// RecordsClient reads rows from a PostgREST-compatible backend
// (Supabase exposes one under /rest/v1).
type RecordsClient interface {
	Select(ctx context.Context, q models.RecordQuery) ([]models.StudentRecord, error)
	Ping(ctx context.Context) error
}

type recordsClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  zerolog.Logger
}

// postgrestError is the error body PostgREST returns on non-2xx responses.
type postgrestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func NewRecordsClient(baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) RecordsClient {
	return newRecordsClient(baseURL, apiKey, &http.Client{Timeout: timeout}, logger)
}

func newRecordsClient(baseURL, apiKey string, client *http.Client, logger zerolog.Logger) *recordsClient {
	return &recordsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		logger:  logger.With().Str("component", "records_client").Logger(),
	}
}

func (c *recordsClient) Select(ctx context.Context, q models.RecordQuery) ([]models.StudentRecord, error) {
	endpoint := c.selectURL(q)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &models.QueryFailure{Message: fmt.Sprintf("failed to create request: %v", err), Err: err}
	}
	c.setHeaders(req)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("table", q.Table).Msg("Backend request failed")
		return nil, models.NewQueryFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.QueryFailure{Message: fmt.Sprintf("failed to read response: %v", err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		failure := decodeFailure(resp.StatusCode, body)
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("code", failure.Code).
			Str("table", q.Table).
			Msg("Backend returned error")
		return nil, failure
	}

	var records []models.StudentRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &models.QueryFailure{Message: fmt.Sprintf("failed to decode response: %v", err), Err: err}
	}

	for i, r := range records {
		if r.ID == "" {
			return nil, &models.QueryFailure{Message: fmt.Sprintf("malformed response: record %d has no id", i)}
		}
	}

	c.logger.Debug().
		Str("table", q.Table).
		Int("count", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Records fetched")

	if records == nil {
		records = []models.StudentRecord{}
	}
	return records, nil
}

// Ping checks that the REST root answers; any status below 500 counts as up.
func (c *recordsClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+restPrefix, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 500 {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *recordsClient) selectURL(q models.RecordQuery) string {
	params := url.Values{}
	if len(q.Columns) > 0 {
		params.Set("select", strings.Join(q.Columns, ","))
	}
	if q.OrderBy != "" {
		dir := "asc"
		if q.Descending {
			dir = "desc"
		}
		params.Set("order", q.OrderBy+"."+dir)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}

	return c.baseURL + restPrefix + url.PathEscape(q.Table) + "?" + params.Encode()
}

func (c *recordsClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func decodeFailure(status int, body []byte) *models.QueryFailure {
	var pgErr postgrestError
	if err := json.Unmarshal(body, &pgErr); err == nil && pgErr.Message != "" {
		return &models.QueryFailure{
			Message: pgErr.Message,
			Code:    pgErr.Code,
			Details: pgErr.Details,
			Hint:    pgErr.Hint,
		}
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &models.QueryFailure{
		Message: fmt.Sprintf("backend returned status %d: %s", status, msg),
		Code:    strconv.Itoa(status),
	}
}

package workforce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

type restClient struct {
	cfg         Config
	httpClient  *http.Client
	lastRequest time.Time
}

func newRESTClient(cfg Config) Client {
	if cfg.RequestDelay == 0 {
		cfg.RequestDelay = 2 * time.Second
	}
	return &restClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// throttle paces consecutive requests. Metrics endpoints can be heavy on the
// platform side, so we keep a floor between calls.
func (c *restClient) throttle() {
	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling workforce request")
		time.Sleep(wait)
	}
	c.lastRequest = time.Now()
}

func (c *restClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	c.throttle()

	u := fmt.Sprintf("%s%s", c.cfg.BaseURL, path)
	if len(query) > 0 {
		u = fmt.Sprintf("%s?%s", u, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.APIToken))
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("workforce request failed: %w", err)
	}
	defer resp.Body.Close()

	log.Debug().Str("path", path).Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).Msg("Workforce API call")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("workforce API returned %d for %s: %s", resp.StatusCode, path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func dateQuery(query url.Values, start, end *time.Time) url.Values {
	if start != nil {
		query.Set("from", FormatDate(*start))
	}
	if end != nil {
		query.Set("to", FormatDate(*end))
	}
	return query
}

func (c *restClient) FetchDailyRecords(ctx context.Context, kind EntityKind, projectID int, start, end *time.Time) ([]DailyRecord, error) {
	query := url.Values{}
	query.Set("kind", string(kind))
	if projectID > 0 {
		query.Set("project_id", fmt.Sprintf("%d", projectID))
	}
	query = dateQuery(query, start, end)

	var resp DailyStatsResponse
	if err := c.get(ctx, "/api/v1/daily-stats", query, &resp); err != nil {
		return nil, err
	}

	records := make([]DailyRecord, 0, len(resp.Records))
	for _, dto := range resp.Records {
		rec, err := MapDailyRecord(dto)
		if err != nil {
			log.Warn().Err(err).Str("entity", dto.EntityID).Str("date", dto.Date).Msg("Skipping malformed daily record")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *restClient) FetchHierarchy(ctx context.Context) (*Hierarchy, error) {
	var resp HierarchyResponse
	if err := c.get(ctx, "/api/v1/hierarchy", url.Values{}, &resp); err != nil {
		return nil, err
	}
	return MapHierarchy(resp), nil
}

func (c *restClient) FetchLoggedHours(ctx context.Context, entityID string, start, end *time.Time) (*float64, error) {
	query := url.Values{}
	query.Set("entity_id", entityID)
	query = dateQuery(query, start, end)

	var resp LoggedHoursResponse
	if err := c.get(ctx, "/api/v1/logged-hours", query, &resp); err != nil {
		return nil, err
	}
	return resp.Hours, nil
}

func (c *restClient) FetchAHTConfig(ctx context.Context, projectID int) (AHTConfig, error) {
	query := url.Values{}
	query.Set("project_id", fmt.Sprintf("%d", projectID))

	var resp AHTConfigResponse
	if err := c.get(ctx, "/api/v1/aht-config", query, &resp); err != nil {
		if ctx.Err() != nil {
			return AHTConfig{}, ctx.Err()
		}
		// Missing configuration is not fatal; fall back to defaults.
		log.Debug().Err(err).Int("project", projectID).Msg("No AHT config from platform, using defaults")
		return DefaultAHT, nil
	}
	return MapAHTConfig(resp), nil
}

package equipment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	equipmentTTL  = 5 * time.Minute
	maxExtensions = 6
)

type httpProvider struct {
	cfg        Config
	httpClient *http.Client

	throttleMu  sync.Mutex
	lastRequest time.Time

	cache      map[string]*cacheEntry
	cacheMutex sync.Mutex
}

type cacheEntry struct {
	Value       Equipment
	Expiration  time.Time
	AccessCount int
	OriginalTTL time.Duration
}

// NewHTTPProvider reads equipment from the maintenance backend's REST API
// (GET {BaseURL}/api/equipment/{id}). Responses are cached for a sliding
// window and requests are spaced by cfg.RequestDelay.
func NewHTTPProvider(cfg Config) Provider {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &httpProvider{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cache: make(map[string]*cacheEntry),
	}
}

func (c *httpProvider) getFromCache(key string) (Equipment, bool) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return Equipment{}, false
	}

	if time.Now().After(entry.Expiration) {
		delete(c.cache, key)
		return Equipment{}, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")

	// Sliding window extension
	if entry.AccessCount < maxExtensions {
		entry.Expiration = time.Now().Add(entry.OriginalTTL)
		entry.AccessCount++
		log.Trace().Str("key", key).Int("count", entry.AccessCount).Msg("Extended cache TTL")
	}

	return entry.Value, true
}

func (c *httpProvider) addToCache(key string, value Equipment, ttl time.Duration) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	c.cache[key] = &cacheEntry{
		Value:       value,
		Expiration:  time.Now().Add(ttl),
		OriginalTTL: ttl,
		AccessCount: 1,
	}
	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("Added to cache")
}

func (c *httpProvider) throttle(ctx context.Context) error {
	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling equipment request")
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	c.lastRequest = time.Now()
	return nil
}

func (c *httpProvider) Get(ctx context.Context, id string) (*Equipment, error) {
	cacheKey := "equipment:" + id
	if e, ok := c.getFromCache(cacheKey); ok {
		return &e, nil
	}

	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/api/equipment/%s", c.cfg.BaseURL, url.PathEscape(id))
	log.Debug().Str("url", reqURL).Msg("Requesting equipment")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.cfg.Token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("equipment request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("equipment API authentication failed (%d), check EQUIPMENT_API_TOKEN", resp.StatusCode)
		default:
			return nil, fmt.Errorf("equipment API returned status %d for %s", resp.StatusCode, id)
		}
	}

	var dto equipmentDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("failed to decode equipment response: %w", err)
	}

	e := dto.toEquipment()
	if e.ID == "" {
		e.ID = id
	}
	c.addToCache(cacheKey, e, equipmentTTL)
	return &e, nil
}

// equipmentDTO is the row shape served by the backend. Numeric columns may
// arrive as JSON numbers or as strings (PostgreSQL NUMERIC).
type equipmentDTO struct {
	ID                     flexString `json:"id"`
	Name                   string     `json:"name"`
	Type                   string     `json:"type"`
	Category               string     `json:"category"`
	Criticality            flexFloat  `json:"criticality"`
	Value                  flexFloat  `json:"value"`
	DepartmentID           flexString `json:"department_id"`
	EstimatedRevenueHourly flexFloat  `json:"estimated_revenue_hourly"`
}

func (d equipmentDTO) toEquipment() Equipment {
	e := Equipment{
		ID:           string(d.ID),
		Name:         d.Name,
		Type:         d.Type,
		Category:     d.Category,
		Criticality:  d.Criticality.value(),
		Value:        d.Value.value(),
		DepartmentID: string(d.DepartmentID),
	}
	if d.EstimatedRevenueHourly.set {
		rev := d.EstimatedRevenueHourly.v
		e.EstimatedRevenueHourly = &rev
	}
	return e
}

type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = flexString(n.String())
	return nil
}

type flexFloat struct {
	v   float64
	set bool
}

func (f flexFloat) value() float64 {
	return f.v
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("expected numeric value, got %s", data)
	}
	f.v, f.set = v, true
	return nil
}

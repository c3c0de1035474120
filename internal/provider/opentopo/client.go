// Package opentopo is the HTTP client for the OpenTopography global DEM
// API, the remote source of Copernicus elevation tiles.
package opentopo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/topoatlas/demcache/internal/domain"
	"github.com/topoatlas/demcache/pkg/config"
	"github.com/topoatlas/demcache/pkg/logger"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

func NewClient(cfg config.Provider, l logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 300 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: l,
	}
}

// FetchTile requests the raster for the tile's exact 1°×1° bounds in
// GeoTIFF form. The caller owns the returned body and must close it.
// Any non-200 status or transport failure is returned as an error.
func (c *Client) FetchTile(ctx context.Context, id domain.TileID, res domain.Resolution) (io.ReadCloser, error) {
	box, err := id.Bounds()
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("demtype", res.DatasetType())
	params.Set("south", strconv.FormatFloat(box.MinLat, 'f', -1, 64))
	params.Set("north", strconv.FormatFloat(box.MaxLat, 'f', -1, 64))
	params.Set("west", strconv.FormatFloat(box.MinLon, 'f', -1, 64))
	params.Set("east", strconv.FormatFloat(box.MaxLon, 'f', -1, 64))
	params.Set("outputFormat", "GTiff")
	params.Set("API_Key", c.apiKey)

	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug("fetching tile from provider", "tile", id, "dataset", res.DatasetType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tile %s: %w", id, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		resp.Body.Close()
		return nil, fmt.Errorf("provider returned HTTP %d for tile %s: %s", resp.StatusCode, id, string(body))
	}

	return resp.Body, nil
}

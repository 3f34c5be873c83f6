package landmap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"agri-shield/plot-portal/plot-portal-backend/internal/httpx"
	"agri-shield/plot-portal/plot-portal-backend/pkg/geospatial"
)

const (
	generatePath = "/landmap/generate/"

	// GenericFailure is shown when the service gives no usable message.
	GenericFailure = "Failed to generate plot. Please try again."
)

var ErrNoCoordinates = errors.New("at least one coordinate is required")

// Client talks to the boundary generation service. It does not cache: every
// call is a full round trip.
type Client struct {
	http      *httpx.Client
	assetHost string
	logger    *zap.Logger
}

// NewClient creates a boundary generation client
func NewClient(baseURL, token, assetHost string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		http:      httpx.NewClient(baseURL, token, timeout, GenericFailure),
		assetHost: strings.TrimRight(assetHost, "/"),
		logger:    logger,
	}
}

// Generate submits the raw land boundary and decodes the computed plot.
func (c *Client) Generate(ctx context.Context, landArea []geospatial.Point) (*Result, error) {
	if len(landArea) == 0 {
		return nil, ErrNoCoordinates
	}

	started := time.Now()
	var resp generateResponse
	err := c.http.DoJSON(ctx, http.MethodPost, generatePath, GenerateRequest{LandArea: landArea}, &resp)
	if err != nil {
		c.logger.Warn("Boundary generation failed",
			zap.Int("points", len(landArea)),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		return nil, fmt.Errorf("generate plot: %w", err)
	}

	result, err := c.decode(&resp)
	if err != nil {
		c.logger.Warn("Boundary generation returned an unexpected body", zap.Error(err))
		return nil, fmt.Errorf("generate plot: %w", err)
	}

	c.logger.Info("Boundary generated",
		zap.Int("points", len(landArea)),
		zap.Int("plot_points", len(result.PlotCoordinates)),
		zap.Duration("elapsed", time.Since(started)))

	return result, nil
}

func (c *Client) decode(resp *generateResponse) (*Result, error) {
	if resp.Data == nil {
		return nil, fmt.Errorf("%w: missing data object", httpx.ErrMalformedResponse)
	}
	d := resp.Data

	for name, ring := range map[string][]geospatial.Point{
		"plot_coordinate": d.PlotCoordinate,
		"land_area":       d.LandArea,
		"inner_area":      d.InnerArea,
	} {
		for i, p := range ring {
			if err := p.Validate(); err != nil {
				return nil, fmt.Errorf("%w: %s[%d]: %v", httpx.ErrMalformedResponse, name, i, err)
			}
		}
	}

	result := &Result{
		LandArea:        nonNil(d.LandArea),
		PlotCoordinates: nonNil(d.PlotCoordinate),
		InnerArea:       nonNil(d.InnerArea),
		SWMark:          d.SWMark,
		NCorner:         d.NCorner,
		ECorner:         d.ECorner,
		NMark:           d.NMark,
		EMark:           d.EMark,
		Intersection:    d.Intersection,
		NMarkDist:       d.NMarkDist,
		EMarkDist:       d.EMarkDist,
		NCornerDist:     d.NCornerDist,
		ECornerDist:     d.ECornerDist,
		Area:            decodeArea(resp.Area),
	}
	if d.Image != nil {
		result.ImagePath = *d.Image
		result.ImageURL = c.AssetURL(*d.Image)
	}
	return result, nil
}

// AssetURL prefixes an image path with the asset host.
func (c *Client) AssetURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || c.assetHost == "" {
		return path
	}
	return c.assetHost + "/" + strings.TrimLeft(path, "/")
}

func decodeArea(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

func nonNil(points []geospatial.Point) []geospatial.Point {
	if points == nil {
		return []geospatial.Point{}
	}
	return points
}

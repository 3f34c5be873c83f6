package lams

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"agri-shield/plot-portal/plot-portal-backend/internal/httpx"
)

const (
	farmersPath     = "ims/farmer-service"
	suitabilityPath = "lams/land-suitability-service/"
	landInfoPath    = "lams/land-info-service/"

	statusSuccess = "success"

	// GenericFailure is shown when a lams call fails without a usable message.
	GenericFailure = "Failed to save land information. Please try again."
)

// Client reads reference data from and writes land records to the land
// administration services.
type Client struct {
	http   *httpx.Client
	logger *zap.Logger
}

// NewClient creates a lams client
func NewClient(baseURL, token string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		http:   httpx.NewClient(baseURL, token, timeout, GenericFailure),
		logger: logger,
	}
}

// ListFarmers fetches the farmers available for selection.
func (c *Client) ListFarmers(ctx context.Context) ([]FarmerProfile, error) {
	var resp envelope[[]FarmerProfile]
	if err := c.http.DoJSON(ctx, http.MethodGet, farmersPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("list farmers: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("list farmers: %w: missing data", httpx.ErrMalformedResponse)
	}
	return *resp.Data, nil
}

// ListSuitabilities fetches the land suitability taxonomy.
func (c *Client) ListSuitabilities(ctx context.Context) ([]LandSuitability, error) {
	var resp envelope[[]LandSuitability]
	if err := c.http.DoJSON(ctx, http.MethodGet, suitabilityPath, nil, &resp); err != nil {
		return nil, fmt.Errorf("list land suitability: %w", err)
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("list land suitability: %w: missing data", httpx.ErrMalformedResponse)
	}
	return *resp.Data, nil
}

// SubmitLand persists one land submission and returns the new land ID.
func (c *Client) SubmitLand(ctx context.Context, submission *LandSubmission) (string, error) {
	var resp envelope[submissionData]
	if err := c.http.DoJSON(ctx, http.MethodPost, landInfoPath, submission, &resp); err != nil {
		return "", fmt.Errorf("submit land: %w", err)
	}

	if resp.Status != statusSuccess {
		msg := resp.Message
		if msg == "" {
			msg = GenericFailure
		}
		return "", fmt.Errorf("submit land: %w", &httpx.APIError{StatusCode: http.StatusOK, Message: msg})
	}
	if resp.Data == nil || resp.Data.LandID == "" {
		return "", fmt.Errorf("submit land: %w: missing land_id", httpx.ErrMalformedResponse)
	}

	c.logger.Info("Land submitted",
		zap.String("land_id", string(resp.Data.LandID)),
		zap.String("land_name", submission.LandName),
		zap.Int("coordinates", len(submission.LandCoordinates)))

	return string(resp.Data.LandID), nil
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	statsDto "anoa.com/playstats/internal/modules/stats/dto"
	"anoa.com/playstats/pkg/apperror"
	"anoa.com/playstats/pkg/validator"
)

const (
	DefaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

// Fetcher retrieves the stats document for the dashboard.
type Fetcher interface {
	Fetch(ctx context.Context) (*statsDto.StatsDocument, error)
}

// Client fetches the stats document from the stats endpoint over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		timeout:    timeout,
	}
}

// wireDocument mirrors StatsDocument with pointers so absent fields can be
// told apart from zero values.
type wireDocument struct {
	TotalPlays *int64      `json:"total_plays" validate:"required,min=0"`
	TopUsers   *[]wireUser `json:"top_users" validate:"required,dive"`
	InviteURL  *string     `json:"invite_url" validate:"required"`
}

type wireUser struct {
	Name  *string `json:"name" validate:"required"`
	Plays *int64  `json:"plays" validate:"required,min=0"`
}

// Fetch issues a single GET. Errors wrap ErrNetworkFailure, ErrBadStatus or
// ErrMalformedBody.
func (c *Client) Fetch(ctx context.Context) (*statsDto.StatsDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrNetworkFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", apperror.ErrBadStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", apperror.ErrNetworkFailure, err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: body exceeds %d bytes", apperror.ErrMalformedBody, maxBodyBytes)
	}

	return DecodeDocument(body)
}

// DecodeDocument parses and validates a stats document body.
func DecodeDocument(body []byte) (*statsDto.StatsDocument, error) {
	var wire wireDocument
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrMalformedBody, err)
	}
	if err := validator.Struct(wire); err != nil {
		return nil, fmt.Errorf("%w: %s", apperror.ErrMalformedBody, validator.FormatValidationError(err))
	}

	doc := &statsDto.StatsDocument{
		TotalPlays: *wire.TotalPlays,
		TopUsers:   make([]statsDto.TopUser, 0, len(*wire.TopUsers)),
		InviteURL:  *wire.InviteURL,
	}
	for _, u := range *wire.TopUsers {
		doc.TopUsers = append(doc.TopUsers, statsDto.TopUser{Name: *u.Name, Plays: *u.Plays})
	}
	return doc, nil
}

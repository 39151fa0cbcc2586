package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"travelbook/pkg/model"
)

// Metadata is the pagination envelope of list responses.
type Metadata struct {
	Total int64
	Page  int
	Pages int
}

type TourClient struct {
	httpClient *HttpClient
}

func NewTourClient(baseURL string, token TokenSource) *TourClient {
	return &TourClient{
		httpClient: NewHttpClient(baseURL).WithTokenSource(token),
	}
}

// List fetches a filtered tour page.
func (c *TourClient) List(ctx context.Context, q model.TourQuery) ([]*model.Tour, *Metadata, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if q.MaxPrice > 0 {
		v.Set("maxPrice", strconv.FormatInt(q.MaxPrice, 10))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}

	resp, err := c.httpClient.GET(ctx, "/api/tours?"+v.Encode())
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, errorFromResponse(resp)
	}

	var wrapper struct {
		Data  json.RawMessage `json:"data"`
		Total int64           `json:"total"`
		Page  int             `json:"page"`
		Pages int             `json:"pages"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode tour page: %w", err)
	}

	var tours []*model.Tour
	if err := json.Unmarshal(wrapper.Data, &tours); err != nil {
		return nil, nil, fmt.Errorf("could not decode tour list: %w", err)
	}

	return tours, &Metadata{Total: wrapper.Total, Page: wrapper.Page, Pages: wrapper.Pages}, nil
}

func (c *TourClient) GetByID(ctx context.Context, id string) (*model.Tour, error) {
	resp, err := c.httpClient.GET(ctx, "/api/tours/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var wrapper struct {
		Data model.Tour `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, fmt.Errorf("could not decode tour: %w", err)
	}
	return &wrapper.Data, nil
}

// Create adds a tour to the inventory; admin only.
func (c *TourClient) Create(ctx context.Context, tour model.Tour) (*model.Tour, error) {
	resp, err := c.httpClient.POST(ctx, "/api/tours", tour)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, errorFromResponse(resp)
	}

	var wrapper struct {
		Data model.Tour `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, fmt.Errorf("could not decode created tour: %w", err)
	}
	return &wrapper.Data, nil
}

// Update edits tour fields; admin only.
func (c *TourClient) Update(ctx context.Context, id string, update model.TourUpdate) error {
	resp, err := c.httpClient.PUT(ctx, "/api/tours/"+url.PathEscape(id), update)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	return nil
}

// Delete removes a tour from the inventory; admin only.
func (c *TourClient) Delete(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/tours/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return errorFromResponse(resp)
	}
	return nil
}

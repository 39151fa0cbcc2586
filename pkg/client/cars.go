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

type CarClient struct {
	httpClient *HttpClient
}

func NewCarClient(baseURL string, token TokenSource) *CarClient {
	return &CarClient{
		httpClient: NewHttpClient(baseURL).WithTokenSource(token),
	}
}

// List fetches a filtered rental-car page.
func (c *CarClient) List(ctx context.Context, q model.CarQuery) ([]*model.Car, *Metadata, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.CarType != "" {
		v.Set("carType", q.CarType)
	}
	if q.EngineType != "" {
		v.Set("engineType", q.EngineType)
	}
	if q.SeatCapacity > 0 {
		v.Set("seatCapacity", strconv.Itoa(q.SeatCapacity))
	}

	resp, err := c.httpClient.GET(ctx, "/api/cars?"+v.Encode())
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
		return nil, nil, fmt.Errorf("could not decode car page: %w", err)
	}

	var cars []*model.Car
	if err := json.Unmarshal(wrapper.Data, &cars); err != nil {
		return nil, nil, fmt.Errorf("could not decode car list: %w", err)
	}

	return cars, &Metadata{Total: wrapper.Total, Page: wrapper.Page, Pages: wrapper.Pages}, nil
}

func (c *CarClient) GetByID(ctx context.Context, id string) (*model.Car, error) {
	resp, err := c.httpClient.GET(ctx, "/api/cars/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var wrapper struct {
		Data model.Car `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, fmt.Errorf("could not decode car: %w", err)
	}
	return &wrapper.Data, nil
}

// Create adds a car to the fleet; admin only.
func (c *CarClient) Create(ctx context.Context, car model.Car) (*model.Car, error) {
	resp, err := c.httpClient.POST(ctx, "/api/cars", car)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, errorFromResponse(resp)
	}

	var wrapper struct {
		Data model.Car `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, fmt.Errorf("could not decode created car: %w", err)
	}
	return &wrapper.Data, nil
}

// Update edits car fields; admin only.
func (c *CarClient) Update(ctx context.Context, id string, update model.CarUpdate) error {
	resp, err := c.httpClient.PUT(ctx, "/api/cars/"+url.PathEscape(id), update)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	return nil
}

// Delete removes a car from the fleet; admin only.
func (c *CarClient) Delete(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/cars/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return errorFromResponse(resp)
	}
	return nil
}

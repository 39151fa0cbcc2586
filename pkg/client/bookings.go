package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"travelbook/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string, token TokenSource) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL).WithTokenSource(token),
	}
}

// Create submits a booking draft and decodes the created record. Non-2xx
// responses come back as *APIError carrying the server's message.
func (c *BookingClient) Create(ctx context.Context, req model.BookingRequest) (*model.Booking, error) {
	resp, err := c.httpClient.POST(ctx, "/api/bookings", req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, errorFromResponse(resp)
	}
	return decodeBooking(resp)
}

// Mine lists the authenticated user's own bookings.
func (c *BookingClient) Mine(ctx context.Context) ([]*model.Booking, error) {
	resp, err := c.httpClient.GET(ctx, "/api/bookings/my")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var wrapper struct {
		Data []*model.Booking `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, fmt.Errorf("could not decode bookings: %w", err)
	}
	return wrapper.Data, nil
}

// All lists every booking; admin only.
func (c *BookingClient) All(ctx context.Context, page, limit int) ([]*model.Booking, *Metadata, error) {
	path := fmt.Sprintf("/api/bookings?page=%d&limit=%d", page, limit)
	resp, err := c.httpClient.GET(ctx, path)
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
		return nil, nil, fmt.Errorf("could not decode paginated bookings: %w", err)
	}

	var bookings []*model.Booking
	if err := json.Unmarshal(wrapper.Data, &bookings); err != nil {
		return nil, nil, fmt.Errorf("could not decode booking list: %w", err)
	}

	return bookings, &Metadata{Total: wrapper.Total, Page: wrapper.Page, Pages: wrapper.Pages}, nil
}

// UpdateStatus transitions a booking's status; admin only.
func (c *BookingClient) UpdateStatus(ctx context.Context, id, status string) error {
	path := "/api/bookings/" + url.PathEscape(id)
	resp, err := c.httpClient.PUT(ctx, path, model.BookingUpdate{Status: status})
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	return nil
}

// Cancel cancels the caller's own booking.
func (c *BookingClient) Cancel(ctx context.Context, id string) error {
	path := "/api/bookings/" + url.PathEscape(id) + "/cancel"
	resp, err := c.httpClient.PUT(ctx, path, nil)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	return nil
}

func decodeBooking(resp *Response) (*model.Booking, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, fmt.Errorf("could not decode booking wrapper: %w", err)
	}

	var booking model.Booking
	if err := json.Unmarshal(wrapper.Data, &booking); err != nil {
		return nil, fmt.Errorf("could not decode booking: %w", err)
	}
	return &booking, nil
}

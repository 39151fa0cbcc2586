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

type OfferClient struct {
	httpClient *HttpClient
}

func NewOfferClient(baseURL string, token TokenSource) *OfferClient {
	return &OfferClient{
		httpClient: NewHttpClient(baseURL).WithTokenSource(token),
	}
}

// List fetches a page of promotional offers.
func (c *OfferClient) List(ctx context.Context, q model.OfferQuery) ([]*model.Offer, *Metadata, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.Search != "" {
		v.Set("search", q.Search)
	}

	resp, err := c.httpClient.GET(ctx, "/api/offers?"+v.Encode())
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
		return nil, nil, fmt.Errorf("could not decode offer page: %w", err)
	}

	var offers []*model.Offer
	if err := json.Unmarshal(wrapper.Data, &offers); err != nil {
		return nil, nil, fmt.Errorf("could not decode offer list: %w", err)
	}

	return offers, &Metadata{Total: wrapper.Total, Page: wrapper.Page, Pages: wrapper.Pages}, nil
}

func (c *OfferClient) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	resp, err := c.httpClient.GET(ctx, "/api/offers/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var wrapper struct {
		Data model.Offer `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, fmt.Errorf("could not decode offer: %w", err)
	}
	return &wrapper.Data, nil
}

// Create adds an offer; admin only.
func (c *OfferClient) Create(ctx context.Context, offer model.Offer) (*model.Offer, error) {
	resp, err := c.httpClient.POST(ctx, "/api/offers", offer)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, errorFromResponse(resp)
	}

	var wrapper struct {
		Data model.Offer `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, fmt.Errorf("could not decode created offer: %w", err)
	}
	return &wrapper.Data, nil
}

// Update edits offer fields; admin only.
func (c *OfferClient) Update(ctx context.Context, id string, update model.OfferUpdate) error {
	resp, err := c.httpClient.PUT(ctx, "/api/offers/"+url.PathEscape(id), update)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp)
	}
	return nil
}

// Delete removes an offer; admin only.
func (c *OfferClient) Delete(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/offers/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusNoContent {
		return errorFromResponse(resp)
	}
	return nil
}

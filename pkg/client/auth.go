package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"travelbook/pkg/model"
)

type AuthClient struct {
	httpClient *HttpClient
}

func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		httpClient: NewHttpClient(baseURL),
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the login/register payload: the user plus the bearer
// token the session store persists.
type AuthResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

func (c *AuthClient) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	resp, err := c.httpClient.POST(ctx, "/api/auth/register", req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, errorFromResponse(resp)
	}
	return decodeAuthResponse(resp)
}

func (c *AuthClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	resp, err := c.httpClient.POST(ctx, "/api/auth/login", req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}
	return decodeAuthResponse(resp)
}

func decodeAuthResponse(resp *Response) (*AuthResponse, error) {
	var wrapper struct {
		Data AuthResponse `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return nil, fmt.Errorf("could not decode auth response: %w", err)
	}
	return &wrapper.Data, nil
}

type UploadClient struct {
	httpClient *HttpClient
}

func NewUploadClient(baseURL string, token TokenSource) *UploadClient {
	return &UploadClient{
		httpClient: NewHttpClient(baseURL).WithTokenSource(token),
	}
}

// Upload sends one image and returns the URL the record should store.
func (c *UploadClient) Upload(ctx context.Context, fileName string, file io.Reader) (string, error) {
	resp, err := c.httpClient.POSTMultipart(ctx, "/api/upload", "image", fileName, file)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", errorFromResponse(resp)
	}

	var wrapper struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := resp.DecodeJSON(&wrapper); err != nil {
		return "", fmt.Errorf("could not decode upload response: %w", err)
	}
	return wrapper.Data.URL, nil
}

package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"user-directory/models"
)

// DefaultUsersURL is the remote user list
const DefaultUsersURL = "https://jsonplaceholder.typicode.com/users"

// DefaultTimeout bounds a single fetch
const DefaultTimeout = 5 * time.Second

// Client fetches the remote user list over HTTP
type Client struct {
	URL  string
	HTTP *http.Client
}

// NewClient creates a client for url with the given request timeout
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultUsersURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		URL:  url,
		HTTP: &http.Client{Timeout: timeout},
	}
}

type addressPayload struct {
	City   string `json:"city"`
	Street string `json:"street"`
}

type userPayload struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	Address *addressPayload `json:"address"`
}

func (p userPayload) toUser() models.User {
	user := models.User{
		Name:   p.Name,
		Email:  p.Email,
		Origin: models.OriginRemote,
	}
	if p.Address != nil {
		user.Address = &models.Address{City: p.Address.City}
		if p.Address.Street != "" {
			street := p.Address.Street
			user.Address.Street = &street
		}
	}
	return user
}

// FetchUsers retrieves and decodes the remote user list.
// Transport, status and decode failures are returned as a single transport error.
func (c *Client) FetchUsers(ctx context.Context) ([]models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, models.NewTransportError("failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, models.NewTransportError("failed to fetch users", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewTransportError("failed to fetch users", fmt.Errorf("unexpected status: %s", resp.Status))
	}

	var payload []userPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, models.NewTransportError("failed to decode users", err)
	}

	users := make([]models.User, 0, len(payload))
	for _, p := range payload {
		users = append(users, p.toUser())
	}
	return users, nil
}

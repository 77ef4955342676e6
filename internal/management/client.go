package management

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/carlmjohnson/requests"
)

const (
	applicationPropertiesPath = "/api/v1/applications/%s/properties"
	organizationsPath         = "/api/v1/organizations"
)

// APIError is returned for non-2xx responses from the management API
type APIError struct {
	Path   string
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Err error `json:"-"`
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("management API %s: %s: %s", e.Path, e.Errors[0].Code, e.Errors[0].Message)
	}
	return fmt.Sprintf("management API %s: %v", e.Path, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client calls the management API with an already authenticated http.Client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given domain, e.g. https://acme.kinde.com
func NewClient(domain string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    NormalizeDomain(domain),
		httpClient: httpClient,
	}
}

// ApplicationProperties fetches the properties of one application
func (c *Client) ApplicationProperties(ctx context.Context, clientID string) ([]Property, error) {
	body, err := c.get(ctx, fmt.Sprintf(applicationPropertiesPath, url.PathEscape(clientID)))
	if err != nil {
		return nil, err
	}
	return ParseProperties([]byte(body))
}

// Organizations fetches the organizations list, normalizing either envelope
func (c *Client) Organizations(ctx context.Context) ([]Organization, error) {
	body, err := c.get(ctx, organizationsPath)
	if err != nil {
		return nil, err
	}
	envelope, err := ParseOrganizations([]byte(body))
	if err != nil {
		return nil, err
	}
	return envelope.Organizations, nil
}

func (c *Client) get(ctx context.Context, path string) (string, error) {
	var body string
	apiErr := APIError{Path: path}
	err := requests.
		URL(c.baseURL).
		Client(c.httpClient).
		Path(path).
		Accept("application/json").
		ToString(&body).
		ErrorJSON(&apiErr).
		Fetch(ctx)
	if err != nil {
		apiErr.Err = err
		return "", &apiErr
	}
	return body, nil
}

// NormalizeDomain adds a scheme when missing and drops trailing slashes
func NormalizeDomain(domain string) string {
	domain = strings.TrimRight(strings.TrimSpace(domain), "/")
	if domain == "" {
		return ""
	}
	if !strings.HasPrefix(domain, "https://") && !strings.HasPrefix(domain, "http://") {
		domain = "https://" + domain
	}
	return domain
}

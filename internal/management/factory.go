package management

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var (
	// ErrNoDomain is returned when the factory has no configured domain
	ErrNoDomain = errors.New("no management API domain configured")
	// ErrForeignDomain is returned when an event names a domain other than the configured one.
	// Credentials are only ever sent to the configured domain.
	ErrForeignDomain = errors.New("event domain does not match the management API domain")
)

// Credentials are the M2M application credentials used to call the management API
type Credentials struct {
	ClientID     string
	ClientSecret string
	// Audience defaults to <domain>/api
	Audience string
}

// Factory hands out a freshly authenticated Client per invocation
type Factory struct {
	domain      string
	credentials Credentials
	base        *http.Client
}

// NewFactory creates a factory for the management API at domain. base is the
// transport for both the token request and the API calls; nil means http.DefaultClient.
func NewFactory(domain string, credentials Credentials, base *http.Client) *Factory {
	return &Factory{
		domain:      NormalizeDomain(domain),
		credentials: credentials,
		base:        base,
	}
}

// ForDomain returns a client authenticated with the client credentials grant.
// eventDomain may be empty; otherwise it must name the configured domain.
func (f *Factory) ForDomain(ctx context.Context, eventDomain string) (*Client, error) {
	domain := f.domain
	if domain == "" {
		return nil, ErrNoDomain
	}
	if event := NormalizeDomain(eventDomain); event != "" && event != domain {
		return nil, fmt.Errorf("%w: %s", ErrForeignDomain, event)
	}

	audience := f.credentials.Audience
	if audience == "" {
		audience = domain + "/api"
	}
	cc := clientcredentials.Config{
		ClientID:       f.credentials.ClientID,
		ClientSecret:   f.credentials.ClientSecret,
		TokenURL:       domain + "/oauth2/token",
		EndpointParams: url.Values{"audience": {audience}},
		AuthStyle:      oauth2.AuthStyleInParams,
	}

	if f.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, f.base)
	}
	return NewClient(domain, cc.Client(ctx)), nil
}

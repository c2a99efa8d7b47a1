package cloudflare

import (
	"context"

	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
)

// DNSProvider is a Cloudflare zone.
type DNSProvider struct {
	client  *Client
	zone    string
	details events.EventDetails
}

// NewDNSProvider validates apiURL and creates a DNSProvider for zone.
func NewDNSProvider(token, apiURL, zone string, details events.EventDetails, opts ...Option) (*DNSProvider, error) {
	client, err := NewClient(token, apiURL, opts...)
	if err != nil {
		return nil, engineerr.NewDNSProviderInvalidAPIURL(details, apiURL, err)
	}
	return &DNSProvider{client: client, zone: zone, details: details}, nil
}

// Name implements infra.DNSProvider.
func (p *DNSProvider) Name() string { return "cloudflare" }

// Zone returns the managed zone.
func (p *DNSProvider) Zone() string { return p.zone }

// IsValid verifies the token and, when a zone is set, that the token can
// see it.
func (p *DNSProvider) IsValid(ctx context.Context) error {
	if err := p.client.VerifyToken(ctx); err != nil {
		if IsUnauthorized(err) {
			return engineerr.NewDNSProviderInvalidCredentials(p.details, err)
		}
		return engineerr.NewDNSProviderInformationError(p.details, err)
	}
	if p.zone == "" {
		return nil
	}
	if _, err := p.client.GetZoneID(ctx, p.zone); err != nil {
		return engineerr.NewDNSProviderInformationError(p.details, err)
	}
	return nil
}

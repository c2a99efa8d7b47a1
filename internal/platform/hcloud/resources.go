package hcloud

import (
	"context"
	"fmt"
	"net"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// EnsureNetwork ensures a network with the given IP range exists.
func (c *Client) EnsureNetwork(ctx context.Context, name, ipRange string, labels map[string]string) (*hcloud.Network, error) {
	_, ipNet, err := net.ParseCIDR(ipRange)
	if err != nil {
		return nil, fmt.Errorf("invalid network ip range %q: %w", ipRange, err)
	}

	return (&ensureOperation[*hcloud.Network, hcloud.NetworkCreateOpts]{
		Name:         name,
		ResourceType: "network",
		Get:          c.api.Network.Get,
		Create: func(ctx context.Context, opts hcloud.NetworkCreateOpts) (*created[*hcloud.Network], error) {
			network, _, err := c.api.Network.Create(ctx, opts)
			if err != nil {
				return nil, err
			}
			return &created[*hcloud.Network]{Resource: network}, nil
		},
		Validate: func(network *hcloud.Network) error {
			if network.IPRange == nil || network.IPRange.String() != ipNet.String() {
				return fmt.Errorf("network %s exists with a different IP range (expected %s)", name, ipNet)
			}
			return nil
		},
		Opts: func() hcloud.NetworkCreateOpts {
			return hcloud.NetworkCreateOpts{Name: name, IPRange: ipNet, Labels: labels}
		},
	}).execute(ctx, c)
}

// clusterFirewallRules opens the Kubernetes API and ICMP.
func clusterFirewallRules() []hcloud.FirewallRule {
	anyIPv4 := net.IPNet{IP: net.IPv4zero, Mask: net.CIDRMask(0, 32)}
	anyIPv6 := net.IPNet{IP: net.IPv6zero, Mask: net.CIDRMask(0, 128)}
	sources := []net.IPNet{anyIPv4, anyIPv6}
	apiPort := "6443"

	return []hcloud.FirewallRule{
		{
			Direction: hcloud.FirewallRuleDirectionIn,
			Protocol:  hcloud.FirewallRuleProtocolTCP,
			Port:      &apiPort,
			SourceIPs: sources,
		},
		{
			Direction: hcloud.FirewallRuleDirectionIn,
			Protocol:  hcloud.FirewallRuleProtocolICMP,
			SourceIPs: sources,
		},
	}
}

// EnsureFirewall ensures the cluster firewall exists.
func (c *Client) EnsureFirewall(ctx context.Context, name string, labels map[string]string) (*hcloud.Firewall, error) {
	return (&ensureOperation[*hcloud.Firewall, hcloud.FirewallCreateOpts]{
		Name:         name,
		ResourceType: "firewall",
		Get:          c.api.Firewall.Get,
		Create: func(ctx context.Context, opts hcloud.FirewallCreateOpts) (*created[*hcloud.Firewall], error) {
			res, _, err := c.api.Firewall.Create(ctx, opts)
			if err != nil {
				return nil, err
			}
			return &created[*hcloud.Firewall]{Resource: res.Firewall, Actions: res.Actions}, nil
		},
		Opts: func() hcloud.FirewallCreateOpts {
			return hcloud.FirewallCreateOpts{Name: name, Rules: clusterFirewallRules(), Labels: labels}
		},
	}).execute(ctx, c)
}

// EnsurePlacementGroup ensures a spread placement group exists.
func (c *Client) EnsurePlacementGroup(ctx context.Context, name string, labels map[string]string) (*hcloud.PlacementGroup, error) {
	return (&ensureOperation[*hcloud.PlacementGroup, hcloud.PlacementGroupCreateOpts]{
		Name:         name,
		ResourceType: "placement group",
		Get:          c.api.PlacementGroup.Get,
		Create: func(ctx context.Context, opts hcloud.PlacementGroupCreateOpts) (*created[*hcloud.PlacementGroup], error) {
			res, _, err := c.api.PlacementGroup.Create(ctx, opts)
			if err != nil {
				return nil, err
			}
			out := &created[*hcloud.PlacementGroup]{Resource: res.PlacementGroup}
			if res.Action != nil {
				out.Actions = []*hcloud.Action{res.Action}
			}
			return out, nil
		},
		Opts: func() hcloud.PlacementGroupCreateOpts {
			return hcloud.PlacementGroupCreateOpts{Name: name, Type: hcloud.PlacementGroupTypeSpread, Labels: labels}
		},
	}).execute(ctx, c)
}

// ListLocations returns the locations visible to the token.
func (c *Client) ListLocations(ctx context.Context) ([]*hcloud.Location, error) {
	locations, err := c.api.Location.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return locations, nil
}

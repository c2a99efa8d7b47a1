package hcloud

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/hetznercloud/hcloud-go/v2/hcloud/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/util/retry"
)

// testServer mocks the Hetzner Cloud API.
type testServer struct {
	server *httptest.Server
	mux    *http.ServeMux
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	mux := http.NewServeMux()
	ts := &testServer{server: httptest.NewServer(mux), mux: mux}
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) handleFunc(pattern string, handler http.HandlerFunc) {
	ts.mux.HandleFunc(pattern, handler)
}

func (ts *testServer) client() *Client {
	api := hcloud.NewClient(
		hcloud.WithToken("test-token"),
		hcloud.WithEndpoint(ts.server.URL),
	)
	return NewClient("test-token",
		WithHCloudClient(api),
		WithRetryPolicy(retry.Policy{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}),
		WithPolling(time.Millisecond, 5),
	)
}

func jsonResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func errorResponse(w http.ResponseWriter, statusCode int, code hcloud.ErrorCode) {
	jsonResponse(w, statusCode, schema.ErrorResponse{
		Error: schema.Error{Code: string(code), Message: string(code)},
	})
}

func successAction(id int64) schema.Action {
	return schema.Action{ID: id, Status: "success", Progress: 100}
}

func testDetails() events.EventDetails {
	return events.NewEventDetails(
		events.KindHetzner, "org", "c1", "exec",
		events.InfrastructureStage(events.InfrastructureCreate),
		events.NewTransmitter(events.TransmitterKubernetes, "c1", "prod"),
	)
}

func TestEnsureNetwork_CreatesWhenMissing(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	var created atomic.Bool
	ts.handleFunc("/networks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			created.Store(true)
			jsonResponse(w, http.StatusCreated, schema.NetworkCreateResponse{
				Network: schema.Network{ID: 100, Name: "prod", IPRange: "10.0.0.0/16"},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{Networks: []schema.Network{}})
	})

	network, err := ts.client().EnsureNetwork(context.Background(), "prod", "10.0.0.0/16", map[string]string{"a": "b"})

	require.NoError(t, err)
	assert.True(t, created.Load())
	assert.Equal(t, int64(100), network.ID)
}

func TestEnsureNetwork_ExistingWithDifferentRange(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.handleFunc("/networks", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			t.Error("network must not be created")
		}
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{
			Networks: []schema.Network{{ID: 7, Name: "prod", IPRange: "192.168.0.0/16"}},
		})
	})

	_, err := ts.client().EnsureNetwork(context.Background(), "prod", "10.0.0.0/16", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "different IP range")
}

func TestEnsureNetwork_InvalidCIDR(t *testing.T) {
	t.Parallel()

	_, err := newTestServer(t).client().EnsureNetwork(context.Background(), "prod", "nope", nil)
	require.Error(t, err)
}

func TestEnsureFirewall_WaitsForActions(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.handleFunc("/firewalls", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var req schema.FirewallCreateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Len(t, req.Rules, 2)
			jsonResponse(w, http.StatusCreated, schema.FirewallCreateResponse{
				Firewall: schema.Firewall{ID: 5, Name: "prod"},
				Actions:  []schema.Action{successAction(1)},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.FirewallListResponse{Firewalls: []schema.Firewall{}})
	})

	fw, err := ts.client().EnsureFirewall(context.Background(), "prod", nil)

	require.NoError(t, err)
	assert.Equal(t, int64(5), fw.ID)
}

func TestEnsurePlacementGroup_ReturnsExisting(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.handleFunc("/placement_groups", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.PlacementGroupListResponse{
			PlacementGroups: []schema.PlacementGroup{{ID: 9, Name: "prod", Type: "spread"}},
		})
	})

	pg, err := ts.client().EnsurePlacementGroup(context.Background(), "prod", nil)

	require.NoError(t, err)
	assert.Equal(t, int64(9), pg.ID)
}

func TestEnsureOperation_RetriesLockedResource(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	var posts atomic.Int32
	ts.handleFunc("/placement_groups", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if posts.Add(1) == 1 {
				errorResponse(w, http.StatusLocked, hcloud.ErrorCodeResourceLocked)
				return
			}
			jsonResponse(w, http.StatusCreated, schema.PlacementGroupCreateResponse{
				PlacementGroup: schema.PlacementGroup{ID: 3, Name: "prod", Type: "spread"},
			})
			return
		}
		jsonResponse(w, http.StatusOK, schema.PlacementGroupListResponse{PlacementGroups: []schema.PlacementGroup{}})
	})

	pg, err := ts.client().EnsurePlacementGroup(context.Background(), "prod", nil)

	require.NoError(t, err)
	assert.Equal(t, int64(3), pg.ID)
	assert.GreaterOrEqual(t, posts.Load(), int32(2))
}

func TestCleanupByLabel_DeletesEverything(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	var serverDeleted, networkDeleted, firewallDeleted, pgDeleted atomic.Bool

	ts.handleFunc("GET /servers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "engine.io/cluster=c1", r.URL.Query().Get("label_selector"))
		if serverDeleted.Load() {
			jsonResponse(w, http.StatusOK, schema.ServerListResponse{Servers: []schema.Server{}})
			return
		}
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{
			Servers: []schema.Server{{ID: 11, Name: "node-1", Status: "running"}},
		})
	})
	ts.handleFunc("DELETE /servers/11", func(w http.ResponseWriter, _ *http.Request) {
		serverDeleted.Store(true)
		jsonResponse(w, http.StatusOK, schema.ServerDeleteResponse{Action: successAction(1)})
	})
	ts.handleFunc("GET /firewalls", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.FirewallListResponse{Firewalls: []schema.Firewall{{ID: 21, Name: "c1"}}})
	})
	ts.handleFunc("DELETE /firewalls/21", func(w http.ResponseWriter, _ *http.Request) {
		firewallDeleted.Store(true)
		w.WriteHeader(http.StatusNoContent)
	})
	ts.handleFunc("GET /networks", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{Networks: []schema.Network{{ID: 31, Name: "c1", IPRange: "10.0.0.0/16"}}})
	})
	ts.handleFunc("DELETE /networks/31", func(w http.ResponseWriter, _ *http.Request) {
		networkDeleted.Store(true)
		w.WriteHeader(http.StatusNoContent)
	})
	ts.handleFunc("GET /placement_groups", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.PlacementGroupListResponse{PlacementGroups: []schema.PlacementGroup{{ID: 41, Name: "c1", Type: "spread"}}})
	})
	ts.handleFunc("DELETE /placement_groups/41", func(w http.ResponseWriter, _ *http.Request) {
		pgDeleted.Store(true)
		w.WriteHeader(http.StatusNoContent)
	})

	err := ts.client().CleanupByLabel(context.Background(), map[string]string{LabelCluster: "c1"})

	require.NoError(t, err)
	assert.True(t, serverDeleted.Load())
	assert.True(t, firewallDeleted.Load())
	assert.True(t, networkDeleted.Load())
	assert.True(t, pgDeleted.Load())
}

func TestCleanupByLabel_CollectsErrorsAndContinues(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	var pgDeleted atomic.Bool
	ts.handleFunc("GET /servers", func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, http.StatusBadRequest, hcloud.ErrorCodeInvalidInput)
	})
	ts.handleFunc("GET /firewalls", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.FirewallListResponse{Firewalls: []schema.Firewall{}})
	})
	ts.handleFunc("GET /networks", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{Networks: []schema.Network{}})
	})
	ts.handleFunc("GET /placement_groups", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.PlacementGroupListResponse{PlacementGroups: []schema.PlacementGroup{{ID: 41, Name: "c1", Type: "spread"}}})
	})
	ts.handleFunc("DELETE /placement_groups/41", func(w http.ResponseWriter, _ *http.Request) {
		pgDeleted.Store(true)
		w.WriteHeader(http.StatusNoContent)
	})

	err := ts.client().CleanupByLabel(context.Background(), map[string]string{LabelCluster: "c1"})

	require.Error(t, err)
	var cleanupErr *CleanupError
	require.ErrorAs(t, err, &cleanupErr)
	assert.Len(t, cleanupErr.Errors, 1)
	assert.Contains(t, err.Error(), "servers")
	assert.True(t, pgDeleted.Load())
}

func TestCleanupByLabel_RefusesEmptySelector(t *testing.T) {
	t.Parallel()

	err := newTestServer(t).client().CleanupByLabel(context.Background(), nil)
	require.Error(t, err)
}

func TestPowerOffByLabel_OnlyRunningServers(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	var poweredOff atomic.Int32
	ts.handleFunc("GET /servers", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{Servers: []schema.Server{
			{ID: 1, Name: "node-1", Status: "running"},
			{ID: 2, Name: "node-2", Status: "off"},
		}})
	})
	ts.handleFunc("POST /servers/1/actions/poweroff", func(w http.ResponseWriter, _ *http.Request) {
		poweredOff.Add(1)
		jsonResponse(w, http.StatusCreated, schema.ServerActionPoweroffResponse{Action: successAction(5)})
	})
	ts.handleFunc("POST /servers/2/actions/poweroff", func(w http.ResponseWriter, _ *http.Request) {
		t.Error("stopped server must not be powered off")
	})

	n, err := ts.client().PowerOffByLabel(context.Background(), map[string]string{LabelCluster: "c1"})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, int32(1), poweredOff.Load())
}

func TestPowerOnByLabel(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.handleFunc("GET /servers", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.ServerListResponse{Servers: []schema.Server{
			{ID: 2, Name: "node-2", Status: "off"},
		}})
	})
	ts.handleFunc("POST /servers/2/actions/poweron", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusCreated, schema.ServerActionPoweronResponse{Action: successAction(6)})
	})

	n, err := ts.client().PowerOnByLabel(context.Background(), map[string]string{LabelCluster: "c1"})

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCloudProvider_IsValid(t *testing.T) {
	t.Parallel()

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t)
		ts.handleFunc("GET /locations", func(w http.ResponseWriter, _ *http.Request) {
			jsonResponse(w, http.StatusOK, schema.LocationListResponse{Locations: []schema.Location{{ID: 1, Name: "fsn1"}}})
		})

		p := NewCloudProvider(ts.client(), "hetzner")
		require.NoError(t, p.IsValid(context.Background()))
		assert.Equal(t, events.KindHetzner, p.Kind())
		assert.Equal(t, "hetzner", p.Name())
	})

	t.Run("unauthorized", func(t *testing.T) {
		t.Parallel()
		ts := newTestServer(t)
		ts.handleFunc("GET /locations", func(w http.ResponseWriter, _ *http.Request) {
			errorResponse(w, http.StatusUnauthorized, hcloud.ErrorCodeUnauthorized)
		})

		err := NewCloudProvider(ts.client(), "hetzner").IsValid(context.Background())
		require.Error(t, err)
		assert.True(t, IsUnauthorized(err))
	})
}

func TestCluster_IsValid(t *testing.T) {
	t.Parallel()

	client := NewClient("token")
	tests := []struct {
		name    string
		cluster *Cluster
		wantErr bool
	}{
		{"valid", NewCluster(client, "c1", "prod", "10.0.0.0/16", testDetails()), false},
		{"bad name", NewCluster(client, "c1", "Prod_1", "10.0.0.0/16", testDetails()), true},
		{"bad cidr", NewCluster(client, "c1", "prod", "10.0.0.0", testDetails()), true},
		{"empty id", NewCluster(client, "", "prod", "10.0.0.0/16", testDetails()), true},
		{"no client", NewCluster(nil, "c1", "prod", "10.0.0.0/16", testDetails()), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cluster.IsValid(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCluster_OnCreateClassifiesErrors(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	ts.handleFunc("/networks", func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, http.StatusUnauthorized, hcloud.ErrorCodeUnauthorized)
	})

	cluster := NewCluster(ts.client(), "c1", "prod", "10.0.0.0/16", testDetails())
	err := cluster.OnCreate(context.Background())

	engineErr, ok := engineerr.As(err)
	require.True(t, ok)
	assert.Equal(t, engineerr.TagCloudProviderClientInvalidCredentials, engineErr.Tag())
	assert.Equal(t, events.InfrastructureStage(events.InfrastructureCreate), engineErr.EventDetails().Stage())
}

func TestCluster_OnCreateEnsuresResources(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)
	var labels atomic.Value
	ts.handleFunc("GET /networks", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.NetworkListResponse{Networks: []schema.Network{}})
	})
	ts.handleFunc("POST /networks", func(w http.ResponseWriter, r *http.Request) {
		var req schema.NetworkCreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Labels != nil {
			labels.Store(*req.Labels)
		}
		jsonResponse(w, http.StatusCreated, schema.NetworkCreateResponse{Network: schema.Network{ID: 1, Name: "prod", IPRange: "10.0.0.0/16"}})
	})
	ts.handleFunc("GET /firewalls", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.FirewallListResponse{Firewalls: []schema.Firewall{{ID: 2, Name: "prod"}}})
	})
	ts.handleFunc("GET /placement_groups", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusOK, schema.PlacementGroupListResponse{PlacementGroups: []schema.PlacementGroup{{ID: 3, Name: "prod", Type: "spread"}}})
	})

	cluster := NewCluster(ts.client(), "c1", "prod", "10.0.0.0/16", testDetails())

	require.NoError(t, cluster.OnCreate(context.Background()))
	assert.Equal(t, map[string]string{
		LabelCluster:             "c1",
		"engine.io/managed-by":   "engine",
		"engine.io/organization": "org",
	}, labels.Load())
	assert.NoError(t, cluster.OnDeleteError(context.Background()))
}

func TestLabelSelector_SortedKeys(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a=1,b=2,c=3", LabelSelector(map[string]string{"c": "3", "a": "1", "b": "2"}))
	assert.Empty(t, LabelSelector(nil))
}

func TestCleanupError(t *testing.T) {
	t.Parallel()

	ce := &CleanupError{}
	ce.Add(nil)
	assert.False(t, ce.HasErrors())

	first := assert.AnError
	ce.Add(first)
	assert.Equal(t, first.Error(), ce.Error())
	assert.ErrorIs(t, ce, first)

	ce.Add(context.Canceled)
	assert.Contains(t, ce.Error(), "cleanup encountered 2 errors")
}

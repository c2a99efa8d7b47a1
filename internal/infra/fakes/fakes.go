// Package fakes provides configurable in-memory implementations of the infra
// collaborators for tests.
package fakes

import (
	"context"
	"sync"
	"time"

	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/helm"
)

// FakeValidator is a configurable infra.Validator.
type FakeValidator struct {
	NameValue string
	Err       error
	Calls     int
	mu        sync.Mutex
}

// IsValid implements infra.Validator.
func (f *FakeValidator) IsValid(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	return f.Err
}

// Name returns NameValue.
func (f *FakeValidator) Name() string { return f.NameValue }

// FakeCloudProvider is an infra.CloudProvider.
type FakeCloudProvider struct {
	FakeValidator
	KindValue events.Kind
}

// Kind implements infra.CloudProvider.
func (f *FakeCloudProvider) Kind() events.Kind { return f.KindValue }

// FakeKubernetes records lifecycle calls in order. Errors are keyed by
// method name ("OnCreate", "OnDeleteError", …).
type FakeKubernetes struct {
	FakeValidator
	IDValue string
	Errors  map[string]error

	callsMu sync.Mutex
	calls   []string
}

func (f *FakeKubernetes) record(name string) error {
	f.callsMu.Lock()
	defer f.callsMu.Unlock()
	f.calls = append(f.calls, name)
	return f.Errors[name]
}

// CallLog returns the lifecycle calls made so far.
func (f *FakeKubernetes) CallLog() []string {
	f.callsMu.Lock()
	defer f.callsMu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// ID implements infra.Kubernetes.
func (f *FakeKubernetes) ID() string { return f.IDValue }

// OnCreate implements infra.Kubernetes.
func (f *FakeKubernetes) OnCreate(_ context.Context) error { return f.record("OnCreate") }

// OnCreateError implements infra.Kubernetes.
func (f *FakeKubernetes) OnCreateError(_ context.Context) error { return f.record("OnCreateError") }

// OnPause implements infra.Kubernetes.
func (f *FakeKubernetes) OnPause(_ context.Context) error { return f.record("OnPause") }

// OnPauseError implements infra.Kubernetes.
func (f *FakeKubernetes) OnPauseError(_ context.Context) error { return f.record("OnPauseError") }

// OnDelete implements infra.Kubernetes.
func (f *FakeKubernetes) OnDelete(_ context.Context) error { return f.record("OnDelete") }

// OnDeleteError implements infra.Kubernetes.
func (f *FakeKubernetes) OnDeleteError(_ context.Context) error { return f.record("OnDeleteError") }

// NewFakeKubernetes creates a FakeKubernetes whose lifecycle calls all succeed.
func NewFakeKubernetes(id string) *FakeKubernetes {
	return &FakeKubernetes{
		FakeValidator: FakeValidator{NameValue: id},
		IDValue:       id,
		Errors:        map[string]error{},
	}
}

// NewFakeCloudProvider creates a valid FakeCloudProvider.
func NewFakeCloudProvider(kind events.Kind) *FakeCloudProvider {
	return &FakeCloudProvider{
		FakeValidator: FakeValidator{NameValue: string(kind)},
		KindValue:     kind,
	}
}

// FakeReleaseManager records Helm operations. InstallFunc, when set,
// replaces the install behaviour.
type FakeReleaseManager struct {
	InstallErr   error
	UninstallErr error
	InstallFunc  func(ctx context.Context, chart helm.Chart) error

	mu         sync.Mutex
	installs   []string
	uninstalls []string
}

// InstallOrUpgrade records the release name.
func (f *FakeReleaseManager) InstallOrUpgrade(ctx context.Context, chart helm.Chart, _ time.Duration) error {
	f.mu.Lock()
	f.installs = append(f.installs, chart.ReleaseName)
	f.mu.Unlock()

	if f.InstallFunc != nil {
		return f.InstallFunc(ctx, chart)
	}
	return f.InstallErr
}

// Uninstall records the release name.
func (f *FakeReleaseManager) Uninstall(releaseName string, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uninstalls = append(f.uninstalls, releaseName)
	return f.UninstallErr
}

// Installs returns the installed release names in call order.
func (f *FakeReleaseManager) Installs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.installs...)
}

// Uninstalls returns the uninstalled release names in call order.
func (f *FakeReleaseManager) Uninstalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.uninstalls...)
}

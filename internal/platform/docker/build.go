package docker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/docker/api/types/build"

	"github.com/shadracnicholas/engine/internal/command"
	"github.com/shadracnicholas/engine/internal/engineerr"
	"github.com/shadracnicholas/engine/internal/events"
	"github.com/shadracnicholas/engine/internal/util/archive"
)

// DefaultBuildTimeout bounds a single image build.
const DefaultBuildTimeout = 30 * time.Minute

// BuildRequest describes one image build.
type BuildRequest struct {
	Application string
	ContextDir  string
	// Dockerfile is relative to ContextDir. Defaults to "Dockerfile".
	Dockerfile string
	Image      string
	BuildArgs  map[string]*string
	Timeout    time.Duration
}

func (r BuildRequest) dockerfile() string {
	if r.Dockerfile == "" {
		return "Dockerfile"
	}
	return r.Dockerfile
}

// BuildPlatform builds images with the local Docker daemon.
type BuildPlatform struct {
	client *Client
}

// NewBuildPlatform creates a BuildPlatform.
func NewBuildPlatform(client *Client) *BuildPlatform {
	return &BuildPlatform{client: client}
}

// Name implements infra.BuildPlatform.
func (p *BuildPlatform) Name() string { return "docker" }

// IsValid pings the daemon.
func (p *BuildPlatform) IsValid(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// RemoveImage removes a cached image.
func (p *BuildPlatform) RemoveImage(ctx context.Context, ref string) error {
	return p.client.RemoveImage(ctx, ref)
}

// Build builds req.Image under a Killer: isCanceled is polled during the
// build and checked once before it starts.
func (p *BuildPlatform) Build(ctx context.Context, details events.EventDetails, req BuildRequest, isCanceled func() bool) error {
	dockerfile := filepath.Join(req.ContextDir, req.dockerfile())
	if _, err := os.Stat(dockerfile); err != nil {
		return engineerr.NewBuilderDockerCannotFindAnyDockerfile(details, dockerfile)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultBuildTimeout
	}

	killer := command.NewKiller(timeout, isCanceled)
	err := killer.Run(ctx, func(ctx context.Context) error {
		return p.client.build(ctx, req)
	})
	if err == nil {
		return nil
	}

	if aborted, ok := command.IsAborted(err); ok {
		if aborted.Reason == command.AbortCanceled {
			return engineerr.NewTaskCancellationRequested(details)
		}
		return engineerr.NewBuilderError(details, req.Application, err)
	}
	return engineerr.NewBuilderDockerCannotBuildContainerImage(details, req.Image, err)
}

func (c *Client) build(ctx context.Context, req BuildRequest) error {
	pr, pw := io.Pipe()
	go func() {
		_ = pw.CloseWithError(archive.Tar(req.ContextDir, pw, func(rel string) bool {
			return rel == ".git"
		}))
	}()
	defer func() { _ = pr.Close() }()

	resp, err := c.api.ImageBuild(ctx, pr, build.ImageBuildOptions{
		Tags:        []string{req.Image},
		Dockerfile:  filepath.ToSlash(req.dockerfile()),
		BuildArgs:   req.BuildArgs,
		Remove:      true,
		ForceRemove: true,
	})
	if err != nil {
		return fmt.Errorf("docker image build: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	decoder := json.NewDecoder(resp.Body)
	for {
		var msg buildMessage
		if err := decoder.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode build output: %w", err)
		}
		if errMsg := msg.errorMessage(); errMsg != "" {
			return fmt.Errorf("docker image build: %s", errMsg)
		}
		if line := strings.TrimSpace(msg.Stream); line != "" {
			c.logger.V(1).Info(line, "image", req.Image)
		}
	}
}

type buildMessage struct {
	Stream      string `json:"stream"`
	Error       string `json:"error"`
	ErrorDetail struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
}

func (m buildMessage) errorMessage() string {
	if s := strings.TrimSpace(m.Error); s != "" {
		return s
	}
	return strings.TrimSpace(m.ErrorDetail.Message)
}

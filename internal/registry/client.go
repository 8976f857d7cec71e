// Package registry moves container images into the TCR registry through the
// Docker Engine API: pull the source, tag it under the target registry,
// push the tag. Failures are per-image and recoverable; the caller decides
// whether to continue the batch.
package registry

import (
	"context"
	"fmt"
	"io"

	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"

	"github.com/lirong-lirong/ags-tool/internal/logger"
)

// Client wraps the Docker API client for registry operations.
type Client struct {
	api client.APIClient

	// auth is the encoded RegistryAuth header for the target registry,
	// empty when no credentials were provided.
	auth string
}

// NewClient connects to the Docker daemon and verifies the connection.
func NewClient(ctx context.Context) (*Client, error) {
	api, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	if _, err := api.Ping(ctx); err != nil {
		api.Close()
		return nil, fmt.Errorf("docker daemon not reachable: %w", err)
	}
	return &Client{api: api}, nil
}

// Close closes the underlying Docker connection.
func (c *Client) Close() error {
	return c.api.Close()
}

// Login stores credentials for the target registry. With empty credentials
// pushes proceed unauthenticated, which public namespaces allow.
func (c *Client) Login(registryHost, username, password string) error {
	if username == "" || password == "" {
		logger.Info().Msg("no registry credentials provided, pushing unauthenticated")
		return nil
	}
	encoded, err := registry.EncodeAuthConfig(registry.AuthConfig{
		Username:      username,
		Password:      password,
		ServerAddress: registryHost,
	})
	if err != nil {
		return fmt.Errorf("encode registry auth: %w", err)
	}
	c.auth = encoded
	return nil
}

// Mirror pulls source, tags it as target, and pushes target. Each step
// streams daemon progress; a reported error in the stream fails the step.
func (c *Client) Mirror(ctx context.Context, source, target string) error {
	if err := c.pull(ctx, source); err != nil {
		return fmt.Errorf("pull %s: %w", source, err)
	}
	if err := c.api.ImageTag(ctx, source, target); err != nil {
		return fmt.Errorf("tag %s as %s: %w", source, target, err)
	}
	if err := c.push(ctx, target); err != nil {
		return fmt.Errorf("push %s: %w", target, err)
	}
	return nil
}

func (c *Client) pull(ctx context.Context, ref string) error {
	// Local images are not re-pulled; a dataset batch often repeats bases.
	if exists, err := c.imageExists(ctx, ref); err == nil && exists {
		logger.Debug().Str("image", ref).Msg("image already present, skipping pull")
		return nil
	}

	rd, err := c.api.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return err
	}
	defer rd.Close()
	return drain(rd)
}

func (c *Client) push(ctx context.Context, ref string) error {
	rd, err := c.api.ImagePush(ctx, ref, image.PushOptions{RegistryAuth: c.auth})
	if err != nil {
		return err
	}
	defer rd.Close()
	return drain(rd)
}

func (c *Client) imageExists(ctx context.Context, ref string) (bool, error) {
	_, _, err := c.api.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// drain consumes a daemon progress stream and surfaces any error message
// embedded in it.
func drain(rd io.Reader) error {
	if err := jsonmessage.DisplayJSONMessagesStream(rd, io.Discard, 0, false, nil); err != nil {
		if jerr, ok := err.(*jsonmessage.JSONError); ok {
			return fmt.Errorf("daemon reported: %s", jerr.Message)
		}
		return err
	}
	return nil
}

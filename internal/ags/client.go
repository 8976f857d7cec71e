// Package ags is a client for the Tencent Cloud AGS (Agent Sandbox) API.
//
// Requests are JSON over HTTPS signed with the TC3-HMAC-SHA256 scheme. The
// client is constructed once per run and injected into every component that
// talks to the control plane; there is no package-level singleton.
package ags

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lirong-lirong/ags-tool/internal/logger"
)

const (
	// DefaultEndpoint is the public AGS API host.
	DefaultEndpoint = "ags.tencentcloudapi.com"

	// DefaultRegion is used when no region is configured.
	DefaultRegion = "ap-guangzhou"

	apiVersion  = "2025-09-20"
	service     = "ags"
	algorithm   = "TC3-HMAC-SHA256"
	contentType = "application/json; charset=utf-8"
)

// Credentials hold a Tencent Cloud secret pair.
type Credentials struct {
	SecretID  string
	SecretKey string
}

// Client talks to the AGS control plane. Each call is a single synchronous
// round trip; the client performs no retries of its own.
type Client struct {
	creds      Credentials
	region     string
	endpoint   string
	httpClient *http.Client
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the API host (for pre-release endpoints).
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Tests use this to
// point the client at a fake server.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithInsecureSkipVerify disables TLS certificate verification, for
// internal endpoints with self-signed certificates.
func WithInsecureSkipVerify() Option {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// NewClient creates an AGS client for one run.
func NewClient(creds Credentials, region string, opts ...Option) *Client {
	if region == "" {
		region = DefaultRegion
	}
	c := &Client{
		creds:    creds,
		region:   region,
		endpoint: DefaultEndpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Region returns the region the client was built for.
func (c *Client) Region() string { return c.region }

// CreateSandboxTool creates a custom sandbox tool and returns its id.
func (c *Client) CreateSandboxTool(ctx context.Context, req *CreateSandboxToolRequest) (*CreateSandboxToolResponse, error) {
	resp := &CreateSandboxToolResponse{}
	if err := c.do(ctx, "CreateSandboxTool", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DescribeSandboxToolList lists sandbox tools.
func (c *Client) DescribeSandboxToolList(ctx context.Context, req *DescribeSandboxToolListRequest) (*DescribeSandboxToolListResponse, error) {
	resp := &DescribeSandboxToolListResponse{}
	if err := c.do(ctx, "DescribeSandboxToolList", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteSandboxTool deletes a sandbox tool.
func (c *Client) DeleteSandboxTool(ctx context.Context, req *DeleteSandboxToolRequest) (*DeleteSandboxToolResponse, error) {
	resp := &DeleteSandboxToolResponse{}
	if err := c.do(ctx, "DeleteSandboxTool", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// StartSandboxInstance starts an instance from a tool.
func (c *Client) StartSandboxInstance(ctx context.Context, req *StartSandboxInstanceRequest) (*StartSandboxInstanceResponse, error) {
	resp := &StartSandboxInstanceResponse{}
	if err := c.do(ctx, "StartSandboxInstance", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// StopSandboxInstance stops a running instance.
func (c *Client) StopSandboxInstance(ctx context.Context, req *StopSandboxInstanceRequest) (*StopSandboxInstanceResponse, error) {
	resp := &StopSandboxInstanceResponse{}
	if err := c.do(ctx, "StopSandboxInstance", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// DescribeSandboxInstanceList lists sandbox instances.
func (c *Client) DescribeSandboxInstanceList(ctx context.Context, req *DescribeSandboxInstanceListRequest) (*DescribeSandboxInstanceListResponse, error) {
	resp := &DescribeSandboxInstanceListResponse{}
	if err := c.do(ctx, "DescribeSandboxInstanceList", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// AcquireSandboxInstanceToken issues an access token for an instance.
func (c *Client) AcquireSandboxInstanceToken(ctx context.Context, req *AcquireSandboxInstanceTokenRequest) (*AcquireSandboxInstanceTokenResponse, error) {
	resp := &AcquireSandboxInstanceTokenResponse{}
	if err := c.do(ctx, "AcquireSandboxInstanceToken", req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// responseEnvelope is the standard Tencent Cloud response wrapper.
type responseEnvelope struct {
	Response struct {
		Error *struct {
			Code    string `json:"Code"`
			Message string `json:"Message"`
		} `json:"Error"`
		RequestId string `json:"RequestId"`
	} `json:"Response"`
}

func (c *Client) do(ctx context.Context, action string, req, out any) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("ags: marshal %s request: %w", action, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://"+c.endpoint+"/", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("ags: build %s request: %w", action, err)
	}

	ts := c.now().UTC()
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Host", c.endpoint)
	httpReq.Header.Set("X-TC-Action", action)
	httpReq.Header.Set("X-TC-Version", apiVersion)
	httpReq.Header.Set("X-TC-Region", c.region)
	httpReq.Header.Set("X-TC-Timestamp", strconv.FormatInt(ts.Unix(), 10))
	httpReq.Header.Set("Authorization", c.sign(action, payload, ts))

	logger.Debug().Str("action", action).Str("endpoint", c.endpoint).Msg("ags api call")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("ags: %s: %w", action, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("ags: %s: read response: %w", action, err)
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		// Gateways and proxies answer errors with non-JSON bodies;
		// classify those by status instead of failing the decode.
		if httpResp.StatusCode != http.StatusOK {
			return &APIError{
				Code:    fmt.Sprintf("HTTP%d", httpResp.StatusCode),
				Message: strings.TrimSpace(string(body)),
			}
		}
		return fmt.Errorf("ags: %s: decode response: %w", action, err)
	}
	if envelope.Response.Error != nil {
		return &APIError{
			Code:      envelope.Response.Error.Code,
			Message:   envelope.Response.Error.Message,
			RequestID: envelope.Response.RequestId,
		}
	}
	if httpResp.StatusCode != http.StatusOK {
		return &APIError{
			Code:      fmt.Sprintf("HTTP%d", httpResp.StatusCode),
			Message:   strings.TrimSpace(string(body)),
			RequestID: envelope.Response.RequestId,
		}
	}

	// Second pass pulls the action-specific fields out of the envelope.
	var inner struct {
		Response json.RawMessage `json:"Response"`
	}
	if err := json.Unmarshal(body, &inner); err != nil {
		return fmt.Errorf("ags: %s: decode response: %w", action, err)
	}
	if err := json.Unmarshal(inner.Response, out); err != nil {
		return fmt.Errorf("ags: %s: decode response body: %w", action, err)
	}
	return nil
}

// sign computes the TC3-HMAC-SHA256 Authorization header for a request.
func (c *Client) sign(action string, payload []byte, ts time.Time) string {
	date := ts.Format("2006-01-02")

	canonicalHeaders := "content-type:" + contentType + "\n" +
		"host:" + c.endpoint + "\n" +
		"x-tc-action:" + strings.ToLower(action) + "\n"
	signedHeaders := "content-type;host;x-tc-action"

	canonicalRequest := strings.Join([]string{
		http.MethodPost,
		"/",
		"", // query string
		canonicalHeaders,
		signedHeaders,
		hexSHA256(payload),
	}, "\n")

	credentialScope := date + "/" + service + "/tc3_request"
	stringToSign := strings.Join([]string{
		algorithm,
		strconv.FormatInt(ts.Unix(), 10),
		credentialScope,
		hexSHA256([]byte(canonicalRequest)),
	}, "\n")

	secretDate := hmacSHA256([]byte("TC3"+c.creds.SecretKey), date)
	secretService := hmacSHA256(secretDate, service)
	secretSigning := hmacSHA256(secretService, "tc3_request")
	signature := hex.EncodeToString(hmacSHA256(secretSigning, stringToSign))

	return fmt.Sprintf("%s Credential=%s/%s, SignedHeaders=%s, Signature=%s",
		algorithm, c.creds.SecretID, credentialScope, signedHeaders, signature)
}

func hexSHA256(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func hmacSHA256(key []byte, msg string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(msg))
	return h.Sum(nil)
}

package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	logger "github.com/PolarWolf314/envsync/internal/logging"
)

// apiVersion pins the GitHub REST API version.
const apiVersion = "2022-11-28"

// DefaultBaseURL is the public GitHub API.
const DefaultBaseURL = "https://api.github.com"

// DefaultTimeout bounds every request when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// DefaultRequestsPerSecond paces requests when Config.RequestsPerSecond is zero.
const DefaultRequestsPerSecond = 5

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 10 << 20

// Config holds what is needed to talk to one repository.
type Config struct {
	// BaseURL defaults to DefaultBaseURL. Must use HTTPS.
	BaseURL string

	Owner      string
	Repository string

	// Token is a personal access token or fine-grained token with
	// permission to manage secrets, variables and environments.
	Token string

	// HTTPClient defaults to a client with Timeout applied.
	HTTPClient *http.Client

	Timeout time.Duration

	RequestsPerSecond float64

	Logger logger.Logger
}

// Client talks to the Actions secrets and variables API of one repository.
type Client struct {
	baseURL    string
	owner      string
	repository string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logger.Logger
}

// NewClient validates config and returns a client.
func NewClient(config Config) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	if !strings.HasPrefix(baseURL, "https://") {
		return nil, fmt.Errorf("registry: API client requires HTTPS (got %q)", baseURL)
	}
	if config.Owner == "" || config.Repository == "" {
		return nil, fmt.Errorf("registry: owner and repository are required")
	}
	if config.Token == "" {
		return nil, fmt.Errorf("registry: token is required")
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Timeout == 0 {
		clone := *httpClient
		clone.Timeout = timeout
		httpClient = &clone
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = DefaultRequestsPerSecond
	}

	return &Client{
		baseURL:    baseURL,
		owner:      config.Owner,
		repository: config.Repository,
		token:      config.Token,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     config.Logger,
	}, nil
}

// Repository returns "owner/repo".
func (client *Client) Repository() string {
	return client.owner + "/" + client.repository
}

// do executes an authenticated request and returns the response body.
// requestBody is JSON encoded when non-nil.
func (client *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("registry: waiting for rate limiter: %w", err)
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("registry: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	url := client.baseURL + path
	request, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("registry: creating request: %w", err)
	}

	request.Header.Set("Authorization", "Bearer "+client.token)
	request.Header.Set("Accept", "application/vnd.github+json")
	request.Header.Set("X-GitHub-Api-Version", apiVersion)
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	client.logger.Debugf("%s %s", method, path)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("registry: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("registry: reading response body: %w", err)
	}

	client.logger.Debugf("%s %s -> %d", method, path, response.StatusCode)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, parseAPIError(response.StatusCode, body)
	}
	return body, nil
}

func (client *Client) get(ctx context.Context, path string, result any) error {
	body, err := client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("registry: decoding %s: %w", path, err)
	}
	return nil
}

func (client *Client) put(ctx context.Context, path string, requestBody any) error {
	_, err := client.do(ctx, http.MethodPut, path, requestBody)
	return err
}

func (client *Client) post(ctx context.Context, path string, requestBody any) error {
	_, err := client.do(ctx, http.MethodPost, path, requestBody)
	return err
}

func (client *Client) patch(ctx context.Context, path string, requestBody any) error {
	_, err := client.do(ctx, http.MethodPatch, path, requestBody)
	return err
}

package erpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/parkops/backend/internal/domain/erpsync"
)

// maxResponseSize is the maximum allowed response size from the ERP API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ErrClientInvalidConfig indicates a misconfigured ERP client
var ErrClientInvalidConfig = errors.New("erpclient: invalid configuration")

// Config holds ERP endpoint configuration
type Config struct {
	// BaseURL is the root of the remote ERP HTTP API
	BaseURL string
	// TimeoutSeconds bounds every outbound round trip
	TimeoutSeconds int
	// Version is the protocol version sent with authentication
	Version string
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrClientInvalidConfig
	}
	if c.TimeoutSeconds <= 0 {
		return ErrClientInvalidConfig
	}
	return nil
}

// SessionClient implements the ErpGateway port against the proprietary
// session-based ERP protocol. Calls are single-shot round trips: retry
// policy belongs to the sync engine so retries stay visible in its stats.
// Session tokens pass through explicitly; the client holds no session state.
type SessionClient struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSessionClient creates a new ERP session client
func NewSessionClient(config Config, logger *zap.Logger) (*SessionClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SessionClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}, nil
}

// Authenticate opens a remote session for the given credentials
func (c *SessionClient) Authenticate(ctx context.Context, creds erpsync.Credentials) (erpsync.SessionToken, error) {
	version := creds.Version
	if version == "" {
		version = c.config.Version
	}

	req := loginRequest{
		Username:       creds.Username,
		Password:       creds.Password,
		AppID:          creds.AppID,
		Company:        creds.Company,
		Branch:         creds.Branch,
		Module:         creds.Module,
		ReferenceID:    creds.ReferenceID,
		Version:        version,
		RegisteredName: creds.RegisteredName,
	}

	var resp loginResponse
	if err := c.post(ctx, "/auth/login", req, &resp); err != nil {
		return "", err
	}

	if !resp.Success || resp.SessionID == "" {
		return "", fmt.Errorf("%w: %s", erpsync.ErrAuthenticationFailed, wireErrorString(resp.Error))
	}
	return erpsync.SessionToken(resp.SessionID), nil
}

// ListObjects returns the remote schema catalogue. Object types come back
// as-is; callers must filter by name because the catalogue's type tags are
// not reliable.
func (c *SessionClient) ListObjects(ctx context.Context, token erpsync.SessionToken, appID string) ([]erpsync.RemoteObject, error) {
	req := listObjectsRequest{SessionID: string(token), AppID: appID}

	var resp listObjectsResponse
	if err := c.post(ctx, "/metadata/objects", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, c.remoteFailure(resp.Error)
	}

	objects := make([]erpsync.RemoteObject, 0, len(resp.Objects))
	for _, o := range resp.Objects {
		objects = append(objects, erpsync.RemoteObject{Name: o.Name, Type: o.Type})
	}
	return objects, nil
}

// FetchData reads one page of rows from a remote object
func (c *SessionClient) FetchData(ctx context.Context, q erpsync.DataQuery) (*erpsync.DataPage, error) {
	req := getDataRequest{
		SessionID:  string(q.Token),
		AppID:      q.AppID,
		ObjectName: q.ObjectName,
		Filters:    q.Filters,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}

	var resp getDataResponse
	if err := c.post(ctx, "/data/get", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, c.remoteFailure(resp.Error)
	}

	return &erpsync.DataPage{Rows: resp.Rows, Total: resp.Total}, nil
}

// PushData writes one record to a remote object
func (c *SessionClient) PushData(ctx context.Context, p erpsync.DataPush) error {
	req := setDataRequest{
		SessionID:  string(p.Token),
		AppID:      p.AppID,
		ObjectName: p.ObjectName,
		Key:        p.Key,
		Version:    p.Version,
		Data:       p.Payload,
		Extra:      p.Extra,
	}

	var resp setDataResponse
	if err := c.post(ctx, "/data/set", req, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return c.remoteFailure(resp.Error)
	}
	return nil
}

// post performs one JSON round trip against the ERP API
func (c *SessionClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("erpclient: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("erpclient: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", erpsync.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: %v", erpsync.ErrTransport, err)
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: HTTP %d", erpsync.ErrTransport, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: HTTP %d", erpsync.ErrRemoteRequestFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", erpsync.ErrInvalidResponse, err)
	}
	return nil
}

// remoteFailure maps a wire error into the domain taxonomy
func (c *SessionClient) remoteFailure(we *wireError) error {
	if we != nil && (we.Code == errCodeSessionExpired || we.Code == errCodeSessionInvalid) {
		return fmt.Errorf("%w: %s", erpsync.ErrSessionExpired, we.Message)
	}
	return fmt.Errorf("%w: %s", erpsync.ErrRemoteRequestFailed, wireErrorString(we))
}

func wireErrorString(we *wireError) string {
	if we == nil {
		return "no error detail provided"
	}
	return we.Code + " - " + we.Message
}

// Ensure SessionClient implements the ErpGateway port
var _ erpsync.ErpGateway = (*SessionClient)(nil)

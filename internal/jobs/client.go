package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const maxResponseBytes = 4 << 20

// OperationError is a top-level error returned by the endpoint itself
type OperationError struct {
	Operation string
	Messages  []string
}

func (e *OperationError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%s: request rejected", e.Operation)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Messages[0])
}

// StatusError is a non-2xx response without a decodable error body
type StatusError struct {
	Operation  string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Operation, e.StatusCode)
}

// Client posts named operations to the CRM endpoint
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient creates a client whose every request is bounded by timeout
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

type operationRequest struct {
	OperationName string      `json:"operationName"`
	Variables     interface{} `json:"variables,omitempty"`
}

type operationResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Do executes operation with variables and decodes its result into out.
// out may be nil when the result is not needed.
func (c *Client) Do(ctx context.Context, operation string, variables interface{}, out interface{}) error {
	body, err := json.Marshal(operationRequest{OperationName: operation, Variables: variables})
	if err != nil {
		return fmt.Errorf("encode %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", operation, err)
	}

	var decoded operationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		if resp.StatusCode/100 != 2 {
			return &StatusError{Operation: operation, StatusCode: resp.StatusCode}
		}
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	if len(decoded.Errors) > 0 {
		opErr := &OperationError{Operation: operation}
		for _, e := range decoded.Errors {
			opErr.Messages = append(opErr.Messages, e.Message)
		}
		return opErr
	}
	if resp.StatusCode/100 != 2 {
		return &StatusError{Operation: operation, StatusCode: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	result, ok := decoded.Data[operation]
	if !ok {
		return fmt.Errorf("%s: response has no data", operation)
	}
	if err := json.Unmarshal(result, out); err != nil {
		return fmt.Errorf("decode %s result: %w", operation, err)
	}
	return nil
}

// IsTimeout reports whether err came from a deadline being exceeded
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsConnectionError reports whether err means the endpoint could not be
// reached at all
func IsConnectionError(err error) bool {
	if IsTimeout(err) {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

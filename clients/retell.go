package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/renthub/renthub/logger"
)

const retellAPIURL = "https://api.retellai.com/v2/create-phone-call"

// CallResult carries the outcome of an outbound call attempt. Failures are
// reported in-band; the client never panics or aborts the caller.
type CallResult struct {
	Success bool
	CallID  string
	Error   string
}

// RetellClientWrapper is the interface for the outbound voice-call
// collaborator. It allows tests to substitute a fake for the live API.
type RetellClientWrapper interface {
	MakeOutboundCall(ctx context.Context, toNumber string, metadata map[string]interface{}) CallResult
}

// RetellClient implements RetellClientWrapper against the Retell AI
// create-phone-call endpoint.
type RetellClient struct {
	APIKey     string
	AgentID    string
	FromNumber string
	HTTPClient *http.Client
}

// NewRetellClient builds a client from RETELL_* environment variables.
func NewRetellClient() *RetellClient {
	return &RetellClient{
		APIKey:     os.Getenv("RETELL_API_KEY"),
		AgentID:    os.Getenv("RETELL_AGENT_ID"),
		FromNumber: os.Getenv("RETELL_FROM_NUMBER"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether the call integration has credentials. When
// unconfigured, calls are skipped rather than failed.
func (r *RetellClient) Configured() bool {
	return r.APIKey != "" && r.AgentID != "" && r.FromNumber != ""
}

// FormatPhoneNumber normalizes a phone number to E.164. Ten-digit numbers
// are assumed Indian and get +91; a leading zero is stripped first.
func FormatPhoneNumber(phoneNumber string) string {
	cleaned := strings.TrimSpace(phoneNumber)
	cleaned = strings.TrimPrefix(cleaned, "+")

	var digits strings.Builder
	for _, r := range cleaned {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned = digits.String()
	if cleaned == "" {
		return ""
	}

	cleaned = strings.TrimPrefix(cleaned, "0")

	// 10 digits: bare Indian mobile number. 9 digits: likely missing a
	// leading digit but still worth the +91 guess. Longer numbers are
	// assumed to carry their country code already.
	if len(cleaned) == 10 || len(cleaned) == 9 {
		cleaned = "91" + cleaned
	}

	return "+" + cleaned
}

// MakeOutboundCall places one phone call with optional metadata for the
// voice agent. Best-effort: every failure mode comes back as an unsuccessful
// CallResult.
func (r *RetellClient) MakeOutboundCall(ctx context.Context, toNumber string, metadata map[string]interface{}) CallResult {
	if !r.Configured() {
		return CallResult{Success: false, Error: "retell client not configured"}
	}

	formatted := FormatPhoneNumber(toNumber)
	if formatted == "" {
		return CallResult{Success: false, Error: "invalid phone number provided"}
	}

	payload := map[string]interface{}{
		"from_number":       r.FromNumber,
		"to_number":         formatted,
		"call_type":         "phone_call",
		"override_agent_id": r.AgentID,
	}
	if len(metadata) > 0 {
		payload["metadata"] = metadata
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return CallResult{Success: false, Error: fmt.Sprintf("failed to encode call payload: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, retellAPIURL, bytes.NewReader(body))
	if err != nil {
		return CallResult{Success: false, Error: fmt.Sprintf("failed to build call request: %v", err)}
	}
	req.Header.Set("Authorization", "Bearer "+r.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return CallResult{Success: false, Error: fmt.Sprintf("retell request failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var data struct {
		CallID  string `json:"call_id"`
		ID      string `json:"id"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(respBody, &data)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errMsg := data.Error
		if errMsg == "" {
			errMsg = data.Message
		}
		if errMsg == "" {
			errMsg = fmt.Sprintf("retell returned status %d", resp.StatusCode)
		}
		logger.ErrorLogger.Errorf("Retell AI API error: %s", errMsg)
		return CallResult{Success: false, Error: errMsg}
	}

	callID := data.CallID
	if callID == "" {
		callID = data.ID
	}
	logger.InfoLogger.Infof("Retell AI outbound call launched, call id %s", callID)
	return CallResult{Success: true, CallID: callID}
}

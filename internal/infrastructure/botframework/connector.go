package botframework

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

// TokenSource supplies the bot's app token for outbound calls.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
	Invalidate(ctx context.Context) error
}

// ConnectorError is a non-2xx reply from the Bot Framework connector.
type ConnectorError struct {
	Operation  string
	StatusCode int
	Code       string
	Message    string
}

func (e *ConnectorError) Error() string {
	return fmt.Sprintf("connector %s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
}

func (e *ConnectorError) AsAppError() *apperrors.AppError {
	return apperrors.NewUpstreamError("The Teams connector request failed.", strconv.Itoa(e.StatusCode))
}

// IsNotFound reports a 404 from the connector.
func IsNotFound(err error) bool {
	var ce *ConnectorError
	return errors.As(err, &ce) && ce.StatusCode == http.StatusNotFound
}

// Connector is a client of the /v3/conversations REST API.
type Connector struct {
	httpClient *http.Client
	tokens     TokenSource
	logger     logger.Interface
}

func NewConnector(tokens TokenSource, timeout time.Duration, logger logger.Interface) *Connector {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Connector{
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		logger:     logger,
	}
}

// SendToConversation posts a new activity to a conversation.
func (c *Connector) SendToConversation(ctx context.Context, serviceURL, conversationID string, activity *Activity) (*ResourceResponse, error) {
	var out ResourceResponse
	path := "/v3/conversations/" + url.PathEscape(conversationID) + "/activities"
	if err := c.do(ctx, "send to conversation", http.MethodPost, serviceURL, path, activity, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReplyToActivity posts activity as a reply in the thread of activityID.
func (c *Connector) ReplyToActivity(ctx context.Context, serviceURL, conversationID, activityID string, activity *Activity) (*ResourceResponse, error) {
	activity.ReplyToID = activityID
	var out ResourceResponse
	path := "/v3/conversations/" + url.PathEscape(conversationID) + "/activities/" + url.PathEscape(activityID)
	if err := c.do(ctx, "reply to activity", http.MethodPost, serviceURL, path, activity, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateActivity replaces a previously sent activity, e.g. to refresh a card.
func (c *Connector) UpdateActivity(ctx context.Context, serviceURL, conversationID, activityID string, activity *Activity) error {
	activity.ID = activityID
	path := "/v3/conversations/" + url.PathEscape(conversationID) + "/activities/" + url.PathEscape(activityID)
	return c.do(ctx, "update activity", http.MethodPut, serviceURL, path, activity, nil)
}

// CreateConversation starts a conversation. With a channel in ChannelData
// it opens a new thread in that team channel.
func (c *Connector) CreateConversation(ctx context.Context, serviceURL string, params *ConversationParameters) (*ConversationResourceResponse, error) {
	var out ConversationResourceResponse
	if err := c.do(ctx, "create conversation", http.MethodPost, serviceURL, "/v3/conversations", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMember returns the directory details of one conversation member.
func (c *Connector) GetMember(ctx context.Context, serviceURL, conversationID, memberID string) (*TeamsChannelAccount, error) {
	var out TeamsChannelAccount
	path := "/v3/conversations/" + url.PathEscape(conversationID) + "/members/" + url.PathEscape(memberID)
	if err := c.do(ctx, "get member", http.MethodGet, serviceURL, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type connectorErrorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Connector) do(ctx context.Context, op, method, serviceURL, path string, body, out any) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := strings.TrimRight(serviceURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connector %s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		ce := &ConnectorError{Operation: op, StatusCode: resp.StatusCode, Message: resp.Status}
		var eb connectorErrorBody
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); readErr == nil && json.Unmarshal(raw, &eb) == nil {
			ce.Code = eb.Error.Code
			if eb.Error.Message != "" {
				ce.Message = eb.Error.Message
			}
		}
		if resp.StatusCode == http.StatusUnauthorized {
			if err := c.tokens.Invalidate(ctx); err != nil {
				c.logger.Warnw("failed to invalidate app token", "error", err)
			}
		}
		c.logger.Warnw("connector request failed",
			"operation", op,
			"status", resp.StatusCode,
			"code", ce.Code,
		)
		return ce
	}

	if out == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", op, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", op, err)
	}
	return nil
}

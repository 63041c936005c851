package qnamaker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

const (
	authoringPath         = "/qnamaker/v4.0"
	subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
	noMatchID             = -1
)

// ClientConfig binds a client to one language's QnA Maker resource.
type ClientConfig struct {
	LanguageCode    string
	SubscriptionKey string
	// Endpoint is the authoring endpoint, e.g. https://westus.api.cognitive.microsoft.com.
	Endpoint string
	// HostURL is the runtime host, e.g. https://contoso-qna.azurewebsites.net.
	HostURL        string
	ScoreThreshold float64
	Timeout        time.Duration
}

// Client talks to the QnA Maker v4.0 REST API for a single language.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	logger     logger.Interface
}

var _ knowledgebase.Client = (*Client)(nil)

func NewClient(cfg ClientConfig, logger logger.Interface) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	cfg.HostURL = strings.TrimRight(cfg.HostURL, "/")
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *Client) LanguageCode() string {
	return c.config.LanguageCode
}

type knowledgeBaseDTO struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	HostName               string `json:"hostName"`
	LastChangedTimestamp   string `json:"lastChangedTimestamp"`
	LastPublishedTimestamp string `json:"lastPublishedTimestamp"`
}

type qnaDocumentsDTO struct {
	QnADocuments []knowledgebase.QnADocument `json:"qnaDocuments"`
}

type errorResponseDTO struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GetKnowledgeBase fetches the knowledge base details.
func (c *Client) GetKnowledgeBase(ctx context.Context, kbID string) (*knowledgebase.Details, error) {
	var dto knowledgeBaseDTO
	if err := c.authoring(ctx, "get knowledge base", http.MethodGet, "/knowledgebases/"+url.PathEscape(kbID), nil, &dto); err != nil {
		return nil, err
	}
	return &knowledgebase.Details{
		ID:                     dto.ID,
		Name:                   dto.Name,
		HostName:               dto.HostName,
		LastChangedTimestamp:   parseTimestamp(dto.LastChangedTimestamp),
		LastPublishedTimestamp: parseTimestamp(dto.LastPublishedTimestamp),
	}, nil
}

func (c *Client) HasPendingChanges(ctx context.Context, kbID string) (bool, error) {
	details, err := c.GetKnowledgeBase(ctx, kbID)
	if err != nil {
		return false, err
	}
	return details.HasPendingChanges(), nil
}

// Publish pushes the test index to production.
func (c *Client) Publish(ctx context.Context, kbID string) error {
	return c.authoring(ctx, "publish", http.MethodPost, "/knowledgebases/"+url.PathEscape(kbID), nil, nil)
}

// Download returns every QnA pair of the published knowledge base.
func (c *Client) Download(ctx context.Context, kbID string) ([]knowledgebase.QnADocument, error) {
	var dto qnaDocumentsDTO
	if err := c.authoring(ctx, "download", http.MethodGet, "/knowledgebases/"+url.PathEscape(kbID)+"/Prod/qna", nil, &dto); err != nil {
		return nil, err
	}
	if dto.QnADocuments == nil {
		return []knowledgebase.QnADocument{}, nil
	}
	return dto.QnADocuments, nil
}

type qnaAddDTO struct {
	Answer    string                       `json:"answer"`
	Questions []string                     `json:"questions"`
	Metadata  []knowledgebase.MetadataPair `json:"metadata,omitempty"`
}

type qnaUpdateDTO struct {
	ID        int    `json:"id"`
	Answer    string `json:"answer"`
	Questions *struct {
		Add []string `json:"add"`
	} `json:"questions,omitempty"`
	Metadata *struct {
		Add []knowledgebase.MetadataPair `json:"add"`
	} `json:"metadata,omitempty"`
}

type updateKnowledgeBaseDTO struct {
	Add *struct {
		QnAList []qnaAddDTO `json:"qnaList"`
	} `json:"add,omitempty"`
	Update *struct {
		QnAList []qnaUpdateDTO `json:"qnaList"`
	} `json:"update,omitempty"`
}

// AddQnA adds a new pair to the test index. The service applies it asynchronously.
func (c *Client) AddQnA(ctx context.Context, kbID, question, answer string, metadata []knowledgebase.MetadataPair) error {
	body := updateKnowledgeBaseDTO{Add: &struct {
		QnAList []qnaAddDTO `json:"qnaList"`
	}{QnAList: []qnaAddDTO{{Answer: answer, Questions: []string{question}, Metadata: metadata}}}}
	return c.authoring(ctx, "add qna", http.MethodPatch, "/knowledgebases/"+url.PathEscape(kbID), body, nil)
}

// UpdateQnA replaces the answer of an existing pair and adds question as an alternate phrasing.
func (c *Client) UpdateQnA(ctx context.Context, kbID string, qnaID int, question, answer string, metadata []knowledgebase.MetadataPair) error {
	update := qnaUpdateDTO{ID: qnaID, Answer: answer}
	if strings.TrimSpace(question) != "" {
		update.Questions = &struct {
			Add []string `json:"add"`
		}{Add: []string{question}}
	}
	if len(metadata) > 0 {
		update.Metadata = &struct {
			Add []knowledgebase.MetadataPair `json:"add"`
		}{Add: metadata}
	}
	body := updateKnowledgeBaseDTO{Update: &struct {
		QnAList []qnaUpdateDTO `json:"qnaList"`
	}{QnAList: []qnaUpdateDTO{update}}}
	return c.authoring(ctx, "update qna", http.MethodPatch, "/knowledgebases/"+url.PathEscape(kbID), body, nil)
}

type generateAnswerRequest struct {
	Question       string  `json:"question"`
	Top            int     `json:"top"`
	ScoreThreshold float64 `json:"scoreThreshold,omitempty"`
}

type generateAnswerResponse struct {
	Answers []struct {
		ID        int                          `json:"id"`
		Answer    string                       `json:"answer"`
		Score     float64                      `json:"score"`
		Questions []string                     `json:"questions"`
		Source    string                       `json:"source"`
		Metadata  []knowledgebase.MetadataPair `json:"metadata"`
	} `json:"answers"`
}

// GenerateAnswer queries the runtime endpoint. It returns (nil, nil) when
// the knowledge base has no match.
func (c *Client) GenerateAnswer(ctx context.Context, kbID, endpointKey, question string) (*knowledgebase.Answer, error) {
	endpoint := fmt.Sprintf("%s/qnamaker/knowledgebases/%s/generateAnswer", c.config.HostURL, url.PathEscape(kbID))
	req := generateAnswerRequest{Question: question, Top: 1, ScoreThreshold: c.config.ScoreThreshold * 100}

	var resp generateAnswerResponse
	headers := map[string]string{"Authorization": "EndpointKey " + endpointKey}
	if err := c.do(ctx, "generate answer", http.MethodPost, endpoint, headers, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Answers) == 0 || resp.Answers[0].ID == noMatchID {
		return nil, nil
	}

	top := resp.Answers[0]
	return &knowledgebase.Answer{
		ID:        top.ID,
		Answer:    top.Answer,
		Score:     top.Score,
		Questions: top.Questions,
		Source:    top.Source,
		Metadata:  top.Metadata,
	}, nil
}

func (c *Client) authoring(ctx context.Context, op, method, path string, body, out any) error {
	headers := map[string]string{subscriptionKeyHeader: c.config.SubscriptionKey}
	return c.do(ctx, op, method, c.config.Endpoint+authoringPath+path, headers, body, out)
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, headers map[string]string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &KnowledgeBaseError{Operation: op, Message: err.Error(), cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		kbErr := &KnowledgeBaseError{Operation: op, StatusCode: resp.StatusCode, Message: resp.Status}
		var dto errorResponseDTO
		if raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); readErr == nil && json.Unmarshal(raw, &dto) == nil {
			if dto.Error.Code != "" {
				kbErr.Code = dto.Error.Code
			}
			if dto.Error.Message != "" {
				kbErr.Message = dto.Error.Message
			}
		}
		c.logger.Warnw("qnamaker request failed",
			"operation", op,
			"language", c.config.LanguageCode,
			"status", resp.StatusCode,
			"code", kbErr.Code,
		)
		return kbErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &KnowledgeBaseError{Operation: op, StatusCode: resp.StatusCode, Message: "invalid response body", cause: err}
	}
	return nil
}

// parseTimestamp returns the zero time for empty or unparsable values.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

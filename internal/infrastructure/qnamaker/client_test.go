package qnamaker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqplusplus/faqplusplus/internal/domain/knowledgebase"
	"github.com/faqplusplus/faqplusplus/internal/shared/errors"
	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{
		LanguageCode:    "en",
		SubscriptionKey: "sub-key",
		Endpoint:        srv.URL + "/",
		HostURL:         srv.URL,
		ScoreThreshold:  0.5,
	}, logger.NewNop())
}

func TestClient_GetKnowledgeBase(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/qnamaker/v4.0/knowledgebases/kb-1", r.URL.Path)
		assert.Equal(t, "sub-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		_, _ = io.WriteString(w, `{"id":"kb-1","name":"FAQ","hostName":"https://faq.azurewebsites.net",
			"lastChangedTimestamp":"2024-03-02T10:00:00Z","lastPublishedTimestamp":"2024-03-01T10:00:00Z"}`)
	})

	details, err := client.GetKnowledgeBase(context.Background(), "kb-1")
	require.NoError(t, err)
	assert.Equal(t, "FAQ", details.Name)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC), details.LastChangedTimestamp)
	assert.True(t, details.HasPendingChanges())
}

func TestClient_HasPendingChanges(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"changed after publish", `{"lastChangedTimestamp":"2024-03-02T10:00:00Z","lastPublishedTimestamp":"2024-03-01T10:00:00Z"}`, true},
		{"published after change", `{"lastChangedTimestamp":"2024-03-01T10:00:00Z","lastPublishedTimestamp":"2024-03-02T10:00:00Z"}`, false},
		{"never published", `{"lastChangedTimestamp":"2024-03-01T10:00:00Z"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			pending, err := client.HasPendingChanges(context.Background(), "kb-1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, pending)
		})
	}
}

func TestClient_PublishAndDownload(t *testing.T) {
	var published bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/qnamaker/v4.0/knowledgebases/kb-1":
			published = true
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet && r.URL.Path == "/qnamaker/v4.0/knowledgebases/kb-1/Prod/qna":
			_, _ = io.WriteString(w, `{"qnaDocuments":[{"id":7,"answer":"Use the portal","source":"Editorial",
				"questions":["reset password"],"metadata":[{"name":"createdat","value":"638000000000000000"}]}]}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	ctx := context.Background()
	require.NoError(t, client.Publish(ctx, "kb-1"))
	assert.True(t, published)

	docs, err := client.Download(ctx, "kb-1")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, 7, docs[0].ID)
	assert.Equal(t, []string{"reset password"}, docs[0].Questions)
	assert.Equal(t, "createdat", docs[0].Metadata[0].Name)
}

func TestClient_DownloadEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"qnaDocuments":null}`)
	})

	docs, err := client.Download(context.Background(), "kb-1")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestClient_AddAndUpdateQnA(t *testing.T) {
	var bodies []map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		bodies = append(bodies, body)
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, `{"operationState":"NotStarted","operationId":"op-1"}`)
	})

	ctx := context.Background()
	meta := []knowledgebase.MetadataPair{{Name: "ticketid", Value: "10000"}}
	require.NoError(t, client.AddQnA(ctx, "kb-1", "reset password", "Use the portal", meta))
	require.NoError(t, client.UpdateQnA(ctx, "kb-1", 7, "reset pwd", "Use the new portal", nil))

	require.Len(t, bodies, 2)
	add := bodies[0]["add"].(map[string]any)["qnaList"].([]any)[0].(map[string]any)
	assert.Equal(t, "Use the portal", add["answer"])
	assert.Equal(t, []any{"reset password"}, add["questions"])
	assert.NotContains(t, bodies[0], "update")

	update := bodies[1]["update"].(map[string]any)["qnaList"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(7), update["id"])
	assert.Equal(t, "Use the new portal", update["answer"])
	assert.Equal(t, []any{"reset pwd"}, update["questions"].(map[string]any)["add"])
	assert.NotContains(t, update, "metadata")
}

func TestClient_GenerateAnswer(t *testing.T) {
	t.Run("returns top answer", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/qnamaker/knowledgebases/kb-1/generateAnswer", r.URL.Path)
			assert.Equal(t, "EndpointKey endpoint-key", r.Header.Get("Authorization"))
			var req generateAnswerRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "how do I reset my password", req.Question)
			assert.Equal(t, 1, req.Top)
			_, _ = io.WriteString(w, `{"answers":[{"id":7,"answer":"Use the portal","score":87.5,"questions":["reset password"]}]}`)
		})

		answer, err := client.GenerateAnswer(context.Background(), "kb-1", "endpoint-key", "how do I reset my password")
		require.NoError(t, err)
		require.NotNil(t, answer)
		assert.Equal(t, "Use the portal", answer.Answer)
		assert.Equal(t, 87.5, answer.Score)
	})

	t.Run("no match returns nil", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"answers":[{"id":-1,"answer":"No good match found in KB.","score":0}]}`)
		})

		answer, err := client.GenerateAnswer(context.Background(), "kb-1", "endpoint-key", "weather")
		require.NoError(t, err)
		assert.Nil(t, answer)
	})
}

func TestClient_ErrorResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":"KbNotFound","message":"Knowledgebase not found"}}`)
	})

	_, err := client.GetKnowledgeBase(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, IsKnowledgeBaseError(err))
	assert.Equal(t, http.StatusNotFound, GetStatusCode(err))

	var kbErr *KnowledgeBaseError
	require.ErrorAs(t, err, &kbErr)
	assert.Equal(t, "KbNotFound", kbErr.Code)
	assert.Equal(t, "Knowledgebase not found", kbErr.Message)

	appErr := kbErr.AsAppError()
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
	assert.Equal(t, errors.ErrorTypeUpstream, appErr.Type)
	assert.Equal(t, "404", appErr.Details)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(ClientConfig{LanguageCode: "en", Endpoint: srv.URL}, logger.NewNop())

	err := client.Publish(context.Background(), "kb-1")
	require.Error(t, err)
	assert.True(t, IsKnowledgeBaseError(err))
	assert.Equal(t, 0, GetStatusCode(err))
}

package botframework

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqplusplus/faqplusplus/internal/shared/logger"
)

type fakeTokens struct {
	token       string
	invalidated int
}

func (f *fakeTokens) AccessToken(context.Context) (string, error) { return f.token, nil }
func (f *fakeTokens) Invalidate(context.Context) error {
	f.invalidated++
	return nil
}

func TestConnector_SendToConversation(t *testing.T) {
	var gotPath, gotAuth string
	var gotActivity Activity
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotActivity)
		_, _ = w.Write([]byte(`{"id":"activity-1"}`))
	}))
	defer srv.Close()

	c := NewConnector(&fakeTokens{token: "tok"}, 0, logger.NewNop())
	resp, err := c.SendToConversation(context.Background(), srv.URL+"/", "a:1;messageid=2", NewMessage("hi"))
	require.NoError(t, err)

	assert.Equal(t, "activity-1", resp.ID)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "/v3/conversations/a:1%3Bmessageid=2/activities", gotPath)
	assert.Equal(t, ActivityTypeMessage, gotActivity.Type)
	assert.Equal(t, "hi", gotActivity.Text)
}

func TestConnector_UpdateActivity(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewConnector(&fakeTokens{token: "tok"}, 0, logger.NewNop())
	require.NoError(t, c.UpdateActivity(context.Background(), srv.URL, "conv", "act", NewMessage("")))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/v3/conversations/conv/activities/act", gotPath)
}

func TestConnector_CreateConversation(t *testing.T) {
	var got ConversationParameters
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/conversations", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"id":"19:thread;messageid=9","activityId":"9"}`))
	}))
	defer srv.Close()

	c := NewConnector(&fakeTokens{token: "tok"}, 0, logger.NewNop())
	resp, err := c.CreateConversation(context.Background(), srv.URL, &ConversationParameters{
		IsGroup:     true,
		Activity:    NewMessage("card"),
		ChannelData: TeamsChannelData{Channel: &ChannelInfo{ID: "19:team"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "9", resp.ActivityID)
	assert.Equal(t, "19:thread;messageid=9", resp.ID)
	assert.True(t, got.IsGroup)
}

func TestConnector_GetMember(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/conversations/conv/members/29:user", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"29:user","name":"Alice","givenName":"Alice","userPrincipalName":"alice@contoso.com","aadObjectId":"oid-1"}`))
	}))
	defer srv.Close()

	c := NewConnector(&fakeTokens{token: "tok"}, 0, logger.NewNop())
	member, err := c.GetMember(context.Background(), srv.URL, "conv", "29:user")
	require.NoError(t, err)
	assert.Equal(t, "alice@contoso.com", member.UserPrincipalName)
	assert.Equal(t, "oid-1", member.AadObjectID)
}

func TestConnector_Errors(t *testing.T) {
	t.Run("unauthorized invalidates the token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"BadSyntax","message":"bad token"}}`))
		}))
		defer srv.Close()

		tokens := &fakeTokens{token: "stale"}
		c := NewConnector(tokens, 0, logger.NewNop())
		_, err := c.SendToConversation(context.Background(), srv.URL, "conv", NewMessage("x"))

		var ce *ConnectorError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, http.StatusUnauthorized, ce.StatusCode)
		assert.Equal(t, "BadSyntax", ce.Code)
		assert.Equal(t, "bad token", ce.Message)
		assert.Equal(t, 1, tokens.invalidated)
	})

	t.Run("not found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		c := NewConnector(&fakeTokens{token: "tok"}, 0, logger.NewNop())
		_, err := c.GetMember(context.Background(), srv.URL, "conv", "user")
		assert.True(t, IsNotFound(err))
	})
}

func TestActivityHelpers(t *testing.T) {
	raw := `{
		"type": "conversationUpdate",
		"localTimestamp": "2024-03-01T10:00:00.000+05:30",
		"recipient": {"id": "28:bot"},
		"conversation": {"id": "a:1", "conversationType": "personal"},
		"membersAdded": [{"id": "29:user"}, {"id": "28:bot"}],
		"channelData": {"team": {"id": "19:team"}, "tenant": {"id": "tenant"}}
	}`
	var a Activity
	require.NoError(t, json.Unmarshal([]byte(raw), &a))

	assert.True(t, a.BotAdded())
	assert.True(t, a.IsPersonal())
	assert.False(t, a.IsChannel())
	require.NotNil(t, a.LocalOffset())
	assert.Equal(t, "5h30m0s", a.LocalOffset().String())
	assert.Equal(t, "19:team", a.TeamsData().Team.ID)
}

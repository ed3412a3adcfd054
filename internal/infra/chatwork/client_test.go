package chatwork_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
	"github.com/KasumiMercury/primind-chat-reminder/internal/infra/chatwork"
)

type recordedRequest struct {
	method string
	path   string
	token  string
	body   url.Values
}

func newServer(t *testing.T, status int, response string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var recorded []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		form, _ := url.ParseQuery(string(raw))

		recorded = append(recorded, recordedRequest{
			method: r.Method,
			path:   r.URL.EscapedPath(),
			token:  r.Header.Get("X-ChatWorkToken"),
			body:   form,
		})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	return srv, &recorded
}

func TestSendMessageSuccess(t *testing.T) {
	tests := []struct {
		name         string
		defaultToken string
		callToken    string
		roomID       string
		text         string
		wantToken    string
		wantPath     string
	}{
		{
			name:         "uses the call token",
			defaultToken: "shared",
			callToken:    "own",
			roomID:       "123456",
			text:         "hello",
			wantToken:    "own",
			wantPath:     "/rooms/123456/messages",
		},
		{
			name:         "falls back to the shared token",
			defaultToken: "shared",
			roomID:       "123456",
			text:         "[info]a & b = c[/info]",
			wantToken:    "shared",
			wantPath:     "/rooms/123456/messages",
		},
		{
			name:         "room id is path escaped",
			defaultToken: "shared",
			roomID:       "12/34",
			text:         "x",
			wantToken:    "shared",
			wantPath:     "/rooms/12%2F34/messages",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, recorded := newServer(t, http.StatusOK, `{"message_id":"987"}`)
			client := chatwork.NewClient(chatwork.Config{BaseURL: srv.URL + "/", Token: tt.defaultToken})

			id, err := client.SendMessage(context.Background(), tt.callToken, tt.roomID, tt.text)

			require.NoError(t, err)
			assert.Equal(t, "987", id)
			require.Len(t, *recorded, 1)

			req := (*recorded)[0]
			assert.Equal(t, http.MethodPost, req.method)
			assert.Equal(t, tt.wantPath, req.path)
			assert.Equal(t, tt.wantToken, req.token)
			assert.Equal(t, tt.text, req.body.Get("body"))
		})
	}
}

func TestSendMessageError(t *testing.T) {
	t.Run("non 2xx carries the upstream payload", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusUnauthorized, `{"errors":["Invalid API token"]}`)
		client := chatwork.NewClient(chatwork.Config{BaseURL: srv.URL, Token: "bad"})

		_, err := client.SendMessage(context.Background(), "", "1", "x")

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUpstreamFailure)

		var apiErr *chatwork.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "Invalid API token")
	})

	t.Run("missing token never reaches the server", func(t *testing.T) {
		srv, recorded := newServer(t, http.StatusOK, `{}`)
		client := chatwork.NewClient(chatwork.Config{BaseURL: srv.URL})

		_, err := client.SendMessage(context.Background(), "", "1", "x")

		assert.ErrorIs(t, err, domain.ErrMissingChatToken)
		assert.Empty(t, *recorded)
	})

	t.Run("unreachable server", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusOK, `{}`)
		srv.Close()
		client := chatwork.NewClient(chatwork.Config{BaseURL: srv.URL, Token: "t"})

		_, err := client.SendMessage(context.Background(), "", "1", "x")

		assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	})
}

func TestListRoomsSuccess(t *testing.T) {
	t.Run("maps rooms", func(t *testing.T) {
		srv, recorded := newServer(t, http.StatusOK,
			`[{"room_id":123,"name":"Group Chat","type":"group","icon_path":"https://example.com/ico.png"},{"room_id":456,"name":"My Chat","type":"my"}]`)
		client := chatwork.NewClient(chatwork.Config{BaseURL: srv.URL})

		rooms, err := client.ListRooms(context.Background(), "header-token")

		require.NoError(t, err)
		require.Len(t, rooms, 2)
		assert.Equal(t, domain.Room{ID: 123, Name: "Group Chat", Type: "group", IconPath: "https://example.com/ico.png"}, rooms[0])
		assert.Equal(t, int64(456), rooms[1].ID)

		require.Len(t, *recorded, 1)
		assert.Equal(t, http.MethodGet, (*recorded)[0].method)
		assert.Equal(t, "/rooms", (*recorded)[0].path)
		assert.Equal(t, "header-token", (*recorded)[0].token)
	})

	t.Run("no content is an empty list", func(t *testing.T) {
		srv, _ := newServer(t, http.StatusNoContent, ``)
		client := chatwork.NewClient(chatwork.Config{BaseURL: srv.URL, Token: "t"})

		rooms, err := client.ListRooms(context.Background(), "")

		require.NoError(t, err)
		assert.Empty(t, rooms)
	})
}

func TestListRoomsError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		response string
	}{
		{name: "server error", status: http.StatusInternalServerError, response: `oops`},
		{name: "malformed body", status: http.StatusOK, response: `{"not":"a list"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.response)
			client := chatwork.NewClient(chatwork.Config{BaseURL: srv.URL, Token: "t"})

			rooms, err := client.ListRooms(context.Background(), "")

			assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
			assert.Nil(t, rooms)
		})
	}
}

func TestClientRateLimitError(t *testing.T) {
	srv, recorded := newServer(t, http.StatusOK, `{"message_id":"1"}`)
	client := chatwork.NewClient(chatwork.Config{BaseURL: srv.URL, Token: "t", RatePerSecond: 0.001, Burst: 1})

	_, err := client.SendMessage(context.Background(), "", "1", "first")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = client.SendMessage(ctx, "", "1", "second")

	assert.Error(t, err)
	assert.Len(t, *recorded, 1)
}

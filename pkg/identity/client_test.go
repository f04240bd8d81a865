package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	require.Error(t, err)
}

func TestClientSignUp(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts:signUp", r.URL.Path)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "asha@school.example", body["email"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"localId": "uid-1",
			"email":   "asha@school.example",
			"idToken": "token-1",
		})
	})

	account, err := client.SignUp(context.Background(), "asha@school.example", "secret123")
	require.NoError(t, err)
	require.Equal(t, "uid-1", account.UID)
	require.Equal(t, "token-1", account.IDToken)
}

func TestClientSignInResolvesVerification(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/accounts:signInWithPassword":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"localId": "uid-1",
				"email":   "asha@school.example",
				"idToken": "token-1",
			})
		case "/accounts:lookup":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"users": []map[string]interface{}{{"emailVerified": true}},
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	account, err := client.SignIn(context.Background(), "asha@school.example", "secret123")
	require.NoError(t, err)
	require.True(t, account.EmailVerified)
}

func TestClientSignInWithIDPAlwaysVerified(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/accounts:signInWithIdp", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"localId":  "uid-9",
			"email":    "meera@school.example",
			"fullName": "Meera Nair",
		})
	})

	account, err := client.SignInWithIDP(context.Background(), "idp-token")
	require.NoError(t, err)
	require.True(t, account.EmailVerified)
	require.Equal(t, "Meera Nair", account.DisplayName)
}

func TestClientDecodesProviderErrors(t *testing.T) {
	cases := []struct {
		name        string
		message     string
		wantCode    string
		wantMessage string
	}{
		{"exists", "EMAIL_EXISTS", CodeEmailExists, "User already exists. Sign in?"},
		{"trailing detail", "INVALID_PASSWORD : The password is invalid.", CodeInvalidPassword, "Password or Email Incorrect"},
		{"unknown", "QUOTA_EXCEEDED", "QUOTA_EXCEEDED", "Authentication failed. Please try again."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error": map[string]interface{}{"message": tc.message},
				})
			})

			_, err := client.SignUp(context.Background(), "asha@school.example", "secret123")
			var idErr *Error
			require.ErrorAs(t, err, &idErr)
			require.Equal(t, tc.wantCode, idErr.Code)
			require.Equal(t, tc.wantMessage, idErr.UserMessage())
		})
	}
}

func TestClientErrorWithoutBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.SendPasswordReset(context.Background(), "asha@school.example")
	var idErr *Error
	require.ErrorAs(t, err, &idErr)
	require.Equal(t, "HTTP_500", idErr.Code)
}

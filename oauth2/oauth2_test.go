package oauth2

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anvena/launchpad/config"
)

func githubStubServer(t *testing.T, userJSON, emailsJSON string) (*httptest.Server, config.OAuth2Provider) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, userJSON)
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, emailsJSON)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	p := config.OAuth2Provider{
		Name:          config.OAuth2ProviderGitHub,
		UserInfoURL:   server.URL + "/user",
		UserEmailsURL: server.URL + "/user/emails",
	}
	return server, p
}

func TestFetchGithubUserPublicEmail(t *testing.T) {
	_, p := githubStubServer(t,
		`{"id": 583231, "login": "octocat", "name": "The Octocat", "avatar_url": "https://example.com/a.png", "email": "octo@example.com"}`,
		`[]`)

	user, err := FetchGithubUser(context.Background(), http.DefaultClient, p)
	if err != nil {
		t.Fatalf("FetchGithubUser() error = %v", err)
	}
	if user.ProviderID != 583231 || user.Email != "octo@example.com" {
		t.Errorf("FetchGithubUser() = %+v", user)
	}
	if user.Name != "The Octocat" || user.AvatarURL != "https://example.com/a.png" {
		t.Errorf("profile fields = %+v", user)
	}
}

func TestFetchGithubUserPrivateEmail(t *testing.T) {
	testCases := []struct {
		name       string
		emailsJSON string
		wantEmail  string
	}{
		{
			name:       "primary picked",
			emailsJSON: `[{"email": "other@example.com", "primary": false}, {"email": "main@example.com", "primary": true}]`,
			wantEmail:  "main@example.com",
		},
		{
			name:       "first as fallback",
			emailsJSON: `[{"email": "only@example.com", "primary": false}]`,
			wantEmail:  "only@example.com",
		},
		{
			name:       "no addresses",
			emailsJSON: `[]`,
			wantEmail:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, p := githubStubServer(t,
				`{"id": 42, "login": "octocat", "email": ""}`,
				tc.emailsJSON)

			user, err := FetchGithubUser(context.Background(), http.DefaultClient, p)
			if err != nil {
				t.Fatalf("FetchGithubUser() error = %v", err)
			}
			if user.Email != tc.wantEmail {
				t.Errorf("email = %q, want %q", user.Email, tc.wantEmail)
			}
			// Name falls back to the login when the profile has none.
			if user.Name != "octocat" {
				t.Errorf("name = %q, want octocat", user.Name)
			}
		})
	}
}

func TestFetchGithubUserErrors(t *testing.T) {
	t.Run("missing id", func(t *testing.T) {
		_, p := githubStubServer(t, `{"login": "nobody"}`, `[]`)
		if _, err := FetchGithubUser(context.Background(), http.DefaultClient, p); err == nil {
			t.Error("FetchGithubUser() error = nil, want missing id failure")
		}
	})

	t.Run("provider error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		p := config.OAuth2Provider{UserInfoURL: server.URL + "/user"}
		if _, err := FetchGithubUser(context.Background(), http.DefaultClient, p); err == nil {
			t.Error("FetchGithubUser() error = nil, want status failure")
		}
	})
}

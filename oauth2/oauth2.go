package oauth2

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/anvena/launchpad/config"
	"golang.org/x/oauth2"
)

// AuthUser is the provider-independent shape of an authenticated profile.
type AuthUser struct {
	ProviderID int64  `json:"provider_id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	AvatarURL  string `json:"avatar_url"`
}

// NewConfig builds the golang.org/x/oauth2 config for a provider entry.
func NewConfig(p config.OAuth2Provider, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  redirectURL,
		Scopes:       p.Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  p.AuthURL,
			TokenURL: p.TokenURL,
		},
	}
}

// FetchGithubUser retrieves the authenticated GitHub profile. GitHub hides
// the email on /user when the address is private, so a second call to the
// emails endpoint picks the primary verified address.
func FetchGithubUser(ctx context.Context, client *http.Client, p config.OAuth2Provider) (*AuthUser, error) {
	raw, err := getJSON(ctx, client, p.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}

	extracted := struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
		Email     string `json:"email"`
	}{}
	if err := json.Unmarshal(raw, &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}
	if extracted.ID == 0 {
		return nil, fmt.Errorf("provider returned no user id")
	}

	user := &AuthUser{
		ProviderID: extracted.ID,
		Username:   extracted.Login,
		Name:       extracted.Name,
		Email:      extracted.Email,
		AvatarURL:  extracted.AvatarURL,
	}
	if user.Name == "" {
		user.Name = user.Username
	}

	if user.Email == "" && p.UserEmailsURL != "" {
		email, err := fetchGithubPrimaryEmail(ctx, client, p.UserEmailsURL)
		if err != nil {
			return nil, err
		}
		user.Email = email
	}

	return user, nil
}

// fetchGithubPrimaryEmail returns the primary address, falling back to the
// first listed one. An account without any address yields "".
func fetchGithubPrimaryEmail(ctx context.Context, client *http.Client, emailsURL string) (string, error) {
	raw, err := getJSON(ctx, client, emailsURL)
	if err != nil {
		return "", fmt.Errorf("failed to fetch user emails: %w", err)
	}

	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := json.Unmarshal(raw, &emails); err != nil {
		return "", fmt.Errorf("failed to parse user emails: %w", err)
	}
	if len(emails) == 0 {
		return "", nil
	}

	for _, e := range emails {
		if e.Primary {
			return e.Email, nil
		}
	}
	return emails[0].Email, nil
}

func getJSON(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

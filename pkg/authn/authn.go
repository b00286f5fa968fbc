// Package authn implements the GitHub OAuth sign-in flow that produces the
// identity cached by the profile store.
package authn

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const userEndpoint = "https://api.github.com/user"

type Service struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       []string
}

// UserInfo is the provider's view of the signed-in user.
type UserInfo struct {
	ID       string
	Username string
	Email    string
}

func NewService(clientID, clientSecret, redirectURI string, scopes []string) *Service {
	return &Service{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		scopes:       scopes,
	}
}

// NewState returns a fresh opaque state value for one authorization round
// trip.
func (a *Service) NewState() string {
	return uuid.NewString()
}

func (a *Service) AuthURL(state string) string {
	return a.config().AuthCodeURL(state)
}

func (a *Service) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := a.config().Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	return token, nil
}

// FetchUser resolves the token owner via the provider's user endpoint.
func (a *Service) FetchUser(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	client := a.config().Client(ctx, token)

	resp, err := client.Get(userEndpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch user (status: %d): %s", resp.StatusCode, string(body))
	}

	var payload struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}

	return &UserInfo{
		ID:       strconv.FormatInt(payload.ID, 10),
		Username: payload.Login,
		Email:    payload.Email,
	}, nil
}

func (a *Service) config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.clientID,
		ClientSecret: a.clientSecret,
		RedirectURL:  a.redirectURI,
		Scopes:       a.scopes,
		Endpoint:     github.Endpoint,
	}
}

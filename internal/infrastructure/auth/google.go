package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// ErrGoogleTokenInvalid is returned when Google rejects the ID token
var ErrGoogleTokenInvalid = errors.New("google id token is invalid")

// GoogleIdentity is the verified identity carried by a Google ID token
type GoogleIdentity struct {
	GoogleID string
	Email    string
	Name     string
}

// GoogleVerifier resolves a Google ID token to a verified identity
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// GoogleTokenVerifier verifies ID tokens against Google's tokeninfo endpoint.
// The audience must match the configured OAuth client ID.
type GoogleTokenVerifier struct {
	clientID   string
	httpClient *http.Client
	endpoint   string
}

// NewGoogleTokenVerifier creates a verifier for the given OAuth client ID
func NewGoogleTokenVerifier(clientID string) *GoogleTokenVerifier {
	return &GoogleTokenVerifier{
		clientID:   clientID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   googleTokenInfoURL,
	}
}

type tokenInfoResponse struct {
	Sub           string `json:"sub"`
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Exp           string `json:"exp"`
}

// Verify calls the tokeninfo endpoint and checks audience and email claims
func (v *GoogleTokenVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if idToken == "" {
		return nil, ErrGoogleTokenInvalid
	}

	reqURL := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrGoogleTokenInvalid
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}

	if info.Sub == "" || info.Email == "" {
		return nil, ErrGoogleTokenInvalid
	}
	if v.clientID != "" && info.Aud != v.clientID {
		return nil, ErrGoogleTokenInvalid
	}
	if info.EmailVerified != "true" {
		return nil, ErrGoogleTokenInvalid
	}

	return &GoogleIdentity{
		GoogleID: info.Sub,
		Email:    info.Email,
		Name:     info.Name,
	}, nil
}

var _ GoogleVerifier = (*GoogleTokenVerifier)(nil)

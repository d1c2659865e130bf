package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// OAuth endpoints and the public client id used by Anthropic's CLI tools.
const (
	defaultTokenURL   = "https://console.anthropic.com/v1/oauth/token"
	defaultProfileURL = "https://api.anthropic.com/api/oauth/profile"
	defaultProbeURL   = "https://api.anthropic.com/v1/messages?beta=true"
	oauthClientID     = "9d1c250a-e61b-44d9-88ed-5944d1962f5e"

	anthropicVersion = "2023-06-01"
	oauthBeta        = "oauth-2025-04-20,interleaved-thinking-2025-05-14"

	// The probe request never completes a generation (max_tokens 1 against a
	// cheap model); it exists to carry back the rate-limit headers.
	probeModel     = "claude-haiku-4-5-20251001"
	probeUserAgent = "claude-cli/2.1.3 (external, cli)"
)

// Client calls the OAuth endpoints the monitor depends on. URL fields exist
// so tests can point it at a local server.
type Client struct {
	HTTPClient *http.Client
	TokenURL   string
	ProfileURL string
	ProbeURL   string
}

// NewClient returns a Client against the production endpoints.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		TokenURL:   defaultTokenURL,
		ProfileURL: defaultProfileURL,
		ProbeURL:   defaultProbeURL,
	}
}

// TokenResponse is the oauth token endpoint's reply.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// RefreshToken exchanges a refresh token for a fresh access token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	body, err := json.Marshal(map[string]string{
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
		"client_id":     oauthClientID,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.TokenURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("token refresh failed: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}

	var tok TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token refresh returned no access token")
	}
	return &tok, nil
}

// Profile describes the authenticated account and organization.
type Profile struct {
	Account struct {
		UUID  string `json:"uuid"`
		Email string `json:"email"`
	} `json:"account"`
	Organization struct {
		Name             string `json:"name"`
		OrganizationType string `json:"organization_type"`
		RateLimitTier    string `json:"rate_limit_tier"`
	} `json:"organization"`
}

var tierMultiplier = regexp.MustCompile(`(\d+x)$`)

// PlanLabel renders the organization as a short plan name like "Max 5x".
// Returns "" when the profile carries no organization type.
func (p *Profile) PlanLabel() string {
	return planLabel(p.Organization.OrganizationType, p.Organization.RateLimitTier)
}

func planLabel(orgType, tier string) string {
	if orgType == "" {
		return ""
	}
	var base string
	switch orgType {
	case "claude_max":
		base = "Max"
	case "claude_pro":
		base = "Pro"
	case "claude_enterprise":
		base = "Enterprise"
	case "claude_team":
		base = "Team"
	default:
		base = titleWord(strings.TrimPrefix(orgType, "claude_"))
	}
	if base == "" {
		return "Free"
	}
	if m := tierMultiplier.FindString(tier); m != "" {
		return base + " " + m
	}
	return base
}

func titleWord(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FetchProfile loads account metadata for the access token.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ProfileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile request failed: %s", resp.Status)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	return &p, nil
}

// WindowUsage is one rate-limit window parsed from response headers.
type WindowUsage struct {
	Status      string
	Utilization float64 // fraction 0.0-1.0
	ResetsAt    time.Time
}

// Percent returns utilization as an integer percentage.
func (w WindowUsage) Percent() int {
	return int(w.Utilization * 100)
}

// Usage is the rate-limit picture from one probe.
type Usage struct {
	Status              string // unified status, "allowed" when everything is fine
	RepresentativeClaim string // which window binds, e.g. "five_hour"
	FallbackPercentage  float64
	Session5h           WindowUsage
	Window7d            WindowUsage
	CheckedAt           time.Time
}

// Session5hActive reports whether the 5-hour window is the binding limit. The
// bar shows 7-day numbers and an inactive style otherwise.
func (u *Usage) Session5hActive() bool {
	return u.RepresentativeClaim == "five_hour"
}

// Allowed reports whether every window still admits requests.
func (u *Usage) Allowed() bool {
	return u.Status == "allowed" && u.Session5h.Status == "allowed" && u.Window7d.Status == "allowed"
}

// ProbeUsage sends a minimal messages request purely to read the unified
// rate-limit headers. The headers are present even on error responses, so
// every status code except auth failures yields a usable result.
func (c *Client) ProbeUsage(ctx context.Context, accessToken string) (*Usage, error) {
	body, err := json.Marshal(map[string]any{
		"model":      probeModel,
		"max_tokens": 1,
		"messages":   []map[string]string{{"role": "user", "content": "quota"}},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ProbeURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("anthropic-beta", oauthBeta)
	req.Header.Set("anthropic-dangerous-direct-browser-access", "true")
	req.Header.Set("x-app", "cli")
	req.Header.Set("User-Agent", probeUserAgent)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probing usage: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("usage probe rejected: %s", resp.Status)
	}

	usage := parseUsageHeaders(resp.Header)
	if usage.Status == "" && usage.Session5h.ResetsAt.IsZero() {
		return nil, fmt.Errorf("no rate-limit headers in response (%s)", resp.Status)
	}
	usage.CheckedAt = time.Now()
	return usage, nil
}

func parseUsageHeaders(h http.Header) *Usage {
	u := &Usage{
		Status:              h.Get("anthropic-ratelimit-unified-status"),
		RepresentativeClaim: h.Get("anthropic-ratelimit-unified-representative-claim"),
		FallbackPercentage:  parseFloatHeader(h, "anthropic-ratelimit-unified-fallback-percentage"),
	}
	u.Session5h = parseWindowHeaders(h, "5h")
	u.Window7d = parseWindowHeaders(h, "7d")
	return u
}

func parseWindowHeaders(h http.Header, window string) WindowUsage {
	prefix := "anthropic-ratelimit-unified-" + window
	w := WindowUsage{
		Status:      h.Get(prefix + "-status"),
		Utilization: parseFloatHeader(h, prefix+"-utilization"),
	}
	if raw := h.Get(prefix + "-reset"); raw != "" {
		if sec, err := strconv.ParseInt(raw, 10, 64); err == nil {
			w.ResetsAt = time.Unix(sec, 0)
		} else if t, err := time.Parse(time.RFC3339, raw); err == nil {
			w.ResetsAt = t
		}
	}
	return w
}

func parseFloatHeader(h http.Header, key string) float64 {
	raw := h.Get(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

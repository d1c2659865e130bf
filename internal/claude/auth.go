// Package claude probes Anthropic's OAuth rate-limit surface and renders a
// usage monitor for waybar.
package claude

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Source identifies where OAuth credentials come from.
type Source string

const (
	SourceAuto     Source = "auto"
	SourceClaude   Source = "claude"   // Claude Code's credential store
	SourceOpencode Source = "opencode" // opencode's auth store
)

// ErrNoCredentials is returned when no usable credential file exists.
var ErrNoCredentials = errors.New("no oauth credentials found")

// tokenRefreshMargin renews tokens this long before they expire.
const tokenRefreshMargin = 300 * time.Second

// Credentials is a normalized OAuth credential set plus enough provenance to
// write refreshed tokens back to the right file in the right shape.
type Credentials struct {
	Source       Source
	Path         string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	ModTime      time.Time
}

// claudeCredsFile is ~/.claude/.credentials.json.
type claudeCredsFile struct {
	ClaudeAiOauth struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresAt    int64  `json:"expiresAt"` // unix ms
	} `json:"claudeAiOauth"`
}

// opencodeAuthFile is ~/.local/share/opencode/auth.json.
type opencodeAuthFile struct {
	Anthropic struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
		Expires int64  `json:"expires"` // unix ms
	} `json:"anthropic"`
}

func claudeCredsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude", ".credentials.json"), nil
}

func opencodeAuthPath() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "opencode", "auth.json"), nil
}

func loadClaude() (*Credentials, error) {
	path, err := claudeCredsPath()
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f claudeCredsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if f.ClaudeAiOauth.AccessToken == "" {
		return nil, fmt.Errorf("%s has no oauth tokens", path)
	}
	return &Credentials{
		Source:       SourceClaude,
		Path:         path,
		AccessToken:  f.ClaudeAiOauth.AccessToken,
		RefreshToken: f.ClaudeAiOauth.RefreshToken,
		ExpiresAt:    time.UnixMilli(f.ClaudeAiOauth.ExpiresAt),
		ModTime:      info.ModTime(),
	}, nil
}

func loadOpencode() (*Credentials, error) {
	path, err := opencodeAuthPath()
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f opencodeAuthFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if f.Anthropic.Access == "" {
		return nil, fmt.Errorf("%s has no anthropic tokens", path)
	}
	return &Credentials{
		Source:       SourceOpencode,
		Path:         path,
		AccessToken:  f.Anthropic.Access,
		RefreshToken: f.Anthropic.Refresh,
		ExpiresAt:    time.UnixMilli(f.Anthropic.Expires),
		ModTime:      info.ModTime(),
	}, nil
}

// LoadCredentials reads the requested credential store. SourceAuto picks the
// most recently modified of the two.
func LoadCredentials(source Source) (*Credentials, error) {
	switch source {
	case SourceClaude:
		return loadClaude()
	case SourceOpencode:
		return loadOpencode()
	case SourceAuto, "":
		claude, claudeErr := loadClaude()
		opencode, opencodeErr := loadOpencode()
		switch {
		case claudeErr == nil && opencodeErr == nil:
			if opencode.ModTime.After(claude.ModTime) {
				return opencode, nil
			}
			return claude, nil
		case claudeErr == nil:
			return claude, nil
		case opencodeErr == nil:
			return opencode, nil
		default:
			return nil, ErrNoCredentials
		}
	default:
		return nil, fmt.Errorf("unknown credential source %q", source)
	}
}

// ResolveCredentials loads the preferred store, falling back to the other
// one when the preferred is unusable. The bool reports whether the fallback
// was taken.
func ResolveCredentials(prefer Source) (*Credentials, bool, error) {
	if prefer == SourceAuto || prefer == "" {
		creds, err := LoadCredentials(SourceAuto)
		return creds, false, err
	}
	creds, err := LoadCredentials(prefer)
	if err == nil {
		return creds, false, nil
	}
	other := SourceOpencode
	if prefer == SourceOpencode {
		other = SourceClaude
	}
	if creds, fallbackErr := LoadCredentials(other); fallbackErr == nil {
		return creds, true, nil
	}
	return nil, false, ErrNoCredentials
}

// ParseSource maps a config string onto a Source, treating "" as auto.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceAuto, "":
		return SourceAuto, nil
	case SourceClaude, "claude-code":
		return SourceClaude, nil
	case SourceOpencode:
		return SourceOpencode, nil
	default:
		return "", fmt.Errorf("unknown credential source %q", s)
	}
}

// NeedsRefresh reports whether the access token expires within the margin.
func (c *Credentials) NeedsRefresh(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt.Add(-tokenRefreshMargin))
}

// applyRefresh folds a token response into the credential set.
func (c *Credentials) applyRefresh(tok *TokenResponse, now time.Time) {
	c.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		c.RefreshToken = tok.RefreshToken
	}
	expiresIn := tok.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 28800
	}
	c.ExpiresAt = now.Add(time.Duration(expiresIn) * time.Second)
}

// writeBack updates the credential file in place, preserving every key the
// owning tool stores alongside the tokens.
func (c *Credentials) writeBack() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", c.Path, err)
	}

	switch c.Source {
	case SourceClaude:
		section, _ := doc["claudeAiOauth"].(map[string]any)
		if section == nil {
			section = make(map[string]any)
		}
		section["accessToken"] = c.AccessToken
		section["refreshToken"] = c.RefreshToken
		section["expiresAt"] = c.ExpiresAt.UnixMilli()
		doc["claudeAiOauth"] = section
	case SourceOpencode:
		section, _ := doc["anthropic"].(map[string]any)
		if section == nil {
			section = make(map[string]any)
		}
		section["access"] = c.AccessToken
		section["refresh"] = c.RefreshToken
		section["expires"] = c.ExpiresAt.UnixMilli()
		doc["anthropic"] = section
	default:
		return fmt.Errorf("cannot write back %q credentials", c.Source)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.Path), ".credentials-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(out); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmpName, c.Path); err != nil {
		return err
	}
	return nil
}

// RefreshIfNeeded renews the access token when it is about to expire and
// persists the new tokens to the credential file.
func (c *Credentials) RefreshIfNeeded(ctx context.Context, client *Client, now time.Time) (bool, error) {
	if !c.NeedsRefresh(now) {
		return false, nil
	}
	if c.RefreshToken == "" {
		return false, errors.New("access token expired and no refresh token available")
	}
	tok, err := client.RefreshToken(ctx, c.RefreshToken)
	if err != nil {
		return false, err
	}
	c.applyRefresh(tok, now)
	if err := c.writeBack(); err != nil {
		return true, fmt.Errorf("persisting refreshed tokens: %w", err)
	}
	return true, nil
}

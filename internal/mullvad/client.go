// Package mullvad reports VPN state for the bar by asking Mullvad's
// connection-check API whether the current exit IP is one of theirs.
package mullvad

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const requestTimeout = 6 * time.Second

// Connection is the answer from am.i.mullvad.net for one address family.
type Connection struct {
	IP           string `json:"ip"`
	Country      string `json:"country"`
	City         string `json:"city"`
	MullvadExit  bool   `json:"mullvad_exit_ip"`
	Hostname     string `json:"mullvad_exit_ip_hostname"`
	ServerType   string `json:"mullvad_server_type"`
	Organization string `json:"organization"`
}

// Report combines the IPv4 verdict with the optional IPv6 address.
type Report struct {
	Connection
	IPv6 string // empty when the network has no IPv6 route
}

// Client queries the Mullvad connection-check endpoints.
type Client struct {
	HTTP    *http.Client
	IPv4URL string
	IPv6URL string
}

// NewClient returns a client against the production endpoints.
func NewClient() *Client {
	return &Client{
		HTTP:    &http.Client{Timeout: requestTimeout},
		IPv4URL: "https://ipv4.am.i.mullvad.net/json",
		IPv6URL: "https://ipv6.am.i.mullvad.net/json",
	}
}

// Check asks both address families at once. The IPv4 answer decides the
// verdict; IPv6 is best effort since plenty of networks simply have none.
func (c *Client) Check(ctx context.Context) (*Report, error) {
	v6 := make(chan string, 1)
	go func() {
		conn, err := c.fetch(ctx, c.IPv6URL)
		if err != nil {
			v6 <- ""
			return
		}
		v6 <- conn.IP
	}()

	conn, err := c.fetch(ctx, c.IPv4URL)
	if err != nil {
		return nil, err
	}
	return &Report{Connection: *conn, IPv6: <-v6}, nil
}

func (c *Client) fetch(ctx context.Context, url string) (*Connection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("connection check: unexpected status %s", resp.Status)
	}
	var conn Connection
	if err := json.NewDecoder(resp.Body).Decode(&conn); err != nil {
		return nil, fmt.Errorf("connection check: %w", err)
	}
	return &conn, nil
}

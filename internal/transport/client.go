// Package transport sends client requests built by the ntpwire codec over
// UDP and hands arriving bytes back to it. The codec itself never touches
// the network or the wall clock; this package owns both, including
// stamping the destination timestamp on receipt.
package transport

import (
	"fmt"
	"net"
	"time"

	"github.com/beevik/ntp"

	"github.com/quartzlab/ntpwire/internal/config"
	"github.com/quartzlab/ntpwire/internal/logger"
	"github.com/quartzlab/ntpwire/pkg/ntpwire"
)

// Result is the outcome of a single query.
type Result struct {
	Server   string
	Packet   *ntpwire.Packet
	RTT      time.Duration
	Received time.Time
	Err      error

	// Crosscheck is set when verification against the reference client
	// was requested and succeeded.
	Crosscheck *Crosscheck
}

// Crosscheck compares our decode of a server against the beevik/ntp
// reference client's view of the same server.
type Crosscheck struct {
	RefStratum  uint8
	RefTime     time.Time
	RefKissCode string
	StratumOK   bool
	LeapOK      bool
	TimeDelta   time.Duration
}

// Agrees reports whether the reference client saw the same control fields
// and a transmit time within a second of ours. Pool hostnames can resolve
// to different members between the two queries, so disagreement is a
// warning, not proof of a codec bug.
func (c *Crosscheck) Agrees() bool {
	delta := c.TimeDelta
	if delta < 0 {
		delta = -delta
	}
	return c.StratumOK && c.LeapOK && delta < time.Second
}

// Client queries NTP servers with raw codec-built packets.
type Client struct {
	cfg *config.Config
	log *logger.Logger
}

// NewClient creates a query client.
func NewClient(cfg *config.Config) *Client {
	return &Client{cfg: cfg, log: logger.GetLogger()}
}

// Query sends one client request to addr (host:port) and decodes the
// reply, retrying per the configured retry count.
func (c *Client) Query(addr string) (*Result, error) {
	timeout := time.Duration(c.cfg.Query.Timeout) * time.Second

	var lastErr error
	for i := 0; i < c.cfg.Query.Retries; i++ {
		res, err := c.queryOnce(addr, timeout)
		if err != nil {
			lastErr = err
			c.log.Debugf("TRANSPORT", "Attempt %d to %s failed: %v", i+1, addr, err)
			continue
		}
		c.log.LogQuery(addr, true, res.RTT, res.Packet.String())
		return res, nil
	}

	c.log.LogQuery(addr, false, 0, "")
	return nil, fmt.Errorf("query %s: %w", addr, lastErr)
}

func (c *Client) queryOnce(addr string, timeout time.Duration) (*Result, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve address: %w", err)
	}

	conn, err := net.DialUDP("udp", nil, udpAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}
	defer conn.Close()

	request := c.buildRequest()

	sent := time.Now()
	if err := conn.SetDeadline(sent.Add(timeout)); err != nil {
		return nil, err
	}
	if _, err := conn.Write(request); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	buffer := make([]byte, 1024)
	n, err := conn.Read(buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	received := time.Now()

	packet, err := ntpwire.ParsePacket(buffer[:n])
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !packet.IsValidServerResponse() {
		return nil, fmt.Errorf("unexpected reply: version %d mode %s", packet.Version, packet.Mode)
	}

	// The destination timestamp never travels on the wire; the client
	// stamps it on arrival.
	packet.DestTime = ntpwire.TimestampFromTime(received)

	if packet.IsKissOfDeath() {
		code := packet.KissCode()
		c.log.Warnf("TRANSPORT", "Kiss-of-death from %s: %s (%s)", addr, code, code.Description())
	}

	return &Result{
		Server:   addr,
		Packet:   packet,
		RTT:      received.Sub(sent),
		Received: received,
	}, nil
}

// buildRequest produces the outbound query buffer. Version 4 uses the
// minimal fixed request; version 3 re-encodes it with the version bits
// adjusted.
func (c *Client) buildRequest() []byte {
	request := ntpwire.NewClientRequest()
	if c.cfg.Query.Version == ntpwire.VersionNTPv3 {
		request[0] = uint8(ntpwire.LeapNoWarning)<<6 |
			ntpwire.VersionNTPv3<<3 | uint8(ntpwire.ModeClient)
	}
	return request
}

// QueryAll queries every enabled server sequentially and returns one
// Result per server, failures included.
func (c *Client) QueryAll() []Result {
	var results []Result
	for _, s := range c.cfg.GetEnabledServers() {
		addr := fmt.Sprintf("%s:%d", s.Address, s.Port)
		res, err := c.Query(addr)
		if err != nil {
			results = append(results, Result{Server: addr, Err: err})
			continue
		}
		if c.cfg.Query.Verify {
			if cc, err := c.Verify(s.Address, res.Packet); err != nil {
				c.log.Warnf("TRANSPORT", "Crosscheck of %s failed: %v", s.Address, err)
			} else {
				res.Crosscheck = cc
			}
		}
		results = append(results, *res)
	}
	return results
}

// Verify queries host through the beevik/ntp reference client and compares
// its view of the server with our decoded packet.
func (c *Client) Verify(host string, decoded *ntpwire.Packet) (*Crosscheck, error) {
	options := ntp.QueryOptions{
		Timeout: time.Duration(c.cfg.Query.Timeout) * time.Second,
		TTL:     128,
	}

	response, err := ntp.QueryWithOptions(host, options)
	if err != nil {
		return nil, fmt.Errorf("reference query failed: %w", err)
	}
	if err := response.Validate(); err != nil {
		return nil, fmt.Errorf("reference response invalid: %w", err)
	}

	return compare(decoded, response), nil
}

// compare builds the crosscheck verdict from our decode and the reference
// client's response.
func compare(decoded *ntpwire.Packet, ref *ntp.Response) *Crosscheck {
	return &Crosscheck{
		RefStratum:  ref.Stratum,
		RefTime:     ref.Time,
		RefKissCode: ref.KissCode,
		StratumOK:   ntpwire.Stratum(ref.Stratum).Class() == decoded.Stratum.Class(),
		LeapOK:      uint8(ref.Leap) == uint8(decoded.Leap),
		TimeDelta:   ref.Time.Sub(decoded.XmitTime.Time()),
	}
}

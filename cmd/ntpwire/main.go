// ntpwire - NTP packet decoder and query tool
// Queries NTP servers with raw 48-byte client requests, decodes the
// replies with its own codec, and prints or monitors the results.
//
// Copyright (c) 2026 ntpwire Contributors
// Licensed under the MIT License
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/quartzlab/ntpwire/internal/config"
	"github.com/quartzlab/ntpwire/internal/logger"
	"github.com/quartzlab/ntpwire/internal/transport"
	"github.com/quartzlab/ntpwire/internal/tui"
	"github.com/quartzlab/ntpwire/pkg/ntpwire"
)

const (
	AppName    = "ntpwire"
	AppVersion = "1.0.0"
	AppDesc    = "NTP packet decoder and query tool"
)

var (
	showVersion = flag.Bool("version", false, "Show version information")
	configPath  = flag.String("config", "", "Path to configuration file")
	serverAddr  = flag.String("server", "", "Query a single server (host or host:port) instead of the configured list")
	watch       = flag.Bool("watch", false, "Monitor the configured servers in a TUI")
	verify      = flag.Bool("verify", false, "Cross-check decoded replies against the reference NTP client")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n%s\n", AppName, AppVersion, AppDesc)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *verify {
		cfg.Query.Verify = true
	}

	log := logger.GetLogger()
	if err := log.Initialize(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	client := transport.NewClient(cfg)

	if *watch {
		runWatch(cfg, client)
		return
	}
	runOnce(cfg, client)
}

func runWatch(cfg *config.Config, client *transport.Client) {
	app := tui.NewApp(cfg, client)
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func runOnce(cfg *config.Config, client *transport.Client) {
	var results []transport.Result

	if *serverAddr != "" {
		addr := *serverAddr
		if !hasPort(addr) {
			addr = fmt.Sprintf("%s:%d", addr, ntpwire.Port)
		}
		res, err := client.Query(addr)
		if err != nil {
			results = append(results, transport.Result{Server: addr, Err: err})
		} else {
			results = append(results, *res)
		}
	} else {
		results = client.QueryAll()
	}

	failures := 0
	for _, res := range results {
		if res.Err != nil {
			failures++
			fmt.Printf("%s\n  error: %v\n", res.Server, res.Err)
			continue
		}
		printResult(res)
	}

	if failures == len(results) {
		os.Exit(1)
	}
}

func printResult(res transport.Result) {
	p := res.Packet

	fmt.Printf("%s  (rtt %v)\n", res.Server, res.RTT.Round(time.Millisecond))
	fmt.Printf("  leap:       %s\n", p.Leap)
	fmt.Printf("  version:    %d\n", p.Version)
	fmt.Printf("  mode:       %s\n", p.Mode)
	fmt.Printf("  stratum:    %d (%s)\n", uint8(p.Stratum), p.Stratum.Class())
	fmt.Printf("  poll:       %d  precision: %d\n", p.Poll, p.Precision)
	fmt.Printf("  root delay: %d  root disp: %d\n", p.RootDelay, p.RootDisp)
	fmt.Printf("  ref id:     %s\n", p.ReferenceIDString())
	fmt.Printf("  transmit:   %s\n", p.XmitTime.Time().UTC().Format(time.RFC3339Nano))

	if unix, err := p.XmitTime.Unix(); err == nil {
		fmt.Printf("  unix:       %d\n", unix)
	} else {
		fmt.Printf("  unix:       unavailable (%v)\n", err)
	}

	if p.IsKissOfDeath() {
		code := p.KissCode()
		fmt.Printf("  kiss code:  %s — %s\n", code, code.Description())
	}

	if cc := res.Crosscheck; cc != nil {
		if cc.Agrees() {
			fmt.Printf("  verify:     ok (reference stratum %d, delta %v)\n",
				cc.RefStratum, cc.TimeDelta.Round(time.Millisecond))
		} else {
			fmt.Printf("  verify:     MISMATCH (reference stratum %d, delta %v)\n",
				cc.RefStratum, cc.TimeDelta.Round(time.Millisecond))
		}
	}
	fmt.Println()
}

func hasPort(addr string) bool {
	for i := len(addr) - 1; i >= 0; i-- {
		switch addr[i] {
		case ':':
			return true
		case ']':
			return false
		}
	}
	return false
}

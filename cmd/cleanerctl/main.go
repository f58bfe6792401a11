// cleanerctl: command line client for a running cleaner
//
// Usage:
//
//	cleanerctl [-addr http://localhost:8080] <command> [args]
//
// Commands:
//
//	status             print the current state
//	cmd <token>...     execute commands in order (f, l, r)
//	dirt <low|high>    report a sensed dirt level
//	power              run the power subsystem check
//	home               return to start
//	reset              re-initialize the robot
//	watch              stream status events
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/teslashibe/go-cleaner/internal/config"
	"github.com/teslashibe/go-cleaner/pkg/client"
	"github.com/teslashibe/go-cleaner/pkg/protocol"
	"github.com/teslashibe/go-cleaner/pkg/telemetry"
)

func main() {
	addr := flag.String("addr", config.Env("CLEANER_ADDR", "http://localhost:8080"), "Cleaner API address")
	timeout := flag.Duration("timeout", 10*time.Second, "Request timeout")
	asJSON := flag.Bool("json", false, "Print raw JSON responses")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := client.New(*addr).WithTimeout(*timeout)
	out := printer{json: *asJSON}

	if err := run(ctx, c, out, args[0], args[1:]); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client.Client, out printer, cmd string, args []string) error {
	switch cmd {
	case "status":
		state, err := c.Status(ctx)
		if err != nil {
			return err
		}
		out.state(state)

	case "cmd":
		if len(args) == 0 {
			return errors.New("cmd: at least one command token required")
		}
		if len(args) == 1 && len(args[0]) > 1 && !isWord(args[0]) {
			// "ffrl" is shorthand for f f r l
			args = strings.Split(args[0], "")
		}
		results, err := c.Sequence(ctx, args)
		for _, r := range results {
			out.result(r)
		}
		if err != nil {
			return err
		}

	case "dirt":
		if len(args) != 1 {
			return errors.New("dirt: expected one level (low or high)")
		}
		state, err := c.Dirt(ctx, args[0])
		if err != nil {
			return err
		}
		out.state(state)

	case "power":
		p, err := c.Power(ctx)
		if err != nil {
			return err
		}
		out.power(p)

	case "home":
		state, err := c.Return(ctx)
		if err != nil {
			return err
		}
		out.state(state)

	case "reset":
		state, err := c.Reset(ctx)
		if err != nil {
			return err
		}
		out.state(state)

	case "watch":
		return c.Watch(ctx, out.message)

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// isWord reports whether s is a long-form command name.
func isWord(s string) bool {
	switch strings.ToLower(s) {
	case "forward", "left", "right":
		return true
	}
	return false
}

type printer struct {
	json bool
}

func (p printer) dump(v interface{}) bool {
	if !p.json {
		return false
	}
	data, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
		return true
	}
	fmt.Println(string(data))
	return true
}

func (p printer) state(s protocol.StateData) {
	if p.dump(s) {
		return
	}
	fmt.Printf("%s speed=%s\n", s.Status, s.Speed)
}

func (p printer) result(r protocol.ResultData) {
	if p.dump(r) {
		return
	}
	fmt.Printf("%-16s %s\n", r.Status, r.Outcome)
}

func (p printer) power(r protocol.PowerData) {
	if p.dump(r) {
		return
	}
	cleaning := "off"
	if r.CleaningEnabled {
		cleaning = "on"
	}
	fmt.Printf("charge=%d%% mode=%s cleaning=%s\n", r.Charge, r.Mode, cleaning)
}

func (p printer) message(m *protocol.Message) {
	if p.dump(m) {
		return
	}
	switch m.Type {
	case protocol.TypeState:
		var s protocol.StateData
		if m.ParseData(&s) == nil {
			p.state(s)
		}
	case protocol.TypeEvent:
		var ev telemetry.Event
		if m.ParseData(&ev) != nil {
			return
		}
		line := fmt.Sprintf("%-8s %s", ev.Kind, ev.Status)
		if ev.Error != "" {
			line += "  error: " + ev.Error
		}
		fmt.Println(line)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: cleanerctl [flags] <command> [args]

Commands:
  status             print the current state
  cmd <token>...     execute commands in order (f, l, r)
  dirt <low|high>    report a sensed dirt level
  power              run the power subsystem check
  home               return to start
  reset              re-initialize the robot
  watch              stream status events

Flags:
`)
	flag.PrintDefaults()
}

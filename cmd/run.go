package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hkcm91/StickerNestV3-sub007/internal/config"
	"github.com/hkcm91/StickerNestV3-sub007/internal/host"
	"github.com/hkcm91/StickerNestV3-sub007/internal/protocol"
	"github.com/hkcm91/StickerNestV3-sub007/internal/spec"
	"github.com/hkcm91/StickerNestV3-sub007/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run [spec.json]",
	Short: "Run a widget interactively without a browser",
	Long: `Launches an interpreted instance of the widget and opens a small REPL:
type DOM event names to fire triggers, feed pipeline inputs, invoke
exposed methods, and inspect the live state after every dispatch.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringArray("event", nil, "fire these events and exit (non-interactive)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	printer := ui.New()

	specPath := ""
	if len(args) > 0 {
		specPath = args[0]
	} else {
		m, err := findManifest()
		if err != nil {
			return err
		}
		specPath = m.SpecPath()
	}

	s, err := spec.Load(specPath)
	if err != nil {
		return err
	}

	trace, err := openTrace(&cfg)
	if err != nil {
		return err
	}
	defer trace.Close()

	h := host.New(trace)
	sess, err := h.Launch(s, nil)
	if err != nil {
		return err
	}
	defer sess.Destroy()

	// Surface widget emissions as they arrive.
	go func() {
		for env := range sess.Events() {
			var p protocol.EmitPayload
			if err := env.DecodePayload(&p); err != nil {
				continue
			}
			if p.Payload != nil {
				data, _ := json.Marshal(p.Payload)
				printer.Info(fmt.Sprintf("← %s %s %s", env.Type, p.Event, data))
			} else {
				printer.Info(fmt.Sprintf("← %s %s", env.Type, p.Event))
			}
		}
	}()

	if events, _ := cmd.Flags().GetStringArray("event"); len(events) > 0 {
		for _, e := range events {
			sess.SendEvent(e)
		}
		printState(printer, sess)
		return nil
	}

	printer.Info(fmt.Sprintf("running %s %s — type 'help' for commands", s.ID, s.Version))
	return repl(printer, sess, s)
}

func repl(printer *ui.Printer, sess *host.Session, s *spec.WidgetSpec) error {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprintf(os.Stderr, "%s> ", s.ID)
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "quit", "exit":
			return nil
		case "help":
			printHelp(printer, s)
		case "state":
			printState(printer, sess)
		case "input":
			if len(fields) < 3 {
				printer.Error("usage: input <port> <json-value>")
				continue
			}
			var value any
			raw := strings.Join(fields[2:], " ")
			if err := json.Unmarshal([]byte(raw), &value); err != nil {
				value = raw // bare strings pass through
			}
			sess.SendInput(fields[1], value)
			printState(printer, sess)
		case "invoke":
			if len(fields) < 2 {
				printer.Error("usage: invoke <method>")
				continue
			}
			sess.Invoke(fields[1])
			printState(printer, sess)
		default:
			// Anything else is a DOM event name: click, mouseenter, keydown...
			sess.SendEvent(fields[0])
			printState(printer, sess)
		}
	}
}

func printState(printer *ui.Printer, sess *host.Session) {
	// The mirror converges asynchronously; give the patch a moment to land.
	time.Sleep(50 * time.Millisecond)
	state := sess.State()
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	printer.SessionState(sess.ID, state, keys)
}

func printHelp(printer *ui.Printer, s *spec.WidgetSpec) {
	printer.Info("commands: state | input <port> <value> | invoke <method> | quit")
	printer.Info("anything else fires a DOM event, e.g. click")

	var triggers []string
	for name := range s.Events.Triggers {
		if ev, ok := spec.DOMTriggers[name]; ok {
			triggers = append(triggers, ev)
		}
	}
	sort.Strings(triggers)
	if len(triggers) > 0 {
		printer.Info("bound events: " + strings.Join(triggers, ", "))
	}
}

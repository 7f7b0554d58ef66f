package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/event"
	"github.com/chrisuehlinger/swell/host"
	"github.com/chrisuehlinger/swell/html"
	"github.com/chrisuehlinger/swell/js"
	"github.com/chrisuehlinger/swell/keys"
	"github.com/chrisuehlinger/swell/selector"
)

func runCmd(a *app) *cobra.Command {
	var (
		file    string
		profile string
		fires   []string
		strokes []string
	)
	cmd := &cobra.Command{
		Use:   "run SCRIPT.js...",
		Short: "Run scripts against a document and replay input",
		Long: `Run loads a document, executes each script with Swell.Event and Marlin
available, finishes loading the document, then replays the given input and
flushes pending timeouts. Console output goes to stdout.

Input is replayed in the order given, all --fire before all --keys:
  --fire click@#save       click (or any event type) on the element with id save
  --keys "#field:ctrl+s"   a keystroke on #field, as keydown, keypress and keyup`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("profile") {
				a.cfg.Host.Profile = profile
			}
			p, err := host.ParseProfile(a.cfg.Host.Profile)
			if err != nil {
				return err
			}
			var doc *dom.Document
			if file != "" {
				doc, err = loadDocument(cmd, file)
			} else {
				doc, err = html.ParseString(blankPage)
			}
			if err != nil {
				return err
			}

			h := host.New(doc, p, a.cfg.HostOptions()...)
			rt := js.NewRuntime(h,
				js.WithLogger(a.logger),
				js.WithConsole(cmd.OutOrStdout()),
				js.WithDispatcher(event.New(h, event.WithLogger(a.logger), event.WithMetrics(a.metrics))),
				js.WithEngine(selector.New(h,
					selector.WithLogger(a.logger),
					selector.WithMetrics(a.metrics),
					selector.WithStrict(a.cfg.Selector.Strict),
					selector.WithNativeFastPath(a.cfg.Selector.NativeFastPath),
				)),
			)

			for _, path := range args {
				code, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading script: %w", err)
				}
				_ = rt.ExecuteScript(string(code), filepath.Base(path))
			}
			doc.SetReadyState(dom.ReadyStateInteractive)
			doc.SetReadyState(dom.ReadyStateComplete)
			rt.Flush()

			drv := host.NewDriver(h)
			for _, spec := range fires {
				if err := replayFire(drv, h, spec); err != nil {
					return err
				}
				rt.Flush()
			}
			for _, spec := range strokes {
				if err := replayKeys(drv, h, spec); err != nil {
					return err
				}
				rt.Flush()
			}

			if errs := rt.Errors(); len(errs) > 0 {
				return fmt.Errorf("%d script error(s), first: %w", len(errs), errs[0])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "HTML document (default a blank page)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "host profile: standard, legacy, webkit or bare")
	cmd.Flags().StringArrayVar(&fires, "fire", nil, "event to fire, as type@#id (repeatable)")
	cmd.Flags().StringArrayVar(&strokes, "keys", nil, "keystroke to replay, as #id:combo (repeatable)")
	return cmd
}

// replayFire fires one type@#id spec. Clicks go through the full
// mousedown, mouseup, click sequence.
func replayFire(drv *host.Driver, h *host.Host, spec string) error {
	eventType, id, ok := strings.Cut(spec, "@")
	if !ok || eventType == "" {
		return fmt.Errorf("--fire %q: want type@#id", spec)
	}
	n := h.Resolve(trimID(id))
	if n == nil {
		return fmt.Errorf("--fire %q: no element with id %q", spec, trimID(id))
	}
	switch eventType {
	case event.Click:
		drv.Click(n, 0, 0)
	case event.MouseOver, event.MouseOut, event.MouseDown, event.MouseUp, event.MouseMove:
		drv.Mouse(n, eventType, 0, 0, nil)
	default:
		drv.Fire(n, eventType)
	}
	return nil
}

// replayKeys replays one #id:combo spec as a single keystroke. The combo
// must be a single key or an AND combo.
func replayKeys(drv *host.Driver, h *host.Host, spec string) error {
	id, combo, ok := strings.Cut(spec, ":")
	if !ok {
		return fmt.Errorf("--keys %q: want #id:combo", spec)
	}
	n := h.Resolve(trimID(id))
	if n == nil {
		return fmt.Errorf("--keys %q: no element with id %q", spec, trimID(id))
	}
	c, err := event.ParseCombo(combo)
	if err != nil {
		return fmt.Errorf("--keys %q: %w", spec, err)
	}
	if c.Kind != event.ComboSingle && c.Kind != event.ComboAnd {
		return fmt.Errorf("--keys %q: %s combos describe several keys", spec, c.Kind)
	}
	keyCode, charCode, ok := keyCodes(c.Keys[0])
	if !ok {
		return fmt.Errorf("--keys %q: unknown key %q", spec, c.Keys[0])
	}
	drv.KeyStroke(n, keyCode, charCode, c.Modifiers)
	return nil
}

// keyCodes returns the keyCode and charCode a key name produces: named
// keys come from the key tables, single characters map to their
// uppercase key and the character itself.
func keyCodes(name string) (keyCode, charCode int, ok bool) {
	for _, table := range []string{keys.TableSpecial, keys.TableNavigation, keys.TableFunctions} {
		for _, e := range keys.Sorted(table) {
			if strings.EqualFold(e.Name, name) {
				return e.Code, 0, true
			}
		}
	}
	r := []rune(name)
	if len(r) != 1 {
		return 0, 0, false
	}
	return int(unicode.ToUpper(r[0])), int(r[0]), true
}

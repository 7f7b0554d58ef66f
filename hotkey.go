package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/chrisuehlinger/swell/event"
	"github.com/chrisuehlinger/swell/keys"
)

func hotkeyCmd(a *app) *cobra.Command {
	var (
		mods   event.Modifiers
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "hotkey KEY COMBO",
		Short: "Check whether a keystroke satisfies a combo",
		Long: `Hotkey evaluates COMBO against KEY pressed with the given modifiers and
prints the matching segment, or "no match".

KEY is a character or a special key name (esc, enter, left, F2, ...).
COMBO is a single key, an AND combo such as ctrl+shift+s, an OR combo such
as esc|enter, or * for any key.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, combo := args[0], args[1]
			if len([]rune(key)) == 1 {
				key = strings.ToLower(key)
			}
			out := cmd.OutOrStdout()
			if strict {
				c, err := event.ParseCombo(combo)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s combo, keys %s\n", c.Kind, strings.Join(c.Keys, ","))
			} else if _, err := event.ParseCombo(combo); err != nil {
				a.logger.Debug().Err(err).Str("combo", combo).Msg("combo matched permissively")
			}
			if seg, ok := event.IsValidHotKey(mods, key, combo); ok {
				fmt.Fprintf(out, "match %s\n", seg)
				return nil
			}
			fmt.Fprintln(out, "no match")
			return nil
		},
	}
	cmd.Flags().BoolVar(&mods.Ctrl, "ctrl", false, "ctrl is held")
	cmd.Flags().BoolVar(&mods.Shift, "shift", false, "shift is held")
	cmd.Flags().BoolVar(&mods.Alt, "alt", false, "alt is held")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject malformed combos")
	return cmd
}

func keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the key classification tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tree := treeprint.NewWithRoot("keys")
			for _, table := range []string{keys.TableSpecial, keys.TableNavigation, keys.TableFunctions} {
				branch := tree.AddBranch(table)
				for _, e := range keys.Sorted(table) {
					branch.AddNode(fmt.Sprintf("%3d %s", e.Code, e.Name))
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), tree.String())
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xlab/treeprint"

	"github.com/chrisuehlinger/swell/dom"
	"github.com/chrisuehlinger/swell/host"
	"github.com/chrisuehlinger/swell/selector"
)

func queryCmd(a *app) *cobra.Command {
	var (
		file    string
		profile string
		strict  bool
		tree    bool
	)
	cmd := &cobra.Command{
		Use:   "query QUERY",
		Short: "Run a selector query against a document",
		Long: `Query parses an HTML document (from --file or stdin) and prints every
element the query matches, in engine order.

Examples:
  swell query --file page.html "div.container span"
  swell query --profile legacy --tree "ul > li:not(.done)" < page.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("profile") {
				a.cfg.Host.Profile = profile
			}
			if cmd.Flags().Changed("strict") {
				a.cfg.Selector.Strict = strict
			}
			p, err := host.ParseProfile(a.cfg.Host.Profile)
			if err != nil {
				return err
			}

			doc, err := loadDocument(cmd, file)
			if err != nil {
				return err
			}
			engine := selector.New(host.New(doc, p, a.cfg.HostOptions()...),
				selector.WithLogger(a.logger),
				selector.WithMetrics(a.metrics),
				selector.WithStrict(a.cfg.Selector.Strict),
				selector.WithNativeFastPath(a.cfg.Selector.NativeFastPath),
			)

			var els []*dom.Element
			if a.cfg.Selector.Strict {
				if els, err = engine.Query(args[0]); err != nil {
					return err
				}
			} else {
				els = engine.Find(args[0])
			}

			out := cmd.OutOrStdout()
			if tree {
				fmt.Fprint(out, ancestryTree(els).String())
				return nil
			}
			for _, el := range els {
				fmt.Fprintln(out, el.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "HTML document (default stdin)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "host profile: standard, legacy, webkit or bare")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject malformed queries instead of matching permissively")
	cmd.Flags().BoolVar(&tree, "tree", false, "print matches under their ancestors")
	return cmd
}

// ancestryTree lays the matches out under their ancestor elements, sharing
// branches between matches with common ancestors.
func ancestryTree(els []*dom.Element) treeprint.Tree {
	root := treeprint.NewWithRoot("#document")
	branches := map[*dom.Node]treeprint.Tree{}
	for _, el := range els {
		var chain []*dom.Element
		for cur := el; cur != nil; cur = cur.AsNode().ParentElement() {
			chain = append(chain, cur)
		}
		parent := root
		for i := len(chain) - 1; i >= 0; i-- {
			n := chain[i].AsNode()
			b, ok := branches[n]
			if !ok {
				b = parent.AddBranch(chain[i].String())
				branches[n] = b
			}
			parent = b
		}
	}
	return root
}

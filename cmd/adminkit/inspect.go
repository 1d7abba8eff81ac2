package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/adminkit/pkg/module"
	"github.com/vango-dev/adminkit/pkg/page"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func routesCmd(opts *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List registered routes in matching order",
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, _, err := opts.registries()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), mods.List())
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PATH\tKEY\tMODULE\tDOMAIN")
			for _, rec := range mods.Records() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.Path, rec.Key, rec.Module, dash(rec.Domain))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the route patterns as JSON")
	return cmd
}

func sidebarCmd(opts *globalOptions) *cobra.Command {
	var (
		asJSON bool
		path   string
	)

	cmd := &cobra.Command{
		Use:   "sidebar",
		Short: "Print the navigation tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, _, err := opts.registries()
			if err != nil {
				return err
			}
			items := mods.SidebarItems()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			var active module.Active
			if path != "" {
				active, _ = mods.ActiveItem(path)
			}
			printTree(cmd.OutOrStdout(), items, active, 0)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tree as JSON")
	cmd.Flags().StringVarP(&path, "path", "p", "", "Mark the entry active for this path")
	return cmd
}

func printTree(w io.Writer, items []module.SidebarItem, active module.Active, depth int) {
	for _, item := range items {
		marker := " "
		if item.Key == active.Key {
			marker = "*"
		}
		line := strings.Repeat("  ", depth) + marker + " " + item.Label
		if item.Path != "" {
			line += "  " + item.Path
		}
		fmt.Fprintln(w, line)
		printTree(w, item.Children, active, depth+1)
	}
}

func matchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "match <path>",
		Short: "Show which route serves a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mods, _, err := opts.registries()
			if err != nil {
				return err
			}
			m, p, err := page.NewResolver(mods).Match(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "path:   %s\n", p.Pathname)
			fmt.Fprintf(out, "route:  %s\n", m.Record.Path)
			fmt.Fprintf(out, "key:    %s\n", m.Record.Key)
			fmt.Fprintf(out, "module: %s\n", m.Record.Module)
			for _, k := range m.Record.Matcher.Keys() {
				fmt.Fprintf(out, "param %s = %s\n", k.Name, m.Params.Get(k.Name))
			}
			return nil
		},
	}
}

func drawersCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drawers",
		Short: "List registered drawer types",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, drawers, err := opts.registries()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tTITLE\tWIDTH\tDIRTY CLOSE")
			for _, def := range drawers.All() {
				width := "default"
				if def.Width > 0 {
					width = fmt.Sprintf("%dpx", def.Width)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", def.Type, def.Title, width, def.DirtyClose)
			}
			return tw.Flush()
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// newCacheCommand groups cache maintenance subcommands. Cached entries
// never expire on their own, so a manual escape hatch is the only way
// to force re-analysis of a page whose markup changed on the live
// site.
func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the analysis cache",
	}
	cmd.AddCommand(newCacheListCommand())
	cmd.AddCommand(newCacheClearCommand())
	return cmd
}

// newCacheListCommand prints the cached analysis entries for the
// configured site.
func newCacheListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached analysis entries for the configured site",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closer, err := buildDeps(false)
			if err != nil {
				return err
			}
			defer closer()

			site := d.cfg.WordPress.SiteIdentity()
			entries := d.store.Read(site)
			if len(entries) == 0 {
				fmt.Printf("No cached entries for %s.\n", site)
				return nil
			}

			urls := make([]string, 0, len(entries))
			for url := range entries {
				urls = append(urls, url)
			}
			sort.Strings(urls)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.SetStyle(table.StyleRounded)
			t.AppendHeader(table.Row{"URL", "Status", "Last Checked"})
			for _, url := range urls {
				entry := entries[url]
				t.AppendRow(table.Row{url, entry.SchemaStatus, entry.LastCheckedAt.Format("2006-01-02 15:04")})
			}
			t.Render()
			return nil
		},
	}
}

// newCacheClearCommand removes every cached entry for the configured
// site.
func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear cached analysis entries for the configured site",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, closer, err := buildDeps(false)
			if err != nil {
				return err
			}
			defer closer()

			site := d.cfg.WordPress.SiteIdentity()
			removed, err := d.store.Clear(site)
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d cached entries for %s.\n", removed, site)
			return nil
		},
	}
}

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/segv/websegment/content"
	"github.com/segv/websegment/page"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Empty the content database",
	Long: `The purge command deletes every mirrored content entry, so the next run
fetches all content from the origin again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if siteCfg.ContentDatabasePath == "" {
			return errors.New("no content database configured (WEBSEGMENT_CONTENT_DB)")
		}
		m, err := content.NewSQLiteMirror(siteCfg.ContentDatabasePath)
		if err != nil {
			return err
		}
		defer m.Close()
		for _, ns := range page.Namespaces() {
			if err := m.Clear(ns); err != nil {
				return fmt.Errorf("purge %s: %w", ns, err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "purged %s\n", siteCfg.ContentDatabasePath)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the websegment version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "websegment %s\n", version)
	},
}

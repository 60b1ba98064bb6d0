package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateCmd(o *options) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Refresh the catalog cache from the configured API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := o.logger()
			settings, err := o.settings(logger)
			if err != nil {
				return err
			}
			cache, err := o.openCache()
			if err != nil {
				return err
			}
			defer cache.Close()
			u, err := newUpdater(cache, settings, logger)
			if err != nil {
				return err
			}
			u.OnRefresh = func(kind, lang string, err error) {
				entry := logger.WithField("kind", kind).WithField("lang", lang)
				if err != nil {
					entry.WithError(err).Warn("refresh failed")
					return
				}
				entry.Info("refreshed")
			}
			if err := u.Update(cmd.Context(), force); err != nil {
				return err
			}
			snap, err := u.Load(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d items (%s), %d items (%s), %d new, %d playlists\n",
				snap.Provider, len(snap.MainItems), snap.MainLang, len(snap.SubItems), snap.SubLang,
				len(snap.NewItems), len(snap.MainPlaylists))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "refetch every entry even if the cache is fresh")
	return cmd
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/EgorLis/lobbybot/internal/catalog"
	"github.com/EgorLis/lobbybot/internal/search"
)

func newSearchCmd(o *options) *cobra.Command {
	var (
		mode      string
		types     string
		playlists bool
	)
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search the cached catalog for items or playlists",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if err := u.Update(cmd.Context(), false); err != nil {
				return err
			}
			snap, err := u.Load(cmd.Context())
			if err != nil {
				return err
			}
			folder := search.NewFolder(true, nil)
			return runSearch(cmd.OutOrStdout(), search.FromSnapshot(snap, folder), mode, types, playlists, strings.Join(args, " "))
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "name", "name, id, set or name_id")
	cmd.Flags().StringVar(&types, "types", "", "comma separated backend types, e.g. AthenaCharacter")
	cmd.Flags().BoolVar(&playlists, "playlists", false, "search playlists instead of items")
	return cmd
}

func runSearch(out io.Writer, s *search.Searcher, mode, types string, playlists bool, text string) error {
	if playlists {
		var found []catalog.Playlist
		if mode == "name_id" {
			found = s.SearchPlaylistNameID(text)
		} else {
			m, err := search.ParseMode(mode)
			if err != nil {
				return err
			}
			found = s.SearchPlaylist(m, text)
		}
		for _, p := range found {
			fmt.Fprintf(out, "%s\t%s\n", p.ID, p.Name)
		}
		return nil
	}

	var found []catalog.Item
	if mode == "name_id" {
		found = s.SearchItemNameID(text, types)
	} else {
		m, err := search.ParseMode(mode)
		if err != nil {
			return err
		}
		found = s.SearchItem(m, text, types)
	}
	for _, it := range found {
		fmt.Fprintf(out, "%s\t%s\t%s\n", it.ID, it.Name, it.Type.BackendValue)
	}
	if len(found) == 0 {
		fmt.Fprintf(out, "nothing found for %q\n", text)
	}
	return nil
}

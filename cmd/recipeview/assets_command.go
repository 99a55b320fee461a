package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"recipeview/internal/catalog"
	"recipeview/internal/fileutil"
)

func newAssetsCommand(ctx *commandContext) *cobra.Command {
	var states []string
	var prune bool

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List the image asset ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseAssetStates(states)
			if err != nil {
				return err
			}
			store, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if prune {
				removed, err := pruneAssets(cmd.Context(), store, ctx.configValue().Paths.AssetDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Pruned %d ledger entries whose image file is gone\n", removed)
			}

			list, err := store.ListAssets(cmd.Context(), filter...)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No assets recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable("Assets", assetHeaders, assetRows(list), assetAligns))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&states, "state", nil, "Filter by state (fetched, reused, unavailable)")
	cmd.Flags().BoolVar(&prune, "prune", false, "Drop ledger entries for stored images that no longer exist on disk")
	return cmd
}

var assetHeaders = []string{"Asset", "Recipe", "State", "Size", "Dimensions", "Detail"}

var assetAligns = []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft}

func assetRows(list []*catalog.Asset) [][]string {
	rows := make([][]string, 0, len(list))
	for _, asset := range list {
		size := ""
		if asset.SizeBytes > 0 {
			size = strconv.FormatInt(asset.SizeBytes, 10)
		}
		dims := ""
		if asset.Width > 0 && asset.Height > 0 {
			dims = fmt.Sprintf("%dx%d", asset.Width, asset.Height)
		}
		detail := asset.ContentType
		if asset.State == catalog.AssetUnavailable {
			detail = strings.TrimSpace(asset.ErrorKind + ": " + asset.ErrorMessage)
		}
		rows = append(rows, []string{asset.Key, asset.RecipeName, string(asset.State), size, dims, detail})
	}
	return rows
}

// pruneAssets removes fetched and reused rows whose file is missing under root.
// Unavailable rows are kept since they never had a file.
func pruneAssets(ctx context.Context, store *catalog.Store, root string) (int, error) {
	list, err := store.ListAssets(ctx, catalog.AssetFetched, catalog.AssetReused)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, asset := range list {
		if fileutil.FileExists(filepath.Join(root, asset.Key)) {
			continue
		}
		if err := store.RemoveAsset(ctx, asset.Key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func parseAssetStates(values []string) ([]catalog.AssetState, error) {
	var states []catalog.AssetState
	for _, value := range values {
		state := catalog.AssetState(strings.ToLower(strings.TrimSpace(value)))
		switch state {
		case catalog.AssetFetched, catalog.AssetReused, catalog.AssetUnavailable:
			states = append(states, state)
		default:
			return nil, fmt.Errorf("unknown asset state %q", value)
		}
	}
	return states, nil
}

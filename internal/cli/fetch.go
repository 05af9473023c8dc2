package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skoehler/geomap/pkg/naturalearth"
)

// newFetchCmd creates the fetch command for prefetching Natural Earth
// vector layers into the local cache. Rendering a map then works without
// network access until the layers expire.
func newFetchCmd() *cobra.Command {
	var (
		scaleStr string
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:       "fetch [layer...]",
		Short:     "Prefetch Natural Earth layers into the cache",
		Long:      fmt.Sprintf("Download Natural Earth vector layers and store them in the layer cache.\n\nAvailable layers: %v\nWithout arguments, coastline and admin_0_countries are fetched.", naturalearth.LayerNames()),
		ValidArgs: naturalearth.LayerNames(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scale, err := naturalearth.ParseScale(scaleStr)
			if err != nil {
				return err
			}

			layers := make([]naturalearth.Layer, 0, len(args))
			for _, a := range args {
				layer, err := naturalearth.ParseLayer(a)
				if err != nil {
					return err
				}
				layers = append(layers, layer)
			}
			if len(layers) == 0 {
				layers = []naturalearth.Layer{naturalearth.LayerCoastline, naturalearth.LayerCountries}
			}

			client, err := newLayerClient(false)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			for _, layer := range layers {
				spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s (%s)", layer, scale))
				spinner.Start()

				fc, err := client.FetchLayer(ctx, scale, layer, refresh)
				if err != nil {
					spinner.StopWithError(fmt.Sprintf("%s: %v", layer, err))
					return err
				}
				spinner.StopWithSuccess(fmt.Sprintf("%s (%s): %d features", layer, scale, len(fc.Features)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scaleStr, "scale", string(naturalearth.Scale110m), "map scale: 110m, 50m, 10m")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-download even if cached")

	return cmd
}

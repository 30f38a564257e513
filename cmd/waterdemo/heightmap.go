package main

import (
	"GopherWater/internal/terrain"

	"github.com/spf13/cobra"
)

var heightmapOpts = terrain.DefaultHeightmapOptions()

var heightmapOut string

var heightmapCmd = &cobra.Command{
	Use:   "heightmap",
	Short: "Write a Perlin noise heightmap PNG",
	Long: `Generates the terrain heightmap the demo loads from textures/perlin.png.
The same seed and options always produce the same image.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return terrain.WriteHeightmap(heightmapOut, heightmapOpts)
	},
}

func init() {
	flags := heightmapCmd.Flags()
	flags.StringVarP(&heightmapOut, "out", "o", "assets/textures/perlin.png", "output PNG path")
	flags.IntVar(&heightmapOpts.Size, "size", heightmapOpts.Size, "image edge length in pixels")
	flags.IntVar(&heightmapOpts.SampleSize, "sample-size", heightmapOpts.SampleSize, "noise grid edge length before resampling (0 = size)")
	flags.Int64Var(&heightmapOpts.Seed, "seed", heightmapOpts.Seed, "noise seed")
	flags.Float64Var(&heightmapOpts.Alpha, "alpha", heightmapOpts.Alpha, "octave weight divisor")
	flags.Float64Var(&heightmapOpts.Beta, "beta", heightmapOpts.Beta, "octave frequency multiplier")
	flags.Int32Var(&heightmapOpts.Octaves, "octaves", heightmapOpts.Octaves, "number of noise octaves")
	flags.Float64Var(&heightmapOpts.Frequency, "frequency", heightmapOpts.Frequency, "noise periods across the map")
	flags.Float32Var(&heightmapOpts.Falloff, "falloff", heightmapOpts.Falloff, "edge falloff strength, 0 disables")
}

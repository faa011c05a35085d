package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"segmentgeometry/internal/models"
	"segmentgeometry/pkg/config"
	"segmentgeometry/pkg/metrics"
	"segmentgeometry/pkg/pipeline"
	"segmentgeometry/pkg/report"
	"segmentgeometry/pkg/stack"
)

// cfg is loaded from --config before any subcommand runs
var cfg *config.Config

// Root is the main command.
var Root = &cobra.Command{
	Use:   "segmentgeometry",
	Short: "Slice-wise cross-sectional geometry of segmented volumes.",
	Long: `segmentgeometry sweeps a segmented volume slice by slice along one voxel axis
and reports cross-sectional area, second moments of area, section moduli,
perimeter, circularity, Feret diameter and their normalised forms.

Segments are read as image stacks (one mask image per slice). Settings come from a
YAML configuration file given with --config; command-line flags override it.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("verbose") {
			cfg.Output.Verbose = verbose
		}
		setupLogging(cfg)
		return nil
	},
}

var (
	configPath string
	verbose    bool
)

func setupLogging(c *config.Config) {
	log := logrus.StandardLogger()
	log.SetLevel(logrus.InfoLevel)
	if c.Output.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	if c.Output.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

// runCmd measures one segment and writes the CSV table.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Measure a segment and write the geometry table.",
	Long: `run loads the mask stack, optionally crops it to the segment, measures every
sampled slice and writes a CSV table plus a column description file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := applyRunFlags(cmd); err != nil {
			return err
		}
		params, err := cfg.Params()
		if err != nil {
			return err
		}

		log := logrus.StandardLogger()
		start := time.Now()
		result, err := analyse(cmd.Context(), params, log)
		if err != nil {
			return err
		}

		table := report.Build(result, params.Metrics)
		infoPath, err := table.Save(cfg.Output.File)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Measured %d slices along the %s axis in %.2f seconds\n",
			len(result.Records), result.Axis, time.Since(start).Seconds())
		fmt.Fprintf(out, "Segment length: %.2f mm, aspect ratio: %.2f\n", result.Length, result.AspectRatio)
		if result.Advisory != "" {
			fmt.Fprintf(out, "Warning: %s\n", result.Advisory)
		}
		fmt.Fprintf(out, "Table saved to: %s\nColumn descriptions saved to: %s\n", cfg.Output.File, infoPath)
		return nil
	},
}

// analyse loads the inputs named in cfg and runs the pipeline
func analyse(ctx context.Context, params pipeline.Params, log logrus.FieldLogger) (*pipeline.Result, error) {
	in := cfg.Input
	vol, err := stack.LoadStack(in.MaskDir, in.Spacing, in.Threshold, log)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load mask stack")
	}

	opts := []pipeline.Option{pipeline.WithLogger(log)}
	if params.Metrics.Has(metrics.Compactness) && in.CompanionDir != "" {
		companion, err := stack.LoadStack(in.CompanionDir, in.Spacing, in.Threshold, log)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load companion stack")
		}
		if in.Crop {
			if companion, err = stack.CropCompanion(companion, vol); err != nil {
				return nil, err
			}
		}
		opts = append(opts, pipeline.WithCompanion(stack.NewProvider(companion)))
	}
	if params.Metrics.Has(metrics.MeanIntensity) && in.IntensityDir != "" {
		grey, err := stack.LoadIntensity(in.IntensityDir, log)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load intensity stack")
		}
		if in.Crop {
			if grey, err = stack.CropIntensity(grey, vol); err != nil {
				return nil, err
			}
		}
		opts = append(opts, pipeline.WithIntensity(stack.NewIntensityProvider(grey)))
	}
	if in.Crop {
		vol = stack.Crop(vol)
	}

	return pipeline.New(params, stack.NewProvider(vol), opts...).Process(ctx)
}

func applyRunFlags(cmd *cobra.Command) error {
	f := cmd.Flags()
	var err error
	set := func(name string, apply func()) {
		if err == nil && f.Changed(name) {
			apply()
		}
	}
	set("mask", func() { cfg.Input.MaskDir, err = f.GetString("mask") })
	set("companion", func() { cfg.Input.CompanionDir, err = f.GetString("companion") })
	set("intensity", func() { cfg.Input.IntensityDir, err = f.GetString("intensity") })
	set("output", func() { cfg.Output.File, err = f.GetString("output") })
	set("axis", func() { cfg.Processing.Axis, err = f.GetString("axis") })
	set("interval", func() { cfg.Processing.Interval, err = f.GetFloat64("interval") })
	set("angle", func() { cfg.Processing.NeutralAxisAngle, err = f.GetFloat64("angle") })
	set("cores", func() { cfg.Processing.NumCores, err = f.GetInt("cores") })
	set("metrics", func() { cfg.Metrics, err = f.GetStringSlice("metrics") })
	set("threshold", func() { cfg.Input.Threshold, err = f.GetFloat64("threshold") })
	set("crop", func() { cfg.Input.Crop, err = f.GetBool("crop") })
	set("transformed", func() { cfg.Processing.Transformed, err = f.GetBool("transformed") })
	set("length-normalized", func() { cfg.Normalization.LengthNormalized, err = f.GetBool("length-normalized") })
	set("material-normalized", func() { cfg.Normalization.MaterialNormalized, err = f.GetBool("material-normalized") })
	set("spacing", func() {
		var s []float64
		if s, err = f.GetFloat64Slice("spacing"); err == nil {
			cfg.Input.Spacing, err = parseSpacing(s)
		}
	})
	return err
}

// parseSpacing accepts one isotropic value or x, y and z
func parseSpacing(s []float64) (models.Spacing, error) {
	switch len(s) {
	case 1:
		return models.Spacing{X: s[0], Y: s[0], Z: s[0]}, nil
	case 3:
		return models.Spacing{X: s[0], Y: s[1], Z: s[2]}, nil
	}
	return models.Spacing{}, errors.Errorf("spacing needs 1 or 3 values, got %d", len(s))
}

// phantomCmd writes a synthetic segment as an image stack.
var phantomCmd = &cobra.Command{
	Use:   "phantom <output-dir>",
	Short: "Write a synthetic sphere, cylinder or tube mask stack.",
	Long: `phantom rasterises an analytic shape into a labelmap and writes it as one mask
image per slice, ready to be measured with run. Sizes are in mm.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		shape, _ := f.GetString("shape")
		radius, _ := f.GetFloat64("radius")
		inner, _ := f.GetFloat64("inner")
		length, _ := f.GetFloat64("length")
		spacingValues, _ := f.GetFloat64Slice("spacing")
		axisName, _ := f.GetString("axis")
		formatName, _ := f.GetString("format")

		spacing, err := parseSpacing(spacingValues)
		if err != nil {
			return err
		}
		axis, err := models.ParseAxis(axisName)
		if err != nil {
			return err
		}
		format, err := stack.ParseFormat(formatName)
		if err != nil {
			return err
		}

		var vol *models.Volume
		switch shape {
		case "sphere":
			vol, err = stack.Sphere(radius, spacing)
		case "cylinder":
			vol, err = stack.Cylinder(radius, length, axis, spacing)
		case "tube":
			vol, err = stack.Tube(radius, inner, length, axis, spacing)
		default:
			err = errors.Errorf("unknown shape %q (must be sphere, cylinder or tube)", shape)
		}
		if err != nil {
			return err
		}

		n, err := stack.SaveSliceSequence(vol, models.AxisSlice, args[0], format)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"shape":  shape,
			"width":  vol.Width,
			"height": vol.Height,
			"depth":  vol.Depth,
		}).Debug("Phantom rasterised")
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d %s slices to %s\n", n, format, args[0])
		return nil
	},
}

// exportCmd re-slices a mask stack along another axis.
var exportCmd = &cobra.Command{
	Use:   "export <mask-dir> <output-dir>",
	Short: "Re-slice a mask stack along a voxel axis and save the images.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		axisName, _ := f.GetString("axis")
		formatName, _ := f.GetString("format")
		axis, err := models.ParseAxis(axisName)
		if err != nil {
			return err
		}
		format, err := stack.ParseFormat(formatName)
		if err != nil {
			return err
		}

		vol, err := stack.LoadStack(args[0], cfg.Input.Spacing, cfg.Input.Threshold, logrus.StandardLogger())
		if err != nil {
			return err
		}
		n, err := stack.SaveSliceSequence(vol, axis, args[1], format)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %d %s-axis slices to %s\n", n, axis, args[1])
		return nil
	},
}

// configCmd writes the default configuration file.
var configCmd = &cobra.Command{
	Use:   "config [path]",
	Short: "Write a default configuration file.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "segmentgeometry.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.CreateDefaultConfigFile(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default configuration written to %s\n", path)
		return nil
	},
}

func init() {
	Root.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (YAML); defaults are used when empty")
	Root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rf := runCmd.Flags()
	rf.String("mask", "", "directory holding the mask image stack")
	rf.String("companion", "", "directory holding the companion segment used for compactness")
	rf.String("intensity", "", "directory holding the grey-value stack used for mean intensity")
	rf.StringP("output", "o", "", "CSV file to write")
	rf.String("axis", "", "sweep axis: row, column or slice")
	rf.Float64("interval", 0, "sampling interval in percent of the segment length (0 for every slice)")
	rf.Float64("angle", 0, "custom neutral axis angle in degrees")
	rf.Int("cores", 0, "number of slices measured concurrently")
	rf.StringSlice("metrics", nil, "metrics to compute: "+fmt.Sprint(metrics.Names()))
	rf.Float64("threshold", 0, "grey level above which a mask pixel is inside the segment")
	rf.Float64Slice("spacing", nil, "voxel spacing in mm: one isotropic value or x,y,z")
	rf.Bool("crop", true, "crop the volume to the segment before measuring")
	rf.Bool("transformed", false, "the volume was resampled into a rotated frame")
	rf.Bool("length-normalized", false, "add length-normalised columns")
	rf.Bool("material-normalized", false, "add material-normalised columns")

	pf := phantomCmd.Flags()
	pf.String("shape", "sphere", "shape to rasterise: sphere, cylinder or tube")
	pf.Float64("radius", 10, "outer radius in mm")
	pf.Float64("inner", 5, "inner radius of a tube in mm")
	pf.Float64("length", 40, "length of a cylinder or tube in mm")
	pf.Float64Slice("spacing", []float64{0.5}, "voxel spacing in mm: one isotropic value or x,y,z")
	pf.String("axis", "slice", "long axis of a cylinder or tube")
	pf.String("format", "png", "image format: png, jpg, tif or bmp")

	ef := exportCmd.Flags()
	ef.String("axis", "row", "axis to slice along")
	ef.String("format", "png", "image format: png, jpg, tif or bmp")

	Root.AddCommand(runCmd, phantomCmd, exportCmd, configCmd)
	for _, c := range []*cobra.Command{Root, runCmd, phantomCmd, exportCmd, configCmd} {
		c.SilenceUsage = true
	}
}

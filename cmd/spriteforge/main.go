// Command spriteforge runs the character spritesheet pipeline from the
// command line: resolve a semantic selection against an asset catalog,
// validate the resulting build, and rasterize and slice it into
// game-ready frames.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"spriteforge/internal/build"
	"spriteforge/internal/catalog"
	"spriteforge/internal/pipeline"
	"spriteforge/internal/resolve"
)

var (
	logger *zap.Logger

	flagConfig     string
	flagCatalogDir string
	flagAssetDir   string
	flagOutDir     string
	flagAnims      []string
	flagFPS        int
	flagPad        int
	flagFlat       bool
	flagSynonyms   string
	flagDebug      bool
)

func main() {
	root := &cobra.Command{
		Use:   "spriteforge",
		Short: "Generate game-ready character spritesheets from semantic selections",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if flagDebug {
				config = zap.NewDevelopmentConfig()
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&flagCatalogDir, "catalog", "", "catalog definition directory")
	root.PersistentFlags().StringVar(&flagAssetDir, "assets", "", "image asset root")
	root.PersistentFlags().StringVar(&flagSynonyms, "synonyms", "", "colour synonym dictionary (YAML)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "debug logging")

	root.AddCommand(generateCmd(), resolveCmd(), validateCmd(), schemaCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildOptions merges config file and flags; flags win.
func buildOptions() (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if flagConfig != "" {
		var err error
		opts, err = pipeline.LoadConfig(flagConfig)
		if err != nil {
			return opts, err
		}
	}
	if flagCatalogDir != "" {
		opts.CatalogDir = flagCatalogDir
	}
	if flagAssetDir != "" {
		opts.AssetDir = flagAssetDir
	}
	if flagOutDir != "" {
		opts.OutDir = flagOutDir
	}
	if len(flagAnims) > 0 {
		opts.Animations = flagAnims
	}
	if flagFPS > 0 {
		opts.FPS = flagFPS
	}
	if flagPad > 0 {
		opts.PadWidth = flagPad
	}
	if flagFlat {
		opts.OrientationDirs = false
	}
	if flagSynonyms != "" {
		opts.SynonymsPath = flagSynonyms
	}
	opts.Logger = logger
	if opts.CatalogDir == "" {
		return opts, fmt.Errorf("catalog directory required (--catalog or config file)")
	}
	return opts, nil
}

func loadSelection(path string) (resolve.Selection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return resolve.Selection{}, fmt.Errorf("read selection %s: %w", path, err)
	}
	return resolve.ParseSelection(data)
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <selection.json>",
		Short: "Run the full pipeline: resolve, validate, compose, slice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions()
			if err != nil {
				return err
			}
			if opts.OutDir == "" {
				return fmt.Errorf("output directory required (--out or config file)")
			}

			sel, err := loadSelection(args[0])
			if err != nil {
				return err
			}

			result, err := pipeline.Run(sel, opts)
			if result != nil && result.Trace != nil {
				printTrace(result.Trace)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Build %s: %d layers, %d animation(s) -> %s\n",
				result.Build.ID, len(result.Build.Layers), len(result.Manifests), opts.OutDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagOutDir, "out", "", "output directory")
	cmd.Flags().StringSliceVar(&flagAnims, "animations", nil, "animations to compose (default idle)")
	cmd.Flags().IntVar(&flagFPS, "fps", 0, "manifest fps (default 8)")
	cmd.Flags().IntVar(&flagPad, "pad", 0, "frame index pad width (default 3)")
	cmd.Flags().BoolVar(&flagFlat, "flat", false, "write frames flat instead of per-orientation directories")
	return cmd
}

func resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <selection.json>",
		Short: "Resolve and validate a selection, printing the build and trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions()
			if err != nil {
				return err
			}
			opts.OutDir = "" // resolve-only

			sel, err := loadSelection(args[0])
			if err != nil {
				return err
			}

			result, err := pipeline.Run(sel, opts)
			if result != nil && result.Trace != nil {
				printTrace(result.Trace)
			}
			if err != nil {
				return err
			}
			return printJSON(result.Build)
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <build.json>",
		Short: "Validate a stored build against the catalog contract",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read build %s: %w", args[0], err)
			}
			var b build.Build
			if err := json.Unmarshal(data, &b); err != nil {
				return fmt.Errorf("parse build %s: %w", args[0], err)
			}

			cat, err := catalog.Open(opts.CatalogDir, opts.AssetDir, logger)
			if err != nil {
				return err
			}
			if err := build.NewValidator(cat.Contract()).Validate(&b); err != nil {
				return err
			}
			fmt.Println("build is valid")
			return nil
		},
	}
}

func schemaCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Emit the JSON Schema for the build contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := build.SchemaJSON()
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write schema: %w", err)
			}
			fmt.Printf("schema written to %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "output path (default stdout)")
	return cmd
}

func printTrace(trace resolve.Trace) {
	for _, e := range trace {
		status := e.Variant
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(os.Stderr, "  %-14s %-22s -> %-28s %-10s %v\n",
			e.Category, e.Item, orDash(e.ResolvedPath), status, e.Notes)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/suparena/delta/internal/keygen"
)

// DefaultOutput is the file written into --dir when --output is not set.
const DefaultOutput = "delta_keys_gen.go"

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DELTAKEYS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "deltakeys [packages]",
		Short: "Generate typed field keys for delta",
		Long: `deltakeys loads one Go package and writes, for each selected struct type T,
a variable TFields holding a registry.Field for every exported field of T.

Without --type every exported non-generic struct type is generated.
Use --output - to print the generated file instead of writing it.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := configureLogging(v.GetBool("verbose"))
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return generate(cmd, v, args, logger)
		},
	}

	rootCmd.Flags().StringP("dir", "d", ".", "directory the package patterns are resolved from")
	rootCmd.Flags().StringSliceP("type", "t", nil, "struct types to generate keys for (repeatable)")
	rootCmd.Flags().StringP("output", "o", "", "output file, \"-\" for stdout (default <dir>/"+DefaultOutput+")")
	rootCmd.Flags().BoolP("verbose", "v", false, "development logging")

	if err := v.BindPFlags(rootCmd.Flags()); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func generate(cmd *cobra.Command, v *viper.Viper, patterns []string, logger *zap.Logger) error {
	dir := v.GetString("dir")
	names := v.GetStringSlice("type")

	logger.Debug("loading package",
		zap.String("dir", dir),
		zap.Strings("patterns", patterns),
		zap.Strings("types", names))

	file, err := keygen.Load(dir, patterns, names)
	if err != nil {
		return err
	}

	src, err := keygen.Render(file)
	if err != nil {
		return err
	}

	output := v.GetString("output")
	if output == "-" {
		_, err = cmd.OutOrStdout().Write(src)
		return err
	}
	if output == "" {
		output = filepath.Join(dir, DefaultOutput)
	}
	if err := os.WriteFile(output, src, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	logger.Info("field keys generated",
		zap.String("package", file.PkgPath),
		zap.Int("types", len(file.Types)),
		zap.String("output", output))
	return nil
}

func configureLogging(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

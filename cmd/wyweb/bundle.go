package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"wyweb/internal/bundle"
	"wyweb/lib"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle [flags] [dir]",
	Short: "Pack library sources into a bundle file",
	Long: `Bundle collects every .wy file under dir (the embedded standard library
when omitted), checks that the modules compile and writes them to one file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBundle,
}

func init() {
	bundleCmd.Flags().StringP("output", "o", "lib/stdlib.bundle", "bundle file to write")
}

func runBundle(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	var fsys fs.FS = lib.FS
	if len(args) == 1 {
		fsys = os.DirFS(args[0])
	}
	b, err := bundle.FromFS(fsys)
	if err != nil {
		return err
	}
	if len(b.Modules) == 0 {
		return fmt.Errorf("no .wy files found")
	}
	if _, err := bundle.Compile(cmd.Context(), b, bundle.Options{Logger: app.log}); err != nil {
		return err
	}
	if err := bundle.Save(output, b); err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, m := range b.Modules {
		fmt.Fprintf(w, "  %-24s %s\n", m.Path, m.Digest.String()[:12])
	}
	fmt.Fprintf(w, "wrote %s (%d modules, digest %s)\n", output, len(b.Modules), b.Digest().String()[:12])
	return nil
}

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wyweb/internal/diag"
	"wyweb/internal/diagfmt"
	"wyweb/internal/lexer"
	"wyweb/internal/source"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [flags] file.wy",
	Short: "Print the tokens of a Wy file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func init() {
	tokensCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokens(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	code, name, err := readSource(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	file := source.NewFile(name, code)
	toks, err := lexer.Tokenize(file)
	if err != nil {
		if d, ok := diag.FromError(err, "compile", name, code); ok {
			_ = diagfmt.Pretty(cmd.ErrOrStderr(), d, diagfmt.PrettyOpts{Color: !color.NoColor})
			return silentError{err}
		}
		return err
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), toks, file)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), toks)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

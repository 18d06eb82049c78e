package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/etnz/apt-sources/sources"
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert one-line source entries to deb822",
	Long: `Convert reads one-line APT source entries from a file, or from standard
input when no file (or "-") is given, and writes the deb822 form to
standard output or to --output.

Every non-empty input line produces one output block, in order. The command
never fails on bad lines: they are replaced by a comment.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := convertOptions{
			Output:  viper.GetString("output"),
			Format:  viper.GetString("format"),
			Watch:   viper.GetBool("watch"),
			Keys:    keyOptionsFromConfig(),
			Verbose: viper.GetBool("verbose"),
		}
		if len(args) == 1 {
			opts.Input = args[0]
		}

		conv := newConverter(opts.Keys, opts.Verbose)
		if !opts.Watch {
			return runConvert(conv, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchConvert(ctx, conv, opts, cmd.OutOrStdout())
	},
}

func init() {
	f := convertCmd.Flags()
	f.StringP("output", "o", "", "write the result to this file instead of stdout")
	f.StringP("format", "f", formatDeb822, "output format: deb822, json or yaml")
	f.BoolP("watch", "w", false, "convert again each time the input file changes")

	for _, key := range []string{"output", "format", "watch"} {
		viper.BindPFlag(key, f.Lookup(key))
	}

	rootCmd.AddCommand(convertCmd)
}

// convertOptions holds the settings of a convert run.
type convertOptions struct {
	// Input is the file to convert; empty or "-" means stdin.
	Input string
	// Output is the file to write; empty means stdout.
	Output  string
	Format  string
	Watch   bool
	Keys    keyOptions
	Verbose bool
}

// runConvert performs a single conversion of opts.Input.
func runConvert(conv *sources.Converter, opts convertOptions, stdin io.Reader, stdout io.Writer) error {
	text, err := readInput(opts.Input, stdin)
	if err != nil {
		return err
	}
	out, err := encode(conv.ConvertLines(text), opts.Format)
	if err != nil {
		return err
	}
	return writeOutput(opts.Output, out, stdout)
}

func readInput(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(b), nil
}

func writeOutput(path string, out []byte, stdout io.Writer) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(out)
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

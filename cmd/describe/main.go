// Command describe is a CLI for tracing a schema from JSON input and
// re-emitting it through one of the downstream wire formats.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	describe "github.com/kungfusheep/describe"
	"github.com/kungfusheep/describe/downstream/lenprefix"
	"github.com/kungfusheep/describe/downstream/text"
)

// log is the CLI's structured logger, configured the way a short-lived
// command-line tool wants it: human-readable, writing to stderr, silent
// unless something actually goes wrong.
var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
	Level(zerolog.WarnLevel).
	With().Timestamp().Logger()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the describe command tree: a root that defaults to
// schema inference on stdin (the historic no-subcommand behavior), plus
// explicit schema and emit subcommands.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "describe",
		Short: "Schema inference and re-serialization CLI",
		Long: `describe infers a schema from JSON on stdin and can re-emit the
traced value through one of the downstream wire formats.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapRunErr(runSchema(cmd.InOrStdin(), cmd.OutOrStdout()))
		},
	}
	root.PersistentFlags().Bool("verbose", false, "log at info level instead of warn")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			log = log.Level(zerolog.InfoLevel)
		}
	}

	root.AddCommand(newSchemaCmd(), newEmitCmd())
	return root
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Infer a schema from JSON on stdin and print its tree",
		Example: `  echo '{"name":"sam","age":41}' | describe schema`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapRunErr(runSchema(cmd.InOrStdin(), cmd.OutOrStdout()))
		},
	}
}

func newEmitCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Re-emit JSON on stdin through a downstream format",
		Example: `  echo '{"name":"sam","age":41}' | describe emit --format=lenprefix | xxd`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wrapRunErr(runEmit(cmd.InOrStdin(), cmd.OutOrStdout(), format))
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or lenprefix")
	return cmd
}

// wrapRunErr logs err at error level before returning it, so cobra's
// SilenceErrors setting doesn't leave the failure unreported: the caller
// still sees a non-zero exit, but the message goes through zerolog rather
// than a bare fmt.Fprintf.
func wrapRunErr(err error) error {
	if err != nil {
		log.Error().Err(err).Msg("describe")
	}
	return err
}

// readJSON decodes stdin as a generic JSON value (map[string]any, []any,
// float64, string, bool, nil), which describe.Trace handles the same way
// it handles any other interface-typed field: by tracing the dynamic value
// it finds inside.
func readJSON(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	return v, nil
}

func runSchema(in io.Reader, out io.Writer) error {
	v, err := readJSON(in)
	if err != nil {
		return err
	}
	val, err := describe.Trace(v)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	printSchemaTree(out, val.Schema(), val.Root())
	return nil
}

func runEmit(in io.Reader, out io.Writer, format string) error {
	v, err := readJSON(in)
	if err != nil {
		return err
	}
	val, err := describe.Trace(v)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	switch format {
	case "text":
		enc := text.NewEncoder()
		if err := val.Emit(enc); err != nil {
			return fmt.Errorf("emitting: %w", err)
		}
		fmt.Fprintln(out, enc.String())
	case "lenprefix":
		enc := lenprefix.NewEncoder()
		if err := val.Emit(enc); err != nil {
			return fmt.Errorf("emitting: %w", err)
		}
		out.Write(enc.Bytes())
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

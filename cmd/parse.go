package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/longkey1/mdbuddy/internal/buddy"
	"github.com/longkey1/mdbuddy/internal/buddy/document"
	"github.com/spf13/cobra"
)

var (
	parseJSON     bool
	parseNotation string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Show the conversation turns found in a document",
	Long: `Parse the document and print the turns that would be sent to the LLM.
Exits with an error if the document is malformed, e.g. when a buddy block
is never closed.

Use "-" as the file to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := buddy.ParseNotation(parseNotation)
		if err != nil {
			return err
		}

		var src document.Source = document.File{Path: args[0]}
		if args[0] == "-" {
			src = document.Reader{R: cmd.InOrStdin()}
		}
		text, err := src.Text()
		if err != nil {
			return err
		}

		turns, err := buddy.NewParser(buddy.WithNotation(n)).Parse(text)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		if parseJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(turns)
		}
		printTurns(cmd.OutOrStdout(), turns)
		return nil
	},
}

func printTurns(w io.Writer, turns []buddy.Turn) {
	if len(turns) == 0 {
		fmt.Fprintln(w, "No turns found.")
		return
	}

	user := color.New(color.FgCyan, color.Bold)
	assistant := color.New(color.FgGreen, color.Bold)
	for i, turn := range turns {
		label := user.Sprint("You")
		if turn.Role == buddy.RoleAssistant {
			label = assistant.Sprint("Assistant")
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "[%d] %s:\n%s\n", i+1, label, turn.Content)
	}
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&parseJSON, "json", false, "Print turns as JSON")
	parseCmd.Flags().StringVar(&parseNotation, "notation", "", "Document notation: fence or callout (default fence)")
}

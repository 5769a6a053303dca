package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-analyzer/internal/documents"
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text <file>",
	Short: "Extract plain text from a PDF or DOCX resume",
	Long:  "Extract plain text from a PDF or DOCX resume. No model call is made.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtractText,
}

var extractTextOut string

func init() {
	extractTextCmd.Flags().StringVarP(&extractTextOut, "out", "o", "", "write the text to this file instead of stdout")
	rootCmd.AddCommand(extractTextCmd)
}

func runExtractText(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}

	text, err := documents.Extract(doc)
	if err != nil {
		return err
	}
	if text.Unsupported() {
		return text.Err()
	}

	if extractTextOut != "" {
		if err := os.WriteFile(extractTextOut, []byte(text.Body), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Extracted %s text to %s\n", text.Format, extractTextOut)
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), text.Body)
	return nil
}

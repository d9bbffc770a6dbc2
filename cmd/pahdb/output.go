// ABOUTME: Shared CLI helpers for argument parsing and table output.
// ABOUTME: Tables go to stdout or a file in the requested export format.
package main

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/kgaertn/PAH-PCA-LDA/internal/blob"
	"github.com/kgaertn/PAH-PCA-LDA/internal/storage"
	"github.com/spf13/cobra"
)

var faint = color.New(color.Faint)

// writeTable encodes t in the named format to output, or to the command's
// stdout when output is empty. An s3://bucket/key output uploads the encoding.
func writeTable(cmd *cobra.Command, t *storage.Table, format, output string) error {
	f, err := storage.ParseFormat(format)
	if err != nil {
		return err
	}

	if output == "" {
		if f == storage.FormatText && t.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), "No rows found.")
			return nil
		}
		return t.Write(cmd.OutOrStdout(), f)
	}
	if blob.IsURL(output) {
		return uploadTable(cmd, t, f, output)
	}

	file, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := t.Write(file, f); err != nil {
		file.Close()
		return fmt.Errorf("export failed: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	color.Green("✓ Exported %d rows to %s", t.Len(), output)
	return nil
}

func uploadTable(cmd *cobra.Command, t *storage.Table, f storage.Format, output string) error {
	loc, err := blob.ParseURL(output)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := t.Write(&buf, f); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	uploader, err := blob.New(cmd.Context(), blob.ConfigFromEnv())
	if err != nil {
		return err
	}
	if err := uploader.Put(cmd.Context(), loc, bytes.NewReader(buf.Bytes()), f.ContentType()); err != nil {
		return err
	}

	logger.Debug().Str("location", loc.String()).Int("bytes", buf.Len()).Msg("table uploaded")
	color.Green("✓ Uploaded %d rows to %s", t.Len(), loc)
	return nil
}

func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %s", what, s)
	}
	return id, nil
}

// parseOptionalBool accepts yes/no as well as strconv booleans. An empty
// string means unknown and yields nil.
func parseOptionalBool(s, flag string) (*bool, error) {
	switch strings.ToLower(s) {
	case "":
		return nil, nil
	case "yes", "y":
		b := true
		return &b, nil
	case "no", "n":
		b := false
		return &b, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, fmt.Errorf("invalid value for --%s: %s (use yes or no)", flag, s)
	}
	return &b, nil
}

func derefString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func formatOptionalBool(b *bool) string {
	if b == nil {
		return "-"
	}
	if *b {
		return "yes"
	}
	return "no"
}

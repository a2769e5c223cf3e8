package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mynd/internal/version"
)

func newVersionCmd() *cobra.Command {
	var (
		format string
		full   bool
	)
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show mynd build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			switch strings.ToLower(format) {
			case "json":
				return renderVersionJSON(cmd.OutOrStdout(), info)
			case "pretty":
				renderVersionPretty(cmd.OutOrStdout(), info, full)
				return nil
			}
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	cmd.Flags().BoolVar(&full, "full", false, "include commit and build date")
	return cmd
}

func renderVersionPretty(out io.Writer, info version.Info, full bool) {
	fmt.Fprintf(out, "mynd %s\n", version.Colored(info.Version))
	if !full {
		return
	}
	fmt.Fprintf(out, "commit: %s\n", valueOrUnknown(info.GitCommit))
	fmt.Fprintf(out, "built:  %s\n", valueOrUnknown(info.BuildDate))
}

func renderVersionJSON(out io.Writer, info version.Info) error {
	payload := struct {
		Tool string `json:"tool"`
		version.Info
	}{Tool: "mynd", Info: info}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

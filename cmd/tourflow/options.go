package main

import (
	"fmt"

	"github.com/aretw0/tourflow"
	"github.com/spf13/cobra"
)

// addEmbedFlags registers the widget options shared by play and preview.
func addEmbedFlags(cmd *cobra.Command) {
	cmd.Flags().StringToString("option", nil, "Embed option as key=value (e.g. placement=top, highlightPadding=4)")
	cmd.Flags().Bool("fresh", false, "Forget that the tour was completed before playing it")
}

// embedOptions decodes the --option flags over the defaults, the same way an
// embedding page's configuration object is read.
func embedOptions(cmd *cobra.Command) (tourflow.Options, error) {
	pairs, _ := cmd.Flags().GetStringToString("option")
	raw := make(map[string]any, len(pairs))
	for k, v := range pairs {
		raw[k] = v
	}
	opts, err := tourflow.DecodeOptions(raw)
	if err != nil {
		return opts, fmt.Errorf("invalid --option: %w", err)
	}
	return opts, nil
}

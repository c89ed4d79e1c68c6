// Package cli provides terminal rendering and process helpers for the
// promptpress commands.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/promptpress/promptpress/pkg/optimizer"
)

// RenderResult writes a human-readable view of an optimization result.
func RenderResult(w io.Writer, result *optimizer.Result) {
	successIcon := color.New(color.FgGreen).Sprint("✓")
	failIcon := color.New(color.FgRed).Sprint("✗")
	dim := color.New(color.Faint)
	bold := color.New(color.Bold)

	fmt.Fprintf(w, "%s %s\n", bold.Sprint("Original: "), result.Original.Prompt)
	fmt.Fprintf(w, "%s %s\n\n", bold.Sprint("Optimized:"), result.Chosen.Prompt)

	for _, c := range result.Optimized {
		icon := failIcon
		if c.SemanticPassed {
			icon = successIcon
		}
		marker := "  "
		if c.Source == result.Chosen.Source {
			marker = color.New(color.FgCyan).Sprint("> ")
		}
		fmt.Fprintf(w, "%s%s %-12s %3d tokens  score %.3f", marker, icon, c.Source, c.Tokens, c.SemanticScore)
		if len(c.AppliedRules) > 0 {
			fmt.Fprintf(w, "  %s", dim.Sprint(strings.Join(c.AppliedRules, ", ")))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	savings := color.New(color.FgGreen)
	if result.Metrics.TokensSavedPct < 0 {
		savings = color.New(color.FgRed)
	}
	fmt.Fprintf(w, "Tokens saved: %s   LLM calls: %d   Time: %dms   Reason: %s\n",
		savings.Sprintf("%.2f%%", result.Metrics.TokensSavedPct),
		result.Metrics.LLMCalls,
		result.Metrics.TimeMs,
		result.Chosen.Reason,
	)
	if result.Cached {
		fmt.Fprintln(w, dim.Sprint("(served from cache)"))
	}
}

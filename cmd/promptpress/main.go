// Promptpress is a prompt optimization service.
//
// It rewrites prompts with a deterministic rule engine, fans the prompt out
// to configured LLM providers for competing rewrites, validates every
// candidate for semantic fidelity, and picks the cheapest one that stays
// faithful to the original.
//
// Usage:
//
//	# Start the HTTP API with default configuration
//	promptpress run
//
//	# Start with a custom configuration file
//	promptpress run --config /path/to/config.yaml
//
//	# Optimize a single prompt from the terminal
//	promptpress optimize "Could you please summarize this report?"
//
//	# Show version information
//	promptpress version
package main

func main() {
	Execute()
}

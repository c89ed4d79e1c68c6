// Package tokens provides the word-count token estimation heuristic shared
// by the rule engine, provider gateways, and response builder.
package tokens

// Package file provides filesystem-backed adapters.
//
// Adapters:
//   - ConfigStore: TOML configuration at $FSQUERY_HOME/config.toml
//   - PromptStore: editable answer prompts under $FSQUERY_HOME/prompts
package file

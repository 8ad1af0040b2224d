package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/strata-cli/internal/adapters/driven/ai"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change configuration values.

Common keys:
  search.mode           default search mode (vector, graph, hybrid)
  search.top_k          default number of results
  search.vector_weight  hybrid vector weight
  search.graph_weight   hybrid graph weight
  embedding.provider    embedding backend (ollama, openai)
  embedding.base_url    embedding server URL
  embedding.model       embedding model name
  generation.provider   generation backend (ollama, openai, anthropic)
  generation.base_url   generation server URL
  generation.model      generation model name`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show all configuration values",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate provider connectivity",
	Long:  "Create the configured embedding and generation services and ping them.",
	RunE:  runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	keys := configKeys()
	if len(keys) == 0 {
		cmd.Println("No configuration set.")
		cmd.Printf("Config file: %s\n", configStore.Path())
		return nil
	}

	for _, key := range keys {
		value, _ := configStore.Get(key)
		cmd.Printf("%s = %v\n", key, value)
	}
	cmd.Println()
	cmd.Printf("Config file: %s\n", configStore.Path())

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}

	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseConfigValue(raw)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	cmd.Printf("%s = %s\n", key, raw)
	return nil
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	failed := false

	embed := ai.EmbeddingSettingsFromConfig(configStore)
	if err := ai.ValidateEmbeddingConfig(embed); err != nil {
		failed = true
		cmd.Printf("embedding:  FAIL (%v)\n", err)
	} else {
		cmd.Println("embedding:  ok")
	}

	gen := ai.GenerationSettingsFromConfig(configStore)
	if err := ai.ValidateGenerationConfig(gen); err != nil {
		failed = true
		cmd.Printf("generation: FAIL (%v)\n", err)
	} else {
		cmd.Println("generation: ok")
	}

	if failed {
		return errors.New("provider check failed")
	}
	return nil
}

// configKeys returns the set keys among the known ones, sorted.
func configKeys() []string {
	known := []string{
		"index.path",
		"search.mode",
		"search.top_k",
		"search.vector_weight",
		"search.graph_weight",
		"embedding.provider",
		"embedding.base_url",
		"embedding.model",
		"embedding.api_key",
		"embedding.dimensions",
		"generation.provider",
		"generation.base_url",
		"generation.model",
		"generation.api_key",
		"chunk.size",
		"chunk.overlap",
	}

	var keys []string
	for _, key := range known {
		if _, ok := configStore.Get(key); ok {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// parseConfigValue keeps numeric and boolean values typed in the
// config file instead of storing everything as strings.
func parseConfigValue(raw string) any {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(raw, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(raw); err == nil {
		return v
	}
	return raw
}

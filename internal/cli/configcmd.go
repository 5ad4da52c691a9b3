package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/calder/browsershell/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration tooling",
}

var schemaWrite bool

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON schema",
	Long: `Generate the JSON schema for the configuration file, for editor
completion and validation. Prints to stdout by default; --write places
config.schema.json next to the config file instead.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		if schemaWrite {
			if err := config.GenerateSchemaFile(); err != nil {
				return err
			}
			dir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			fmt.Printf("schema written to %s/config.schema.json\n", dir)
			return nil
		}

		data, err := config.GenerateSchema()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration and data directories",
	RunE: func(_ *cobra.Command, _ []string) error {
		configDir, err := config.GetConfigDir()
		if err != nil {
			return err
		}
		dataDir, err := config.GetDataDir()
		if err != nil {
			return err
		}
		fmt.Printf("config: %s\ndata:   %s\n", configDir, dataDir)
		return nil
	},
}

func init() {
	configSchemaCmd.Flags().BoolVar(&schemaWrite, "write", false, "write the schema next to the config file")
	configCmd.AddCommand(configSchemaCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

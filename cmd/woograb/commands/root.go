// Package commands implements the CLI commands for woograb.
package commands

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "woograb",
	Short: "Product image scraper and WooCommerce catalog exporter",
	Long: `Woograb scrapes every image from a product page, converts them to
JPEG, detects color variants, and upserts the product into a single
master WooCommerce CSV.

Examples:
  # Scrape a gallery and keep the original image URLs in the CSV
  woograb scrape --url "https://shop.example.com/p/bob-hat" \
      --css ".product-gallery__media-list img"

  # Upload converted JPEGs to the WordPress media library
  woograb scrape --url "https://shop.example.com/p/bob-hat" \
      --css ".gallery img" --images-mode wp-upload \
      --wp-user admin --wp-app-pass "xxxx xxxx xxxx xxxx"

  # Build clean site URLs without uploading
  woograb scrape --url "https://shop.example.com/p/bob-hat" \
      --css ".gallery img" --images-mode wp-prefix \
      --wp-year 2024 --wp-month 3`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.woograb.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".woograb")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("WOOGRAB")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

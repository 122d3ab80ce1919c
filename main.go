package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ramana-ai/ramana/account"
	"github.com/ramana-ai/ramana/cli"
	"github.com/ramana-ai/ramana/cli/chat"
	"github.com/ramana-ai/ramana/configuration"
)

const configFilepath = "~/.ramana/config.json"

var rootCmd = &cobra.Command{
	Use:   "ramana",
	Short: "Chat with Ramana from your terminal",
}

func main() {
	// Secrets such as HF_TOKEN may live in a local .env file.
	godotenv.Load()

	config, err := configuration.Parse(configFilepath)
	if err != nil {
		panic(err)
	}

	rootCmd.AddCommand(chat.NewCmd(config))
	rootCmd.AddCommand(account.NewLoginCmd(config))
	rootCmd.AddCommand(account.NewSignupCmd(config))
	rootCmd.AddCommand(account.NewLogoutCmd(config))
	rootCmd.AddCommand(account.NewWhoamiCmd(config))
	rootCmd.AddCommand(cli.NewExportCmd(config))
	rootCmd.AddCommand(cli.NewClearCmd(config))
	rootCmd.AddCommand(cli.NewModelsCmd(config))
	rootCmd.Execute()
}

// Package cli assembles the non-interactive commands and shared wiring.
package cli

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ramana-ai/ramana/chat"
	"github.com/ramana-ai/ramana/configuration"
	"github.com/ramana-ai/ramana/internal/cli"
	"github.com/ramana-ai/ramana/store"
)

// OpenStore opens the configured history backend.
func OpenStore(config *configuration.Config) (store.Store, error) {
	switch config.HistoryBackend {
	case "", "file":
		return store.NewFileStore(config.HistoryFile)
	case "sqlite":
		return store.NewSQLiteStore(config.HistoryDatabase)
	}
	return nil, errors.Errorf("unknown history backend (%s)", config.HistoryBackend)
}

// NewExportCmd instantiates and returns the export command.
func NewExportCmd(config *configuration.Config) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export [chat-id]",
		Short: "Write a conversation as plain text",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := OpenStore(config)
			if err != nil {
				return errors.Wrap(err, "opening store")
			}
			manager := chat.NewManager(s)

			conversation := manager.ActiveChat()
			if len(args) == 1 {
				conversation = manager.GetChat(args[0])
			}
			if conversation == nil {
				return errors.New("no such conversation")
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return errors.Wrap(err, "creating output file")
				}
				defer f.Close()
				w = f
			}
			return chat.WriteExport(w, conversation)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

// NewClearCmd instantiates and returns the clear command.
func NewClearCmd(config *configuration.Config) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all conversations and purge persisted history",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !cli.QueryUser("Delete all conversations?") {
				return nil
			}
			s, err := OpenStore(config)
			if err != nil {
				return errors.Wrap(err, "opening store")
			}
			manager := chat.NewManager(s)
			if err := manager.ClearAll(); err != nil {
				return err
			}
			cli.UserCommand("Chat history cleared.\n")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "y", false, "skip the confirmation prompt")
	return cmd
}

// NewModelsCmd instantiates and returns the models command.
func NewModelsCmd(config *configuration.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the configured models",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			for _, model := range config.Models {
				marker := "  "
				if model == config.DefaultModel {
					marker = "* "
				}
				cli.UserInput("%s%s\n", marker, model)
			}
		},
	}
}

package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/declaim/declaim/internal/config"
	"github.com/declaim/declaim/internal/state"
)

func newForgetCmd() *cobra.Command {
	var statePathFlag string

	cmd := &cobra.Command{
		Use:   "forget <script>",
		Short: "Discard the saved position for a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := statePathFlag
			if path == "" {
				path = config.DefaultStatePath()
			}
			store, err := state.Open(path)
			if err != nil {
				return err
			}
			defer store.Close()

			key, err := filepath.Abs(args[0])
			if err != nil {
				key = args[0]
			}
			if err := store.Forget(key); err != nil {
				return err
			}
			fmt.Printf("forgot position for %s\n", key)
			return nil
		},
	}

	cmd.Flags().StringVar(&statePathFlag, "state-file", "", "position database (default $XDG_STATE_HOME/declaim/positions.db)")

	return cmd
}

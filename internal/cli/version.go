package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sakuraflow/pkg/sakuraflow"
)

const modulePath = "github.com/mesh-intelligence/sakuraflow"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sakuraflow version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "sakuraflow v%s\nmodule: %s\n", sakuraflow.Version, modulePath)
			return nil
		},
	}
}

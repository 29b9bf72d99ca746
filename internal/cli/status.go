package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/sakuraflow/internal/controller"
	"github.com/mesh-intelligence/sakuraflow/pkg/types"
)

// statusVerb is a command that moves a task to a fixed status.
type statusVerb struct {
	use   string
	short string
	apply func(c *controller.Controller, ctx context.Context, id, editor string) (controller.Result, error)
}

var statusVerbs = []statusVerb{
	{"complete", "Mark a task done", (*controller.Controller).Complete},
	{"pause", "Put a task on hold", (*controller.Controller).Pause},
	{"resume", "Move a task back to in progress", (*controller.Controller).Resume},
	{"restore", "Bring an archived task back to in progress", (*controller.Controller).Restore},
}

func newStatusCmd(a *app, v statusVerb) *cobra.Command {
	return &cobra.Command{
		Use:   v.use + " <id>",
		Short: v.short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			res, err := v.apply(a.ctrl, cmd.Context(), id, a.identity())
			if err != nil {
				return hardFailure(v.use, err)
			}
			if !res.OK {
				return outcomeError(res, id, types.FieldStatus, "")
			}
			return a.writeResult(cmd.OutOrStdout(), res, "Task #%s: %s", id, res.Value)
		},
	}
}

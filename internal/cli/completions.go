package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// completeTaskRefs completes the first positional argument with task
// positions and short ids, described by the task text.
func completeTaskRefs(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if List == nil || len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var refs []string
	for i, task := range List.Tasks() {
		desc := task.Text
		if task.Completed {
			desc = "[x] " + desc
		}
		for _, ref := range []string{fmt.Sprintf("%d", i+1), shortID(task.ID)} {
			if toComplete == "" || strings.HasPrefix(ref, toComplete) {
				refs = append(refs, ref+"\t"+desc)
			}
		}
	}

	return refs, cobra.ShellCompDirectiveNoFileComp
}

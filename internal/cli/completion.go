package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var completionInstall bool

// shellCompletion describes how to generate and install completions for one
// shell. installDir is relative to the home directory; an empty installDir
// means --install is unsupported.
type shellCompletion struct {
	generate   func(w io.Writer) error
	loadHint   string
	installDir []string
	fileName   string
	afterHint  []string
}

var shellCompletions = map[string]shellCompletion{
	"bash": {
		generate:   func(w io.Writer) error { return rootCmd.GenBashCompletionV2(w, true) },
		loadHint:   `eval "$(todo completion bash)"`,
		installDir: []string{".local", "share", "bash-completion", "completions"},
		fileName:   "todo",
		afterHint:  []string{"Restart your shell to pick them up."},
	},
	"zsh": {
		generate:   func(w io.Writer) error { return rootCmd.GenZshCompletion(w) },
		loadHint:   `eval "$(todo completion zsh)"`,
		installDir: []string{".local", "share", "zsh", "site-functions"},
		fileName:   "_todo",
		afterHint: []string{
			"Ensure this directory is in your fpath. Add to ~/.zshrc if needed:",
			"  fpath=(~/.local/share/zsh/site-functions $fpath)",
			"  autoload -Uz compinit && compinit",
		},
	},
	"fish": {
		generate:   func(w io.Writer) error { return rootCmd.GenFishCompletion(w, true) },
		loadHint:   "todo completion fish | source",
		installDir: []string{".config", "fish", "completions"},
		fileName:   "todo.fish",
		afterHint:  []string{"Completions will be available in new fish sessions automatically."},
	},
	"powershell": {
		generate: func(w io.Writer) error { return rootCmd.GenPowerShellCompletionWithDesc(w) },
		loadHint: "todo completion powershell | Out-String | Invoke-Expression",
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion <shell>",
	Short: "Set up shell completions for todo",
	Long: `Set up shell tab-completions for todo commands, flags, and task references.

Supported shells: bash, zsh, fish, powershell

Quick install (writes the script under your home directory):

  todo completion bash --install
  todo completion zsh --install
  todo completion fish --install

Or print the completion script to stdout:

  todo completion bash
  todo completion powershell`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MaximumNArgs(1),
	RunE:      runCompletion,
}

func init() {
	completionCmd.Flags().BoolVar(&completionInstall, "install", false,
		"Install completions into your home directory")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	shell := args[0]
	sc, ok := shellCompletions[shell]
	if !ok {
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, fish, powershell)", shell)
	}

	if completionInstall {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("detecting home directory: %w", err)
		}
		target, err := installCompletion(sc, home)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s completions installed to %s\n", shell, target)
		for _, line := range sc.afterHint {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	// Hints go to stderr so stdout can be piped into the shell.
	hints := cmd.ErrOrStderr()
	fmt.Fprintf(hints, "# To load completions in your current session:\n#   %s\n", sc.loadHint)
	if sc.installDir != nil {
		fmt.Fprintf(hints, "# To install permanently:\n#   todo completion %s --install\n", shell)
	}
	return sc.generate(cmd.OutOrStdout())
}

// installCompletion writes the completion script for sc under home and
// returns the file path.
func installCompletion(sc shellCompletion, home string) (string, error) {
	if sc.installDir == nil {
		return "", fmt.Errorf("automatic install is not supported for this shell; add the printed script to your profile")
	}

	dir := filepath.Join(append([]string{home}, sc.installDir...)...)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating completion directory: %w", err)
	}
	target := filepath.Join(dir, sc.fileName)

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("creating completion file %s: %w", target, err)
	}
	writeErr := sc.generate(f)
	closeErr := f.Close()
	if writeErr != nil {
		return "", fmt.Errorf("writing completion file %s: %w", target, writeErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("closing completion file %s: %w", target, closeErr)
	}
	return target, nil
}

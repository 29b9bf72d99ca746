package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const shellPrompt = "sakuraflow> "

var errUnterminatedQuote = errors.New("unterminated quote or escape")

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run commands interactively against one open data file",
		Long: `Read commands from standard input, one per line, without the leading
"sakuraflow". Search results stay cached for the acting identity, so
"search 2" pages through the previous search. Quote arguments that contain
spaces. Type exit or quit to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewScanner(cmd.InOrStdin())
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			base := a.flags

			for {
				fmt.Fprint(out, shellPrompt)
				if !in.Scan() {
					fmt.Fprintln(out)
					return in.Err()
				}
				line := strings.TrimSpace(in.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					return nil
				}

				words, err := splitArgs(line)
				if err != nil {
					fmt.Fprintln(errOut, "error:", err)
					continue
				}
				if words[0] == "shell" {
					fmt.Fprintln(errOut, "error: already in the shell")
					continue
				}

				// Registering flags resets them to their defaults; each line
				// starts from the flags the shell was launched with.
				child := newRootCmd(a)
				a.flags = base
				child.SetIn(cmd.InOrStdin())
				child.SetOut(out)
				child.SetErr(errOut)
				child.SetContext(cmd.Context())
				run(child, words, errOut)
			}
		},
	}
}

// splitArgs splits a command line into words. Single quotes keep their
// contents literally; double quotes group words and honour backslash
// escapes.
func splitArgs(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote == '\'':
			if r == '\'' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\\':
			escaped = true
			inWord = true
		case quote == '"':
			if r == '"' {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 || escaped {
		return nil, errUnterminatedQuote
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

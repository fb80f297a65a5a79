package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askStream bool

var askCmd = &cobra.Command{
	Use:   "ask <message...>",
	Short: "Answer one message and exit",
	Example: `  baymax ask "What's the weather in Tokyo?"
  baymax ask search for python tutorials please
  baymax ask --stream "I hurt my arm"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		message := strings.Join(args, " ")
		out := cmd.OutOrStdout()

		if !askStream {
			fmt.Fprintln(out, a.router.Route(cmd.Context(), message))
			return nil
		}

		usage, err := a.router.ProcessAndStream(cmd.Context(), message, out)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		if usage != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "tokens: %d prompt + %d completion = %d\n",
				usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&askStream, "stream", false, "stream conversational replies with a persona chat history")
}

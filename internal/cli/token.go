package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Show admin URL with access token",
	Long: `Show the subscriber admin URL with your access token.

Use this when you've scrolled past the startup message or need to
share the admin link.

Example:
  monarkh token`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(getTokenFilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("no server running. Start with: monarkh serve")
		}
		return fmt.Errorf("failed to read token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return fmt.Errorf("token file is empty. Restart the server with: monarkh serve")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Admin: %s/admin?token=%s\n", serverURL(), token)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Tip: Bookmark this URL or run 'monarkh token' anytime.")
	return nil
}

package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/monarkh/site/internal/carousel"
)

var (
	initOut   string
	initForce bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter environment file",
	Long: `Ask a few questions and write the answers as MONARKH_* variables.

Example:
  monarkh init
  monarkh init --out /etc/monarkh.env`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initOut, "out", "o", "monarkh.env", "file to write")
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing file")
	rootCmd.AddCommand(initCmd)
}

// initSettings are the answers collected by init.
type initSettings struct {
	Port         int
	BaseURL      string
	DBPath       string
	CarouselMode carousel.Mode
}

func runInit(cmd *cobra.Command, args []string) error {
	if !initForce {
		if _, err := os.Stat(initOut); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", initOut)
		}
	}

	settings, err := promptSettings()
	if err != nil {
		return err
	}

	if err := os.WriteFile(initOut, []byte(renderEnvFile(settings)), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", initOut, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", initOut)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  set -a; . %s; set +a\n", initOut)
	fmt.Fprintln(out, "  monarkh serve")
	return nil
}

func promptSettings() (initSettings, error) {
	portPrompt := promptui.Prompt{
		Label:    "Port",
		Default:  strconv.Itoa(cfg.Port),
		Validate: validatePort,
	}
	rawPort, err := portPrompt.Run()
	if err != nil {
		return initSettings{}, fmt.Errorf("prompt cancelled: %w", err)
	}
	p, _ := strconv.Atoi(rawPort)

	urlPrompt := promptui.Prompt{
		Label:    "Public URL (blank for localhost)",
		Validate: validateBaseURL,
	}
	baseURL, err := urlPrompt.Run()
	if err != nil {
		return initSettings{}, fmt.Errorf("prompt cancelled: %w", err)
	}

	modes := []string{
		"Paged (auto-advances every 5 seconds)",
		"Scroll (moves on arrow clicks only)",
	}
	sel := promptui.Select{
		Label: "Which carousel do you want?",
		Items: modes,
		Size:  len(modes),
	}
	idx, _, err := sel.Run()
	if err != nil {
		return initSettings{}, fmt.Errorf("prompt cancelled: %w", err)
	}
	mode := carousel.ModePaged
	if idx == 1 {
		mode = carousel.ModeScroll
	}

	return initSettings{
		Port:         p,
		BaseURL:      strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		DBPath:       dbPath,
		CarouselMode: mode,
	}, nil
}

func validatePort(input string) error {
	p, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if p < 1 || p > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

func validateBaseURL(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return fmt.Errorf("URL must start with http:// or https://")
	}
	return nil
}

func renderEnvFile(s initSettings) string {
	var b strings.Builder
	b.WriteString("# monarkh settings, generated by 'monarkh init'\n")
	fmt.Fprintf(&b, "MONARKH_PORT=%d\n", s.Port)
	fmt.Fprintf(&b, "MONARKH_DB_PATH=%s\n", s.DBPath)
	if s.BaseURL != "" {
		fmt.Fprintf(&b, "MONARKH_BASE_URL=%s\n", s.BaseURL)
	}
	fmt.Fprintf(&b, "MONARKH_MOTION_CAROUSEL_MODE=%s\n", s.CarouselMode)
	return b.String()
}

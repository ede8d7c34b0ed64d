package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"meetnotes/internal/config"
)

func newHealthCommand(configFlag *string) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe a running meetnotes server",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := address
			if target == "" {
				cfg, _, _, err := config.Load(*configFlag)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				target = cfg.Server.Bind
			}

			client := &http.Client{Timeout: 5 * time.Second}
			resp, err := client.Get("http://" + target + "/api/health")
			if err != nil {
				return fmt.Errorf("probe %s: %w", target, err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read health response: %w", err)
			}
			var health struct {
				Status  string `json:"status"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(body, &health); err != nil {
				return fmt.Errorf("decode health response: %w", err)
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Address", target},
				{"Status", health.Status},
				{"Message", health.Message},
			}
			if stdoutIsTerminal() {
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))
			} else {
				for _, row := range rows {
					fmt.Fprintf(out, "%s: %s\n", row[0], row[1])
				}
			}
			if health.Status != "healthy" {
				return fmt.Errorf("server at %s reported status %q", target, health.Status)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "host:port of the server (defaults to the configured bind address)")
	return cmd
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

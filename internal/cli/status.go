package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/local-ai-stack/stackctl/internal/runtime"
)

// newStatusCommand creates the "status" subcommand that lists the project's
// containers with their health.
func newStatusCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the live topology and per-service health",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadStackConfig(opts)
			if err != nil {
				return err
			}

			docker, err := runtime.NewDocker()
			if err != nil {
				return err
			}

			containers, err := docker.ProjectContainers(cmd.Context(), cfg.Project)
			if err != nil {
				return err
			}

			if len(containers) == 0 {
				fmt.Printf("no containers for project %q\n", cfg.Project)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SERVICE\tCONTAINER\tSTATE\tHEALTH")
			for _, c := range containers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Service, c.Name, c.State, c.Health)
			}
			return w.Flush()
		},
	}
}

package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/cobra"

	"github.com/structfs/structfs/internal/cli/output"
)

var mountsServerURL string

var mountsCmd = &cobra.Command{
	Use:   "mounts",
	Short: "List the mount table of a running StructFS process",
	Long: `Query a running StructFS process's control server for its current
mount table.

Examples:
  structfs mounts
  structfs mounts --server http://localhost:9090`,
	RunE: runMounts,
}

func init() {
	mountsCmd.Flags().StringVar(&mountsServerURL, "server", "http://localhost:8080", "Control server base URL")
	rootCmd.AddCommand(mountsCmd)
}

type mountsResponse struct {
	Mounts []string `json:"mounts"`
}

func runMounts(cmd *cobra.Command, args []string) error {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 2

	resp, err := client.Get(mountsServerURL + "/health/mounts")
	if err != nil {
		return fmt.Errorf("failed to reach control server at %s: %w", mountsServerURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		return fmt.Errorf("control server returned status %d", resp.StatusCode)
	}

	var body struct {
		Data mountsResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	table := output.NewTableData("Mount")
	for _, name := range body.Data.Mounts {
		table.AddRow(name)
	}
	return output.PrintTable(os.Stdout, table)
}

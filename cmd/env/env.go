package env

import (
	"encoding/json"
	"fmt"

	"github.com/chapool/web3connect/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Prints the env",
		Long: `Prints the currently applied env

Sensitive values such as the database password are omitted.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runEnv()
		},
	}
}

func runEnv() error {
	cfg := config.DefaultServiceConfigFromEnv()

	c, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal the env")
	}

	//nolint:forbidigo
	fmt.Println(string(c))

	return nil
}

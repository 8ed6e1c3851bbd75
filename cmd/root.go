package cmd

import (
	"fmt"
	"os"

	"github.com/chapool/web3connect/cmd/db"
	"github.com/chapool/web3connect/cmd/env"
	"github.com/chapool/web3connect/cmd/probe"
	"github.com/chapool/web3connect/cmd/server"
	"github.com/chapool/web3connect/cmd/wallet"
	"github.com/chapool/web3connect/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Version: config.GetFormattedBuildArgs(),
	Use:     "web3connect",
	Short:   config.ModuleName,
	Long: fmt.Sprintf(`%v

A password-derived, deterministic multi-chain wallet.
Requires configuration through ENV.`, config.ModuleName),
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// attach the subcommands
	rootCmd.AddCommand(
		db.New(),
		env.New(),
		probe.New(),
		server.New(),
		wallet.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Failed to execute root command")
		os.Exit(1)
	}
}

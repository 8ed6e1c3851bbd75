package wallet

import (
	"github.com/chapool/web3connect/internal/util/command"
	"github.com/spf13/cobra"
)

const (
	uidFlag     = "uid"
	methodFlag  = "method"
	chainFlag   = "chain"
	encryptFlag = "encrypt"
	dirFlag     = "dir"
	yesFlag     = "yes"
)

func New() *cobra.Command {
	cmd := command.NewSubcommandGroup("wallet",
		newAddress(),
		newSignMessage(),
		newBackup(),
		newImport(),
		newRestore(),
		newReset(),
		newChains(),
	)

	cmd.PersistentFlags().String(uidFlag, "local", "User id the wallet session is opened for")
	cmd.PersistentFlags().String(methodFlag, "email-link", "Sign-in method recorded for the session")

	return cmd
}

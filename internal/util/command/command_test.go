package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chapool/web3connect/internal/api"
	"github.com/chapool/web3connect/internal/test"
	"github.com/chapool/web3connect/internal/util/command"
	"github.com/chapool/web3connect/internal/wallet"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithServer(t *testing.T) {
	cfg := test.DefaultTestServerConfig(t)
	cfg.Logger.PrettyPrintConsole = false
	cfg.Storage.Backend = "file"

	var testError = errors.New("test error")

	resultErr := command.WithServer(t.Context(), cfg, func(ctx context.Context, s *api.Server) error {
		assert.True(t, s.Ready())
		assert.Nil(t, s.Echo)
		assert.Equal(t, wallet.StateUnauthenticated, s.Wallet.State())

		id, err := s.Store.GetUniqueID(ctx)
		require.NoError(t, err)
		assert.Len(t, id, 64)

		return testError
	})

	assert.Equal(t, testError, resultErr)
}

func TestWithServerInvalidConfig(t *testing.T) {
	cfg := test.DefaultTestServerConfig(t)
	cfg.Storage.Backend = "s3"

	err := command.WithServer(t.Context(), cfg, func(context.Context, *api.Server) error {
		t.Fatal("must not run")
		return nil
	})
	require.Error(t, err)
}

func TestNewSubcommandGroup(t *testing.T) {
	ran := false
	sub := &cobra.Command{
		Use: "leaf",
		RunE: func(*cobra.Command, []string) error {
			ran = true
			return nil
		},
	}

	group := command.NewSubcommandGroup("group", sub)
	group.SetArgs([]string{"leaf"})
	require.NoError(t, group.Execute())
	assert.True(t, ran)
	assert.Equal(t, "group <subcommand>", group.Use)
}

//go:build wireinject

package api

import (
	"github.com/chapool/web3connect/internal/auth"
	"github.com/chapool/web3connect/internal/config"
	"github.com/chapool/web3connect/internal/metrics"
	"github.com/chapool/web3connect/internal/wallet/keystore"
	"github.com/google/wire"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	metrics.New,
	NewChains,
	NewDeviceID,
	NewStore,
	NewSeedCipher,
	identitySet,
	walletSet,
)

var identitySet = wire.NewSet(
	NewIdentity,
	wire.Bind(new(auth.Provider), new(*auth.LocalProvider)),
)

var walletSet = wire.NewSet(
	NewWalletConfig,
	NewDrivers,
	NewWalletService,
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NewBackend)
	return new(Server), nil
}

// InitNewServerWithBackend returns a new Server instance on the given storage backend.
// All the other components are initialized via go wire according to the configuration.
func InitNewServerWithBackend(
	_ config.Server,
	_ keystore.Backend,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}

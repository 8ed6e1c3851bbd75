package chain

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/chapool/web3connect/internal/wallet/core"
	"github.com/pkg/errors"
)

type service struct {
	chains map[int64]*Chain
	order  []*Chain
}

// NewService creates a chain service over the given table. Entries with a
// duplicate id replace earlier ones.
//
//nolint:ireturn
func NewService(chains []*Chain) (Service, error) {
	s := &service{chains: make(map[int64]*Chain, len(chains))}

	for _, c := range chains {
		if c == nil {
			continue
		}
		if !c.Family.Valid() {
			return nil, errors.Errorf("chain %d: unknown family %q", c.ID, c.Family)
		}
		if c.Purpose == 0 {
			c.Purpose = BIP44Purpose
		}
		s.chains[c.ID] = c
	}

	for _, c := range s.chains {
		s.order = append(s.order, c)
	}
	familyRank := map[core.Family]int{}
	for i, f := range core.Families {
		familyRank[f] = i
	}
	sort.SliceStable(s.order, func(i, j int) bool {
		a, b := s.order[i], s.order[j]
		if a.Family != b.Family {
			return familyRank[a.Family] < familyRank[b.Family]
		}
		if a.Testnet != b.Testnet {
			return !a.Testnet
		}
		return a.ID < b.ID
	})

	return s, nil
}

// fileTable is the TOML layout of a chain override file:
//
//	[[chains]]
//	id = 1
//	name = "Ethereum"
//	family = "evm"
//	rpc_url = "https://..."
type fileTable struct {
	Chains []*Chain `toml:"chains"`
}

// LoadFile merges the chains declared in a TOML file over the built-in table.
func LoadFile(path string) ([]*Chain, error) {
	var table fileTable
	if _, err := toml.DecodeFile(path, &table); err != nil {
		return nil, errors.Wrapf(err, "failed to decode chain file %s", path)
	}

	merged := DefaultChains()
	index := make(map[int64]int, len(merged))
	for i, c := range merged {
		index[c.ID] = i
	}
	for _, c := range table.Chains {
		if i, ok := index[c.ID]; ok {
			merged[i] = c
			continue
		}
		merged = append(merged, c)
	}

	return merged, nil
}

func (s *service) GetChain(chainID int64) (*Chain, error) {
	c, ok := s.chains[chainID]
	if !ok {
		return nil, errors.Wrapf(core.ErrChainUnavailable, "chain id %d", chainID)
	}
	return c, nil
}

func (s *service) ListChains() []*Chain {
	out := make([]*Chain, len(s.order))
	copy(out, s.order)
	return out
}

func (s *service) DefaultFor(family core.Family) (*Chain, error) {
	for _, c := range s.order {
		if c.Family == family {
			return c, nil
		}
	}
	return nil, errors.Wrapf(core.ErrChainUnavailable, "no chain configured for family %s", family)
}

// ParseRPCURLs 解析 RPC URL（支持多个，逗号分隔）
func (s *service) ParseRPCURLs(rpcURL string) []string {
	return ParseRPCURLs(rpcURL)
}

// ParseRPCURLs splits a comma separated RPC URL list, dropping blanks.
func ParseRPCURLs(rpcURL string) []string {
	if rpcURL == "" {
		return nil
	}

	urls := strings.Split(rpcURL, ",")
	result := make([]string, 0, len(urls))

	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url != "" {
			result = append(result, url)
		}
	}

	return result
}

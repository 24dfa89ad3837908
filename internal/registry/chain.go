package registry

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Chain selects one deployment of the protocol.
type Chain string

const (
	Arbitrum  Chain = "arbitrum"
	Avalanche Chain = "avalanche"
)

var (
	ErrUnknownChain = errors.New("unknown chain")
	ErrUnknownKey   = errors.New("unknown address key")
)

// LaunchTimestamp is the default lower bound of every query (2021-08-31 UTC).
var LaunchTimestamp = time.Date(2021, time.August, 31, 0, 0, 0, 0, time.UTC).Unix()

var chainIDs = map[Chain]int64{
	Arbitrum:  42161,
	Avalanche: 43114,
}

// Chains lists the supported deployments in a stable order.
func Chains() []Chain {
	return []Chain{Arbitrum, Avalanche}
}

// ParseChain accepts a chain name or its numeric chain id.
func ParseChain(s string) (Chain, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for chain, id := range chainIDs {
		if name == string(chain) || name == fmt.Sprintf("%d", id) {
			return chain, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownChain, s)
}

// ID returns the EVM chain id.
func (c Chain) ID() (int64, error) {
	id, ok := chainIDs[c]
	if !ok {
		return 0, fmt.Errorf("%w %q", ErrUnknownChain, string(c))
	}
	return id, nil
}

func (c Chain) String() string {
	return string(c)
}

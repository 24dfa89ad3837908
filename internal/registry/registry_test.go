package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChain(t *testing.T) {
	chain, err := ParseChain(" Arbitrum ")
	require.NoError(t, err)
	assert.Equal(t, Arbitrum, chain)

	chain, err = ParseChain("43114")
	require.NoError(t, err)
	assert.Equal(t, Avalanche, chain)

	_, err = ParseChain("bsc")
	assert.True(t, errors.Is(err, ErrUnknownChain))
}

func TestResolve(t *testing.T) {
	addr, err := Resolve(Arbitrum, KeyGlpManager)
	require.NoError(t, err)
	assert.Equal(t, "0x8b874c68d616041be930d10ae40ac2f30ed03afe", strings.ToLower(addr.Hex()))

	_, err = Resolve(Avalanche, "USDT")
	assert.True(t, errors.Is(err, ErrUnknownKey))

	_, err = Resolve(Chain("bsc"), KeyGLP)
	assert.True(t, errors.Is(err, ErrUnknownChain))
}

func TestEveryTableEntryIsAnAddress(t *testing.T) {
	for chain, table := range addresses {
		for key := range table {
			_, err := Resolve(chain, key)
			assert.NoError(t, err, "%s/%s", chain, key)
		}
	}
}

func TestSwapSourcesAreLowercaseCopies(t *testing.T) {
	table := SwapSources(Avalanche)
	assert.Equal(t, "GMX Router", table["0x6a154ce91003cf4b8787280fd7c96d9bfb3f88c3"])

	table["0x6a154ce91003cf4b8787280fd7c96d9bfb3f88c3"] = "changed"
	assert.Equal(t, "GMX Router", SwapSources(Avalanche)["0x6a154ce91003cf4b8787280fd7c96d9bfb3f88c3"])

	assert.Empty(t, SwapSources(Chain("bsc")))
}

func TestTokens(t *testing.T) {
	symbol, ok := TokenSymbol("0x2F2A2543B76A4166549F7AAB2E75BEF0AEFC5B0F")
	assert.True(t, ok)
	assert.Equal(t, "BTC", symbol)

	symbol, ok = TokenSymbol("0xdead")
	assert.False(t, ok)
	assert.Equal(t, "0xdead", symbol)
}

func TestLaunchTimestamp(t *testing.T) {
	assert.Equal(t, int64(1630368000), LaunchTimestamp)
}

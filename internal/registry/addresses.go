package registry

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Contract keys read by the live pool price.
const (
	KeyGLP        = "GLP"
	KeyGlpManager = "GlpManager"
)

var addresses = map[Chain]map[string]string{
	Arbitrum: {
		"GMX":          "0x67C8a2b3C511da2ED28159ab90aa2444870B4F51",
		"BTC":          "0x2f2a2543b76a4166549f7aab2e75bef0aefc5b0f",
		"ETH":          "0x82af49447d8a07e3bd95bd0d56f35241523fbab1",
		"ARB":          "0x912CE59144191C1204E64559FE8253a0e49E6548",
		"USDT":         "0xFd086bC7CD5C481DCC9C85ebE478A1C0b69FCbb9",
		"USDC":         "0xFF970A61A04b1cA14834A43f5dE4533eBDDB5CC8",
		"RewardReader": "0x1801eF634401c136A33D720d82F6d90DfD46790b",
		"GLP":          "0x92dB07d5dd0C67e074CAc7387F7eC552dED6D290",
		"GlpManager":   "0x8B874c68d616041bE930d10aE40aC2F30ed03afE",
	},
	Avalanche: {
		"GMX":          "0x39E1Da9a034Fd5ADba01C7F6cFA8B5dE16dD908c",
		"AVAX":         "0xb31f66aa3c1e785363f0875a1b74e27b85fd66c7",
		"ETH":          "0x49d5c2bdffac6ce2bfdb6640f4f80f226bc10bab",
		"BTC":          "0x50b7545627a5162f82a992c33b87adc75187b218",
		"RewardReader": "0x04Fc11Bd28763872d143637a7c768bD96E44c1b6",
		"GLP":          "0xA63FbC76dDaf2F800B3699a4a46C5f260E04050C",
		"GlpManager":   "0x3a417b2949d59B129e5C6c0A52114335C780B9AE",
	},
}

// Resolve returns the checksummed contract address stored under key for chain.
func Resolve(chain Chain, key string) (common.Address, error) {
	table, ok := addresses[chain]
	if !ok {
		return common.Address{}, fmt.Errorf("%w %q", ErrUnknownChain, string(chain))
	}
	raw, ok := table[key]
	if !ok {
		return common.Address{}, fmt.Errorf("%w %q on %s", ErrUnknownKey, key, chain)
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("registry entry %s/%s is not an address: %q", chain, key, raw)
	}
	return common.HexToAddress(raw), nil
}

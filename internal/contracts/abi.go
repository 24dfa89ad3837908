package contracts

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const erc20SupplyABIJSON = `[
  {"inputs": [], "name": "totalSupply", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

const glpManagerABIJSON = `[
  {"inputs": [{"internalType": "bool", "name": "maximise", "type": "bool"}], "name": "getAumInUsdg", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

var (
	erc20SupplyABI     abi.ABI
	erc20SupplyABIOnce sync.Once
	erc20SupplyABIErr  error
	glpManagerABI      abi.ABI
	glpManagerABIOnce  sync.Once
	glpManagerABIErr   error
)

func erc20SupplyABIInstance() (abi.ABI, error) {
	erc20SupplyABIOnce.Do(func() {
		erc20SupplyABI, erc20SupplyABIErr = abi.JSON(strings.NewReader(erc20SupplyABIJSON))
	})
	return erc20SupplyABI, erc20SupplyABIErr
}

func glpManagerABIInstance() (abi.ABI, error) {
	glpManagerABIOnce.Do(func() {
		glpManagerABI, glpManagerABIErr = abi.JSON(strings.NewReader(glpManagerABIJSON))
	})
	return glpManagerABI, glpManagerABIErr
}

package token

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Addresses the Recall API prices tokens by
var (
	addresses = make(map[string]common.Address)
	symbols   []string
)

func init() {
	register("USDC", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	register("DAI", "0x6B175474E89094C44Da98b954EedeAC495271d0F")
	register("WETH", "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
}

func register(symbol, hexAddress string) {
	if !common.IsHexAddress(hexAddress) {
		panic(fmt.Errorf("%q is not a valid address for %s", hexAddress, symbol))
	}
	upperName := strings.ToUpper(symbol)
	if _, exist := addresses[upperName]; exist {
		panic(fmt.Errorf("%q already exists in token registry", upperName))
	}
	addresses[upperName] = common.HexToAddress(hexAddress)
	symbols = append(symbols, upperName)
}

// Lookup resolves a symbol to its address, ignoring case
func Lookup(symbol string) (common.Address, bool) {
	addr, ok := addresses[strings.ToUpper(strings.TrimSpace(symbol))]
	return addr, ok
}

// Symbols returns the known symbols in declaration order
func Symbols() []string {
	return append([]string(nil), symbols...)
}

func GetAllNames() []string {
	names := Symbols()
	sort.Strings(names)
	return names
}

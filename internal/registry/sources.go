package registry

import "strings"

// swap source attribution, keyed by lowercase contract address
var swapSources = map[Chain]map[string]string{
	Arbitrum: lower(map[string]string{
		"0xabbc5f99639c9b6bcb58544ddf04efa6802f4064": "GMX Router",
		"0x09f77e8a13de9a35a7231028187e9fd5db8a2acb": "GMX OrderBook",
		"0x98a00666cfcb2ba5a405415c2bf6547c63bf5491": "GMX PositionManager A",
		"0x87a4088bd721f83b6c2e5102e2fa47022cb1c831": "GMX PositionManager B",
		"0x75e42e6f01baf1d6022bea862a28774a9f8a4a0c": "GMX PositionManager C",
		"0xb87a436b93ffe9d75c5cfa7bacfff96430b09868": "GMX PositionRouter C",
		"0x7257ac5d0a0aac04aa7ba2ac0a6eb742e332c3fb": "GMX OrderExecutor",
		"0x1a0ad27350cccd6f7f168e052100b4960efdb774": "GMX FastPriceFeed A",
		"0x11d62807dae812a0f1571243460bf94325f43bb7": "GMX PositionExecutor",
		"0x3b6067d4caa8a14c63fdbe6318f27a0bbc9f9237": "Dodo",
		"0x11111112542d85b3ef69ae05771c2dccff4faa26": "1inch",
		"0x6352a56caadc4f1e25cd6c75970fa768a3304e64": "OpenOcean",
		"0x4775af8fef4809fe10bf05867d2b038a4b5b2146": "Gelato",
		"0x5a9fd7c39a6c488e715437d7b1f3c823d5596ed1": "LiFiDiamond",
		"0x1d838be5d58cc131ae4a23359bc6ad2dddb8b75a": "Vovo",
		"0xc4bed5eeeccbe84780c44c5472e800d3a5053454": "Vovo",
		"0xe40beb54ba00838abe076f6448b27528dd45e4f0": "Vovo",
		"0x9ba57a1d3f6c61ff500f598f16b97007eb02e346": "Vovo",
		"0xfa82f1ba00b0697227e2ad6c668abb4c50ca0b1f": "JonesDAO",
		"0x226cb17a52709034e2ec6abe0d2f0a9ebcec1059": "WardenSwap",
		"0x1111111254fb6c44bac0bed2854e76f90643097d": "1inch",
		"0x6d7a3177f3500bea64914642a49d0b5c0a7dae6d": "deBridge",
		"0xc30141b657f4216252dc59af2e7cdb9d8792e1b0": "socket.tech",
		"0xdd94018f54e565dbfc939f7c44a16e163faab331": "Odos Router",
	}),
	Avalanche: lower(map[string]string{
		"0xA76fB4882bcb66fBe68948B71eBe7f3B80e329Ea": "GMX OrderBook",
		"0x6A154CE91003Cf4b8787280fd7C96D9BFb3f88C3": "GMX Router",
		"0x7d9d108445f7e59a67da7c16a2ceb08c85b76a35": "GMX FastPriceFeed",
		"0xD5326A526f78667375D9D5dA7C739e261Df52fe6": "GMX PositionManager C",
		"0xFe42F6CccD52542DFbB785dFa014Cb8ce70Bcf57": "GMX PositionRouter C",
		"0xc4729e56b831d74bbc18797e0e17a295fa77488c": "Yak",
		"0x409e377a7affb1fd3369cfc24880ad58895d1dd9": "Dodo",
		"0x6352a56caadc4f1e25cd6c75970fa768a3304e64": "OpenOcean",
		"0x7c5c4af1618220c090a6863175de47afb20fa9df": "Gelato",
		"0x1111111254fb6c44bac0bed2854e76f90643097d": "1inch",
		"0xdef171fe48cf0115b1d80b88dc8eab59176fee57": "ParaSwap",
		"0x2ecf2a2e74b19aab2a62312167aff4b78e93b6c5": "ParaSwap",
		"0xdef1c0ded9bec7f1a1670819833240f027b25eff": "0x",
		"0xe547cadbe081749e5b3dc53cb792dfaea2d02fd2": "GMX PositionExecutor",
	}),
}

// SwapSources returns a copy of the address → source name table for chain.
// Unknown chains yield an empty table.
func SwapSources(chain Chain) map[string]string {
	out := make(map[string]string, len(swapSources[chain]))
	for addr, name := range swapSources[chain] {
		out[addr] = name
	}
	return out
}

func lower(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for addr, name := range in {
		out[strings.ToLower(addr)] = name
	}
	return out
}

package domain

// TokenHolding is one fungible token balance of an account.
// Name and Symbol may be empty when no metadata source knew the contract.
type TokenHolding struct {
	Address    string `json:"address"`
	Name       string `json:"name"`
	Symbol     string `json:"symbol"`
	Decimals   *int   `json:"decimals,omitempty"`
	BalanceRaw string `json:"balanceRaw"`
}

// CuratedToken is a well-known token read directly from the chain.
type CuratedToken struct {
	Address     string `yaml:"address"      json:"address"`
	Logo        string `yaml:"logo"         json:"logo,omitempty"`
	CoingeckoID string `yaml:"coingecko_id" json:"coingeckoId,omitempty"`
}

// CuratedBalance is the on-chain balance of a curated token.
type CuratedBalance struct {
	Address     string `json:"address"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Decimals    int    `json:"decimals"`
	Raw         string `json:"raw"`
	Formatted   string `json:"formatted"`
	Logo        string `json:"logo,omitempty"`
	CoingeckoID string `json:"coingeckoId,omitempty"`
}

// NativeBalance is the RBTC balance of an account.
type NativeBalance struct {
	Wei   string `json:"wei"`
	Ether string `json:"ether"`
}

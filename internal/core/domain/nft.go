package domain

// NFTHolding is one token instance owned by an account.
// TokenID is always base-10.
type NFTHolding struct {
	ContractAddress  string  `json:"contractAddress"`
	Name             string  `json:"name"`
	Symbol           string  `json:"symbol"`
	ContractDeployer *string `json:"contractDeployer"`
	TokenType        *string `json:"tokenType"`
	TokenID          string  `json:"tokenId"`
}

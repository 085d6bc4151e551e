package alchemy

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

// OwnedNFT is one item of getNFTsForOwner after shape normalisation.
// TokenID is the provider's identifier as-is, hex or decimal.
type OwnedNFT struct {
	ContractAddress string
	TokenID         string
	TokenType       *string
}

// NFTPage is one page of getNFTsForOwner. PageKey is empty on the last page.
type NFTPage struct {
	NFTs    []OwnedNFT
	PageKey string
}

// ContractMetadata is the result of getContractMetadata. Absent fields are nil.
type ContractMetadata struct {
	Name             *string
	Symbol           *string
	ContractDeployer *string
	TokenType        *string
}

type nftPageResult struct {
	OwnedNFTs json.RawMessage `json:"ownedNfts"`
	PageKey   optString       `json:"pageKey"`
}

// rawOwnedNFT covers both layouts the API has used: the contract address
// at the top level, or inside a nested "contract" object under either
// "address" or "contractAddress".
type rawOwnedNFT struct {
	ContractAddress optString       `json:"contractAddress"`
	Contract        json.RawMessage `json:"contract"`
	TokenID         optString       `json:"tokenId"`
	TokenType       optString       `json:"tokenType"`
}

type rawContractRef struct {
	Address         optString `json:"address"`
	ContractAddress optString `json:"contractAddress"`
	TokenType       optString `json:"tokenType"`
}

type rawContractFields struct {
	Name             optString `json:"name"`
	Symbol           optString `json:"symbol"`
	ContractDeployer optString `json:"contractDeployer"`
	TokenType        optString `json:"tokenType"`
}

// rawContractMetadata is flat in v3 and nested under contractMetadata in v2.
type rawContractMetadata struct {
	rawContractFields
	ContractMetadata json.RawMessage `json:"contractMetadata"`
}

// NFTsForOwner fetches one page of tokens held by owner without per-token
// metadata. An empty pageKey requests the first page.
func (c *Client) NFTsForOwner(ctx context.Context, owner, pageKey string, pageSize int) (NFTPage, error) {
	q := url.Values{
		"owner":        {owner},
		"pageSize":     {strconv.Itoa(pageSize)},
		"withMetadata": {"false"},
	}
	if pageKey != "" {
		q.Set("pageKey", pageKey)
	}

	var res nftPageResult
	if err := c.nft.Get(ctx, "getNFTsForOwner", q, &res); err != nil {
		return NFTPage{}, err
	}
	return res.normalize(), nil
}

func (r nftPageResult) normalize() NFTPage {
	items := objects(r.OwnedNFTs)
	page := NFTPage{NFTs: make([]OwnedNFT, 0, len(items))}
	if r.PageKey.Valid {
		page.PageKey = r.PageKey.Value
	}
	for _, it := range items {
		if n, ok := normalizeOwnedNFT(it); ok {
			page.NFTs = append(page.NFTs, n)
		}
	}
	return page
}

func normalizeOwnedNFT(raw json.RawMessage) (OwnedNFT, bool) {
	var it rawOwnedNFT
	if !object(raw, &it) {
		return OwnedNFT{}, false
	}
	var ref rawContractRef
	object(it.Contract, &ref)

	addr := firstNonEmpty(it.ContractAddress, ref.Address, ref.ContractAddress)
	if addr == "" {
		return OwnedNFT{}, false
	}

	return OwnedNFT{
		ContractAddress: addr,
		TokenID:         it.TokenID.Value,
		TokenType:       firstValid(it.TokenType, ref.TokenType),
	}, true
}

// ContractMetadata returns collection level metadata of an NFT contract.
func (c *Client) ContractMetadata(ctx context.Context, contract string) (ContractMetadata, error) {
	var res rawContractMetadata
	q := url.Values{"contractAddress": {contract}}
	if err := c.nft.Get(ctx, "getContractMetadata", q, &res); err != nil {
		return ContractMetadata{}, err
	}
	return res.normalize(), nil
}

func (r rawContractMetadata) normalize() ContractMetadata {
	var nested rawContractFields
	object(r.ContractMetadata, &nested)
	return ContractMetadata{
		Name:             firstValid(r.Name, nested.Name),
		Symbol:           firstValid(r.Symbol, nested.Symbol),
		ContractDeployer: firstValid(r.ContractDeployer, nested.ContractDeployer),
		TokenType:        firstValid(r.TokenType, nested.TokenType),
	}
}

func firstValid(vals ...optString) *string {
	for _, v := range vals {
		if v.Valid {
			return v.Ptr()
		}
	}
	return nil
}

func firstNonEmpty(vals ...optString) string {
	for _, v := range vals {
		if v.Value != "" {
			return v.Value
		}
	}
	return ""
}

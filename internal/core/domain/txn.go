package domain

// Transfer is a normalised asset transfer as returned by the provider.
// BlockNum keeps the provider's hex form and is only used for ordering.
type Transfer struct {
	Hash        string
	FromAddress string
	ToAddress   *string
	Asset       *string
	Category    *string
	Value       *string
	BlockNum    *string
}

// TxRow is the public shape of a transfer. Block number is dropped.
type TxRow struct {
	Hash        string  `json:"hash"`
	FromAddress string  `json:"fromAddress"`
	ToAddress   *string `json:"toAddress"`
	Asset       *string `json:"asset"`
	Category    *string `json:"category"`
	Value       *string `json:"value"`
}

// Row drops the ordering-only fields.
func (t Transfer) Row() TxRow {
	return TxRow{
		Hash:        t.Hash,
		FromAddress: t.FromAddress,
		ToAddress:   t.ToAddress,
		Asset:       t.Asset,
		Category:    t.Category,
		Value:       t.Value,
	}
}

// TransferCategory is an asset-transfer filter understood by the provider.
type TransferCategory string

const (
	CategoryExternal TransferCategory = "external"
	CategoryERC20    TransferCategory = "erc20"
	CategoryERC721   TransferCategory = "erc721"
	CategoryERC1155  TransferCategory = "erc1155"
)

// DefaultTransferCategories are the categories the history view requests.
var DefaultTransferCategories = []TransferCategory{
	CategoryExternal,
	CategoryERC20,
	CategoryERC721,
	CategoryERC1155,
}

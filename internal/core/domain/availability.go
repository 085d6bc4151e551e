package domain

// RIFPricePerYear is the fixed registration price policy, in RIF.
const RIFPricePerYear = "2"

// Availability answers whether a name can still be registered.
type Availability struct {
	Name            string  `json:"name"`
	Network         Network `json:"network"`
	Available       bool    `json:"available"`
	RIFPricePerYear string  `json:"rifPricePerYear"`
}

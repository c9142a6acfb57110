package domain

import "github.com/shopspring/decimal"

const (
	CoinEthereum = "ethereum"
	CoinBitcoin  = "bitcoin"
)

// SpotPrices holds USD spot quotes fetched from the price API.
type SpotPrices struct {
	EthereumUSD decimal.Decimal `json:"ethereum_usd"`
	BitcoinUSD  decimal.Decimal `json:"bitcoin_usd"`
}

// TSUPrice is the public pricing view: fixed TSU rate plus crypto spots so
// the purchase page can show equivalents, and the receiving addresses crypto
// buyers pay into.
type TSUPrice struct {
	RateUSD             decimal.Decimal `json:"rate_usd"`
	Spots               SpotPrices      `json:"spots"`
	EthReceivingAddress string          `json:"eth_receiving_address"`
	BtcReceivingAddress string          `json:"btc_receiving_address"`
}

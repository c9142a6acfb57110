package coingecko

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"tsuwallet/domain"
)

type CoinGeckoConfig struct {
	BaseUrl string
}

// CoinGeckoRepository fetches USD spot quotes from the simple-price endpoint.
type CoinGeckoRepository struct {
	coingeckoConfig CoinGeckoConfig
	client          *http.Client
}

func NewCoinGeckoRepository(cfg CoinGeckoConfig) *CoinGeckoRepository {
	return &CoinGeckoRepository{
		coingeckoConfig: cfg,
		client:          &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *CoinGeckoRepository) SpotPrices() (domain.SpotPrices, error) {
	url := fmt.Sprintf(
		"%s/api/v3/simple/price?ids=%s,%s&vs_currencies=usd",
		r.coingeckoConfig.BaseUrl, domain.CoinEthereum, domain.CoinBitcoin,
	)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return domain.SpotPrices{}, err
	}
	req.Header.Add("Accept", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return domain.SpotPrices{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return domain.SpotPrices{}, err
	}

	if res.StatusCode != http.StatusOK {
		return domain.SpotPrices{}, fmt.Errorf("coingecko returned %d", res.StatusCode)
	}

	var quotes map[string]map[string]decimal.Decimal
	if err := json.Unmarshal(body, &quotes); err != nil {
		return domain.SpotPrices{}, err
	}

	return domain.SpotPrices{
		EthereumUSD: quotes[domain.CoinEthereum]["usd"],
		BitcoinUSD:  quotes[domain.CoinBitcoin]["usd"],
	}, nil
}

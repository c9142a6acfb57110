package purchase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"tsuwallet/domain"
	"tsuwallet/internal/repository/postgres"
	"tsuwallet/pkg/logger"
	"tsuwallet/pkg/metrics"
)

var (
	ErrDuplicateReference = errors.New("payment reference already processed")
	ErrUnknownMethod      = errors.New("unknown payment method")
	ErrCaptureNotComplete = errors.New("paypal capture is not completed")
	ErrReferenceRequired  = errors.New("payment reference is required")
	ErrAmountNotPositive  = errors.New("amount must be positive")
	ErrUnsupportedCrypto  = errors.New("unsupported crypto currency")
)

// PaymentRepository contract interface
type PaymentRepository interface {
	CreditPurchase(ctx context.Context, payment *domain.PaymentTransaction) error
	UpdateStatusByReference(ctx context.Context, reference, status string) error
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]domain.PaymentTransaction, error)
}

// PayPalRepository contract interface
type PayPalRepository interface {
	CreateOrder(amountUSD decimal.Decimal) (domain.PayPalOrderResponse, error)
	CaptureOrder(orderID string) (domain.PayPalCaptureResponse, error)
	VerifyWebhook(headers domain.PayPalWebhookHeaders, event []byte) (bool, error)
}

// PriceRepository contract interface
type PriceRepository interface {
	SpotPrices() (domain.SpotPrices, error)
}

// SupplyRepository contract interface
type SupplyRepository interface {
	Get(ctx context.Context) (domain.CoinSupply, error)
}

// CacheRepository contract interface
type CacheRepository interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// BalanceInvalidator lets the purchase flow drop wallet caches it bypassed.
type BalanceInvalidator interface {
	InvalidateCaches(ctx context.Context, userIDs ...uint)
}

type PurchaseInput struct {
	AmountUSD      decimal.Decimal
	Method         string
	Reference      string
	CryptoAmount   *decimal.Decimal
	CryptoCurrency string
	Status         string
}

type PurchaseService struct {
	paymentRepo PaymentRepository
	paypalRepo  PayPalRepository
	priceRepo   PriceRepository
	supplyRepo  SupplyRepository
	cache       CacheRepository
	balances    BalanceInvalidator
	rateUSD     decimal.Decimal
	ethAddress  string
	btcAddress  string
}

const (
	spotCacheKey = "spotprices:usd"
	spotCacheTTL = 60 * time.Second
)

func NewPurchaseService(
	paymentRepo PaymentRepository,
	paypalRepo PayPalRepository,
	priceRepo PriceRepository,
	supplyRepo SupplyRepository,
	cache CacheRepository,
	balances BalanceInvalidator,
	rateUSD decimal.Decimal,
	ethReceivingAddress string,
	btcReceivingAddress string,
) *PurchaseService {
	return &PurchaseService{
		paymentRepo: paymentRepo,
		paypalRepo:  paypalRepo,
		priceRepo:   priceRepo,
		supplyRepo:  supplyRepo,
		cache:       cache,
		balances:    balances,
		rateUSD:     rateUSD,
		ethAddress:  ethReceivingAddress,
		btcAddress:  btcReceivingAddress,
	}
}

var validMethods = map[string]bool{
	domain.PaymentMethodPayPal:   true,
	domain.PaymentMethodEthereum: true,
	domain.PaymentMethodBitcoin:  true,
}

// Purchase credits TSU for an external payment. The processed_payments unique
// constraint is the only replay protection; the provider status string is
// taken from the request as-is.
func (s *PurchaseService) Purchase(ctx context.Context, userID uint, input PurchaseInput) (domain.PaymentTransaction, error) {
	start := time.Now()
	defer func() {
		metrics.PurchaseDuration.Observe(time.Since(start).Seconds())
	}()

	if !validMethods[input.Method] {
		metrics.PurchaseTotal.WithLabelValues(input.Method, "rejected").Inc()
		return domain.PaymentTransaction{}, ErrUnknownMethod
	}

	if input.Reference == "" {
		metrics.PurchaseTotal.WithLabelValues(input.Method, "rejected").Inc()
		return domain.PaymentTransaction{}, ErrReferenceRequired
	}

	status := input.Status
	amountUSD := input.AmountUSD

	switch input.Method {
	case domain.PaymentMethodPayPal:
		if status != "COMPLETED" {
			metrics.PurchaseTotal.WithLabelValues(input.Method, "rejected").Inc()
			return domain.PaymentTransaction{}, ErrCaptureNotComplete
		}
	default:
		// crypto submissions are credited without confirmation polling;
		// status just records that the hash was handed in
		if status == "" {
			status = "SUBMITTED"
		}

		if amountUSD.IsZero() && input.CryptoAmount != nil {
			spot, err := s.spotFor(ctx, input.CryptoCurrency)
			if err != nil {
				metrics.PurchaseTotal.WithLabelValues(input.Method, "error").Inc()
				logger.Error("Failed to price crypto purchase", err)
				return domain.PaymentTransaction{}, err
			}
			amountUSD = input.CryptoAmount.Mul(spot)
		}
	}

	if amountUSD.LessThanOrEqual(decimal.Zero) {
		metrics.PurchaseTotal.WithLabelValues(input.Method, "rejected").Inc()
		return domain.PaymentTransaction{}, ErrAmountNotPositive
	}

	if !s.rateUSD.IsPositive() {
		metrics.PurchaseTotal.WithLabelValues(input.Method, "error").Inc()
		return domain.PaymentTransaction{}, errors.New("purchase rate is not configured")
	}

	amountTSU := amountUSD.Div(s.rateUSD).Round(8)

	payment := domain.PaymentTransaction{
		UserID:         userID,
		Method:         input.Method,
		AmountUSD:      amountUSD,
		AmountTSU:      amountTSU,
		CryptoAmount:   input.CryptoAmount,
		CryptoCurrency: input.CryptoCurrency,
		Reference:      input.Reference,
		Status:         status,
	}

	if err := s.paymentRepo.CreditPurchase(ctx, &payment); err != nil {
		if errors.Is(err, postgres.ErrDuplicateReference) {
			metrics.PurchaseTotal.WithLabelValues(input.Method, "duplicate").Inc()
			return domain.PaymentTransaction{}, ErrDuplicateReference
		}
		metrics.PurchaseTotal.WithLabelValues(input.Method, "error").Inc()
		logger.Error("Failed to credit purchase", "user_id", userID, "reference", input.Reference, err)
		return domain.PaymentTransaction{}, err
	}

	s.balances.InvalidateCaches(ctx, userID)

	metrics.PurchaseTotal.WithLabelValues(input.Method, "credited").Inc()
	logger.Info("TSU purchase credited",
		"user_id", userID,
		"method", input.Method,
		"amount_usd", amountUSD.String(),
		"amount_tsu", amountTSU.String(),
		"reference", input.Reference,
	)

	return payment, nil
}

func (s *PurchaseService) spotFor(ctx context.Context, currency string) (decimal.Decimal, error) {
	spots, err := s.getSpots(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	switch currency {
	case domain.CoinEthereum, "ETH", "eth":
		return spots.EthereumUSD, nil
	case domain.CoinBitcoin, "BTC", "btc":
		return spots.BitcoinUSD, nil
	}

	return decimal.Zero, ErrUnsupportedCrypto
}

func (s *PurchaseService) getSpots(ctx context.Context) (domain.SpotPrices, error) {
	var cached domain.SpotPrices
	found, err := s.cache.GetJSON(ctx, spotCacheKey, &cached)
	if err == nil && found {
		return cached, nil
	}

	spots, err := s.priceRepo.SpotPrices()
	if err != nil {
		return domain.SpotPrices{}, err
	}

	if err := s.cache.SetJSON(ctx, spotCacheKey, spots, spotCacheTTL); err != nil {
		logger.Warn("Failed to cache spot prices", err)
	}

	return spots, nil
}

// GetPrice is the public pricing view for the purchase page.
func (s *PurchaseService) GetPrice(ctx context.Context) (domain.TSUPrice, error) {
	spots, err := s.getSpots(ctx)
	if err != nil {
		logger.Error("Failed to fetch spot prices", err)
		return domain.TSUPrice{}, err
	}

	return domain.TSUPrice{
		RateUSD:             s.rateUSD,
		Spots:               spots,
		EthReceivingAddress: s.ethAddress,
		BtcReceivingAddress: s.btcAddress,
	}, nil
}

func (s *PurchaseService) CreatePayPalOrder(amountUSD decimal.Decimal) (domain.PayPalOrderResponse, error) {
	if amountUSD.LessThanOrEqual(decimal.Zero) {
		return domain.PayPalOrderResponse{}, errors.New("amount must be positive")
	}

	return s.paypalRepo.CreateOrder(amountUSD)
}

func (s *PurchaseService) CapturePayPalOrder(orderID string) (domain.PayPalCaptureResponse, error) {
	if orderID == "" {
		return domain.PayPalCaptureResponse{}, errors.New("order id is required")
	}

	return s.paypalRepo.CaptureOrder(orderID)
}

// VerifyPayPalWebhook checks the transmission signature with the provider
// before an event is trusted.
func (s *PurchaseService) VerifyPayPalWebhook(headers domain.PayPalWebhookHeaders, body []byte) error {
	ok, err := s.paypalRepo.VerifyWebhook(headers, body)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("webhook signature verification failed")
	}

	return nil
}

// ReceivePayPalWebhook mirrors the provider status onto the recorded payment.
// It never credits; crediting happens only through Purchase.
func (s *PurchaseService) ReceivePayPalWebhook(ctx context.Context, event domain.PayPalWebhookEvent) error {
	metrics.WebhookEvents.WithLabelValues(event.EventType).Inc()

	if event.Resource.ID == "" {
		return errors.New("webhook event has no resource id")
	}

	err := s.paymentRepo.UpdateStatusByReference(ctx, event.Resource.ID, event.Resource.Status)
	if err != nil {
		// the webhook can arrive before the purchase was posted; record and move on
		logger.Warn("Webhook for unknown payment reference",
			"reference", event.Resource.ID,
			"event_type", event.EventType,
		)
		return nil
	}

	logger.Info("Payment status updated from webhook",
		"reference", event.Resource.ID,
		"status", event.Resource.Status,
	)
	return nil
}

func (s *PurchaseService) GetUserPayments(ctx context.Context, userID uint, page, pageSize int) ([]domain.PaymentTransaction, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return s.paymentRepo.ListByUser(ctx, userID, (page-1)*pageSize, pageSize)
}

// GetSupply reports issuance against reserves at the configured rate.
func (s *PurchaseService) GetSupply(ctx context.Context) (domain.CoinSupply, decimal.Decimal, error) {
	supply, err := s.supplyRepo.Get(ctx)
	if err != nil {
		logger.Error("Failed to load coin supply", err)
		return domain.CoinSupply{}, decimal.Zero, err
	}

	return supply, supply.ReserveRatio(s.rateUSD), nil
}

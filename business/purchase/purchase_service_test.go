package purchase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tsuwallet/domain"
	"tsuwallet/internal/repository/postgres"
)

type fakePaymentRepo struct {
	credited []domain.PaymentTransaction
	seen     map[string]bool
	statuses map[string]string
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{
		seen:     make(map[string]bool),
		statuses: make(map[string]string),
	}
}

func (r *fakePaymentRepo) CreditPurchase(_ context.Context, payment *domain.PaymentTransaction) error {
	if r.seen[payment.Reference] {
		return postgres.ErrDuplicateReference
	}
	r.seen[payment.Reference] = true
	payment.ID = uint(len(r.credited) + 1)
	r.credited = append(r.credited, *payment)
	return nil
}

func (r *fakePaymentRepo) UpdateStatusByReference(_ context.Context, reference, status string) error {
	if !r.seen[reference] {
		return errors.New("record not found")
	}
	r.statuses[reference] = status
	return nil
}

func (r *fakePaymentRepo) ListByUser(_ context.Context, userID uint, offset, limit int) ([]domain.PaymentTransaction, error) {
	var out []domain.PaymentTransaction
	for _, p := range r.credited {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePriceRepo struct {
	spots domain.SpotPrices
	calls int
	err   error
}

func (r *fakePriceRepo) SpotPrices() (domain.SpotPrices, error) {
	r.calls++
	return r.spots, r.err
}

type fakeSupplyRepo struct {
	supply domain.CoinSupply
}

func (r *fakeSupplyRepo) Get(_ context.Context) (domain.CoinSupply, error) {
	return r.supply, nil
}

type fakeCache struct {
	data map[string]any
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]any)}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if spots, ok := v.(domain.SpotPrices); ok {
		if d, ok := dest.(*domain.SpotPrices); ok {
			*d = spots
			return true, nil
		}
	}
	return false, nil
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	if spots, ok := value.(domain.SpotPrices); ok {
		c.data[key] = spots
	}
	return nil
}

type fakeInvalidator struct {
	invalidated []uint
}

func (f *fakeInvalidator) InvalidateCaches(_ context.Context, userIDs ...uint) {
	f.invalidated = append(f.invalidated, userIDs...)
}

type fakePayPal struct {
	failVerify bool
}

func (fakePayPal) CreateOrder(amountUSD decimal.Decimal) (domain.PayPalOrderResponse, error) {
	return domain.PayPalOrderResponse{ID: "ORDER-1", Status: "CREATED"}, nil
}

func (fakePayPal) CaptureOrder(orderID string) (domain.PayPalCaptureResponse, error) {
	return domain.PayPalCaptureResponse{ID: orderID, Status: "COMPLETED"}, nil
}

func (f fakePayPal) VerifyWebhook(_ domain.PayPalWebhookHeaders, _ []byte) (bool, error) {
	return !f.failVerify, nil
}

func newTestService(paymentRepo *fakePaymentRepo, priceRepo *fakePriceRepo, inv *fakeInvalidator) *PurchaseService {
	return NewPurchaseService(
		paymentRepo,
		fakePayPal{},
		priceRepo,
		&fakeSupplyRepo{},
		newFakeCache(),
		inv,
		decimal.NewFromFloat(1.00),
		"0xRESERVE",
		"bc1reserve",
	)
}

func TestPurchase_PayPalCompleted(t *testing.T) {
	repo := newFakePaymentRepo()
	inv := &fakeInvalidator{}
	svc := newTestService(repo, &fakePriceRepo{}, inv)

	payment, err := svc.Purchase(context.Background(), 7, PurchaseInput{
		AmountUSD: decimal.NewFromInt(50),
		Method:    domain.PaymentMethodPayPal,
		Reference: "PAYPAL-REF-1",
		Status:    "COMPLETED",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !payment.AmountTSU.Equal(decimal.NewFromInt(50)) {
		t.Errorf("expected 50 TSU at rate 1.00, got %s", payment.AmountTSU)
	}
	if len(repo.credited) != 1 {
		t.Fatalf("expected one credited payment, got %d", len(repo.credited))
	}
	if len(inv.invalidated) != 1 || inv.invalidated[0] != 7 {
		t.Errorf("expected balance cache invalidation for user 7, got %v", inv.invalidated)
	}
}

func TestPurchase_PayPalNotCompleted(t *testing.T) {
	svc := newTestService(newFakePaymentRepo(), &fakePriceRepo{}, &fakeInvalidator{})

	_, err := svc.Purchase(context.Background(), 7, PurchaseInput{
		AmountUSD: decimal.NewFromInt(50),
		Method:    domain.PaymentMethodPayPal,
		Reference: "PAYPAL-REF-2",
		Status:    "PENDING",
	})
	if !errors.Is(err, ErrCaptureNotComplete) {
		t.Fatalf("expected ErrCaptureNotComplete, got %v", err)
	}
}

func TestPurchase_DuplicateReference(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newTestService(repo, &fakePriceRepo{}, &fakeInvalidator{})

	input := PurchaseInput{
		AmountUSD: decimal.NewFromInt(10),
		Method:    domain.PaymentMethodPayPal,
		Reference: "PAYPAL-REF-3",
		Status:    "COMPLETED",
	}

	if _, err := svc.Purchase(context.Background(), 1, input); err != nil {
		t.Fatalf("first purchase should succeed: %v", err)
	}

	_, err := svc.Purchase(context.Background(), 1, input)
	if !errors.Is(err, ErrDuplicateReference) {
		t.Fatalf("expected ErrDuplicateReference, got %v", err)
	}
	if len(repo.credited) != 1 {
		t.Errorf("duplicate must not credit again, have %d credits", len(repo.credited))
	}
}

func TestPurchase_UnknownMethod(t *testing.T) {
	svc := newTestService(newFakePaymentRepo(), &fakePriceRepo{}, &fakeInvalidator{})

	_, err := svc.Purchase(context.Background(), 1, PurchaseInput{
		AmountUSD: decimal.NewFromInt(10),
		Method:    "bank-transfer",
		Reference: "REF-X",
	})
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestPurchase_CryptoDerivesUSDFromSpot(t *testing.T) {
	repo := newFakePaymentRepo()
	priceRepo := &fakePriceRepo{spots: domain.SpotPrices{
		EthereumUSD: decimal.NewFromInt(2000),
		BitcoinUSD:  decimal.NewFromInt(60000),
	}}
	svc := newTestService(repo, priceRepo, &fakeInvalidator{})

	half := decimal.NewFromFloat(0.5)
	payment, err := svc.Purchase(context.Background(), 3, PurchaseInput{
		Method:         domain.PaymentMethodEthereum,
		Reference:      "0xabc123",
		CryptoAmount:   &half,
		CryptoCurrency: domain.CoinEthereum,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !payment.AmountUSD.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected 0.5 ETH at $2000 = $1000, got %s", payment.AmountUSD)
	}
	if payment.Status != "SUBMITTED" {
		t.Errorf("expected default crypto status SUBMITTED, got %q", payment.Status)
	}
}

func TestPurchase_NonPositiveAmountRejected(t *testing.T) {
	svc := newTestService(newFakePaymentRepo(), &fakePriceRepo{}, &fakeInvalidator{})

	_, err := svc.Purchase(context.Background(), 1, PurchaseInput{
		AmountUSD: decimal.Zero,
		Method:    domain.PaymentMethodPayPal,
		Reference: "REF-ZERO",
		Status:    "COMPLETED",
	})
	if err == nil {
		t.Fatal("expected error for zero amount")
	}
}

func TestReceivePayPalWebhook_UpdatesStatusOnly(t *testing.T) {
	repo := newFakePaymentRepo()
	inv := &fakeInvalidator{}
	svc := newTestService(repo, &fakePriceRepo{}, inv)

	if _, err := svc.Purchase(context.Background(), 2, PurchaseInput{
		AmountUSD: decimal.NewFromInt(25),
		Method:    domain.PaymentMethodPayPal,
		Reference: "CAPTURE-9",
		Status:    "COMPLETED",
	}); err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	before := len(repo.credited)
	invBefore := len(inv.invalidated)

	event := domain.PayPalWebhookEvent{EventType: "PAYMENT.CAPTURE.REFUNDED"}
	event.Resource.ID = "CAPTURE-9"
	event.Resource.Status = "REFUNDED"

	if err := svc.ReceivePayPalWebhook(context.Background(), event); err != nil {
		t.Fatalf("webhook failed: %v", err)
	}

	if repo.statuses["CAPTURE-9"] != "REFUNDED" {
		t.Errorf("expected status REFUNDED, got %q", repo.statuses["CAPTURE-9"])
	}
	if len(repo.credited) != before {
		t.Error("webhook must never credit")
	}
	if len(inv.invalidated) != invBefore {
		t.Error("webhook must not touch balances")
	}
}

func TestReceivePayPalWebhook_UnknownReferenceTolerated(t *testing.T) {
	svc := newTestService(newFakePaymentRepo(), &fakePriceRepo{}, &fakeInvalidator{})

	event := domain.PayPalWebhookEvent{EventType: "PAYMENT.CAPTURE.COMPLETED"}
	event.Resource.ID = "NEVER-SEEN"
	event.Resource.Status = "COMPLETED"

	if err := svc.ReceivePayPalWebhook(context.Background(), event); err != nil {
		t.Fatalf("webhook for unknown reference should not fail: %v", err)
	}
}

func TestGetPrice_CachesSpots(t *testing.T) {
	priceRepo := &fakePriceRepo{spots: domain.SpotPrices{
		EthereumUSD: decimal.NewFromInt(1800),
		BitcoinUSD:  decimal.NewFromInt(55000),
	}}
	svc := newTestService(newFakePaymentRepo(), priceRepo, &fakeInvalidator{})

	for i := 0; i < 3; i++ {
		price, err := svc.GetPrice(context.Background())
		if err != nil {
			t.Fatalf("GetPrice failed: %v", err)
		}
		if !price.Spots.EthereumUSD.Equal(decimal.NewFromInt(1800)) {
			t.Errorf("unexpected ETH spot: %s", price.Spots.EthereumUSD)
		}
	}

	if priceRepo.calls != 1 {
		t.Errorf("expected one upstream spot fetch, got %d", priceRepo.calls)
	}
}

func TestGetSupply_ReserveRatio(t *testing.T) {
	svc := NewPurchaseService(
		newFakePaymentRepo(),
		fakePayPal{},
		&fakePriceRepo{},
		&fakeSupplyRepo{supply: domain.CoinSupply{
			TotalSupply: decimal.NewFromInt(1000000),
			Circulating: decimal.NewFromInt(1000),
			ReserveUSD:  decimal.NewFromInt(500),
		}},
		newFakeCache(),
		&fakeInvalidator{},
		decimal.NewFromFloat(1.00),
		"0xRESERVE",
		"bc1reserve",
	)

	_, ratio, err := svc.GetSupply(context.Background())
	if err != nil {
		t.Fatalf("GetSupply failed: %v", err)
	}
	if !ratio.Equal(decimal.NewFromFloat(0.5)) {
		t.Errorf("expected reserve ratio 0.5, got %s", ratio)
	}
}

func TestPurchase_UnconfiguredRateRejected(t *testing.T) {
	svc := NewPurchaseService(
		newFakePaymentRepo(),
		fakePayPal{},
		&fakePriceRepo{},
		&fakeSupplyRepo{},
		newFakeCache(),
		&fakeInvalidator{},
		decimal.Zero,
		"",
		"",
	)

	_, err := svc.Purchase(context.Background(), 1, PurchaseInput{
		AmountUSD: decimal.NewFromInt(50),
		Method:    domain.PaymentMethodPayPal,
		Reference: "REF-NORATE",
		Status:    "COMPLETED",
	})
	if err == nil {
		t.Fatal("expected error when rate is zero")
	}
}

func TestGetPrice_IncludesReceivingAddresses(t *testing.T) {
	priceRepo := &fakePriceRepo{spots: domain.SpotPrices{
		EthereumUSD: decimal.NewFromInt(1800),
		BitcoinUSD:  decimal.NewFromInt(55000),
	}}
	svc := newTestService(newFakePaymentRepo(), priceRepo, &fakeInvalidator{})

	price, err := svc.GetPrice(context.Background())
	if err != nil {
		t.Fatalf("GetPrice failed: %v", err)
	}
	if price.EthReceivingAddress != "0xRESERVE" {
		t.Errorf("expected ETH receiving address, got %q", price.EthReceivingAddress)
	}
	if price.BtcReceivingAddress != "bc1reserve" {
		t.Errorf("expected BTC receiving address, got %q", price.BtcReceivingAddress)
	}
}

func TestVerifyPayPalWebhook(t *testing.T) {
	base := func(paypal fakePayPal) *PurchaseService {
		return NewPurchaseService(
			newFakePaymentRepo(),
			paypal,
			&fakePriceRepo{},
			&fakeSupplyRepo{},
			newFakeCache(),
			&fakeInvalidator{},
			decimal.NewFromFloat(1.00),
			"",
			"",
		)
	}

	headers := domain.PayPalWebhookHeaders{TransmissionID: "tx-1", TransmissionSig: "sig"}
	body := []byte(`{"id":"WH-1"}`)

	if err := base(fakePayPal{}).VerifyPayPalWebhook(headers, body); err != nil {
		t.Errorf("expected verified webhook to pass: %v", err)
	}

	if err := base(fakePayPal{failVerify: true}).VerifyPayPalWebhook(headers, body); err == nil {
		t.Error("expected unverified webhook to be rejected")
	}
}

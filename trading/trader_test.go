package trading

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/obichan117/pyjquants/models"
)

func TestMarketBuyFillsAtOpen(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))

	trader := newTestTrader(t, "1000000", source)

	order, err := trader.Buy("7203", 100)
	if err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}
	if order.Status != OrderStatusPending {
		t.Fatalf("expected PENDING after placement, got %s", order.Status)
	}
	if !trader.Cash().Equal(dec("1000000")) {
		t.Fatalf("placement must not reserve cash, cash=%s", trader.Cash())
	}

	execs, err := trader.SimulateFills(context.Background(), day(2024, 1, 15))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(execs) != 1 {
		t.Fatalf("expected 1 execution, got %d", len(execs))
	}
	exec := execs[0]
	if exec.Quantity != 100 || !exec.Price.Equal(dec("2500")) {
		t.Errorf("unexpected execution: qty=%d price=%s", exec.Quantity, exec.Price)
	}
	if exec.OrderID != order.ID {
		t.Errorf("execution does not reference order: %s != %s", exec.OrderID, order.ID)
	}

	if order.Status != OrderStatusFilled {
		t.Errorf("expected FILLED, got %s", order.Status)
	}
	if order.FilledQuantity != 100 || !order.AvgFillPrice.Equal(dec("2500")) {
		t.Errorf("unexpected fill state: qty=%d avg=%s", order.FilledQuantity, order.AvgFillPrice)
	}
	if !trader.Cash().Equal(dec("750000")) {
		t.Errorf("expected cash 750000, got %s", trader.Cash())
	}

	pos, ok := trader.Position("7203")
	if !ok {
		t.Fatalf("expected position after buy fill")
	}
	if pos.Quantity != 100 || !pos.AverageCost.Equal(dec("2500")) {
		t.Errorf("unexpected position: qty=%d avg=%s", pos.Quantity, pos.AverageCost)
	}
}

func TestLimitSellWaitsForTouch(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))
	source.add("7203", day(2024, 1, 16), bar("2520", "2580", "2510", "2560"))
	source.add("7203", day(2024, 1, 17), bar("2570", "2610", "2560", "2600"))

	trader := newTestTrader(t, "1000000", source)
	mustBuyAndFill(t, trader, "7203", 100, day(2024, 1, 15))

	order, err := trader.SellLimit("7203", 100, dec("2600"))
	if err != nil {
		t.Fatalf("SellLimit returned error: %v", err)
	}

	// D2 最高价 2580 未触及 2600，订单保持 PENDING。
	execs, err := trader.SimulateFills(context.Background(), day(2024, 1, 16))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(execs) != 0 {
		t.Fatalf("expected no executions on untouched limit, got %d", len(execs))
	}
	if order.Status != OrderStatusPending {
		t.Fatalf("expected PENDING, got %s", order.Status)
	}

	// D3 最高价 2610 触及限价，按限价 2600 成交而非更优价。
	execs, err = trader.SimulateFills(context.Background(), day(2024, 1, 17))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(execs) != 1 {
		t.Fatalf("expected 1 execution, got %d", len(execs))
	}
	if !execs[0].Price.Equal(dec("2600")) {
		t.Errorf("limit sell must fill at limit price, got %s", execs[0].Price)
	}

	if !trader.Cash().Equal(dec("1010000")) {
		t.Errorf("expected cash 1010000, got %s", trader.Cash())
	}
	if !trader.Portfolio().RealizedPnl().Equal(dec("10000")) {
		t.Errorf("expected realized pnl 10000, got %s", trader.Portfolio().RealizedPnl())
	}
	if _, ok := trader.Position("7203"); ok {
		t.Errorf("expected position pruned after full sell")
	}
}

func TestLimitBuyFillsAtLimitOnTouch(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))

	trader := newTestTrader(t, "1000000", source)
	order, err := trader.BuyLimit("7203", 100, dec("2490"))
	if err != nil {
		t.Fatalf("BuyLimit returned error: %v", err)
	}

	execs, err := trader.SimulateFills(context.Background(), day(2024, 1, 15))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(execs) != 1 {
		t.Fatalf("expected fill when low 2480 <= limit 2490, got %d executions", len(execs))
	}
	if !execs[0].Price.Equal(dec("2490")) {
		t.Errorf("limit buy must fill at limit price, got %s", execs[0].Price)
	}
	if order.Status != OrderStatusFilled {
		t.Errorf("expected FILLED, got %s", order.Status)
	}
}

func TestSimulateFillsIdempotentPerDate(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))

	trader := newTestTrader(t, "1000000", source)
	if _, err := trader.Buy("7203", 100); err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}

	first, err := trader.SimulateFills(context.Background(), day(2024, 1, 15))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 execution on first call, got %d", len(first))
	}

	second, err := trader.SimulateFills(context.Background(), day(2024, 1, 15))
	if err != nil {
		t.Fatalf("second SimulateFills returned error: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("expected empty executions on repeated date, got %d", len(second))
	}
}

func TestInsufficientCashRejectsOrder(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))

	trader := newTestTrader(t, "100000", source)
	order, err := trader.Buy("7203", 100) // 需要 250000
	if err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}

	execs, err := trader.SimulateFills(context.Background(), day(2024, 1, 15))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(execs) != 0 {
		t.Fatalf("expected no executions, got %d", len(execs))
	}
	if order.Status != OrderStatusRejected {
		t.Errorf("expected REJECTED, got %s", order.Status)
	}
	if order.RejectReason != RejectInsufficientCash {
		t.Errorf("unexpected reject reason %q", order.RejectReason)
	}
	if !trader.Cash().Equal(dec("100000")) {
		t.Errorf("rejected order must not move cash, got %s", trader.Cash())
	}
}

func TestShortSellRejected(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))

	trader := newTestTrader(t, "1000000", source)
	order, err := trader.Sell("7203", 100)
	if err != nil {
		t.Fatalf("Sell returned error: %v", err)
	}

	execs, err := trader.SimulateFills(context.Background(), day(2024, 1, 15))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(execs) != 0 {
		t.Fatalf("expected no executions, got %d", len(execs))
	}
	if order.Status != OrderStatusRejected || order.RejectReason != RejectInsufficientPosition {
		t.Errorf("expected REJECTED/%s, got %s/%s", RejectInsufficientPosition, order.Status, order.RejectReason)
	}
}

func TestSellExceedingHoldingRejectedEntirely(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))
	source.add("7203", day(2024, 1, 16), bar("2520", "2580", "2510", "2560"))

	trader := newTestTrader(t, "1000000", source)
	mustBuyAndFill(t, trader, "7203", 100, day(2024, 1, 15))

	order, err := trader.Sell("7203", 200)
	if err != nil {
		t.Fatalf("Sell returned error: %v", err)
	}

	execs, err := trader.SimulateFills(context.Background(), day(2024, 1, 16))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	// 超出持仓的部分不做部分成交，整单拒绝。
	if len(execs) != 0 {
		t.Fatalf("expected no executions, got %d", len(execs))
	}
	if order.Status != OrderStatusRejected {
		t.Errorf("expected REJECTED, got %s", order.Status)
	}
	pos, ok := trader.Position("7203")
	if !ok || pos.Quantity != 100 {
		t.Errorf("holding must be untouched, got %+v ok=%v", pos, ok)
	}
}

func TestMissingBarLeavesOrderPending(t *testing.T) {
	source := newFakeBarSource()
	// 1月15日无行情（非交易日），16日有。
	source.add("7203", day(2024, 1, 16), bar("2500", "2550", "2480", "2530"))

	trader := newTestTrader(t, "1000000", source)
	order, err := trader.Buy("7203", 100)
	if err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}

	execs, err := trader.SimulateFills(context.Background(), day(2024, 1, 15))
	if err != nil {
		t.Fatalf("missing bar must not raise, got %v", err)
	}
	if len(execs) != 0 || order.Status != OrderStatusPending {
		t.Fatalf("expected pending order with no executions, got %d/%s", len(execs), order.Status)
	}

	execs, err = trader.SimulateFills(context.Background(), day(2024, 1, 16))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(execs) != 1 {
		t.Fatalf("expected retry fill on next date, got %d executions", len(execs))
	}
}

func TestUnknownInstrumentRaisesMarketDataError(t *testing.T) {
	source := newFakeBarSource()
	source.fail("9999", errors.New("标的不存在"))

	trader := newTestTrader(t, "1000000", source)
	if _, err := trader.Buy("9999", 100); err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}

	_, err := trader.SimulateFills(context.Background(), day(2024, 1, 15))
	var mdErr *MarketDataUnavailableError
	if !errors.As(err, &mdErr) {
		t.Fatalf("expected MarketDataUnavailableError, got %v", err)
	}
	if mdErr.Code != "9999" {
		t.Errorf("unexpected code in error: %s", mdErr.Code)
	}
}

func TestFIFOProcessingOrder(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))

	// 现金只够一单，先下的单成交，后下的单因现金不足被拒。
	trader := newTestTrader(t, "300000", source)
	first, err := trader.Buy("7203", 100)
	if err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}
	second, err := trader.Buy("7203", 100)
	if err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}

	execs, err := trader.SimulateFills(context.Background(), day(2024, 1, 15))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(execs) != 1 {
		t.Fatalf("expected exactly one fill, got %d", len(execs))
	}
	if first.Status != OrderStatusFilled {
		t.Errorf("first order should fill, got %s", first.Status)
	}
	if second.Status != OrderStatusRejected {
		t.Errorf("second order should be rejected, got %s", second.Status)
	}
}

func TestCashConservation(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))
	source.add("6758", day(2024, 1, 15), bar("13000", "13100", "12900", "13050"))
	source.add("7203", day(2024, 1, 16), bar("2520", "2580", "2510", "2560"))
	source.add("6758", day(2024, 1, 16), bar("13100", "13300", "13000", "13250"))

	initial := dec("5000000")
	trader := newTestTrader(t, initial.String(), source)

	if _, err := trader.Buy("7203", 300); err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}
	if _, err := trader.Buy("6758", 100); err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}
	if _, err := trader.SimulateFills(context.Background(), day(2024, 1, 15)); err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}

	if _, err := trader.Sell("7203", 100); err != nil {
		t.Fatalf("Sell returned error: %v", err)
	}
	if _, err := trader.SimulateFills(context.Background(), day(2024, 1, 16)); err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}

	// 现金 + Σ(数量×平均成本) + Σ已实现损益 恒等于初始现金。
	costBasis := decimal.Zero
	for _, pos := range trader.Portfolio().Positions() {
		costBasis = costBasis.Add(pos.AverageCost.Mul(decimal.NewFromInt(pos.Quantity)))
	}
	total := trader.Cash().Add(costBasis).Sub(trader.Portfolio().RealizedPnl())
	if !total.Equal(initial) {
		t.Errorf("conservation violated: cash=%s basis=%s realized=%s initial=%s",
			trader.Cash(), costBasis, trader.Portfolio().RealizedPnl(), initial)
	}
}

func TestCancelOrder(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))

	trader := newTestTrader(t, "1000000", source)
	order, err := trader.BuyLimit("7203", 100, dec("2000"))
	if err != nil {
		t.Fatalf("BuyLimit returned error: %v", err)
	}

	if err := trader.Cancel(order.ID); err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if order.Status != OrderStatusCancelled {
		t.Fatalf("expected CANCELLED, got %s", order.Status)
	}

	// 终态订单不可再撤销，也不再参与撮合。
	if err := trader.Cancel(order.ID); !errors.Is(err, ErrOrderTerminal) {
		t.Errorf("expected ErrOrderTerminal, got %v", err)
	}
	execs, err := trader.SimulateFills(context.Background(), day(2024, 1, 15))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(execs) != 0 {
		t.Errorf("cancelled order must not fill, got %d executions", len(execs))
	}

	if err := trader.Cancel("missing"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestPlacementValidation(t *testing.T) {
	source := newFakeBarSource()
	trader := newTestTrader(t, "1000000", source)

	cases := []struct {
		name  string
		place func() (*Order, error)
	}{
		{"零数量", func() (*Order, error) { return trader.Buy("7203", 0) }},
		{"负数量", func() (*Order, error) { return trader.Sell("7203", -100) }},
		{"限价单无限价", func() (*Order, error) { return trader.BuyLimit("7203", 100, decimal.Zero) }},
		{"限价单负限价", func() (*Order, error) { return trader.SellLimit("7203", 100, dec("-2500")) }},
		{"空代码", func() (*Order, error) { return trader.Buy("", 100) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.place(); !IsInvalidOrder(err) {
				t.Errorf("expected InvalidOrderError, got %v", err)
			}
		})
	}
	if len(trader.Orders()) != 0 {
		t.Errorf("invalid placements must not create orders, got %d", len(trader.Orders()))
	}
}

func TestMarketFillAtClosePolicy(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))

	trader, err := NewTrader(dec("1000000"), source, Options{
		Policy: FillPolicy{MarketReference: ReferenceClose},
	})
	if err != nil {
		t.Fatalf("NewTrader returned error: %v", err)
	}
	if _, err := trader.Buy("7203", 100); err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}

	execs, err := trader.SimulateFills(context.Background(), day(2024, 1, 15))
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(execs) != 1 || !execs[0].Price.Equal(dec("2530")) {
		t.Fatalf("expected fill at close 2530, got %+v", execs)
	}
}

func TestRecorderReceivesExecutions(t *testing.T) {
	source := newFakeBarSource()
	source.add("7203", day(2024, 1, 15), bar("2500", "2550", "2480", "2530"))

	recorder := &memoryRecorder{}
	trader, err := NewTrader(dec("1000000"), source, Options{Recorder: recorder})
	if err != nil {
		t.Fatalf("NewTrader returned error: %v", err)
	}
	if _, err := trader.Buy("7203", 100); err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}
	if _, err := trader.SimulateFills(context.Background(), day(2024, 1, 15)); err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}

	if len(recorder.recorded) != 1 {
		t.Fatalf("expected 1 recorded execution, got %d", len(recorder.recorded))
	}
}

// === 测试辅助 ===

func newTestTrader(t *testing.T, cash string, source BarSource) *Trader {
	t.Helper()
	trader, err := NewTrader(dec(cash), source, Options{})
	if err != nil {
		t.Fatalf("NewTrader returned error: %v", err)
	}
	return trader
}

func mustBuyAndFill(t *testing.T, trader *Trader, code string, quantity int64, fillDay models.Date) {
	t.Helper()
	if _, err := trader.Buy(code, quantity); err != nil {
		t.Fatalf("Buy returned error: %v", err)
	}
	execs, err := trader.SimulateFills(context.Background(), fillDay)
	if err != nil {
		t.Fatalf("SimulateFills returned error: %v", err)
	}
	if len(execs) != 1 {
		t.Fatalf("setup fill failed, got %d executions", len(execs))
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(year, month, dayOfMonth int) models.Date {
	return models.NewDate(year, time.Month(month), dayOfMonth)
}

func bar(open, high, low, closePrice string) models.PriceBar {
	return models.PriceBar{
		Open:  models.N(open),
		High:  models.N(high),
		Low:   models.N(low),
		Close: models.N(closePrice),
	}
}

type fakeBarSource struct {
	bars map[string]map[string]models.PriceBar
	errs map[string]error
}

func newFakeBarSource() *fakeBarSource {
	return &fakeBarSource{
		bars: make(map[string]map[string]models.PriceBar),
		errs: make(map[string]error),
	}
}

func (f *fakeBarSource) add(code string, day models.Date, bar models.PriceBar) {
	if f.bars[code] == nil {
		f.bars[code] = make(map[string]models.PriceBar)
	}
	bar.Code = code
	bar.Date = day
	f.bars[code][day.String()] = bar
}

func (f *fakeBarSource) fail(code string, err error) {
	f.errs[code] = err
}

func (f *fakeBarSource) PriceBar(ctx context.Context, code string, day models.Date) (models.PriceBar, bool, error) {
	if err, ok := f.errs[code]; ok {
		return models.PriceBar{}, false, err
	}
	bar, ok := f.bars[code][day.String()]
	return bar, ok, nil
}

type memoryRecorder struct {
	recorded []Execution
}

func (m *memoryRecorder) RecordExecution(ctx context.Context, exec Execution) error {
	m.recorded = append(m.recorded, exec)
	return nil
}

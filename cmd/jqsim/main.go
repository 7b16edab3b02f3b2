package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/obichan117/pyjquants/config"
	"github.com/obichan117/pyjquants/entity"
	"github.com/obichan117/pyjquants/jquants"
	"github.com/obichan117/pyjquants/log"
	"github.com/obichan117/pyjquants/models"
	"github.com/obichan117/pyjquants/store"
	"github.com/obichan117/pyjquants/trading"
)

func main() {
	var (
		configPath string
		code       string
		quantity   int64
		startStr   string
		endStr     string
	)
	flag.StringVar(&configPath, "config", "", "配置文件路径，默认依次尝试 ~/.jquants/config.toml 等")
	flag.StringVar(&code, "code", "7203", "证券代码")
	flag.Int64Var(&quantity, "quantity", 100, "买入数量")
	flag.StringVar(&startStr, "start", "", "模拟起始日期 (yyyy-mm-dd)")
	flag.StringVar(&endStr, "end", "", "模拟结束日期 (yyyy-mm-dd)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := log.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, code, quantity, startStr, endStr); err != nil {
		logger.Error("模拟运行异常", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, code string, quantity int64, startStr, endStr string) error {
	start, err := models.ParseDate(startStr)
	if err != nil {
		return err
	}
	end, err := models.ParseDate(endStr)
	if err != nil {
		return err
	}

	session, err := jquants.NewSession(cfg, logger)
	if err != nil {
		return err
	}
	if err := session.Authenticate(ctx); err != nil {
		return err
	}

	initialCash, err := decimal.NewFromString(cfg.Trading.InitialCash)
	if err != nil {
		return fmt.Errorf("解析 trading.initial_cash 失败: %w", err)
	}
	reference, err := trading.ParseReferencePrice(cfg.Trading.MarketFillReference)
	if err != nil {
		return err
	}

	opts := trading.Options{
		Policy: trading.FillPolicy{MarketReference: reference},
		Logger: logger,
	}
	if cfg.Journal.Enabled {
		journal, err := store.NewJournal(cfg.Journal)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := journal.Close(); closeErr != nil {
				logger.Warn("关闭流水库失败", zap.Error(closeErr))
			}
		}()
		opts.Recorder = journal
	}

	trader, err := trading.NewTrader(initialCash, entity.NewSessionBarSource(session, logger), opts)
	if err != nil {
		return err
	}

	order, err := trader.Buy(code, quantity)
	if err != nil {
		return err
	}
	logger.Info("已提交市价买单", zap.String("order_id", order.ID), zap.String("code", code))

	market := entity.NewMarket(session)
	days, err := market.TradingDays(ctx, start, end)
	if err != nil {
		return err
	}

	for _, day := range days {
		execs, err := trader.SimulateFills(ctx, day)
		if err != nil {
			return err
		}
		for _, exec := range execs {
			logger.Info("成交",
				zap.Stringer("date", exec.Date),
				zap.String("code", exec.Code),
				zap.String("side", string(exec.Side)),
				zap.Int64("quantity", exec.Quantity),
				zap.String("price", exec.Price.String()),
			)
		}
	}

	logger.Info("模拟结束",
		zap.String("cash", trader.Cash().String()),
		zap.String("realized_pnl", trader.Portfolio().RealizedPnl().String()),
		zap.Int("orders", len(trader.Orders())),
	)
	return nil
}

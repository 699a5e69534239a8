package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/polkiloo/alipay-checkout/internal/checkout"
	"github.com/polkiloo/alipay-checkout/internal/domain/model"
)

// shopper drives a full checkout journey against a running checkout service:
// it submits the demo cart, follows the processing flow until the payment
// settles, and prints the return view outcome.
func main() {
	var (
		serverAddr    string
		walletBrand   string
		redirectDelay time.Duration
		pollInterval  time.Duration
	)
	flag.StringVar(&serverAddr, "s", "http://localhost:8080", "checkout service address")
	flag.StringVar(&walletBrand, "w", string(model.WalletAlipayCN), "wallet brand")
	flag.DurationVar(&redirectDelay, "redirect-delay", 2*time.Second, "delay before the wallet redirect")
	flag.DurationVar(&pollInterval, "poll-interval", 5*time.Second, "payment status poll interval")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("app", "shopper"))

	brand := model.WalletBrand(walletBrand)
	if !brand.Valid() {
		fmt.Fprintf(os.Stderr, "unknown wallet brand %q\n", walletBrand)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := journey(ctx, serverAddr, brand, redirectDelay, pollInterval, logger); err != nil {
		fmt.Fprintf(os.Stderr, "checkout journey failed: %v\n", err)
		os.Exit(1)
	}
}

// loggingNavigator stands in for the browser: redirects are logged, not followed.
type loggingNavigator struct {
	logger *slog.Logger
}

func (n loggingNavigator) Navigate(_ context.Context, target string) error {
	n.logger.Info("navigating", slog.String("target", target))
	return nil
}

func journey(
	ctx context.Context,
	serverAddr string,
	brand model.WalletBrand,
	redirectDelay, pollInterval time.Duration,
	logger *slog.Logger,
) error {
	client, err := checkout.NewAPIClient(serverAddr, logger)
	if err != nil {
		return err
	}

	cart := checkout.SeedCart()
	logger.Info("cart ready",
		slog.Int("items", len(cart.Items())),
		slog.Float64("total", cart.Total()),
		slog.String("wallet", string(brand)),
	)

	handles := checkout.NewHandleStore()
	submitter := checkout.NewSubmitter(client, handles, serverAddr, logger)

	submission, err := submitter.Submit(ctx, cart, brand)
	if err != nil {
		return err
	}
	if submission.NextRoute == "" {
		logger.Info("payment settled immediately",
			slog.String("order", submission.OrderNo),
			slog.String("transaction", submission.TransactionID),
		)
		return nil
	}

	navigator := loggingNavigator{logger: logger}
	processor := checkout.NewProcessor(handles, client, navigator, logger, redirectDelay, pollInterval)
	state, err := processor.Run(ctx)
	if err != nil {
		return err
	}
	logger.Info("processing finished", slog.String("state", string(state)))

	resolver := checkout.NewResolver(client, logger)
	resolution, err := resolver.Resolve(ctx, submission.OrderNo)
	if err != nil {
		return err
	}

	fmt.Println(resolution.Heading)
	fmt.Println(resolution.Message)
	if resolution.Details != nil {
		fmt.Printf("Order %s: %s %s %.2f\n",
			resolution.Details.OrderNo,
			resolution.Details.GoodsName,
			resolution.Details.Currency,
			resolution.Details.Amount,
		)
	}
	fmt.Printf("Return view: %s%s\n", serverAddr, checkout.ReturnRouteFor(submission.OrderNo))
	return nil
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"retailpos/internal/backend"
	"retailpos/internal/config"
	"retailpos/internal/domain"
	"retailpos/internal/pos/cart"
	"retailpos/internal/pos/catalog"
	"retailpos/internal/pos/checkout"
	"retailpos/internal/pos/scan"
)

// noCamera stands in for a camera device on headless terminals. Starting it
// always reports not-found, which the scanning panel surfaces as a retryable
// device status.
type noCamera struct{}

func (noCamera) Start(context.Context) error {
	return &scan.DeviceError{Reason: scan.DeviceNotFound}
}
func (noCamera) Stop() {}

type terminal struct {
	client     *backend.Client
	resolver   *catalog.Resolver
	ledger     *cart.Ledger
	checkout   *checkout.Orchestrator
	normalizer *scan.Normalizer
	logger     *log.Logger

	pollInterval time.Duration
	stopRemote   context.CancelFunc
}

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stderr, "[terminal] ", log.LstdFlags|log.LUTC)

	client := backend.New(cfg.BackendURL, cfg.TenantKey)
	resolver := catalog.New(client, logger)
	ledger := cart.NewLedger(cfg.TaxRateBps)

	term := &terminal{
		client:   client,
		resolver: resolver,
		ledger:   ledger,
		checkout: checkout.New(ledger, client, logger),
		normalizer: scan.NewNormalizer(scan.Config{
			Wedge: scan.WedgeConfig{
				MaxKeyGap:    cfg.WedgeMaxKeyGap,
				EnterTimeout: cfg.WedgeEnterTimeout,
				MinLength:    cfg.WedgeMinLength,
			},
			CameraCooldown: cfg.CameraCooldown,
		}, noCamera{}, logger),
		logger:       logger,
		pollInterval: cfg.RemotePollInterval,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := resolver.Load(ctx); err != nil {
		logger.Fatalf("load catalog: %v", err)
	}
	fmt.Printf("catalog loaded: %d products (tenant %s)\n", len(resolver.Products()), cfg.TenantKey)

	go func() {
		for ev := range term.normalizer.Events() {
			term.applyScan(ev)
		}
	}()

	fmt.Println(`commands: scan <code> | qty <product-id> <n> | remove <product-id>
  discount pct <0-100> | discount fixed <cents> | nodiscount | customer <id>
  cart | reload | remote | remote stop | pay cash <tendered-cents> | pay card | quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if term.dispatch(ctx, strings.Fields(strings.TrimSpace(scanner.Text()))) {
			break
		}
	}
}

// dispatch runs one command line. Returns true when the terminal should exit.
func (t *terminal) dispatch(ctx context.Context, args []string) bool {
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "quit", "exit":
		if t.stopRemote != nil {
			t.stopRemote()
		}
		return true
	case "scan":
		if len(args) != 2 {
			fmt.Println("usage: scan <code>")
			return false
		}
		if !t.normalizer.SubmitManual(args[1], time.Now()) {
			fmt.Println("nothing to scan")
		}
	case "wedge":
		if len(args) != 2 {
			fmt.Println("usage: wedge <code>")
			return false
		}
		// Replay the code as a scanner-speed keystroke burst.
		at := time.Now()
		for _, r := range args[1] {
			t.normalizer.Keystroke(r, at)
			at = at.Add(10 * time.Millisecond)
		}
		t.normalizer.Keystroke('\n', at)
	case "qty":
		if len(args) != 3 {
			fmt.Println("usage: qty <product-id> <n>")
			return false
		}
		n, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Println("quantity must be a number")
			return false
		}
		t.ledger.SetQuantity(args[1], n)
		t.printTotals()
	case "remove":
		if len(args) != 2 {
			fmt.Println("usage: remove <product-id>")
			return false
		}
		t.ledger.RemoveItem(args[1])
		t.printTotals()
	case "discount":
		t.applyDiscount(args[1:])
	case "nodiscount":
		t.ledger.ClearDiscount()
		t.printTotals()
	case "customer":
		if len(args) != 2 {
			fmt.Println("usage: customer <id>")
			return false
		}
		t.ledger.SetCustomer(args[1])
	case "cart":
		t.printCart()
	case "reload":
		if err := t.resolver.Load(ctx); err != nil {
			fmt.Printf("reload failed: %v\n", err)
			return false
		}
		fmt.Printf("catalog reloaded: %d products\n", len(t.resolver.Products()))
	case "remote":
		t.remote(ctx, args[1:])
	case "pay":
		t.pay(ctx, args[1:])
	default:
		fmt.Printf("unknown command %q\n", args[0])
	}
	return false
}

// applyScan is the single consumer of normalized scan events, from whatever
// source they arrive.
func (t *terminal) applyScan(ev scan.Event) {
	product, err := t.resolver.Resolve(ev.Code)
	if err != nil {
		var nf *catalog.NotFoundError
		if errors.As(err, &nf) {
			fmt.Printf("\nunknown code %q, correct and rescan\n> ", nf.Code)
			return
		}
		fmt.Printf("\nresolve %q: %v\n> ", ev.Code, err)
		return
	}
	t.ledger.AddItem(*product)
	totals := t.ledger.Totals()
	fmt.Printf("\n+ %s (%s) total now %s\n> ", product.Name, ev.Source, cents(totals.TotalCents))
}

func (t *terminal) applyDiscount(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: discount pct <0-100> | discount fixed <cents>")
		return
	}
	value, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		fmt.Println("discount value must be a number")
		return
	}
	var kind cart.DiscountKind
	switch args[0] {
	case "pct":
		kind = cart.DiscountPercentage
	case "fixed":
		kind = cart.DiscountFixed
	default:
		fmt.Printf("unknown discount kind %q\n", args[0])
		return
	}
	if err := t.ledger.ApplyDiscount(kind, value); err != nil {
		fmt.Printf("discount rejected: %v\n", err)
		return
	}
	t.printTotals()
}

// remote starts or stops a temporary scan session polled in the background.
func (t *terminal) remote(ctx context.Context, args []string) {
	if len(args) == 1 && args[0] == "stop" {
		if t.stopRemote == nil {
			fmt.Println("no remote session running")
			return
		}
		t.stopRemote()
		t.stopRemote = nil
		fmt.Println("remote session stopped")
		return
	}
	if t.stopRemote != nil {
		fmt.Println("remote session already running, use 'remote stop' first")
		return
	}
	session, err := t.client.CreateTemporarySession(ctx)
	if err != nil {
		fmt.Printf("create session: %v\n", err)
		return
	}
	pollCtx, cancel := context.WithCancel(ctx)
	t.stopRemote = cancel
	poller := scan.NewRemotePoller(t.client, session.Code, t.pollInterval, func(ev scan.Event) error {
		t.applyScan(ev)
		return nil
	}, t.logger)
	go poller.Run(pollCtx)
	fmt.Printf("remote session %s ready", session.Code)
	if session.ExpiresAt != nil {
		fmt.Printf(" (expires %s)", session.ExpiresAt.Format(time.Kitchen))
	}
	fmt.Println()
}

// pay runs a whole payment session in one command. On failure the session is
// cancelled and the cart kept for another attempt.
func (t *terminal) pay(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("usage: pay cash <tendered-cents> | pay card")
		return
	}
	if err := t.checkout.Begin(); err != nil {
		fmt.Printf("checkout: %v\n", err)
		return
	}
	switch args[0] {
	case "cash":
		if len(args) != 2 {
			fmt.Println("usage: pay cash <tendered-cents>")
			t.checkout.Cancel()
			return
		}
		tendered, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Println("tendered amount must be a number of cents")
			t.checkout.Cancel()
			return
		}
		if err := t.checkout.ChooseCash(); err != nil {
			fmt.Printf("checkout: %v\n", err)
			t.checkout.Cancel()
			return
		}
		if err := t.checkout.SetTendered(tendered); err != nil {
			fmt.Printf("checkout: %v\n", err)
			t.checkout.Cancel()
			return
		}
	case "card":
		if err := t.checkout.ChooseDirect(domain.PaymentCard); err != nil {
			fmt.Printf("checkout: %v\n", err)
			t.checkout.Cancel()
			return
		}
	default:
		fmt.Printf("unknown payment method %q\n", args[0])
		t.checkout.Cancel()
		return
	}

	conf, err := t.checkout.Submit(ctx)
	if err != nil {
		fmt.Printf("payment failed: %v (cart kept)\n", err)
		t.checkout.Cancel()
		return
	}
	fmt.Printf("receipt %s  tendered %s  change %s\n",
		conf.ReceiptRef, cents(conf.TenderedCents), cents(conf.ChangeCents))
	if err := t.checkout.Reset(); err != nil {
		fmt.Printf("reset: %v\n", err)
	}
}

func (t *terminal) printCart() {
	lines := t.ledger.Lines()
	if len(lines) == 0 {
		fmt.Println("cart is empty")
		return
	}
	for _, line := range lines {
		fmt.Printf("  %-12s %-24s %3d x %8s\n", line.ProductID, line.Name, line.Quantity, cents(line.UnitPriceCents))
	}
	if d := t.ledger.Discount(); d != nil {
		fmt.Printf("  discount: %s %d\n", d.Kind, d.Value)
	}
	t.printTotals()
}

func (t *terminal) printTotals() {
	totals := t.ledger.Totals()
	fmt.Printf("  subtotal %s  discount %s  tax %s  total %s\n",
		cents(totals.SubtotalCents), cents(totals.DiscountCents), cents(totals.TaxCents), cents(totals.TotalCents))
}

func cents(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

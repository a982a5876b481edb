package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"restaurant-ordering/internal/cart"
	"restaurant-ordering/internal/checkout"
	"restaurant-ordering/internal/config"
	"restaurant-ordering/internal/logger"
	"restaurant-ordering/internal/models"
)

const cartUsage = `usage: --mode cart <command>
  show            print the cart
  add <id>        add one unit of a menu item
  inc <index>     raise quantity of a line
  dec <index>     lower quantity of a line
  rm <index>      remove a line
  sync            refresh prices from the menu once
  watch           keep prices in sync until interrupted
  submit [table]  place the order`

// errReported marks failures the notifier has already printed.
var errReported = errors.New("reported")

// runCart executes one cart command against the local cart state
func runCart(ctx context.Context, cfg *config.Config, log *logger.Logger, args []string) error {
	if len(args) == 0 {
		return errors.New(cartUsage)
	}

	client := checkout.NewAPIClient(cfg.Cart.APIURL, 10*time.Second)
	live := cart.NewLiveMenu(nil)
	renderer := &cart.TextRenderer{Out: os.Stdout, Currency: cfg.Cart.Currency}
	manager := cart.NewManager(cart.NewFileStorage(cfg.Cart.Dir), live, renderer)
	poller := checkout.NewPoller(client, live, manager, cfg.Cart.PollInterval, log)

	// Quantity limits and live prices come from the menu; the cart still works offline.
	if items, err := client.FetchMenu(ctx); err == nil {
		live.Set(items)
	} else {
		log.Warn("menu_unavailable", "Could not load menu, using defaults", "", map[string]interface{}{
			"error": err.Error(),
		})
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "show":
		manager.Render()
		return nil
	case "add":
		id, err := argInt(rest, "id")
		if err != nil {
			return err
		}
		item, err := findMenuItem(live.MenuItems(), int64(id))
		if err != nil {
			return err
		}
		return manager.AddOrIncrement(item.ID, item.Name, item.Price)
	case "inc", "dec", "rm":
		index, err := argInt(rest, "index")
		if err != nil {
			return err
		}
		switch cmd {
		case "inc":
			return manager.Increment(index)
		case "dec":
			return manager.Decrement(index)
		default:
			return manager.Remove(index)
		}
	case "sync":
		_, err := poller.SyncOnce(ctx)
		return err
	case "watch":
		return poller.Run(ctx)
	case "submit":
		table := strings.Join(rest, " ")
		notifier := &checkout.TextNotifier{Out: os.Stdout}
		submitter := checkout.NewSubmitter(manager, client, notifier, log,
			checkout.WithAlert(func(msg string) { fmt.Fprintln(os.Stderr, msg) }),
			// The process exits right after submitting, so there is nothing to clear.
			checkout.WithTimer(func(time.Duration, func()) {}))
		order, err := submitter.Submit(ctx, table)
		if err != nil {
			var serr *checkout.SubmitError
			if errors.As(err, &serr) || errors.Is(err, checkout.ErrEmptyCart) {
				return errReported
			}
			return err
		}
		if order != nil {
			fmt.Printf("Order #%d is %s\n", order.ID, order.Status)
		}
		return nil
	default:
		return fmt.Errorf("unknown cart command %q\n%s", cmd, cartUsage)
	}
}

func argInt(args []string, name string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[0])
	}
	return n, nil
}

func findMenuItem(items []models.MenuItem, id int64) (models.MenuItem, error) {
	for _, it := range items {
		if it.ID != id {
			continue
		}
		if !it.Available {
			return models.MenuItem{}, fmt.Errorf("%s is currently unavailable", it.Name)
		}
		return it, nil
	}
	return models.MenuItem{}, fmt.Errorf("menu item %d not found", id)
}

package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/adyen/storefront-e2e/internal/browser"
	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/intercept"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/money"
	"github.com/adyen/storefront-e2e/internal/scenario"
)

// Rule names of the two backend endpoints
const (
	CreateOrderRule = "create-order"
	NotifyRule      = "notify-order"
)

// Customer details entered by checkout scenarios
const (
	TestCustomerName  = "E2E Customer"
	TestCustomerPhone = "+15550100"
)

// Suite returns every storefront scenario, bound to cfg's store
func Suite(cfg *config.HarnessConfig) []scenario.Scenario {
	s := suite{cfg: cfg, routes: Routes{StoreID: cfg.StoreID}}
	return []scenario.Scenario{
		s.soldOutCardBlocksAdd(),
		s.subtotalSumsLines(),
		s.reloadIsIdempotent(),
		s.soldOutDetailDisabled(),
		s.orderSurvivesNotificationOutage(),
		s.totalsConsistentAcrossPages(),
		s.notificationForwarded(),
		s.ageGateDismissal(),
	}
}

type suite struct {
	cfg    *config.HarnessConfig
	routes Routes
}

func (s suite) createOrder(mode intercept.Mode) intercept.Rule {
	return intercept.Rule{Name: CreateOrderRule, Pattern: s.cfg.CreateOrderPattern, Mode: mode, Required: true}
}

func (s suite) notify(mode intercept.Mode) intercept.Rule {
	return intercept.Rule{Name: NotifyRule, Pattern: s.cfg.NotifyPattern, Mode: mode, Required: true}
}

// openCatalog lands on the catalog with the age gate out of the way
func (s suite) openCatalog() []scenario.Step {
	return []scenario.Step{
		scenario.Navigate(s.routes.Catalog()),
		scenario.DismissInterstitial(AgeGate),
	}
}

// requireAvailable skips the scenario unless n products can be bought
func requireAvailable(n int) scenario.Step {
	return scenario.Require(
		scenario.Present(fmt.Sprintf("%d purchasable products", n), AvailableCards.Nth(n-1)),
		fmt.Sprintf("catalog lists fewer than %d products in stock", n),
	)
}

// addAvailable adds the i-th purchasable product from the catalog and waits for the cart count
func addAvailable(i, wantCount int) []scenario.Step {
	return []scenario.Step{
		scenario.Click(In(AvailableCards.Nth(i), TestIDAddToCart)),
		scenario.AssertText(CartCount, browser.Equals(fmt.Sprint(wantCount))),
	}
}

func (s suite) checkout() []scenario.Step {
	return []scenario.Step{
		scenario.Navigate(s.routes.Checkout()),
		scenario.Fill(CustomerName, TestCustomerName),
		scenario.Fill(CustomerPhone, TestCustomerPhone),
		scenario.Click(PlaceOrder),
	}
}

func steps(groups ...[]scenario.Step) []scenario.Step {
	var out []scenario.Step
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func (s suite) soldOutCardBlocksAdd() scenario.Scenario {
	card := SoldOutCards.Nth(0)
	add := In(card, TestIDAddToCart)
	return scenario.Scenario{
		Name:        "catalog/sold-out-card-blocks-add",
		Description: "A zero-stock card shows a sold-out badge, its add control is disabled, and forcing it leaves the cart unchanged.",
		Steps: steps(
			s.openCatalog(),
			[]scenario.Step{
				scenario.Branch(scenario.Present("sold-out product listed", card), []scenario.Step{
					scenario.CaptureText("cart count before", CartCount),
					scenario.AssertVisible(In(card, TestIDSoldOutBadge)),
					scenario.AssertDisabled(add),
					scenario.ForceClick(add),
					scenario.Settle(),
					scenario.Reload(),
					scenario.AssertCapturedText(CartCount, "cart count before"),
				}, nil),
			},
		),
	}
}

func (s suite) subtotalSumsLines() scenario.Scenario {
	first := In(AvailableCards.Nth(0), TestIDProductPrice)
	second := In(AvailableCards.Nth(1), TestIDProductPrice)
	return scenario.Scenario{
		Name:        "cart/subtotal-sums-lines",
		Description: "The cart subtotal is the sum of its lines after each add.",
		Steps: steps(
			s.openCatalog(),
			[]scenario.Step{
				requireAvailable(2),
				scenario.CaptureMoney("first price", first),
				scenario.CaptureMoney("second price", second),
			},
			addAvailable(0, 1),
			[]scenario.Step{
				scenario.Navigate(s.routes.Cart()),
				scenario.AssertCount(CartLine, 1),
				scenario.AssertCapturedMoney(CartSubtotal, "first price"),
				scenario.Navigate(s.routes.Catalog()),
			},
			addAvailable(1, 2),
			[]scenario.Step{
				scenario.CaptureSum("expected subtotal", "first price", "second price"),
				scenario.Navigate(s.routes.Cart()),
				scenario.AssertCount(CartLine, 2),
				scenario.AssertCapturedMoney(CartSubtotal, "expected subtotal"),
			},
		),
	}
}

func (s suite) reloadIsIdempotent() scenario.Scenario {
	return scenario.Scenario{
		Name:        "cart/reload-is-idempotent",
		Description: "Reloading the cart never changes its subtotal or count.",
		Steps: steps(
			s.openCatalog(),
			[]scenario.Step{requireAvailable(1)},
			addAvailable(0, 1),
			[]scenario.Step{
				scenario.Navigate(s.routes.Cart()),
				scenario.CaptureMoney("subtotal", CartSubtotal),
				scenario.Reload(),
				scenario.AssertCapturedMoney(CartSubtotal, "subtotal"),
				scenario.Reload(),
				scenario.AssertCapturedMoney(CartSubtotal, "subtotal"),
				scenario.AssertText(CartCount, browser.Equals("1")),
			},
		),
	}
}

func (s suite) soldOutDetailDisabled() scenario.Scenario {
	card := SoldOutCards.Nth(0)
	return scenario.Scenario{
		Name:        "product/sold-out-detail-disabled",
		Description: "A sold-out product page renders a disabled unavailable control that forced clicks cannot use.",
		Steps: steps(
			s.openCatalog(),
			[]scenario.Step{
				scenario.Require(scenario.Present("sold-out product", card), "no sold-out product listed"),
				scenario.CaptureText("cart count before", CartCount),
				scenario.CaptureAttribute("sold-out product page", In(card, TestIDProductLink), "href"),
				scenario.NavigateCaptured("sold-out product page"),
				scenario.AssertVisible(SoldOutBadge).AsSoft(),
				scenario.AssertDisabled(AddToCart),
				scenario.AssertText(AddToCart, browser.Matches(`(?i)sold out|unavailable`)),
				scenario.ForceClick(AddToCart),
				scenario.Reload(),
				scenario.AssertCapturedText(CartCount, "cart count before"),
			},
		),
	}
}

// captureOrder checks the create-order exchange and stores the order
// number and identifier it returned
func captureOrder(ex intercept.Exchange, c *scenario.Captures) error {
	if ex.Err != "" {
		return fmt.Errorf("order creation did not complete: %s", ex.Err)
	}
	var resp models.CreateOrderResponse
	if err := ex.DecodeResponse(&resp); err != nil {
		return err
	}
	if ex.Status != http.StatusOK || resp.Error != "" {
		return &models.AssertionError{
			Expected: "HTTP 200 without error",
			Actual:   fmt.Sprintf("HTTP %d %s", ex.Status, resp.Error),
			Detail:   "order creation failed",
		}
	}
	if resp.OrderID == "" || resp.OrderNumber == "" {
		return &models.AssertionError{
			Expected: "order identifier and number",
			Actual:   fmt.Sprintf("id=%q number=%q", resp.OrderID, resp.OrderNumber),
			Detail:   "order creation response incomplete",
		}
	}
	if err := c.Set("order id", resp.OrderID); err != nil {
		return err
	}
	if err := c.Set("order number", resp.OrderNumber); err != nil {
		return err
	}
	return c.Set("order response", resp)
}

func (s suite) orderSurvivesNotificationOutage() scenario.Scenario {
	outage := intercept.SubstituteJSON(http.StatusInternalServerError,
		models.NotifyResponse{Sent: false, Error: "simulated outage"})
	return scenario.Scenario{
		Name:        "checkout/order-survives-notification-outage",
		Description: "An order is still created and confirmed when notification forwarding fails with HTTP 500.",
		Steps: steps(
			[]scenario.Step{
				scenario.Arm(s.notify(outage)),
				scenario.Arm(s.createOrder(intercept.PassThrough{})),
			},
			s.openCatalog(),
			[]scenario.Step{requireAvailable(1)},
			addAvailable(0, 1),
			s.checkout(),
			[]scenario.Step{
				scenario.AwaitExchange(CreateOrderRule, "order call"),
				scenario.VerifyExchange("order created", "order call", captureOrder),
				scenario.AwaitExchange(NotifyRule, "notify call"),
				scenario.VerifyExchange("notification answered by outage", "notify call",
					func(ex intercept.Exchange, _ *scenario.Captures) error {
						if !ex.Substituted || ex.Status != http.StatusInternalServerError {
							return &models.AssertionError{
								Expected: "substituted HTTP 500",
								Actual:   fmt.Sprintf("HTTP %d substituted=%t", ex.Status, ex.Substituted),
								Detail:   "notification outage not simulated",
							}
						}
						return nil
					}),
				scenario.AssertCapturedText(OrderNumber, "order number"),
				scenario.AssertHidden(OrderError).AsSoft(),
			},
		),
	}
}

func (s suite) totalsConsistentAcrossPages() scenario.Scenario {
	return scenario.Scenario{
		Name:        "checkout/totals-consistent-across-pages",
		Description: "Cart subtotal, checkout total, order response and confirmation agree within epsilon.",
		Steps: steps(
			[]scenario.Step{scenario.Arm(s.createOrder(intercept.PassThrough{}))},
			s.openCatalog(),
			[]scenario.Step{requireAvailable(2)},
			addAvailable(0, 1),
			addAvailable(1, 2),
			[]scenario.Step{
				scenario.Navigate(s.routes.Cart()),
				scenario.CaptureMoney("cart subtotal", CartSubtotal),
				scenario.Navigate(s.routes.Checkout()),
				scenario.CaptureMoney("checkout total", CheckoutTotal),
				scenario.CompareMoney("cart subtotal", "checkout total"),
				scenario.Fill(CustomerName, TestCustomerName),
				scenario.Fill(CustomerPhone, TestCustomerPhone),
				scenario.Click(PlaceOrder),
				scenario.AwaitExchange(CreateOrderRule, "order call"),
				scenario.VerifyExchange("order created", "order call", captureOrder),
				scenario.VerifyExchange("capture reported total", "order call",
					func(_ intercept.Exchange, c *scenario.Captures) error {
						resp, err := scenario.Lookup[models.CreateOrderResponse](c, "order response")
						if err != nil {
							return err
						}
						total, err := money.Parse(resp.Total)
						if err != nil {
							return fmt.Errorf("order response total: %w", err)
						}
						return c.Set("reported total", total)
					}),
				scenario.CompareMoney("checkout total", "reported total"),
				scenario.CaptureMoney("order total", OrderTotal),
				scenario.CompareMoney("checkout total", "order total"),
			},
		),
	}
}

func (s suite) notificationForwarded() scenario.Scenario {
	storeID := s.cfg.StoreID
	return scenario.Scenario{
		Name:        "checkout/notification-forwarded",
		Description: "The notification call carries the created order, tenant and customer; the contact link renders only when returned.",
		Steps: steps(
			[]scenario.Step{
				scenario.Arm(s.createOrder(intercept.PassThrough{})),
				scenario.Arm(s.notify(intercept.PassThrough{})),
			},
			s.openCatalog(),
			[]scenario.Step{requireAvailable(1)},
			addAvailable(0, 1),
			s.checkout(),
			[]scenario.Step{
				scenario.AwaitExchange(CreateOrderRule, "order call"),
				scenario.VerifyExchange("order created", "order call", captureOrder),
				scenario.AwaitExchange(NotifyRule, "notify call"),
				scenario.VerifyExchange("notification carries the order", "notify call",
					func(ex intercept.Exchange, c *scenario.Captures) error {
						return checkNotification(ex, c, storeID)
					}),
				scenario.AssertCapturedText(OrderNumber, "order number"),
				scenario.Branch(
					scenario.Check("contact link returned", func(_ context.Context, r *scenario.Run) (bool, error) {
						resp, err := scenario.Lookup[models.CreateOrderResponse](r.Captures, "order response")
						if err != nil {
							return false, err
						}
						return resp.ContactLink != "", nil
					}),
					[]scenario.Step{scenario.AssertVisible(ContactLink)},
					[]scenario.Step{scenario.AssertHidden(ContactLink)},
				),
			},
		),
	}
}

func checkNotification(ex intercept.Exchange, c *scenario.Captures, storeID string) error {
	orderID, err := scenario.Lookup[string](c, "order id")
	if err != nil {
		return err
	}
	var req models.NotifyRequest
	if err := ex.DecodeRequest(&req); err != nil {
		return err
	}

	var errs []error
	mismatch := func(field, want, got string) {
		errs = append(errs, &models.AssertionError{Expected: want, Actual: got, Detail: "notification " + field})
	}
	if req.OrderID != orderID {
		mismatch("order id", orderID, req.OrderID)
	}
	if req.TenantID != storeID {
		mismatch("tenant id", storeID, req.TenantID)
	}
	if req.CustomerName != TestCustomerName {
		mismatch("customer name", TestCustomerName, req.CustomerName)
	}
	if len(req.Items) == 0 {
		mismatch("items", "at least one line", "none")
	}

	if ex.Err != "" {
		errs = append(errs, fmt.Errorf("notification call did not complete: %s", ex.Err))
	} else if ex.Status != http.StatusOK {
		mismatch("status", "HTTP 200", fmt.Sprintf("HTTP %d", ex.Status))
	} else {
		var resp models.NotifyResponse
		if err := ex.DecodeResponse(&resp); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s suite) ageGateDismissal() scenario.Scenario {
	return scenario.Scenario{
		Name:        "home/age-gate-dismissal",
		Description: "Confirming the age gate hides it for the rest of the session.",
		Steps: []scenario.Step{
			scenario.Navigate(s.routes.Home()),
			scenario.Branch(scenario.Present("age gate shown", AgeGate.Modal), []scenario.Step{
				scenario.Click(AgeGate.Dismiss),
				scenario.AssertHidden(AgeGate.Modal),
				scenario.Reload(),
				scenario.AssertHidden(AgeGate.Modal),
				scenario.Navigate(s.routes.Catalog()),
				scenario.AssertHidden(AgeGate.Modal),
			}, nil),
		},
	}
}

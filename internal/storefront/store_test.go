package storefront_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/adyen/storefront-e2e/internal/browser"
	"github.com/adyen/storefront-e2e/internal/browser/browsertest"
	"github.com/adyen/storefront-e2e/internal/models"
	"github.com/adyen/storefront-e2e/internal/storefront"
)

const (
	baseURL   = "http://store.test"
	storeID   = "demo"
	createURL = baseURL + "/functions/v1/create-order"
	notifyURL = baseURL + "/functions/v1/notify-order"
)

type product struct {
	id    string
	name  string
	cents int64
	stock int
}

func defaultCatalog() []product {
	return []product{
		{id: "citrus-soda", name: "Citrus Soda", cents: 1250, stock: 10},
		{id: "mint-gum", name: "Mint Gum", cents: 725, stock: 4},
		{id: "vintage-cola", name: "Vintage Cola", cents: 990, stock: 0},
	}
}

// fakeStore renders the storefront's pages into a fake browser page and
// answers its backend calls. One store backs one session.
type fakeStore struct {
	page *browsertest.Page

	mu            sync.Mutex
	products      []product
	cart          map[string]int
	cartOrder     []string
	gateConfirmed bool
	orders        map[string]models.CreateOrderResponse
	seq           int

	// contactLink is returned by order creation when set
	contactLink string
	// doubleCountFirst makes the cart subtotal count the first line twice
	doubleCountFirst bool

	nameInput  *browsertest.Element
	phoneInput *browsertest.Element
}

func newFakeStore(products []product) *fakeStore {
	s := &fakeStore{
		page:     browsertest.NewPage(),
		products: products,
		cart:     make(map[string]int),
		orders:   make(map[string]models.CreateOrderResponse),
	}
	s.page.Backend = s.serve
	s.page.OnGoto = s.render
	return s
}

func (s *fakeStore) product(id string) (product, bool) {
	for _, p := range s.products {
		if p.id == id {
			return p, true
		}
	}
	return product{}, false
}

func (s *fakeStore) count() int {
	n := 0
	for _, q := range s.cart {
		n += q
	}
	return n
}

func (s *fakeStore) render(rawURL string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	path := strings.TrimPrefix(u.Path, "/store/"+storeID)

	s.mu.Lock()
	defer s.mu.Unlock()

	page := s.page
	page.Reset()
	page.Set(storefront.CartCount, &browsertest.Element{Visible: true, Text: fmt.Sprint(s.count())})
	page.Set(storefront.AgeGate.Modal, &browsertest.Element{Visible: !s.gateConfirmed, Text: "Are you 18 or older?"})
	page.Set(storefront.AgeGate.Dismiss, &browsertest.Element{
		Visible: !s.gateConfirmed,
		Enabled: true,
		OnClick: func(bool) { s.confirmAge() },
	})

	switch {
	case path == "/catalog":
		var available, soldOut []product
		for _, p := range s.products {
			if p.stock > 0 {
				available = append(available, p)
			} else {
				soldOut = append(soldOut, p)
			}
		}
		s.renderCards(storefront.AvailableCards, available)
		s.renderCards(storefront.SoldOutCards, soldOut)

	case strings.HasPrefix(path, "/product/"):
		p, ok := s.product(strings.TrimPrefix(path, "/product/"))
		if !ok {
			return
		}
		label := "Add to cart"
		if p.stock == 0 {
			label = "Sold out"
			page.Set(storefront.SoldOutBadge, &browsertest.Element{Visible: true, Text: "Sold out"})
		}
		page.Set(storefront.AddToCart, &browsertest.Element{
			Visible: true,
			Enabled: p.stock > 0,
			Text:    label,
			OnClick: s.addToCart(p),
		})

	case path == "/cart":
		var lines []*browsertest.Element
		total := s.cartTotal()
		for _, id := range s.cartOrder {
			lines = append(lines, &browsertest.Element{Visible: true, Text: id})
		}
		if s.doubleCountFirst && len(s.cartOrder) > 0 {
			first, _ := s.product(s.cartOrder[0])
			total += first.cents
		}
		page.Set(storefront.CartLine, lines...)
		page.Set(storefront.CartSubtotal, &browsertest.Element{Visible: true, Text: models.FormatCents(total)})

	case path == "/checkout":
		s.nameInput = &browsertest.Element{Visible: true, Enabled: true}
		s.phoneInput = &browsertest.Element{Visible: true, Enabled: true}
		page.Set(storefront.CheckoutTotal, &browsertest.Element{Visible: true, Text: models.FormatCents(s.cartTotal())})
		page.Set(storefront.CustomerName, s.nameInput)
		page.Set(storefront.CustomerPhone, s.phoneInput)
		page.Set(storefront.PlaceOrder, &browsertest.Element{
			Visible: true,
			Enabled: true,
			OnClick: func(bool) { s.placeOrder() },
		})

	case strings.HasPrefix(path, "/order/"):
		order, ok := s.orders[strings.TrimPrefix(path, "/order/")]
		if !ok {
			return
		}
		page.Set(storefront.OrderNumber, &browsertest.Element{Visible: true, Text: order.OrderNumber})
		page.Set(storefront.OrderTotal, &browsertest.Element{Visible: true, Text: order.Total})
		if order.ContactLink != "" {
			page.Set(storefront.ContactLink, &browsertest.Element{
				Visible: true,
				Attrs:   map[string]string{"href": order.ContactLink},
			})
		}
	}
}

// renderCards sets cards and their children; callers hold s.mu
func (s *fakeStore) renderCards(sel browser.Selector, products []product) {
	cards := make([]*browsertest.Element, len(products))
	for i, p := range products {
		cards[i] = &browsertest.Element{Visible: true, Text: p.name}
		card := sel.Nth(i)
		s.page.Set(storefront.In(card, storefront.TestIDProductName), &browsertest.Element{Visible: true, Text: p.name})
		s.page.Set(storefront.In(card, storefront.TestIDProductPrice), &browsertest.Element{Visible: true, Text: models.FormatCents(p.cents)})
		s.page.Set(storefront.In(card, storefront.TestIDProductLink), &browsertest.Element{
			Visible: true,
			Attrs:   map[string]string{"href": "/store/" + storeID + "/product/" + p.id},
		})
		s.page.Set(storefront.In(card, storefront.TestIDAddToCart), &browsertest.Element{
			Visible: true,
			Enabled: p.stock > 0,
			OnClick: s.addToCart(p),
		})
		if p.stock == 0 {
			s.page.Set(storefront.In(card, storefront.TestIDSoldOutBadge), &browsertest.Element{Visible: true, Text: "Sold out"})
		}
	}
	s.page.Set(sel, cards...)
}

func (s *fakeStore) cartTotal() int64 {
	var total int64
	for id, q := range s.cart {
		p, _ := s.product(id)
		total += p.cents * int64(q)
	}
	return total
}

// addToCart behaves like a real button: a disabled one ignores even forced clicks
func (s *fakeStore) addToCart(p product) func(bool) {
	enabled := p.stock > 0
	return func(bool) {
		if !enabled {
			return
		}
		s.mu.Lock()
		if s.cart[p.id] == 0 {
			s.cartOrder = append(s.cartOrder, p.id)
		}
		s.cart[p.id]++
		count := s.count()
		s.mu.Unlock()
		s.page.Update(storefront.CartCount, 0, func(e *browsertest.Element) {
			e.Text = fmt.Sprint(count)
		})
	}
}

func (s *fakeStore) confirmAge() {
	s.mu.Lock()
	s.gateConfirmed = true
	s.mu.Unlock()
	s.page.Update(storefront.AgeGate.Modal, 0, func(e *browsertest.Element) { e.Visible = false })
}

// placeOrder mirrors the checkout script: create the order, forward the
// notification ignoring its outcome, then open the confirmation page.
func (s *fakeStore) placeOrder() {
	s.mu.Lock()
	req := models.CreateOrderRequest{
		StoreID:  storeID,
		Customer: models.Customer{Name: s.nameInput.Value, Phone: s.phoneInput.Value},
	}
	var items []models.NotifyItem
	for _, id := range s.cartOrder {
		p, _ := s.product(id)
		req.Items = append(req.Items, models.OrderItemRequest{ProductID: id, Quantity: s.cart[id]})
		items = append(items, models.NotifyItem{Name: p.name, Quantity: s.cart[id], Price: models.FormatCents(p.cents)})
	}
	s.mu.Unlock()

	body, _ := json.Marshal(req)
	resp, err := s.page.Request(http.MethodPost, createURL, body)
	if err != nil || resp.Status != http.StatusOK {
		return
	}
	var created models.CreateOrderResponse
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return
	}

	notify, _ := json.Marshal(models.NotifyRequest{
		OrderID:      created.OrderID,
		TenantID:     storeID,
		CustomerName: req.Customer.Name,
		Items:        items,
	})
	_, _ = s.page.Request(http.MethodPost, notifyURL, notify)

	_, _ = s.page.Goto(baseURL+"/store/"+storeID+"/order/"+created.OrderID, time.Second)
}

func (s *fakeStore) serve(method, rawURL string, body []byte) *browser.Response {
	switch rawURL {
	case createURL:
		var req models.CreateOrderRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return jsonResponse(http.StatusBadRequest, models.CreateOrderResponse{Error: err.Error()})
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		var total int64
		for _, item := range req.Items {
			p, _ := s.product(item.ProductID)
			total += p.cents * int64(item.Quantity)
		}
		s.seq++
		created := models.CreateOrderResponse{
			OrderID:     fmt.Sprintf("order-%d", s.seq),
			OrderNumber: fmt.Sprintf("ORD-%04d", s.seq),
			ContactLink: s.contactLink,
			Total:       models.FormatCents(total),
		}
		s.orders[created.OrderID] = created
		s.cart = make(map[string]int)
		s.cartOrder = nil
		return jsonResponse(http.StatusOK, created)

	case notifyURL:
		return jsonResponse(http.StatusOK, models.NotifyResponse{Sent: true})
	}
	return &browser.Response{Status: http.StatusNotFound}
}

func jsonResponse(status int, v any) *browser.Response {
	body, _ := json.Marshal(v)
	return &browser.Response{
		Status:  status,
		Headers: map[string]string{"content-type": "application/json"},
		Body:    body,
	}
}

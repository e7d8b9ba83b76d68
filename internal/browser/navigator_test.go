package browser_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adyen/storefront-e2e/internal/browser"
	"github.com/adyen/storefront-e2e/internal/browser/browsertest"
	"github.com/adyen/storefront-e2e/internal/models"
)

func TestNavigator_URL(t *testing.T) {
	nav := browser.NewNavigator(browsertest.NewPage(), "http://localhost:8080/", time.Second)

	assert.Equal(t, "http://localhost:8080/store/demo", nav.URL("/store/demo"))
	assert.Equal(t, "http://localhost:8080/store/demo", nav.URL("store/demo"))
	assert.Equal(t, "https://elsewhere.test/x", nav.URL("https://elsewhere.test/x"))
}

func TestNavigator_Goto(t *testing.T) {
	page := browsertest.NewPage()
	page.Statuses["http://shop.test/store/missing"] = 404
	nav := browser.NewNavigator(page, "http://shop.test", time.Second)
	ctx := context.Background()

	require.NoError(t, nav.Goto(ctx, "/store/demo"))
	assert.Equal(t, []string{"http://shop.test/store/demo"}, page.Visits())

	err := nav.Goto(ctx, "/store/missing")
	var navErr *models.NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, 404, navErr.Status)
	assert.Equal(t, "/store/missing", navErr.Route)

	page.GotoErr = errors.New("net::ERR_CONNECTION_REFUSED")
	err = nav.Goto(ctx, "/store/demo")
	require.ErrorAs(t, err, &navErr)
	assert.ErrorIs(t, err, page.GotoErr)
}

func TestNavigator_GotoCancelled(t *testing.T) {
	page := browsertest.NewPage()
	nav := browser.NewNavigator(page, "http://shop.test", time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := nav.Goto(ctx, "/store/demo")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, page.Visits())
}

func TestNavigator_ReloadAndBack(t *testing.T) {
	page := browsertest.NewPage()
	loads := 0
	page.OnGoto = func(string) { loads++ }
	nav := browser.NewNavigator(page, "http://shop.test", time.Second)
	ctx := context.Background()

	require.NoError(t, nav.Goto(ctx, "/store/demo"))
	require.NoError(t, nav.Goto(ctx, "/store/demo/cart"))
	require.NoError(t, nav.Reload(ctx))
	assert.Equal(t, 3, loads)

	require.NoError(t, nav.Back(ctx))
	assert.Equal(t, "http://shop.test/store/demo", page.URL())
}

func TestNavigator_DismissInterstitial(t *testing.T) {
	gate := browser.Interstitial{
		Name:    "age gate",
		Modal:   browser.ByTestID("age-gate"),
		Dismiss: browser.ByTestID("age-gate-confirm"),
	}
	ctx := context.Background()

	t.Run("absent", func(t *testing.T) {
		nav := browser.NewNavigator(browsertest.NewPage(), "http://shop.test", time.Second)
		assert.False(t, nav.DismissInterstitial(ctx, gate, 50*time.Millisecond))
	})

	t.Run("present", func(t *testing.T) {
		page := browsertest.NewPage()
		modal := &browsertest.Element{Visible: true, Enabled: true}
		page.Set(gate.Modal, modal)
		page.Set(gate.Dismiss, &browsertest.Element{Visible: true, Enabled: true, OnClick: func(bool) {
			page.Update(gate.Modal, 0, func(e *browsertest.Element) { e.Visible = false })
		}})

		nav := browser.NewNavigator(page, "http://shop.test", time.Second)
		assert.True(t, nav.DismissInterstitial(ctx, gate, 50*time.Millisecond))
	})

	t.Run("dismiss does not close it", func(t *testing.T) {
		page := browsertest.NewPage()
		page.Set(gate.Modal, &browsertest.Element{Visible: true})
		page.Set(gate.Dismiss, &browsertest.Element{Visible: true, Enabled: true})

		nav := browser.NewNavigator(page, "http://shop.test", time.Second)
		assert.False(t, nav.DismissInterstitial(ctx, gate, 50*time.Millisecond))
	})
}

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoestore-backend/internal/config"
)

type fakeShiprocketAPI struct {
	loginCount   atomic.Int64
	loginDelay   time.Duration
	failLogin    bool
	lastAuth     atomic.Value // string
	lastCancel   atomic.Value // []int64
	lastRawQuery atomic.Value // string
}

func (f *fakeShiprocketAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.loginCount.Add(1)
		if f.loginDelay > 0 {
			time.Sleep(f.loginDelay)
		}
		if f.failLogin {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	})

	mux.HandleFunc("/orders/create/adhoc", func(w http.ResponseWriter, r *http.Request) {
		f.lastAuth.Store(r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"order_id":     5001,
			"shipment_id":  9001,
			"status":       "NEW",
			"awb_code":     "AWB1",
			"courier_name": "Delhivery",
		})
	})

	mux.HandleFunc("/orders/cancel", func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			IDs []int64 `json:"ids"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		f.lastCancel.Store(payload.IDs)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/courier/serviceability/", func(w http.ResponseWriter, r *http.Request) {
		f.lastRawQuery.Store(r.URL.RawQuery)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": 200,
			"data": map[string]interface{}{
				"available_courier_companies": []map[string]interface{}{
					{"courier_name": "Delhivery", "rate": 92.5, "etd": "Sep 04, 2026"},
					{"courier_name": "BlueDart", "rate": 140.0, "etd": "Sep 03, 2026"},
				},
			},
		})
	})

	return mux
}

func newTestClient(t *testing.T, f *fakeShiprocketAPI) *shiprocketClientImpl {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	c := NewShiprocketClient(&config.Shiprocket{
		BaseApiURL: srv.URL,
		Email:      "ops@example.com",
		Password:   "secret",
	})
	return c.(*shiprocketClientImpl)
}

func TestConfigured(t *testing.T) {
	c := NewShiprocketClient(&config.Shiprocket{})
	assert.False(t, c.Configured())

	c = NewShiprocketClient(&config.Shiprocket{Email: "a@b.c", Password: "p"})
	assert.True(t, c.Configured())
}

func TestTokenReusedAcrossCalls(t *testing.T) {
	ctx := context.Background()
	api := &fakeShiprocketAPI{}
	c := newTestClient(t, api)

	for i := 0; i < 3; i++ {
		_, err := c.CreateOrder(ctx, &ShipmentOrderRequest{OrderID: "ord-1"})
		require.NoError(t, err)
	}

	assert.Equal(t, int64(1), api.loginCount.Load())
	assert.Equal(t, "Bearer tok-1", api.lastAuth.Load())
}

func TestConcurrentTokenRefreshSingleflight(t *testing.T) {
	ctx := context.Background()
	api := &fakeShiprocketAPI{loginDelay: 50 * time.Millisecond}
	c := newTestClient(t, api)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token, err := c.getToken(ctx)
			assert.NoError(t, err)
			assert.Equal(t, "tok-1", token)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), api.loginCount.Load())
}

func TestExpiredTokenRefreshed(t *testing.T) {
	ctx := context.Background()
	api := &fakeShiprocketAPI{}
	c := newTestClient(t, api)

	_, err := c.getToken(ctx)
	require.NoError(t, err)

	// Inside the refresh margin the cached token no longer counts.
	c.mu.Lock()
	c.tokenExpiry = time.Now().Add(30 * time.Minute)
	c.mu.Unlock()

	_, err = c.getToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), api.loginCount.Load())
}

func TestLoginFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	api := &fakeShiprocketAPI{failLogin: true}
	c := newTestClient(t, api)

	_, err := c.CreateOrder(ctx, &ShipmentOrderRequest{OrderID: "ord-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shiprocket auth failed")
}

func TestCreateOrderResponse(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, &fakeShiprocketAPI{})

	res, err := c.CreateOrder(ctx, &ShipmentOrderRequest{OrderID: "ord-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(5001), res.OrderID)
	assert.Equal(t, int64(9001), res.ShipmentID)
	assert.Equal(t, "AWB1", res.AWBCode)
	assert.Equal(t, "Delhivery", res.CourierName)
}

func TestCancelOrdersPayload(t *testing.T) {
	ctx := context.Background()
	api := &fakeShiprocketAPI{}
	c := newTestClient(t, api)

	require.NoError(t, c.CancelOrders(ctx, []int64{5001, 5002}))
	assert.Equal(t, []int64{5001, 5002}, api.lastCancel.Load())
}

func TestCheckServiceabilityQuery(t *testing.T) {
	ctx := context.Background()
	api := &fakeShiprocketAPI{}
	c := newTestClient(t, api)

	quotes, err := c.CheckServiceability(ctx, "110001", "560001", 0.5, 0)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "Delhivery", quotes[0].CourierName)
	assert.Equal(t, 92.5, quotes[0].Rate)

	query := api.lastRawQuery.Load().(string)
	assert.Contains(t, query, "pickup_postcode=110001")
	assert.Contains(t, query, "delivery_postcode=560001")
	assert.Contains(t, query, "weight=0.5")
	assert.Contains(t, query, "cod=0")
}

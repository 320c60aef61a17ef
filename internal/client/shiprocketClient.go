package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"shoestore-backend/internal/config"
)

// Shiprocket tokens are valid for 10 days. We refresh an hour before expiry
// so a token never dies mid-request.
const (
	shiprocketTokenLifetime = 10 * 24 * time.Hour
	tokenRefreshMargin      = time.Hour
)

type ShiprocketClient interface {
	Configured() bool
	CreateOrder(ctx context.Context, req *ShipmentOrderRequest) (*ShipmentOrderResponse, error)
	CreateReturn(ctx context.Context, req *ReturnShipmentRequest) (*ReturnShipmentResponse, error)
	TrackByAWB(ctx context.Context, awbCode string) (*TrackingResponse, error)
	TrackByShipment(ctx context.Context, shipmentID int64) (*TrackingResponse, error)
	CancelOrders(ctx context.Context, shiprocketOrderIDs []int64) error
	CheckServiceability(ctx context.Context, pickupPincode, deliveryPincode string, weightKg float64, cod int) ([]CourierQuote, error)
}

type ShipmentItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int32   `json:"units"`
	SellingPrice float64 `json:"selling_price"` // rupees
}

type ShipmentOrderRequest struct {
	OrderID             string         `json:"order_id"`
	OrderDate           string         `json:"order_date"` // YYYY-MM-DD HH:mm
	PickupLocation      string         `json:"pickup_location"`
	BillingCustomerName string         `json:"billing_customer_name"`
	BillingLastName     string         `json:"billing_last_name"`
	BillingAddress      string         `json:"billing_address"`
	BillingCity         string         `json:"billing_city"`
	BillingPincode      string         `json:"billing_pincode"`
	BillingState        string         `json:"billing_state"`
	BillingCountry      string         `json:"billing_country"`
	BillingEmail        string         `json:"billing_email"`
	BillingPhone        string         `json:"billing_phone"`
	ShippingIsBilling   bool           `json:"shipping_is_billing"`
	OrderItems          []ShipmentItem `json:"order_items"`
	PaymentMethod       string         `json:"payment_method"` // Prepaid | COD
	SubTotal            float64        `json:"sub_total"`      // rupees
	Length              float64        `json:"length"`         // cm
	Breadth             float64        `json:"breadth"`
	Height              float64        `json:"height"`
	Weight              float64        `json:"weight"` // kg
}

type ShipmentOrderResponse struct {
	OrderID     int64  `json:"order_id"`
	ShipmentID  int64  `json:"shipment_id"`
	Status      string `json:"status"`
	StatusCode  int    `json:"status_code"`
	AWBCode     string `json:"awb_code"`
	CourierName string `json:"courier_name"`
}

type ReturnShipmentRequest struct {
	OrderID            string         `json:"order_id"`
	OrderDate          string         `json:"order_date"`
	PickupCustomerName string         `json:"pickup_customer_name"`
	PickupAddress      string         `json:"pickup_address"`
	PickupCity         string         `json:"pickup_city"`
	PickupPincode      string         `json:"pickup_pincode"`
	PickupState        string         `json:"pickup_state"`
	PickupPhone        string         `json:"pickup_phone"`
	PickupEmail        string         `json:"pickup_email"`
	OrderItems         []ShipmentItem `json:"order_items"`
	PaymentMethod      string         `json:"payment_method"`
	SubTotal           float64        `json:"sub_total"`
	Length             float64        `json:"length"`
	Breadth            float64        `json:"breadth"`
	Height             float64        `json:"height"`
	Weight             float64        `json:"weight"`
}

type ReturnShipmentResponse struct {
	OrderID    int64  `json:"order_id"`
	ShipmentID int64  `json:"shipment_id"`
	Status     string `json:"status"`
}

type TrackingActivity struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Activity string `json:"activity"`
	Location string `json:"location"`
}

type ShipmentTrack struct {
	ID            int64  `json:"id"`
	AWBCode       string `json:"awb_code"`
	ShipmentID    int64  `json:"shipment_id"`
	OrderID       int64  `json:"order_id"`
	CurrentStatus string `json:"current_status"`
	DeliveredDate string `json:"delivered_date"`
	EDD           string `json:"edd"`
}

type TrackingResponse struct {
	TrackingData struct {
		TrackStatus             int                `json:"track_status"`
		ShipmentStatus          int                `json:"shipment_status"`
		ShipmentTrack           []ShipmentTrack    `json:"shipment_track"`
		ShipmentTrackActivities []TrackingActivity `json:"shipment_track_activities"`
	} `json:"tracking_data"`
}

type CourierQuote struct {
	CourierName string  `json:"courier_name"`
	Rate        float64 `json:"rate"`
	ETD         string  `json:"etd"`
}

type shiprocketClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	email      string
	password   string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	login       singleflight.Group
}

func NewShiprocketClient(cfg *config.Shiprocket) ShiprocketClient {
	return &shiprocketClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: cfg.BaseApiURL,
		email:      cfg.Email,
		password:   cfg.Password,
	}
}

func (c *shiprocketClientImpl) Configured() bool {
	return c.email != "" && c.password != ""
}

func (c *shiprocketClientImpl) cachedToken() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry.Add(-tokenRefreshMargin)) {
		return c.token, true
	}
	return "", false
}

// getToken returns the cached bearer token, logging in when missing or close
// to expiry. Concurrent refreshes collapse into a single login call.
func (c *shiprocketClientImpl) getToken(ctx context.Context) (string, error) {
	if token, ok := c.cachedToken(); ok {
		return token, nil
	}

	v, err, _ := c.login.Do("login", func() (interface{}, error) {
		// Another caller may have refreshed while we waited.
		if token, ok := c.cachedToken(); ok {
			return token, nil
		}

		body, err := json.Marshal(map[string]string{
			"email":    c.email,
			"password": c.password,
		})
		if err != nil {
			return nil, fmt.Errorf("marshal login payload: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseApiURL+"/auth/login", bytes.NewBuffer(body))
		if err != nil {
			return nil, fmt.Errorf("http new request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("http client do: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("shiprocket auth failed (%d): %s", resp.StatusCode, string(b))
		}

		var result struct {
			Token string `json:"token"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return nil, fmt.Errorf("decode login response: %w", err)
		}
		if result.Token == "" {
			return nil, fmt.Errorf("shiprocket auth returned empty token")
		}

		c.mu.Lock()
		c.token = result.Token
		c.tokenExpiry = time.Now().Add(shiprocketTokenLifetime)
		c.mu.Unlock()

		return result.Token, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

func (c *shiprocketClientImpl) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	token, err := c.getToken(ctx)
	if err != nil {
		return fmt.Errorf("get shiprocket token: %w", err)
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, body)
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("shiprocket api error (%d): %s", resp.StatusCode, string(b))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode shiprocket response: %w", err)
	}

	return nil
}

func (c *shiprocketClientImpl) CreateOrder(ctx context.Context, req *ShipmentOrderRequest) (*ShipmentOrderResponse, error) {
	var res ShipmentOrderResponse
	if err := c.doJSON(ctx, http.MethodPost, "/orders/create/adhoc", req, &res); err != nil {
		return nil, fmt.Errorf("create shiprocket order: %w", err)
	}
	return &res, nil
}

func (c *shiprocketClientImpl) CreateReturn(ctx context.Context, req *ReturnShipmentRequest) (*ReturnShipmentResponse, error) {
	var res ReturnShipmentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/orders/create/return", req, &res); err != nil {
		return nil, fmt.Errorf("create shiprocket return: %w", err)
	}
	return &res, nil
}

func (c *shiprocketClientImpl) TrackByAWB(ctx context.Context, awbCode string) (*TrackingResponse, error) {
	var res TrackingResponse
	if err := c.doJSON(ctx, http.MethodGet, "/courier/track/awb/"+url.PathEscape(awbCode), nil, &res); err != nil {
		return nil, fmt.Errorf("track by awb: %w", err)
	}
	return &res, nil
}

func (c *shiprocketClientImpl) TrackByShipment(ctx context.Context, shipmentID int64) (*TrackingResponse, error) {
	var res TrackingResponse
	path := "/courier/track/shipment/" + strconv.FormatInt(shipmentID, 10)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, fmt.Errorf("track by shipment: %w", err)
	}
	return &res, nil
}

func (c *shiprocketClientImpl) CancelOrders(ctx context.Context, shiprocketOrderIDs []int64) error {
	payload := map[string][]int64{"ids": shiprocketOrderIDs}
	if err := c.doJSON(ctx, http.MethodPost, "/orders/cancel", payload, nil); err != nil {
		return fmt.Errorf("cancel shiprocket orders: %w", err)
	}
	return nil
}

func (c *shiprocketClientImpl) CheckServiceability(ctx context.Context, pickupPincode, deliveryPincode string, weightKg float64, cod int) ([]CourierQuote, error) {
	params := url.Values{}
	params.Set("pickup_postcode", pickupPincode)
	params.Set("delivery_postcode", deliveryPincode)
	params.Set("weight", strconv.FormatFloat(weightKg, 'f', -1, 64))
	params.Set("cod", strconv.Itoa(cod))

	var res struct {
		Status int `json:"status"`
		Data   struct {
			AvailableCourierCompanies []CourierQuote `json:"available_courier_companies"`
		} `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/courier/serviceability/?"+params.Encode(), nil, &res); err != nil {
		return nil, fmt.Errorf("check serviceability: %w", err)
	}

	return res.Data.AvailableCourierCompanies, nil
}

package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL"`

	Auth       Auth       `envPrefix:"AUTH_"`
	Razorpay   Razorpay   `envPrefix:"RAZORPAY_"`
	Shiprocket Shiprocket `envPrefix:"SHIPROCKET_"`

	// ReturnWindowDays is how long after delivery a return may be requested.
	ReturnWindowDays int `env:"RETURN_WINDOW_DAYS" envDefault:"7"`

	// BookingRetryInterval drives the background sweep that picks up
	// shipment bookings the checkout path never got to attempt.
	BookingRetryInterval time.Duration `env:"BOOKING_RETRY_INTERVAL" envDefault:"5m"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Razorpay struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.razorpay.com"`
	KeyID      string `env:"KEY_ID"`
	KeySecret  string `env:"KEY_SECRET"`
}

type Shiprocket struct {
	BaseApiURL     string `env:"BASE_API_URL" envDefault:"https://apiv2.shiprocket.in/v1/external"`
	Email          string `env:"EMAIL"`
	Password       string `env:"PASSWORD"`
	PickupLocation string `env:"PICKUP_LOCATION" envDefault:"Primary"`
	PickupPincode  string `env:"PICKUP_PINCODE" envDefault:"110001"`
	WebhookSecret  string `env:"WEBHOOK_SECRET"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL"`

	Checkout Checkout `envPrefix:"CHECKOUT_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Payment  Payment  `envPrefix:"PAYMENT_"`
}

type Checkout struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey  string `env:"SECRET_KEY"`
	SuccessURL string `env:"SUCCESS_URL"`
	CancelURL  string `env:"CANCEL_URL"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Payment struct {
	// source currency units per one settlement currency unit
	ExchangeRate       int64  `env:"EXCHANGE_RATE" envDefault:"110"`
	SettlementCurrency string `env:"SETTLEMENT_CURRENCY" envDefault:"usd"`
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

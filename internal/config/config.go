package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET"`

	Asaas Asaas `envPrefix:"ASAAS_"`
}

type Asaas struct {
	// Sandbox by default; production sets ASAAS_API_URL explicitly.
	BaseApiURL string `env:"API_URL" envDefault:"https://sandbox.asaas.com/api/v3"`
	APIKey     string `env:"API_KEY"`
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
	Port string `env:"HTTP_PORT" envDefault:"3333"`
}

package config

type Config struct {
	BaseURL  string
	HttpPort int
	Db       struct {
		Dsn         string
		Automigrate bool
	}
	Jwt struct {
		SecretKey string
	}
	Notifications struct {
		Email string
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	Kafka struct {
		Servers           string
		VerifiedTopic     string
		RejectedTopic     string
		WorkerConcurrency int
	}
	Redis struct {
		Addr string
		Db   int
	}
	AuthService struct {
		BaseURL    string
		Username   string
		Password   string
		TotpSecret string
	}
}

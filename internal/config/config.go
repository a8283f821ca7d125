package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	RedisAddr       string
	PostgresDSN     string // empty: load the catalog from CatalogDir instead
	CatalogDir      string
	KafkaBrokers    []string // empty: order export disabled
	KafkaGroup      string
	ServiceName     string
	ProcessingDelay time.Duration // simulated payment latency
	SearchDebounce  time.Duration // search quiescence window
}

func Load() Config {
	return Config{
		HTTPAddr:        getenv("HTTP_ADDR", ":8080"),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		PostgresDSN:     getenv("POSTGRES_DSN", ""),
		CatalogDir:      getenv("CATALOG_DIR", "data"),
		KafkaBrokers:    splitCSV(getenv("KAFKA_BROKERS", "")),
		KafkaGroup:      getenv("KAFKA_GROUP", "storefront-fulfillment"),
		ServiceName:     getenv("SERVICE_NAME", "storefront-api"),
		ProcessingDelay: getduration("CHECKOUT_PROCESSING_DELAY", 2*time.Second),
		SearchDebounce:  getduration("SEARCH_DEBOUNCE", 300*time.Millisecond),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

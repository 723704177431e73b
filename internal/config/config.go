package config

import (
	"os"
	"strconv"
)

// PlanPrices holds the billing price identifiers for one paid plan.
type PlanPrices struct {
	Monthly string
	Yearly  string
}

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string

	// Subscription plan settings. Price IDs come from the billing provider;
	// an organization whose active subscription matches none of them is
	// treated as free.
	ProPrices      PlanPrices
	UltimatePrices PlanPrices
	FreeTaskLimit  int
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "orgflow"),
		DBPassword:    getEnv("DB_PASSWORD", "orgflow"),
		DBName:        getEnv("DB_NAME", "orgflow"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		ProPrices: PlanPrices{
			Monthly: getEnv("PLAN_PRO_PRICE_MONTHLY", "price_pro_monthly"),
			Yearly:  getEnv("PLAN_PRO_PRICE_YEARLY", "price_pro_yearly"),
		},
		UltimatePrices: PlanPrices{
			Monthly: getEnv("PLAN_ULTIMATE_PRICE_MONTHLY", "price_ultimate_monthly"),
			Yearly:  getEnv("PLAN_ULTIMATE_PRICE_YEARLY", "price_ultimate_yearly"),
		},
		FreeTaskLimit: getEnvInt("PLAN_FREE_TASK_LIMIT", 10),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

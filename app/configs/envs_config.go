package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost                 string
	DBUser                 string
	DBPassword             string
	DBName                 string
	DBPort                 string
	Port                   string
	APP_ENV                string
	APP_URL                string
	BOT_TOKEN              string
	ADMIN_API_TOKEN        string
	ADMIN_PASSWORD         string
	CATEGORY_SYNC_STRATEGY string
	SHOP_RETENTION_DAYS    int
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	retentionDays := 30
	if v := os.Getenv("SHOP_RETENTION_DAYS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			log.Printf("Warning: invalid SHOP_RETENTION_DAYS %q, using default 30", v)
		} else {
			retentionDays = parsed
		}
	}

	return ENV{
		DBHost:                 os.Getenv("DB_HOST"),
		DBUser:                 os.Getenv("DB_USER"),
		DBPassword:             os.Getenv("DB_PASSWORD"),
		DBName:                 os.Getenv("DB_NAME"),
		DBPort:                 os.Getenv("DB_PORT"),
		Port:                   os.Getenv("APP_PORT"),
		APP_ENV:                os.Getenv("APP_ENV"),
		APP_URL:                os.Getenv("APP_URL"),
		BOT_TOKEN:              os.Getenv("BOT_TOKEN"),
		ADMIN_API_TOKEN:        os.Getenv("ADMIN_API_TOKEN"),
		ADMIN_PASSWORD:         os.Getenv("ADMIN_PASSWORD"),
		CATEGORY_SYNC_STRATEGY: os.Getenv("CATEGORY_SYNC_STRATEGY"),
		SHOP_RETENTION_DAYS:    retentionDays,
	}

}

var LoadENV = LoadEnv()

// Package config loads process configuration from environment
// variables (populated from the .env file in main.go).
package config

import (
	"errors"
	"fmt"
	"os"
)

// Warehouse driver names accepted by WAREHOUSE_DRIVER.
const (
	DriverSQLServer = "sqlserver"
	DriverMongoDB   = "mongodb"
)

// Config holds all settings for one run. Read once at startup,
// immutable afterwards.
type Config struct {
	BaseURL  string
	APIToken string
	Source   string

	WarehouseDriver   string
	WarehouseConn     string
	WarehouseDatabase string
	WarehouseSchema   string
}

// LoadConfig reads settings from environment variables, applying the
// documented defaults and rejecting missing required values.
func LoadConfig() (*Config, error) {
	conn := os.Getenv("WAREHOUSE_CONN_STRING")
	if conn == "" {
		return nil, errors.New("WAREHOUSE_CONN_STRING environment variable not set")
	}

	driver := getenvDefault("WAREHOUSE_DRIVER", DriverSQLServer)
	if driver != DriverSQLServer && driver != DriverMongoDB {
		return nil, fmt.Errorf("unsupported WAREHOUSE_DRIVER %q (expected %s or %s)", driver, DriverSQLServer, DriverMongoDB)
	}

	return &Config{
		BaseURL:           getenvDefault("MYSHOP_BASE_URL", "https://myshop.com"),
		APIToken:          os.Getenv("MYSHOP_API_TOKEN"),
		Source:            getenvDefault("MYSHOP_SOURCE", "myshop_api"),
		WarehouseDriver:   driver,
		WarehouseConn:     conn,
		WarehouseDatabase: getenvDefault("WAREHOUSE_DATABASE", "RAW"),
		WarehouseSchema:   getenvDefault("WAREHOUSE_SCHEMA", "ECOMMERCE"),
	}, nil
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

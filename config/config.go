package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type OpenRouterConfig struct {
	APIURL  string
	APIKey  string
	ModelID string
}

// IsConfigured returns true if all required OpenRouter configuration is present
func (c OpenRouterConfig) IsConfigured() bool {
	return c.APIKey != "" && c.ModelID != ""
	// Note: APIURL is optional and defaults to the OpenRouter endpoint
}

type SlackConfig struct {
	SigningSecret string
	ClientID      string
	ClientSecret  string
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.SigningSecret != "" &&
		c.ClientID != "" &&
		c.ClientSecret != ""
}

type SupabaseConfig struct {
	JWTSecret string
}

// IsConfigured returns true if all required Supabase auth configuration is present
func (c SupabaseConfig) IsConfigured() bool {
	return c.JWTSecret != ""
}

type HubSpotConfig struct {
	AccessToken string
}

func (c HubSpotConfig) IsConfigured() bool {
	return c.AccessToken != ""
}

type SalesforceConfig struct {
	InstanceURL string
	AccessToken string
}

func (c SalesforceConfig) IsConfigured() bool {
	return c.InstanceURL != "" && c.AccessToken != ""
}

type NotionConfig struct {
	AccessToken  string
	ParentPageID string
}

func (c NotionConfig) IsConfigured() bool {
	return c.AccessToken != "" && c.ParentPageID != ""
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	DashboardBaseURL   string
	AlertWebhookURL    string
	UseStrictConfig    bool // If true, error when any integration is not fully configured

	// Integration configurations (grouped)
	OpenRouterConfig OpenRouterConfig
	SlackConfig      SlackConfig
	SupabaseConfig   SupabaseConfig
	HubSpotConfig    HubSpotConfig
	SalesforceConfig SalesforceConfig
	NotionConfig     NotionConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Core required configuration
	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		// Core configuration
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		DashboardBaseURL:   getEnvWithDefault("DASHBOARD_BASE_URL", "http://localhost:3000"),
		AlertWebhookURL:    getEnvWithDefault("SLACK_ALERT_WEBHOOK_URL", ""),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",

		// OpenRouter configuration
		OpenRouterConfig: OpenRouterConfig{
			APIURL:  getEnvWithDefault("OPENROUTER_API_URL", "https://openrouter.ai/api/v1"),
			APIKey:  getEnvFirst("OPENROUTER_API_KEY", "DEEPSEEK_API_KEY"),
			ModelID: getEnvWithDefault("OPENROUTER_MODEL_ID", "deepseek/deepseek-chat"),
		},

		// Slack configuration
		SlackConfig: SlackConfig{
			SigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
			ClientID:      os.Getenv("SLACK_CLIENT_ID"),
			ClientSecret:  os.Getenv("SLACK_CLIENT_SECRET"),
		},

		// Supabase auth configuration
		SupabaseConfig: SupabaseConfig{
			JWTSecret: os.Getenv("SUPABASE_JWT_SECRET"),
		},

		// CRM configurations (optional)
		HubSpotConfig: HubSpotConfig{
			AccessToken: os.Getenv("HUBSPOT_ACCESS_TOKEN"),
		},
		SalesforceConfig: SalesforceConfig{
			InstanceURL: os.Getenv("SALESFORCE_INSTANCE_URL"),
			AccessToken: os.Getenv("SALESFORCE_ACCESS_TOKEN"),
		},
		NotionConfig: NotionConfig{
			AccessToken:  os.Getenv("NOTION_ACCESS_TOKEN"),
			ParentPageID: os.Getenv("NOTION_PARENT_PAGE_ID"),
		},
	}

	// Log which integrations are configured
	if config.OpenRouterConfig.IsConfigured() {
		log.Printf("✅ OpenRouter summarization configured (model: %s)", config.OpenRouterConfig.ModelID)
	} else {
		log.Printf("⚠️ OpenRouter not configured - summarization will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("OpenRouter is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.SlackConfig.IsConfigured() {
		log.Printf("✅ Slack integration configured")
	} else {
		log.Printf("⚠️ Slack integration not configured - Slack features will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("slack integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.SupabaseConfig.IsConfigured() {
		log.Printf("✅ Supabase authentication configured")
	} else {
		log.Printf("⚠️ Supabase authentication not configured - Dashboard authentication will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("supabase authentication is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.HubSpotConfig.IsConfigured() {
		log.Printf("✅ HubSpot CRM configured")
	} else {
		log.Printf("⚠️ HubSpot CRM not configured - HubSpot pushes will fail")
	}

	if config.SalesforceConfig.IsConfigured() {
		log.Printf("✅ Salesforce CRM configured")
	} else {
		log.Printf("⚠️ Salesforce CRM not configured - Salesforce pushes will fail")
	}

	if config.NotionConfig.IsConfigured() {
		log.Printf("✅ Notion configured")
	} else {
		log.Printf("⚠️ Notion not configured - Notion pushes will fail")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFirst(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

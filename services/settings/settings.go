package settings

import (
	"context"
	"fmt"
	"log"

	"scribebackend/core"
	"scribebackend/db"
	"scribebackend/models"
)

type SettingsService struct {
	settingsRepo *db.PostgresSettingsRepository
}

func NewSettingsService(repo *db.PostgresSettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: repo}
}

func validateKey(key string, expected models.SettingType) error {
	def, ok := models.SupportedSettings[key]
	if !ok {
		return fmt.Errorf("unsupported setting key: %s", key)
	}
	if def.Type != expected {
		return fmt.Errorf("setting %s is of type %s, not %s", key, def.Type, expected)
	}
	return nil
}

func (s *SettingsService) GetBoolSetting(
	ctx context.Context,
	userID, key string,
	fallback bool,
) (bool, error) {
	log.Printf("📋 Starting to get boolean setting %s for user: %s", key, userID)

	if !core.IsValidID(userID) {
		return fallback, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if err := validateKey(key, models.SettingTypeBool); err != nil {
		return fallback, err
	}

	setting, err := s.settingsRepo.GetSetting(ctx, userID, key)
	if err != nil {
		return fallback, fmt.Errorf("failed to get setting: %w", err)
	}

	value := setting.BoolValue(fallback)
	log.Printf("📋 Completed successfully - setting %s resolves to %t", key, value)
	return value, nil
}

func (s *SettingsService) GetStringArrSetting(ctx context.Context, userID, key string) ([]string, error) {
	log.Printf("📋 Starting to get string array setting %s for user: %s", key, userID)

	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if err := validateKey(key, models.SettingTypeStringArr); err != nil {
		return nil, err
	}

	setting, err := s.settingsRepo.GetSetting(ctx, userID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}

	value := setting.StringArrValue()
	log.Printf("📋 Completed successfully - setting %s has %d values", key, len(value))
	return value, nil
}

func (s *SettingsService) UpsertBooleanSetting(
	ctx context.Context,
	userID, key string,
	value bool,
) (*models.Setting, error) {
	log.Printf("📋 Starting to upsert boolean setting %s for user: %s", key, userID)

	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if err := validateKey(key, models.SettingTypeBool); err != nil {
		return nil, err
	}

	setting, err := s.settingsRepo.UpsertBooleanSetting(ctx, userID, key, value)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert boolean setting: %w", err)
	}

	log.Printf("📋 Completed successfully - upserted setting %s to %t", key, value)
	return setting, nil
}

func (s *SettingsService) UpsertStringArrSetting(
	ctx context.Context,
	userID, key string,
	value []string,
) (*models.Setting, error) {
	log.Printf("📋 Starting to upsert string array setting %s for user: %s", key, userID)

	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}
	if err := validateKey(key, models.SettingTypeStringArr); err != nil {
		return nil, err
	}

	setting, err := s.settingsRepo.UpsertStringArrSetting(ctx, userID, key, value)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert string array setting: %w", err)
	}

	log.Printf("📋 Completed successfully - upserted setting %s with %d values", key, len(value))
	return setting, nil
}

func (s *SettingsService) ListSettings(ctx context.Context, userID string) ([]*models.Setting, error) {
	log.Printf("📋 Starting to list settings for user: %s", userID)

	if !core.IsValidID(userID) {
		return nil, fmt.Errorf("user ID must be a valid prefixed ULID")
	}

	settings, err := s.settingsRepo.ListSettingsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d settings for user: %s", len(settings), userID)
	return settings, nil
}

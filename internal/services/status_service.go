package services

import (
	"backend/internal/domain"
	"backend/internal/domain/models"
	"backend/internal/store"
)

// StatusService is the system-wide online/offline gate. The booking request
// path consults Get before the rule engine runs; admin management paths do
// not.
type StatusService struct {
	Store store.Store
}

func NewStatusService(st store.Store) *StatusService {
	return &StatusService{Store: st}
}

// Get returns "online" or "offline", defaulting to online when unset.
func (s *StatusService) Get() (string, error) {
	value, err := s.Store.GetSetting(models.SettingSystemStatus)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.StatusOnline, nil
		}
		return "", err
	}
	return value, nil
}

// Set overwrites the gate; only the two enum values are accepted.
func (s *StatusService) Set(value string) error {
	if value != models.StatusOnline && value != models.StatusOffline {
		return domain.ValidationError{Field: "status", Msg: `must be "online" or "offline"`}
	}
	return s.Store.SetSetting(models.SettingSystemStatus, value)
}

// EnsureDefault seeds the gate to online at startup without clobbering an
// admin-set value.
func (s *StatusService) EnsureDefault() error {
	_, err := s.Store.GetSetting(models.SettingSystemStatus)
	if err == nil {
		return nil
	}
	if !domain.IsNotFound(err) {
		return err
	}
	return s.Store.SetSetting(models.SettingSystemStatus, models.StatusOnline)
}

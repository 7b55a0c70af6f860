package database

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"teamserver/models"
)

// RegisterImplant stores a new implant row. The implant check-in path and
// tests are the callers.
func (s *Store) RegisterImplant(implant *models.Implant) error {
	if implant.LastSeen.IsZero() {
		implant.LastSeen = s.now()
	}
	return upstream(s.db.Create(implant).Error)
}

// ListImplants returns every registered implant.
func (s *Store) ListImplants() ([]models.Implant, error) {
	var implants []models.Implant
	result := s.db.Order("created_at").Find(&implants)
	if result.Error != nil {
		return nil, upstream(result.Error)
	}
	return implants, nil
}

// ImplantExists reports whether any implant id starts with the given prefix.
// Several implants may share a prefix; this only confirms existence, not
// identity.
func (s *Store) ImplantExists(idPrefix string) (bool, error) {
	if idPrefix == "" {
		return false, nil
	}
	var n int64
	err := s.db.Model(&models.Implant{}).Where("implant_id LIKE ?", idPrefix+"%").Count(&n).Error
	if err != nil {
		return false, upstream(err)
	}
	return n > 0, nil
}

// ImplantByID returns the implant with the given id, or nil if it does not
// exist.
func (s *Store) ImplantByID(implantID string) (*models.Implant, error) {
	var implant models.Implant
	result := s.db.Where("implant_id = ?", implantID).First(&implant)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, upstream(result.Error)
	}
	return &implant, nil
}

// MergeImplantProfile folds the given changes into the implant's stored
// profile. Unknown keys are stored as-is; the implant validates its own
// config when it next fetches it.
func (s *Store) MergeImplantProfile(implantID string, changes models.JSONMap) (*models.Implant, error) {
	implant, err := s.ImplantByID(implantID)
	if err != nil || implant == nil {
		return nil, err
	}
	if implant.Profile == nil {
		implant.Profile = models.JSONMap{}
	}
	for key, value := range changes {
		implant.Profile[key] = value
	}
	if err := s.db.Model(&models.Implant{}).Where("implant_id = ?", implantID).
		Update("profile", implant.Profile).Error; err != nil {
		return nil, upstream(err)
	}
	return implant, nil
}

// MarkImplantKilled records that a kill was requested for the implant. The
// actual termination is up to the implant; this only flags the row.
func (s *Store) MarkImplantKilled(implantID string) error {
	return upstream(s.db.Model(&models.Implant{}).Where("implant_id = ?", implantID).
		Update("killed", true).Error)
}

// TouchImplant updates the implant's liveness timestamp.
func (s *Store) TouchImplant(implantID string, seen time.Time) error {
	return upstream(s.db.Model(&models.Implant{}).Where("implant_id = ?", implantID).
		Update("last_seen", seen).Error)
}

// CountImplants returns the number of registered implants.
func (s *Store) CountImplants() (int64, error) {
	var n int64
	err := s.db.Model(&models.Implant{}).Count(&n).Error
	return n, upstream(err)
}

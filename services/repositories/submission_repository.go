package repositories

import (
	"time"

	"github.com/google/uuid"
	"github.com/vantech-digital/corsite_api/model"
	"gorm.io/gorm"
)

type SubmissionRepository struct {
	BaseRepository
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *SubmissionRepository) CreateContactSubmission(sub *model.ContactSubmission) error {
	if sub.ID == "" {
		id, _ := uuid.NewV7()
		sub.ID = id.String()
	}
	sub.CreatedAt = time.Now()

	if err := ds.db.Create(sub).Error; err != nil {
		return err
	}
	return nil
}

func (ds *SubmissionRepository) ListContactSubmissions() ([]model.ContactSubmission, error) {
	var subs []model.ContactSubmission
	if err := ds.db.Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (ds *SubmissionRepository) CreateCVSubmission(sub *model.CVSubmission) error {
	if sub.ID == "" {
		id, _ := uuid.NewV7()
		sub.ID = id.String()
	}
	sub.CreatedAt = time.Now()
	sub.UpdatedAt = time.Now()

	if err := ds.db.Create(sub).Error; err != nil {
		return err
	}
	return nil
}

func (ds *SubmissionRepository) GetCVSubmission(id string) (*model.CVSubmission, error) {
	var sub model.CVSubmission
	if err := ds.db.Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (ds *SubmissionRepository) ListCVSubmissions(status string) ([]model.CVSubmission, error) {
	var subs []model.CVSubmission
	query := ds.db.Model(&model.CVSubmission{})

	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (ds *SubmissionRepository) UpdateCVSubmission(sub *model.CVSubmission) error {
	sub.UpdatedAt = time.Now()
	if err := ds.db.Save(sub).Error; err != nil {
		return err
	}
	return nil
}

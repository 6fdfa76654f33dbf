package repository

import (
	"errors"
	"strings"

	"leap_assessment_backend/internal/model"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) Create(resp *model.AssessmentResponse) error {
	return r.DB.Create(resp).Error
}

func (r *ResponseRepository) FindByID(id string) (*model.AssessmentResponse, error) {
	var resp model.AssessmentResponse
	err := r.DB.Preload("User").Where("id = ?", id).First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ResponseRepository) FindByIdempotencyKey(key string) (*model.AssessmentResponse, error) {
	var resp model.AssessmentResponse
	err := r.DB.Where("idempotency_key = ?", key).First(&resp).Error
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *ResponseRepository) ListByUser(userID uint) ([]model.AssessmentResponse, error) {
	var responses []model.AssessmentResponse
	err := r.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&responses).Error
	return responses, err
}

func (r *ResponseRepository) List(page, limit int, assessmentType string) ([]model.AssessmentResponse, int64, error) {
	var responses []model.AssessmentResponse
	var total int64

	query := r.DB.Model(&model.AssessmentResponse{})
	if assessmentType != "" {
		query = query.Where("assessment_type = ?", assessmentType)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("User").Order("created_at desc").Offset(offset).Limit(limit).Find(&responses).Error
	return responses, total, err
}

// SetReportObject records the storage key of the uploaded report artifact.
// It is the only mutation allowed on a response after creation.
func (r *ResponseRepository) SetReportObject(id, objectKey string) error {
	return r.DB.Model(&model.AssessmentResponse{}).
		Where("id = ?", id).
		Update("report_object", objectKey).
		Error
}

// CreateWithOwner resolves or provisions the owning user and inserts the
// response in one transaction, so a retried or crashed submission cannot
// leave an orphaned user or a second owner for the same email.
//
// Owner resolution: an explicit user ID wins; otherwise the email is matched
// case-insensitively; otherwise a new pre-confirmed member is provisioned.
// Contact fields are refreshed on the resolved profile with merge-write
// semantics either way.
func (r *ResponseRepository) CreateWithOwner(contact model.ContactData, explicitUserID uint, resp *model.AssessmentResponse) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var owner model.User

		normalized := strings.ToLower(strings.TrimSpace(contact.Email))

		if explicitUserID != 0 {
			if err := tx.First(&owner, explicitUserID).Error; err != nil {
				return err
			}
			contact.MergeInto(&owner)
			if err := tx.Save(&owner).Error; err != nil {
				return err
			}
		} else {
			err := tx.Where("LOWER(email) = ?", normalized).First(&owner).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				owner = model.User{
					FullName:       contact.FullName,
					Email:          normalized,
					Company:        contact.Company,
					JobRole:        contact.Role,
					Phone:          contact.Phone,
					Role:           model.RoleMember,
					EmailConfirmed: true,
				}
				if err := tx.Create(&owner).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			default:
				contact.MergeInto(&owner)
				if err := tx.Save(&owner).Error; err != nil {
					return err
				}
			}
		}

		resp.UserID = owner.ID
		if err := tx.Create(resp).Error; err != nil {
			return err
		}
		resp.User = &owner
		return nil
	})
}

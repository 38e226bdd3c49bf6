package mapper

import (
	"time"

	"medvault-be/internal/entity"
	"medvault-be/internal/model"

	"gorm.io/gorm"
)

type PatientMapper struct{}

func NewPatientMapper() *PatientMapper {
	return &PatientMapper{}
}

func (m *PatientMapper) ToEntity(p *model.Patient) *entity.Patient {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		t := p.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Patient{
		Id:                p.Id,
		UserId:            p.UserId,
		Name:              p.Name,
		DateOfBirth:       p.DateOfBirth,
		Gender:            p.Gender,
		BloodGroup:        p.BloodGroup,
		Allergies:         p.Allergies,
		ChronicConditions: p.ChronicConditions,
		EmergencyContact:  p.EmergencyContact,
		RelationToUser:    p.RelationToUser,
		AvatarUrl:         p.AvatarUrl,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
		IsDeleted:         p.DeletedAt.Valid,
	}
}

func (m *PatientMapper) ToModel(p *entity.Patient) *model.Patient {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	} else if p.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Patient{
		Id:                p.Id,
		UserId:            p.UserId,
		Name:              p.Name,
		DateOfBirth:       p.DateOfBirth,
		Gender:            p.Gender,
		BloodGroup:        p.BloodGroup,
		Allergies:         p.Allergies,
		ChronicConditions: p.ChronicConditions,
		EmergencyContact:  p.EmergencyContact,
		RelationToUser:    p.RelationToUser,
		AvatarUrl:         p.AvatarUrl,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         updatedAt,
		DeletedAt:         deletedAt,
	}
}

func (m *PatientMapper) ToEntities(patients []*model.Patient) []*entity.Patient {
	entities := make([]*entity.Patient, len(patients))
	for i, p := range patients {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

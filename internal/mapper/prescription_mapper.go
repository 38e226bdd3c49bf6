package mapper

import (
	"encoding/json"
	"time"

	"medvault-be/internal/entity"
	"medvault-be/internal/model"

	"gorm.io/datatypes"
)

type PrescriptionMapper struct{}

func NewPrescriptionMapper() *PrescriptionMapper {
	return &PrescriptionMapper{}
}

func jsonToMap(raw datatypes.JSON) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func mapToJSON(m map[string]interface{}) datatypes.JSON {
	if m == nil {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func (m *PrescriptionMapper) ToEntity(p *model.Prescription) *entity.Prescription {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		t := p.UpdatedAt
		updatedAt = &t
	}

	return &entity.Prescription{
		Id:               p.Id,
		DocumentId:       p.DocumentId,
		PatientId:        p.PatientId,
		PrescriptionDate: p.PrescriptionDate,
		DoctorName:       p.DoctorName,
		DoctorTitle:      p.DoctorTitle,
		DoctorSpecialty:  p.DoctorSpecialty,
		DoctorDegree:     p.DoctorDegree,
		HospitalName:     p.HospitalName,
		HospitalAddress:  p.HospitalAddress,
		Diagnosis:        p.Diagnosis,
		Notes:            p.Notes,
		RawParsedData:    jsonToMap(p.RawParsedData),
		ParsingStatus:    p.ParsingStatus,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *PrescriptionMapper) ToModel(p *entity.Prescription) *model.Prescription {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Prescription{
		Id:               p.Id,
		DocumentId:       p.DocumentId,
		PatientId:        p.PatientId,
		PrescriptionDate: p.PrescriptionDate,
		DoctorName:       p.DoctorName,
		DoctorTitle:      p.DoctorTitle,
		DoctorSpecialty:  p.DoctorSpecialty,
		DoctorDegree:     p.DoctorDegree,
		HospitalName:     p.HospitalName,
		HospitalAddress:  p.HospitalAddress,
		Diagnosis:        p.Diagnosis,
		Notes:            p.Notes,
		RawParsedData:    mapToJSON(p.RawParsedData),
		ParsingStatus:    p.ParsingStatus,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *PrescriptionMapper) ToEntities(prescriptions []*model.Prescription) []*entity.Prescription {
	entities := make([]*entity.Prescription, len(prescriptions))
	for i, p := range prescriptions {
		entities[i] = m.ToEntity(p)
	}
	return entities
}

func (m *PrescriptionMapper) MedicineToEntity(med *model.Medicine) *entity.Medicine {
	if med == nil {
		return nil
	}
	return &entity.Medicine{
		Id:             med.Id,
		PrescriptionId: med.PrescriptionId,
		Name:           med.Name,
		Dosage:         med.Dosage,
		Frequency:      med.Frequency,
		WhenToTake:     med.WhenToTake,
		DurationDays:   med.DurationDays,
		Instructions:   med.Instructions,
		CreatedAt:      med.CreatedAt,
	}
}

func (m *PrescriptionMapper) MedicineToModel(med *entity.Medicine) *model.Medicine {
	if med == nil {
		return nil
	}
	return &model.Medicine{
		Id:             med.Id,
		PrescriptionId: med.PrescriptionId,
		Name:           med.Name,
		Dosage:         med.Dosage,
		Frequency:      med.Frequency,
		WhenToTake:     med.WhenToTake,
		DurationDays:   med.DurationDays,
		Instructions:   med.Instructions,
		CreatedAt:      med.CreatedAt,
	}
}

func (m *PrescriptionMapper) MedicinesToEntities(meds []*model.Medicine) []*entity.Medicine {
	entities := make([]*entity.Medicine, len(meds))
	for i, med := range meds {
		entities[i] = m.MedicineToEntity(med)
	}
	return entities
}

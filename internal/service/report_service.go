package service

import (
	"context"
	"errors"

	"medvault-be/internal/dto"
	"medvault-be/internal/repository/specification"
	"medvault-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

var ErrParseResultNotFound = errors.New("no parse result for this document")

// IReportService serves the structured data extracted from documents.
type IReportService interface {
	GetPrescription(ctx context.Context, userId, documentId uuid.UUID) (*dto.ParsedPrescriptionResponse, error)
	GetReport(ctx context.Context, userId, documentId uuid.UUID) (*dto.ParsedReportResponse, error)
}

type reportService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewReportService(uowFactory unitofwork.RepositoryFactory) IReportService {
	return &reportService{uowFactory: uowFactory}
}

func (s *reportService) GetPrescription(ctx context.Context, userId, documentId uuid.UUID) (*dto.ParsedPrescriptionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	prescription, err := uow.PrescriptionRepository().FindOne(ctx, specification.ByDocument{DocumentID: documentId})
	if err != nil {
		return nil, err
	}
	if prescription == nil {
		return nil, ErrParseResultNotFound
	}

	medicines, err := uow.PrescriptionRepository().FindMedicines(ctx, prescription.Id)
	if err != nil {
		return nil, err
	}

	resp := &dto.ParsedPrescriptionResponse{
		Id:               prescription.Id,
		DocumentId:       prescription.DocumentId,
		PrescriptionDate: prescription.PrescriptionDate,
		DoctorName:       prescription.DoctorName,
		DoctorSpecialty:  prescription.DoctorSpecialty,
		HospitalName:     prescription.HospitalName,
		Diagnosis:        prescription.Diagnosis,
		AdditionalNotes:  prescription.Notes,
		ParsingStatus:    prescription.ParsingStatus,
		RawParsedData:    prescription.RawParsedData,
		Medicines:        make([]dto.MedicineResponse, 0, len(medicines)),
	}
	for _, m := range medicines {
		resp.Medicines = append(resp.Medicines, dto.MedicineResponse{
			Id:           m.Id,
			Name:         m.Name,
			Dosage:       m.Dosage,
			Frequency:    m.Frequency,
			WhenToTake:   m.WhenToTake,
			DurationDays: m.DurationDays,
			Instructions: m.Instructions,
		})
	}
	return resp, nil
}

func (s *reportService) GetReport(ctx context.Context, userId, documentId uuid.UUID) (*dto.ParsedReportResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: documentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	report, err := uow.MedicalReportRepository().FindOne(ctx, specification.ByDocument{DocumentID: documentId})
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrParseResultNotFound
	}

	return &dto.ParsedReportResponse{
		Id:              report.Id,
		DocumentId:      report.DocumentId,
		ReportType:      report.ReportType,
		ReportTitle:     report.ReportTitle,
		ReportDate:      report.ReportDate,
		LabName:         report.LabName,
		ReferringDoctor: report.ReferringDoctor,
		Findings:        report.Findings,
		Conclusion:      report.Conclusion,
		Recommendations: report.Recommendations,
		TestResults:     report.TestResults,
		Summary:         report.Summary,
		ParsingStatus:   report.ParsingStatus,
	}, nil
}

package contract

import (
	"context"

	"medvault-be/internal/entity"
	"medvault-be/internal/repository/specification"

	"github.com/google/uuid"
)

type MedicalReportRepository interface {
	Create(ctx context.Context, report *entity.MedicalReport) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MedicalReport, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MedicalReport, error)

	CreateEmbedding(ctx context.Context, embedding *entity.ReportEmbedding) error
	DeleteEmbeddingsByReport(ctx context.Context, reportId uuid.UUID) error
	// SearchSimilar orders report embeddings by cosine distance to the query
	// vector, scoped to the given user's patients.
	SearchSimilar(ctx context.Context, userId uuid.UUID, query []float32, limit int) ([]*entity.ReportEmbedding, error)
}

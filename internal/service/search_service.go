package service

import (
	"context"
	"errors"

	"medvault-be/internal/dto"
	"medvault-be/internal/repository/specification"
	"medvault-be/internal/repository/unitofwork"
	"medvault-be/pkg/embedding"

	"github.com/google/uuid"
)

const defaultSearchLimit = 10

type ISearchService interface {
	SearchReports(ctx context.Context, userId uuid.UUID, req *dto.SearchReportsRequest) ([]*dto.SearchReportResult, error)
}

type searchService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
}

func NewSearchService(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.Provider) ISearchService {
	return &searchService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

// SearchReports embeds the query and ranks report chunks by cosine distance
// in the database, then joins the owning reports for display.
func (s *searchService) SearchReports(ctx context.Context, userId uuid.UUID, req *dto.SearchReportsRequest) ([]*dto.SearchReportResult, error) {
	if s.embeddingProvider == nil {
		return nil, errors.New("semantic search is not configured")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	queryEmbedding, err := s.embeddingProvider.Generate(req.Query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	matches, err := uow.MedicalReportRepository().SearchSimilar(ctx, userId, queryEmbedding.Values, limit)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []*dto.SearchReportResult{}, nil
	}

	// One report can match through several chunks; keep the best.
	seen := make(map[uuid.UUID]bool)
	results := make([]*dto.SearchReportResult, 0, len(matches))
	for _, match := range matches {
		if seen[match.ReportId] {
			continue
		}
		seen[match.ReportId] = true

		report, err := uow.MedicalReportRepository().FindOne(ctx, specification.ByID{ID: match.ReportId})
		if err != nil {
			return nil, err
		}
		if report == nil {
			continue
		}

		result := &dto.SearchReportResult{
			ReportId:     report.Id,
			DocumentId:   report.DocumentId,
			PatientId:    report.PatientId,
			ReportTitle:  report.ReportTitle,
			ReportType:   report.ReportType,
			Summary:      report.Summary,
			ReportDate:   report.ReportDate,
			MatchedChunk: match.Document,
		}
		if score := cosineSimilarity(queryEmbedding.Values, match.Embedding); score != nil {
			result.RelevanceScore = score
		}
		results = append(results, result)
	}

	return results, nil
}

// cosineSimilarity of two normalized vectors is their dot product.
func cosineSimilarity(a, b []float32) *float64 {
	if len(a) == 0 || len(a) != len(b) {
		return nil
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return &dot
}

package service

import (
	"bytes"
	"context"
	"errors"
	"image/png"

	"medvault-be/internal/dto"
	"medvault-be/internal/entity"
	"medvault-be/internal/pkg/logger"
	"medvault-be/internal/repository/memory"
	"medvault-be/internal/repository/specification"
	"medvault-be/internal/repository/unitofwork"
	"medvault-be/pkg/filestore"
	"medvault-be/pkg/viewer"

	"github.com/google/uuid"
)

var ErrViewerSessionNotFound = errors.New("viewer session not found")

// IViewerService manages server-side viewing sessions for thin clients that
// stream rendered pages instead of decoding documents themselves.
type IViewerService interface {
	Open(ctx context.Context, userId uuid.UUID, req *dto.OpenViewerRequest) (*dto.ViewerStateResponse, error)
	State(userId uuid.UUID, sessionId string) (*dto.ViewerStateResponse, error)
	Zoom(userId uuid.UUID, sessionId string, delta float64) (*dto.ViewerStateResponse, error)
	ResetZoom(userId uuid.UUID, sessionId string) (*dto.ViewerStateResponse, error)
	Pan(userId uuid.UUID, sessionId string, x, y float64) (*dto.ViewerStateResponse, error)
	SetPage(userId uuid.UUID, sessionId string, page int) (*dto.ViewerStateResponse, error)
	Key(userId uuid.UUID, sessionId string, key string) (*dto.ViewerStateResponse, error)
	ToggleFullscreen(userId uuid.UUID, sessionId string) (*dto.ViewerStateResponse, error)
	PageImage(userId uuid.UUID, sessionId string) ([]byte, error)
	Close(userId uuid.UUID, sessionId string)
}

type viewerService struct {
	uowFactory unitofwork.RepositoryFactory
	store      *filestore.Store
	sessions   *memory.ViewerSessionRepository
	renderer   *viewer.Renderer
	logger     logger.ILogger
}

func NewViewerService(
	uowFactory unitofwork.RepositoryFactory,
	store *filestore.Store,
	sessions *memory.ViewerSessionRepository,
	log logger.ILogger,
) IViewerService {
	return &viewerService{
		uowFactory: uowFactory,
		store:      store,
		sessions:   sessions,
		renderer:   viewer.NewRenderer(),
		logger:     log,
	}
}

// sessionKey namespaces sessions per user so one user cannot drive another
// user's viewer.
func sessionKey(userId uuid.UUID, sessionId string) string {
	return userId.String() + ":" + sessionId
}

func (s *viewerService) Open(ctx context.Context, userId uuid.UUID, req *dto.OpenViewerRequest) (*dto.ViewerStateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: req.DocumentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	kind := viewer.KindPDF
	if doc.FileType != entity.FileTypePdf {
		kind = viewer.KindImage
	}

	sessionId := uuid.NewString()
	session := viewer.New(sessionKey(userId, sessionId), doc.FileName, kind)
	if req.ViewportW > 0 && req.ViewportH > 0 {
		session.SetViewport(req.ViewportW, req.ViewportH)
	}

	gen := session.Open()
	s.sessions.Save(session)

	data, err := s.store.Read(doc.FilePath)
	if err != nil {
		session.FailLoad(gen, "unable to display this document")
		s.logger.Error("ViewerService", "Failed to read document file", map[string]interface{}{
			"document_id": doc.Id, "error": err.Error(),
		})
		return stateResponse(sessionId, session), nil
	}

	go s.renderer.Load(session, gen, data)

	return stateResponse(sessionId, session), nil
}

func (s *viewerService) get(userId uuid.UUID, sessionId string) (*viewer.Session, error) {
	session, ok := s.sessions.Get(sessionKey(userId, sessionId))
	if !ok {
		return nil, ErrViewerSessionNotFound
	}
	return session, nil
}

func (s *viewerService) State(userId uuid.UUID, sessionId string) (*dto.ViewerStateResponse, error) {
	session, err := s.get(userId, sessionId)
	if err != nil {
		return nil, err
	}
	return stateResponse(sessionId, session), nil
}

func (s *viewerService) Zoom(userId uuid.UUID, sessionId string, delta float64) (*dto.ViewerStateResponse, error) {
	session, err := s.get(userId, sessionId)
	if err != nil {
		return nil, err
	}
	session.AdjustZoom(delta)
	return stateResponse(sessionId, session), nil
}

func (s *viewerService) ResetZoom(userId uuid.UUID, sessionId string) (*dto.ViewerStateResponse, error) {
	session, err := s.get(userId, sessionId)
	if err != nil {
		return nil, err
	}
	session.ResetZoom()
	return stateResponse(sessionId, session), nil
}

func (s *viewerService) Pan(userId uuid.UUID, sessionId string, x, y float64) (*dto.ViewerStateResponse, error) {
	session, err := s.get(userId, sessionId)
	if err != nil {
		return nil, err
	}
	session.Pan(x, y)
	return stateResponse(sessionId, session), nil
}

func (s *viewerService) SetPage(userId uuid.UUID, sessionId string, page int) (*dto.ViewerStateResponse, error) {
	session, err := s.get(userId, sessionId)
	if err != nil {
		return nil, err
	}
	if target, gen, changed := session.SetPage(page); changed {
		go s.renderer.RenderPage(session, gen, target)
	}
	return stateResponse(sessionId, session), nil
}

func (s *viewerService) Key(userId uuid.UUID, sessionId string, key string) (*dto.ViewerStateResponse, error) {
	session, err := s.get(userId, sessionId)
	if err != nil {
		return nil, err
	}
	result := session.HandleKey(key)
	if result.PageChanged {
		go s.renderer.RenderPage(session, result.Generation, result.Page)
	}
	if result.CloseRequested {
		s.Close(userId, sessionId)
		resp := stateResponse(sessionId, session)
		resp.Closed = true
		return resp, nil
	}
	return stateResponse(sessionId, session), nil
}

func (s *viewerService) ToggleFullscreen(userId uuid.UUID, sessionId string) (*dto.ViewerStateResponse, error) {
	session, err := s.get(userId, sessionId)
	if err != nil {
		return nil, err
	}
	session.ToggleFullscreen()
	return stateResponse(sessionId, session), nil
}

// PageImage returns the most recently rendered page as PNG.
func (s *viewerService) PageImage(userId uuid.UUID, sessionId string) ([]byte, error) {
	session, err := s.get(userId, sessionId)
	if err != nil {
		return nil, err
	}
	img, ok := session.Page()
	if !ok {
		return nil, errors.New("no page rendered yet")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *viewerService) Close(userId uuid.UUID, sessionId string) {
	key := sessionKey(userId, sessionId)
	if session, ok := s.sessions.Get(key); ok {
		session.Close()
		s.sessions.Delete(key)
	}
}

func stateResponse(sessionId string, session *viewer.Session) *dto.ViewerStateResponse {
	state := session.Snapshot()
	return &dto.ViewerStateResponse{
		SessionId:   sessionId,
		FileName:    state.FileName,
		State:       state.LoadState.String(),
		Failure:     state.Failure,
		Zoom:        state.Zoom,
		PositionX:   state.PosX,
		PositionY:   state.PosY,
		Fullscreen:  state.Fullscreen,
		CurrentPage: state.CurrentPage,
		TotalPages:  state.TotalPages,
		Rendering:   state.Rendering,
		PageError:   state.PageError,
	}
}

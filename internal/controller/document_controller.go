package controller

import (
	"errors"
	"io"
	"strconv"

	"medvault-be/internal/dto"
	"medvault-be/internal/pkg/serverutils"
	"medvault-be/internal/service"
	"medvault-be/pkg/filestore"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	File(ctx *fiber.Ctx) error
	Page(ctx *fiber.Ctx) error
	Prescription(ctx *fiber.Ctx) error
	Report(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
	reportService   service.IReportService
	authMw          fiber.Handler
}

func NewDocumentController(
	documentService service.IDocumentService,
	reportService service.IReportService,
	authMw fiber.Handler,
) IDocumentController {
	return &documentController{
		documentService: documentService,
		reportService:   reportService,
		authMw:          authMw,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Use(c.authMw)
	h.Post("", c.Upload)
	h.Get(":id", c.Show)
	h.Get(":id/file", c.File)
	h.Get(":id/pages/:page", c.Page)
	h.Get(":id/prescription", c.Prescription)
	h.Get(":id/report", c.Report)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing file")
	}

	patientId, err := uuid.Parse(ctx.FormValue("patient_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid patient_id")
	}

	req := dto.UploadDocumentRequest{
		PatientId:    patientId,
		DocumentType: ctx.FormValue("document_type"),
		Notes:        ctx.FormValue("notes"),
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.documentService.Upload(ctx.Context(), userId, &req, fileHeader.Filename, data)
	if err != nil {
		return uploadError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success upload document", res))
}

func uploadError(err error) error {
	var unsupported *filestore.ErrUnsupportedType
	var tooLarge *filestore.ErrTooLarge
	switch {
	case errors.As(err, &unsupported):
		return fiber.NewError(fiber.StatusUnsupportedMediaType, err.Error())
	case errors.As(err, &tooLarge):
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrPatientNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return err
	}
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	res, err := c.documentService.Get(ctx.Context(), userId, id)
	if err != nil {
		return notFoundOr(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) File(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	data, contentType, err := c.documentService.File(ctx.Context(), userId, id)
	if err != nil {
		return notFoundOr(err)
	}

	ctx.Set(fiber.HeaderContentType, contentType)
	return ctx.Send(data)
}

// Page streams a single rendered page as PNG. "w" and "h" describe the
// client viewport the page should be fitted to.
func (c *documentController) Page(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}
	page, err := strconv.Atoi(ctx.Params("page"))
	if err != nil || page < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid page number")
	}
	viewportW := ctx.QueryInt("w", 0)
	viewportH := ctx.QueryInt("h", 0)

	data, err := c.documentService.RenderPage(ctx.Context(), userId, id, page, viewportW, viewportH)
	if err != nil {
		return notFoundOr(err)
	}

	ctx.Set(fiber.HeaderContentType, "image/png")
	return ctx.Send(data)
}

func (c *documentController) Prescription(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	res, err := c.reportService.GetPrescription(ctx.Context(), userId, id)
	if err != nil {
		return notFoundOr(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show prescription", res))
}

func (c *documentController) Report(ctx *fiber.Ctx) error {
	userId := serverutils.UserID(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid document id")
	}

	res, err := c.reportService.GetReport(ctx.Context(), userId, id)
	if err != nil {
		return notFoundOr(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show report", res))
}

func notFoundOr(err error) error {
	if errors.Is(err, service.ErrDocumentNotFound) || errors.Is(err, service.ErrParseResultNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return err
}

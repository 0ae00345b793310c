package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/dmitrijs2005/bookkeeper/internal/logging"
	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
	"github.com/dmitrijs2005/bookkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

const msgMissingBookFields = "Send all required fields: title, author, publishYear"

// bookHandler serves one book family. label is used in response texts.
type bookHandler struct {
	svc   *services.BookService
	log   logging.Logger
	label string
	msgs  messages
}

func newBookHandler(svc *services.BookService, label string, log logging.Logger) *bookHandler {
	return &bookHandler{
		svc:   svc,
		log:   log,
		label: label,
		msgs: messages{
			notFound:   label + " not found",
			validation: msgMissingBookFields,
		},
	}
}

func (h *bookHandler) fail(c *gin.Context, err error) {
	respondError(c, h.log, h.msgs, err)
}

func (h *bookHandler) create(c *gin.Context) {
	fields, err := bindBookFields(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	book, err := h.svc.Create(c.Request.Context(), actorID(c), fields)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newBookResponse(book, h.svc.Visibility()))
}

func (h *bookHandler) listMine(c *gin.Context) {
	books, err := h.svc.ListMine(c.Request.Context(), actorID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(books, h.svc.Visibility()))
}

func (h *bookHandler) listAll(c *gin.Context) {
	books, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(books, h.svc.Visibility()))
}

func (h *bookHandler) getOne(c *gin.Context) {
	book, err := h.svc.GetOne(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newBookResponse(book, h.svc.Visibility()))
}

func (h *bookHandler) update(c *gin.Context) {
	fields, err := bindBookFields(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if _, err := h.svc.Update(c.Request.Context(), actorID(c), c.Param("id"), fields); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.label + " updated successfully"})
}

func (h *bookHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.label + " deleted successfully"})
}

func (h *bookHandler) coverUpload(c *gin.Context) {
	u, err := h.svc.CoverUploadURL(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *bookHandler) coverDownload(c *gin.Context) {
	u, err := h.svc.CoverDownloadURL(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// bindBookFields decodes the request body. An empty body yields empty fields
// so the service reports every missing one; a field of the wrong JSON type
// becomes a validation error naming it.
func bindBookFields(c *gin.Context) (models.BookFields, error) {
	var fields models.BookFields

	err := c.ShouldBindJSON(&fields)
	if err == nil || errors.Is(err, io.EOF) {
		return fields, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fields, common.NewValidationError(common.FieldError{
			Field:   typeErr.Field,
			Message: "has the wrong type",
		})
	}
	return fields, common.NewValidationError(common.FieldError{
		Field:   "body",
		Message: "must be a JSON object",
	})
}

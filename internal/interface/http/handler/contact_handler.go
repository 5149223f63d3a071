package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shareholder-portal/internal/interface/http/dto"
	"github.com/ignatzorin/shareholder-portal/internal/interface/http/response"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/contact"
)

type ContactHandler struct {
	updateContactUC *contact.UpdateContactUseCase
}

func NewContactHandler(updateContactUC *contact.UpdateContactUseCase) *ContactHandler {
	return &ContactHandler{updateContactUC: updateContactUC}
}

// UpdateContact обрабатывает PUT /api/shareholders/:code/contact.
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	var req dto.UpdateContactRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	out, err := h.updateContactUC.Execute(c.Request.Context(), req.ToInput(c.Param("code")))
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, dto.NewUpdateContactResponse(out))
}

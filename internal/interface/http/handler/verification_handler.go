package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/shareholder-portal/internal/interface/http/dto"
	"github.com/ignatzorin/shareholder-portal/internal/interface/http/response"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/qrcheck"
	"github.com/ignatzorin/shareholder-portal/internal/usecase/verification"
)

type VerificationHandler struct {
	checkUC     *qrcheck.CheckUseCase
	issueCodeUC *verification.IssueCodeUseCase
	verifyUC    *verification.VerifyUseCase
}

func NewVerificationHandler(
	checkUC *qrcheck.CheckUseCase,
	issueCodeUC *verification.IssueCodeUseCase,
	verifyUC *verification.VerifyUseCase,
) *VerificationHandler {
	return &VerificationHandler{
		checkUC:     checkUC,
		issueCodeUC: issueCodeUC,
		verifyUC:    verifyUC,
	}
}

// Check обрабатывает POST /api/verification/check.
func (h *VerificationHandler) Check(c *gin.Context) {
	var req dto.CheckRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	out, err := h.checkUC.Execute(c.Request.Context(), req.Identifier)
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, dto.NewCheckResponse(out))
}

// IssueCode обрабатывает POST /api/verification/code.
func (h *VerificationHandler) IssueCode(c *gin.Context) {
	var req dto.IssueCodeRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	out, err := h.issueCodeUC.Execute(c.Request.Context(), req.ToInput())
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, dto.NewIssueCodeResponse(out))
}

// Verify обрабатывает POST /api/verification/verify.
func (h *VerificationHandler) Verify(c *gin.Context) {
	var req dto.VerifyRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, err)
		return
	}

	out, err := h.verifyUC.Execute(c.Request.Context(), req.ToInput())
	if err != nil {
		fail(c, err)
		return
	}

	response.Success(c, dto.NewVerifyResponse(out))
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/credit_ledger_app/internal/apperrors"
	"github.com/SscSPs/credit_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/credit_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/credit_ledger_app/internal/dto"
	"github.com/SscSPs/credit_ledger_app/internal/export"
	"github.com/SscSPs/credit_ledger_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// creditHandler handles HTTP requests related to credit lines.
type creditHandler struct {
	creditService portssvc.CreditSvcFacade
}

// newCreditHandler creates a new creditHandler.
func newCreditHandler(cs portssvc.CreditSvcFacade) *creditHandler {
	return &creditHandler{
		creditService: cs,
	}
}

// registerCreditRoutes registers routes related to credit lines.
func registerCreditRoutes(rg *gin.RouterGroup, creditService portssvc.CreditSvcFacade) {
	// The request DTOs carry money binding tags; binding panics on unknown tags.
	if err := dto.RegisterBindingValidations(); err != nil {
		panic(err)
	}
	h := newCreditHandler(creditService)

	credit := rg.Group("/credit")
	{
		credit.POST("", h.createCreditProfile)
		credit.GET("", h.listCreditProfiles)
		credit.GET("/:clientId", h.getCreditProfile)
		credit.GET("/:clientId/summary", h.getSummary)
		credit.GET("/:clientId/transactions", h.listTransactions)
		credit.GET("/:clientId/statement", h.exportStatement)
		credit.GET("/:clientId/verify", h.verifyLedger)
		credit.POST("/:clientId/payment", h.recordPayment)
		credit.POST("/:clientId/purchase", h.recordPurchase)
		credit.POST("/:clientId/adjust", h.applyAdjustment)
		credit.POST("/:clientId/interest", h.accrueInterest)
		credit.PATCH("/:clientId/status", h.updateStatus)
	}
}

// createCreditProfile godoc
// @Summary Create a credit profile
// @Description Opens a credit line for an existing client. Omitted fields take the configured defaults.
// @Tags credit
// @Accept  json
// @Produce  json
// @Param   profile body dto.CreateCreditProfileRequest true "Credit profile details"
// @Success 201 {object} dto.CreditProfileResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Client not found"
// @Failure 409 {object} map[string]string "Credit profile already exists"
// @Failure 500 {object} map[string]string "Failed to create credit profile"
// @Security BearerAuth
// @Router /credit [post]
func (h *creditHandler) createCreditProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCreditProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCreditProfile", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	capability, ok := capabilityOrAbort(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to create credit profile", slog.String("client_id", req.ClientID))
	profile, err := h.creditService.CreateCreditProfile(c.Request.Context(), capability, req)
	if err != nil {
		respondError(c, logger, err, "Failed to create credit profile")
		return
	}

	logger.Info("Credit profile created successfully", slog.String("account_id", profile.AccountID))
	c.JSON(http.StatusCreated, dto.ToCreditProfileResponse(profile))
}

// listCreditProfiles godoc
// @Summary List credit profiles
// @Description Lists credit profiles, optionally filtered by status
// @Tags credit
// @Produce  json
// @Param   status query string false "Status filter" Enums(ACTIVE, SUSPENDED, PENDING, EXPIRED)
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {array} dto.CreditProfileResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list credit profiles"
// @Security BearerAuth
// @Router /credit [get]
func (h *creditHandler) listCreditProfiles(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCreditProfilesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListCreditProfiles", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	capability, ok := capabilityOrAbort(c, logger)
	if !ok {
		return
	}

	profiles, err := h.creditService.ListCreditProfiles(c.Request.Context(), capability, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list credit profiles")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCreditProfileResponse(profiles))
}

// getCreditProfile godoc
// @Summary Get a credit profile
// @Description Retrieves the credit profile of a client together with the client record
// @Tags credit
// @Produce  json
// @Param   clientId path string true "Client ID"
// @Success 200 {object} dto.CreditProfileResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Credit profile not found"
// @Failure 500 {object} map[string]string "Failed to retrieve credit profile"
// @Security BearerAuth
// @Router /credit/{clientId} [get]
func (h *creditHandler) getCreditProfile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", c.Param("clientId")))
	capability, ok := capabilityOrAbort(c, logger)
	if !ok {
		return
	}

	details, err := h.creditService.GetCreditProfile(c.Request.Context(), capability, c.Param("clientId"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve credit profile")
		return
	}
	c.JSON(http.StatusOK, dto.ToCreditProfileDetailsResponse(details))
}

// getSummary godoc
// @Summary Get a credit summary
// @Description Returns balances, utilization and transaction counts for a client
// @Tags credit
// @Produce  json
// @Param   clientId path string true "Client ID"
// @Success 200 {object} domain.CreditSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Credit profile not found"
// @Failure 500 {object} map[string]string "Failed to retrieve credit summary"
// @Security BearerAuth
// @Router /credit/{clientId}/summary [get]
func (h *creditHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", c.Param("clientId")))
	capability, ok := capabilityOrAbort(c, logger)
	if !ok {
		return
	}

	summary, err := h.creditService.GetSummary(c.Request.Context(), capability, c.Param("clientId"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve credit summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// listTransactions godoc
// @Summary List credit transactions
// @Description Returns ledger history newest first
// @Tags credit
// @Produce  json
// @Param   clientId path string true "Client ID"
// @Param   limit query int false "Page size (default 50, max 100)"
// @Param   offset query int false "Offset" default(0)
// @Param   type query string false "Transaction type filter"
// @Param   nextToken query string false "Continuation token from a previous page"
// @Success 200 {object} dto.ListCreditTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Credit profile not found"
// @Failure 500 {object} map[string]string "Failed to list credit transactions"
// @Security BearerAuth
// @Router /credit/{clientId}/transactions [get]
func (h *creditHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", c.Param("clientId")))
	var params dto.ListCreditTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query parameters for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	capability, ok := capabilityOrAbort(c, logger)
	if !ok {
		return
	}

	page, err := h.creditService.ListTransactions(c.Request.Context(), capability, c.Param("clientId"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list credit transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCreditTransactionsResponse(page))
}

// exportStatement godoc
// @Summary Export a credit statement
// @Description Renders the account statement as PDF or XLSX
// @Tags credit
// @Produce  application/pdf
// @Produce  application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param   clientId path string true "Client ID"
// @Param   format query string false "Output format" Enums(pdf, xlsx) default(pdf)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Unsupported format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Credit profile not found"
// @Failure 500 {object} map[string]string "Failed to export statement"
// @Security BearerAuth
// @Router /credit/{clientId}/statement [get]
func (h *creditHandler) exportStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", c.Param("clientId")))
	format := c.DefaultQuery("format", export.FormatPDF)
	if format != export.FormatPDF && format != export.FormatXLSX {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be pdf or xlsx"})
		return
	}
	capability, ok := capabilityOrAbort(c, logger)
	if !ok {
		return
	}

	stmt, err := h.creditService.GetStatement(c.Request.Context(), capability, c.Param("clientId"))
	if err != nil {
		respondError(c, logger, err, "Failed to export statement")
		return
	}
	doc, err := export.Render(format, stmt)
	if err != nil {
		respondError(c, logger, err, "Failed to export statement")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(doc.FileName))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

// verifyLedger godoc
// @Summary Verify a credit ledger
// @Description Replays the ledger and compares the result with the cached balance
// @Tags credit
// @Produce  json
// @Param   clientId path string true "Client ID"
// @Success 200 {object} domain.LedgerVerification
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Credit profile not found"
// @Failure 500 {object} map[string]string "Failed to verify ledger"
// @Security BearerAuth
// @Router /credit/{clientId}/verify [get]
func (h *creditHandler) verifyLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", c.Param("clientId")))
	capability, ok := capabilityOrAbort(c, logger)
	if !ok {
		return
	}

	result, err := h.creditService.VerifyLedger(c.Request.Context(), capability, c.Param("clientId"))
	if err != nil {
		respondError(c, logger, err, "Failed to verify ledger")
		return
	}
	c.JSON(http.StatusOK, result)
}

// recordPayment godoc
// @Summary Record a payment
// @Description Pays down the balance. Overpayment beyond the balance still raises available credit.
// @Tags credit
// @Accept  json
// @Produce  json
// @Param   clientId path string true "Client ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 200 {object} dto.BalanceChangeResponse
// @Failure 400 {object} map[string]string "Invalid amount"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Credit profile not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /credit/{clientId}/payment [post]
func (h *creditHandler) recordPayment(c *gin.Context) {
	var req dto.RecordPaymentRequest
	h.balanceChange(c, "RecordPayment", &req, func(capability domain.Capability, clientID string) (*domain.BalanceChange, error) {
		return h.creditService.RecordPayment(c.Request.Context(), capability, clientID, req)
	})
}

// recordPurchase godoc
// @Summary Record a purchase
// @Description Draws on the credit line of an ACTIVE profile
// @Tags credit
// @Accept  json
// @Produce  json
// @Param   clientId path string true "Client ID"
// @Param   purchase body dto.RecordPurchaseRequest true "Purchase details"
// @Success 200 {object} dto.BalanceChangeResponse
// @Failure 400 {object} map[string]string "Invalid amount, insufficient credit or inactive account"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Credit profile not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to record purchase"
// @Security BearerAuth
// @Router /credit/{clientId}/purchase [post]
func (h *creditHandler) recordPurchase(c *gin.Context) {
	var req dto.RecordPurchaseRequest
	h.balanceChange(c, "RecordPurchase", &req, func(capability domain.Capability, clientID string) (*domain.BalanceChange, error) {
		return h.creditService.RecordPurchase(c.Request.Context(), capability, clientID, req)
	})
}

// applyAdjustment godoc
// @Summary Apply a manual adjustment
// @Description Applies an administrative CREDIT, DEBIT, WRITE_OFF, FEE or REFUND adjustment
// @Tags credit
// @Accept  json
// @Produce  json
// @Param   clientId path string true "Client ID"
// @Param   adjustment body dto.ApplyAdjustmentRequest true "Adjustment details"
// @Success 200 {object} dto.BalanceChangeResponse
// @Failure 400 {object} map[string]string "Invalid type, missing reason or negative balance"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Credit profile not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to apply adjustment"
// @Security BearerAuth
// @Router /credit/{clientId}/adjust [post]
func (h *creditHandler) applyAdjustment(c *gin.Context) {
	var req dto.ApplyAdjustmentRequest
	h.balanceChange(c, "ApplyAdjustment", &req, func(capability domain.Capability, clientID string) (*domain.BalanceChange, error) {
		return h.creditService.ApplyAdjustment(c.Request.Context(), capability, clientID, req)
	})
}

// accrueInterest godoc
// @Summary Accrue interest
// @Description Charges balance * rate * days / 365 onto the balance
// @Tags credit
// @Accept  json
// @Produce  json
// @Param   clientId path string true "Client ID"
// @Param   interest body dto.AccrueInterestRequest true "Accrual period"
// @Success 200 {object} dto.BalanceChangeResponse
// @Failure 400 {object} map[string]string "Invalid period or nothing to accrue"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Credit profile not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to accrue interest"
// @Security BearerAuth
// @Router /credit/{clientId}/interest [post]
func (h *creditHandler) accrueInterest(c *gin.Context) {
	var req dto.AccrueInterestRequest
	h.balanceChange(c, "AccrueInterest", &req, func(capability domain.Capability, clientID string) (*domain.BalanceChange, error) {
		return h.creditService.AccrueInterest(c.Request.Context(), capability, clientID, req)
	})
}

// updateStatus godoc
// @Summary Update credit status
// @Description Moves a credit profile through its lifecycle
// @Tags credit
// @Accept  json
// @Produce  json
// @Param   clientId path string true "Client ID"
// @Param   status body dto.UpdateCreditStatusRequest true "New status"
// @Success 200 {object} dto.CreditProfileResponse
// @Failure 400 {object} map[string]string "Invalid status or transition"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Credit profile not found"
// @Failure 409 {object} map[string]string "Concurrent modification"
// @Failure 500 {object} map[string]string "Failed to update status"
// @Security BearerAuth
// @Router /credit/{clientId}/status [patch]
func (h *creditHandler) updateStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("client_id", c.Param("clientId")))
	var req dto.UpdateCreditStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	capability, ok := capabilityOrAbort(c, logger)
	if !ok {
		return
	}

	profile, err := h.creditService.UpdateStatus(c.Request.Context(), capability, c.Param("clientId"), req)
	if err != nil {
		respondError(c, logger, err, "Failed to update status")
		return
	}
	c.JSON(http.StatusOK, dto.ToCreditProfileResponse(profile))
}

// balanceChange binds req, runs apply and writes the balance change response.
func (h *creditHandler) balanceChange(c *gin.Context, op string, req any, apply func(domain.Capability, string) (*domain.BalanceChange, error)) {
	clientID := c.Param("clientId")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("client_id", clientID),
		slog.String("operation", op))

	if err := c.ShouldBindJSON(req); err != nil {
		logger.Warn("Failed to bind JSON", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	capability, ok := capabilityOrAbort(c, logger)
	if !ok {
		return
	}

	change, err := apply(capability, clientID)
	if err != nil {
		respondError(c, logger, err, "Failed to "+opMessages[op])
		return
	}

	logger.Info("Balance updated",
		slog.String("entry_id", change.Entry.EntryID),
		slog.String("new_balance", change.NewBalance.String()))
	c.JSON(http.StatusOK, dto.ToBalanceChangeResponse(clientID, change))
}

var opMessages = map[string]string{
	"RecordPayment":   "record payment",
	"RecordPurchase":  "record purchase",
	"ApplyAdjustment": "apply adjustment",
	"AccrueInterest":  "accrue interest",
}

func capabilityOrAbort(c *gin.Context, logger *slog.Logger) (domain.Capability, bool) {
	capability, ok := middleware.GetCapabilityFromContext(c)
	if !ok || capability.ActorID == "" {
		logger.Error("Caller capability not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return domain.Capability{}, false
	}
	return capability, true
}

// respondError maps the error taxonomy onto HTTP status codes.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrInvariantViolation):
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		logger.Error("Store unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

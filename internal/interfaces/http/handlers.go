package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/officeflow/conveyance/internal/application/service"
	"github.com/officeflow/conveyance/internal/domain/entity"
	"github.com/officeflow/conveyance/internal/domain/workflow"
	"github.com/officeflow/conveyance/pkg/utils"
)

// Handlers contains the bill and report HTTP request handlers
type Handlers struct {
	transitionService service.TransitionService
	submissionService service.SubmissionService
	reportService     service.ReportService
	logger            Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	transitionService service.TransitionService,
	submissionService service.SubmissionService,
	reportService service.ReportService,
	logger Logger,
) *Handlers {
	return &Handlers{
		transitionService: transitionService,
		submissionService: submissionService,
		reportService:     reportService,
		logger:            logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// BillItemRequest is one expense line in a submission request
type BillItemRequest struct {
	Date      time.Time `json:"date" binding:"required"`
	From      string    `json:"from" binding:"required"`
	To        string    `json:"to" binding:"required"`
	Transport string    `json:"transport" binding:"required"`
	Purpose   string    `json:"purpose" binding:"required"`
	Amount    float64   `json:"amount" binding:"required,gt=0"`
}

// SubmitBillRequest represents a bill submission request body
type SubmitBillRequest struct {
	CompanyName    string            `json:"company_name" binding:"required"`
	CompanyAddress string            `json:"company_address" binding:"required"`
	EmployeeID     string            `json:"employee_id" binding:"required"`
	AmountInWords  string            `json:"amount_in_words"`
	TotalAmount    float64           `json:"total_amount" binding:"required,gt=0"`
	Items          []BillItemRequest `json:"items" binding:"required,min=1,dive"`
}

// BillActionRequest represents an approve/reject request body
type BillActionRequest struct {
	Action  string `json:"action" binding:"required,billaction"`
	Comment string `json:"comment"`
}

// BillResponse decorates a bill with what the caller may do with it
type BillResponse struct {
	*entity.Bill
	CanAct           bool              `json:"can_act"`
	PermittedActions []workflow.Action `json:"permitted_actions,omitempty"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	}

	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    response,
	})
}

// SubmitBill handles POST /api/bills
func (h *Handlers) SubmitBill(c *gin.Context) {
	var req SubmitBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	actor := actorFrom(c)

	// The form normally renders the amount in words client-side; derive it
	// here when omitted.
	if req.AmountInWords == "" {
		req.AmountInWords = utils.AmountInWords(req.TotalAmount)
	}

	header := service.BillHeader{
		CompanyName:    req.CompanyName,
		CompanyAddress: req.CompanyAddress,
		EmployeeID:     req.EmployeeID,
		AmountInWords:  req.AmountInWords,
		TotalAmount:    req.TotalAmount,
	}
	items := make([]service.BillItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.BillItemInput{
			Date:      item.Date,
			From:      item.From,
			To:        item.To,
			Transport: item.Transport,
			Purpose:   item.Purpose,
			Amount:    item.Amount,
		})
	}

	bill, err := h.submissionService.Submit(c.Request.Context(), header, items, actor.Role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: h.toBillResponse(bill, actor)})
}

// ListBills handles GET /api/bills
func (h *Handlers) ListBills(c *gin.Context) {
	bills, err := h.reportService.ListBills(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	actor := actorFrom(c)
	responses := make([]BillResponse, 0, len(bills))
	for _, bill := range bills {
		responses = append(responses, h.toBillResponse(bill, actor))
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: responses})
}

// GetBill handles GET /api/bills/:id
func (h *Handlers) GetBill(c *gin.Context) {
	bill, err := h.reportService.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: h.toBillResponse(bill, actorFrom(c))})
}

// BillAction handles POST /api/bills/:id/action
func (h *Handlers) BillAction(c *gin.Context) {
	var req BillActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
		return
	}

	actor := actorFrom(c)
	bill, err := h.transitionService.ApplyAction(c.Request.Context(), c.Param("id"), actor, workflow.Action(req.Action), req.Comment)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: h.toBillResponse(bill, actor)})
}

// ReceiveMoney handles POST /api/bills/:id/receive
func (h *Handlers) ReceiveMoney(c *gin.Context) {
	actor := actorFrom(c)
	bill, err := h.transitionService.ConfirmReceipt(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: h.toBillResponse(bill, actor)})
}

// StatusSummary handles GET /api/reports/status-summary
func (h *Handlers) StatusSummary(c *gin.Context) {
	summary, err := h.reportService.StatusSummary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: summary})
}

// MonthlyTotals handles GET /api/reports/monthly
func (h *Handlers) MonthlyTotals(c *gin.Context) {
	year := time.Now().UTC().Year()
	if yearStr := c.Query("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid year"})
			return
		}
		year = parsed
	}

	totals, err := h.reportService.MonthlyTotals(c.Request.Context(), year)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: totals})
}

// toBillResponse decorates a bill with the caller's permitted actions
func (h *Handlers) toBillResponse(bill *entity.Bill, actor *entity.User) BillResponse {
	return BillResponse{
		Bill:             bill,
		CanAct:           h.transitionService.CanAct(bill, actor),
		PermittedActions: h.transitionService.PermittedActions(bill, actor),
	}
}

// respondError maps core errors to HTTP statuses
func respondError(c *gin.Context, logger Logger, err error) {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case errors.Is(err, workflow.ErrValidation):
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, workflow.ErrUnauthorized):
		c.JSON(http.StatusForbidden, Response{Success: false, Error: err.Error()})
	default:
		logger.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal error"})
	}
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/utang_ledger/internal/adapters/notify"
	"github.com/SscSPs/utang_ledger/internal/apperrors"
	"github.com/SscSPs/utang_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/dto"
	"github.com/SscSPs/utang_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	headerStale  = "X-Ledger-Stale"
	headerNotice = "X-Ledger-Notice"

	currentUserKey = "currentUser"
)

// debtHandler serves the debt ledger.
type debtHandler struct {
	ledger    portssvc.LedgerStoreSvc
	lifecycle portssvc.LifecycleSvc
}

func newDebtHandler(ledger portssvc.LedgerStoreSvc, lifecycle portssvc.LifecycleSvc) *debtHandler {
	return &debtHandler{ledger: ledger, lifecycle: lifecycle}
}

// RegisterDebtRoutes registers the debt and item routes on an authenticated group.
func RegisterDebtRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newDebtHandler(services.Ledger, services.Lifecycle)

	gated := rg.Group("", requireUser(services.Session))
	debts := gated.Group("/debts")
	{
		debts.GET("", h.listDebts)
		debts.POST("", h.createDebt)
		debts.POST("/complete", h.completeCreate)
		debts.POST("/:debtID/items", h.addItem)
		debts.POST("/:debtID/recompute", h.recompute)
		debts.POST("/:debtID/pay", h.markPaid)
	}
	gated.PUT("/items/:itemID", h.updateItem)
}

// requireUser rejects requests whose token subject no longer resolves to a user.
func requireUser(session portssvc.SessionSvcFacade) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := session.RequireUser(c.Request.Context())
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	if user, ok := c.Get(currentUserKey); ok {
		if u, ok := user.(*domain.User); ok && u != nil {
			return u.UserID
		}
	}
	userID, _ := middleware.GetUserIDFromContext(c)
	return userID
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name})
		return 0, false
	}
	return id, true
}

// listDebts godoc
// @Summary List debts
// @Description Loads the unpaid or paid debts. If storage is unreachable the last loaded list is returned with X-Ledger-Stale set.
// @Tags debts
// @Produce json
// @Param status query string false "unpaid (default) or paid"
// @Success 200 {object} dto.ListDebtsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts [get]
func (h *debtHandler) listDebts(c *gin.Context) {
	var params dto.ListDebtsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	load, cached := h.ledger.LoadUnpaid, h.ledger.Unpaid
	if params.Status == string(domain.Paid) {
		load, cached = h.ledger.LoadPaid, h.ledger.Paid
	}

	stale := false
	debts, err := load(c.Request.Context())
	if err != nil {
		if !errors.Is(err, apperrors.ErrFetch) {
			respondError(c, err)
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Serving cached debts", slog.String("status", params.Status), slog.String("error", err.Error()))
		debts = cached()
		stale = true
		c.Header(headerStale, "true")
	}

	c.JSON(http.StatusOK, dto.ListDebtsResponse{
		Status: params.Status,
		Stale:  stale,
		Debts:  dto.ToDebtResponses(debts),
	})
}

// createDebt godoc
// @Summary Create a debt
// @Description Stores a new unpaid debt with its items. When only the header could be stored the response is 207 and carries the pending items to send to /debts/complete.
// @Tags debts
// @Accept json
// @Produce json
// @Param debt body dto.CreateDebtRequest true "Debt"
// @Success 201 {object} dto.DebtResponse
// @Success 207 {object} dto.PartialCreateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts [post]
func (h *debtHandler) createDebt(c *gin.Context) {
	var req dto.CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	debt, err := h.ledger.CreateDebt(c.Request.Context(), req, currentUserID(c))
	if err != nil {
		if respondPartial(c, err) {
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDebtResponse(debt))
}

// respondPartial writes a 207 carrying the pending saga record when err is a
// partial create. It reports whether it wrote a response.
func respondPartial(c *gin.Context, err error) bool {
	le, ok := apperrors.AsLedgerError(err)
	if !ok || le.Kind != apperrors.KindPartialCreate {
		return false
	}
	pending, ok := le.Pending.(domain.PendingItems)
	if !ok {
		return false
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Debt stored without its items", slog.Int64("debt_id", pending.DebtID))
	c.JSON(http.StatusMultiStatus, dto.PartialCreateResponse{
		Error:   le.Error(),
		Pending: pending,
	})
	return true
}

// completeCreate godoc
// @Summary Complete a partial create
// @Description Stores the pending items returned by a 207 from POST /debts.
// @Tags debts
// @Accept json
// @Produce json
// @Param pending body domain.PendingItems true "Pending items"
// @Success 200 {object} dto.DebtResponse
// @Success 207 {object} dto.PartialCreateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/complete [post]
func (h *debtHandler) completeCreate(c *gin.Context) {
	var pending domain.PendingItems
	if err := c.ShouldBindJSON(&pending); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	debt, err := h.ledger.CompletePartialCreate(c.Request.Context(), pending)
	if err != nil {
		// Input and state problems are final; storage failures can be retried.
		if statusForCause(err) == http.StatusInternalServerError && respondPartial(c, err) {
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// statusForCause maps err ignoring the partial-create kind.
func statusForCause(err error) int {
	if le, ok := apperrors.AsLedgerError(err); ok && le.Err != nil {
		return statusForError(le.Err)
	}
	return statusForError(err)
}

// addItem godoc
// @Summary Add an item to a debt
// @Tags debts
// @Accept json
// @Produce json
// @Param debtID path int true "Debt ID"
// @Param item body dto.ItemRequest true "Item"
// @Success 201 {object} dto.ItemResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Debt already paid"
// @Security BearerAuth
// @Router /debts/{debtID}/items [post]
func (h *debtHandler) addItem(c *gin.Context) {
	debtID, ok := parseIDParam(c, "debtID")
	if !ok {
		return
	}
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	item, err := h.ledger.AddItem(c.Request.Context(), debtID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToItemResponse(item))
}

// updateItem godoc
// @Summary Update an item
// @Description Patches an item and recomputes its debt's total. With recompute=false only the patch is applied.
// @Tags debts
// @Accept json
// @Produce json
// @Param itemID path int true "Item ID"
// @Param recompute query bool false "Recompute the debt total (default true)"
// @Param item body dto.ItemRequest true "Item"
// @Success 200 {object} dto.DebtResponse
// @Success 204 "Patched without recompute"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Debt already paid"
// @Security BearerAuth
// @Router /items/{itemID} [put]
func (h *debtHandler) updateItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}
	recompute := true
	if raw := c.Query("recompute"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid recompute flag"})
			return
		}
		recompute = parsed
	}
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if !recompute {
		if err := h.ledger.UpdateItem(c.Request.Context(), itemID, req); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
		return
	}

	debt, err := h.ledger.UpdateItemAndRecompute(c.Request.Context(), itemID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// recompute godoc
// @Summary Recompute a debt total
// @Description Rewrites the total as the sum of amount times quantity over the current items.
// @Tags debts
// @Produce json
// @Param debtID path int true "Debt ID"
// @Success 200 {object} dto.DebtResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Debt already paid"
// @Security BearerAuth
// @Router /debts/{debtID}/recompute [post]
func (h *debtHandler) recompute(c *gin.Context) {
	debtID, ok := parseIDParam(c, "debtID")
	if !ok {
		return
	}
	debt, err := h.ledger.RepairTotal(c.Request.Context(), debtID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToDebtResponse(debt))
}

// markPaid godoc
// @Summary Mark a debt paid
// @Description Irreversible. The client must show the prompt and send confirm=true; without it nothing changes and the prompt is returned.
// @Tags debts
// @Accept json
// @Produce json
// @Param debtID path int true "Debt ID"
// @Param confirmation body dto.MarkPaidRequest true "Confirmation"
// @Success 200 {object} dto.MarkPaidResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /debts/{debtID}/pay [post]
func (h *debtHandler) markPaid(c *gin.Context) {
	debtID, ok := parseIDParam(c, "debtID")
	if !ok {
		return
	}
	var req dto.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	ctx, recorder := notify.WithRecorder(c.Request.Context())
	confirmer := &requestConfirmer{confirmed: req.Confirm}

	debt, err := h.lifecycle.MarkPaid(ctx, debtID, confirmer)
	if last, ok := recorder.Last(); ok {
		c.Header(headerNotice, last.Title+": "+last.Message)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.MarkPaidResponse{Confirmed: debt != nil, Prompt: confirmer.prompt}
	if debt != nil {
		out := dto.ToDebtResponse(debt)
		resp.Debt = &out
	}
	c.JSON(http.StatusOK, resp)
}

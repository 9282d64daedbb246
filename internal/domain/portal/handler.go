package portal

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workerhealth/hid/internal/domain/account"
	"github.com/workerhealth/hid/internal/platform/auth"
)

// Handler exposes the portal operations over HTTP.
type Handler struct {
	svc    *Service
	tokens *auth.Tokens
}

// NewHandler creates a handler issuing session tokens with tokens.
func NewHandler(svc *Service, tokens *auth.Tokens) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

// RegisterRoutes mounts every portal route on e.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/login", h.Login)
	e.POST("/signup", h.Signup)

	admin := e.Group("/admin")
	admin.POST("/register_worker", h.RegisterWorker)

	doctor := e.Group("/doctor")
	doctor.POST("/add_record", h.AddRecord)
	doctor.POST("/get_patient", h.GetPatient)

	worker := e.Group("/worker")
	worker.GET("/dashboard", h.WorkerDashboard)
}

// Login handles POST /login.
func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	a, err := h.svc.Login(c.Request().Context(), req.Phone)
	if err != nil {
		return httpError(err)
	}
	token, err := h.tokens.Issue(a.ID, a.Role)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loginResponse{Role: string(a.Role), Token: token})
}

// Signup handles POST /signup.
func (h *Handler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	enr, err := h.svc.Signup(c.Request().Context(), req.Name, req.Phone, account.Role(req.Role), req.Language)
	if err != nil {
		return httpError(err)
	}
	token, err := h.tokens.Issue(enr.Account.ID, enr.Account.Role)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, signupResponse{
		Role:     string(enr.Account.Role),
		HealthID: enr.HealthID,
		Token:    token,
	})
}

// RegisterWorker handles POST /admin/register_worker.
func (h *Handler) RegisterWorker(c echo.Context) error {
	var req registerWorkerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	ctx := c.Request().Context()
	enr, err := h.svc.RegisterWorker(ctx, auth.PrincipalFromContext(ctx), req.Name, req.Phone, req.Language)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, registerWorkerResponse{HealthID: enr.HealthID})
}

// AddRecord handles POST /doctor/add_record.
func (h *Handler) AddRecord(c echo.Context) error {
	var req addRecordRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	ctx := c.Request().Context()
	if _, err := h.svc.AddRecord(ctx, auth.PrincipalFromContext(ctx), req.HealthID, req.Fields); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "record added"})
}

// GetPatient handles POST /doctor/get_patient.
func (h *Handler) GetPatient(c echo.Context) error {
	var req getPatientRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("malformed request body")
	}
	ctx := c.Request().Context()
	view, err := h.svc.GetPatient(ctx, auth.PrincipalFromContext(ctx), req.HealthID, req.Limit)
	if err != nil {
		return httpError(err)
	}

	history := make([]*recordResponse, len(view.History))
	for i, r := range view.History {
		history[i] = toRecordResponse(r)
	}
	return c.JSON(http.StatusOK, patientResponse{
		Name:     view.Account.Name,
		Phone:    view.Account.Phone,
		Language: view.Account.Language,
		HealthID: view.HealthID,
		History:  history,
	})
}

// WorkerDashboard handles GET /worker/dashboard.
func (h *Handler) WorkerDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	d, err := h.svc.WorkerDashboard(ctx, auth.PrincipalFromContext(ctx))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, toDashboardResponse(d))
}

// Package rest exposes the POS screens over HTTP as JSON view-models.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/ndavydov/gopos/internal/billing"
	"github.com/ndavydov/gopos/internal/cart"
	"github.com/ndavydov/gopos/internal/pos"
	"github.com/ndavydov/gopos/internal/view"
	"github.com/ndavydov/gopos/pkg/web"
)

// POSService defines the POS screen operations.
type POSService interface {
	LoadPOS(ctx context.Context, sess *pos.Session) (view.POSView, error)
	ShowPOS(sess *pos.Session, query string) view.POSView
	OpenPrompt(sess *pos.Session, productID int64, editMode bool) (view.PromptView, error)
	ConfirmPrompt(sess *pos.Session, rawQuantity string) (view.POSView, error)
	CancelPrompt(sess *pos.Session) view.POSView
	RemoveLine(sess *pos.Session, productID int64) view.POSView
	Checkout(ctx context.Context, sess *pos.Session) (view.POSView, error)
}

// BillingClient is the slice of the billing API consumed outside the POS
// flow: product management, dashboard stats and login.
type BillingClient interface {
	ListProducts(ctx context.Context) ([]billing.Product, error)
	CreateProduct(ctx context.Context, product billing.ProductCreate) (*billing.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	DashboardStats(ctx context.Context) (*billing.Stats, error)
	Login(ctx context.Context, creds billing.Credentials) (*billing.LoginResult, error)
}

type Handler struct {
	pos        POSService
	billing    BillingClient
	sessions   *pos.Manager
	validate   *validator.Validate
	logger     *slog.Logger
	cookieName string
	loginURL   string
}

// NewHandler creates the HTTP handler for the POS front end.
func NewHandler(posService POSService, billingClient BillingClient, sessions *pos.Manager, cookieName, loginURL string, logger *slog.Logger) *Handler {
	return &Handler{
		pos:        posService,
		billing:    billingClient,
		sessions:   sessions,
		validate:   validator.New(),
		logger:     logger.With("component", "rest"),
		cookieName: cookieName,
		loginURL:   loginURL,
	}
}

// RegisterRoutes registers the HTTP routes for the POS front end.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/session", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(h.SessionGate)

			r.Delete("/session", h.Logout)
			r.Get("/dashboard", h.Dashboard)

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListProducts)
				r.Post("/", h.CreateProduct)
				r.Delete("/{id}", h.DeleteProduct)
			})

			r.Route("/pos", func(r chi.Router) {
				r.Post("/", h.LoadPOS)
				r.Get("/", h.ShowPOS)
				r.Post("/prompt", h.OpenPrompt)
				r.Post("/prompt/confirm", h.ConfirmPrompt)
				r.Delete("/prompt", h.CancelPrompt)
				r.Delete("/cart/{id}", h.RemoveLine)
				r.Post("/checkout", h.Checkout)
			})
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

type loginRequest struct {
	ShopName string `json:"shopName" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates against the billing API and starts a POS session
// backed by an HTTP-only cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, req) {
		return
	}

	result, err := h.billing.Login(r.Context(), billing.Credentials{
		ShopName: req.ShopName,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Login request to billing API failed", "error", err)
		web.RespondError(w, mLogger, http.StatusBadGateway, "Billing service unavailable")
		return
	}
	if !result.Success {
		message := result.Message
		if message == "" {
			message = "Login failed"
		}
		mLogger.WarnContext(r.Context(), "Login rejected", "user", req.Username)
		web.RespondError(w, mLogger, http.StatusUnauthorized, message)
		return
	}

	sess := h.sessions.Create(result.User.Username)
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	mLogger.InfoContext(r.Context(), "Session started", "user", result.User.Username)
	web.RespondJSON(w, mLogger, http.StatusCreated, map[string]any{
		"user": result.User,
		"shop": result.Shop,
	})
}

// Logout drops the session and expires the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	sess := sessionFrom(r.Context())
	h.sessions.Delete(sess.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	mLogger.InfoContext(r.Context(), "Session ended", "user", sess.Username)
	w.WriteHeader(http.StatusNoContent)
}

// Dashboard renders the dashboard screen from billing aggregates.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	stats, err := h.billing.DashboardStats(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error fetching dashboard stats", "error", err)
		web.RespondError(w, mLogger, http.StatusBadGateway, "Failed to load dashboard statistics")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, view.BuildDashboard(*stats))
}

// ListProducts renders the product management screen.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	products, err := h.billing.ListProducts(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error fetching products", "error", err)
		web.RespondError(w, mLogger, http.StatusBadGateway, "Failed to load products")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, view.BuildProductList(products))
}

type productCreateRequest struct {
	Name  string      `json:"name"  validate:"required,max=100"`
	Price json.Number `json:"price" validate:"required"`
	Stock int64       `json:"stock" validate:"gte=0"`
}

// CreateProduct registers a new product with the billing API.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req productCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, req) {
		return
	}
	price, err := decimalFromNumber(req.Price)
	if err != nil || price.IsNegative() {
		mLogger.WarnContext(r.Context(), "Invalid product price", "price", req.Price)
		web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{
			"validation_errors": map[string]string{"Price": "failed on rule: gte"},
		})
		return
	}

	created, err := h.billing.CreateProduct(r.Context(), billing.ProductCreate{
		Name:  req.Name,
		Price: price,
		Stock: req.Stock,
	})
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusBadGateway, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// DeleteProduct removes a product via the billing API.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	if err := h.billing.DeleteProduct(r.Context(), id); err != nil {
		var apiErr *billing.Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusBadGateway, "Failed to delete product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// LoadPOS reloads the catalog and resets the cart for a fresh POS screen.
func (h *Handler) LoadPOS(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	screen, err := h.pos.LoadPOS(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error loading POS screen", "error", err)
		web.RespondError(w, mLogger, http.StatusBadGateway, "Failed to load POS system")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, screen)
}

// ShowPOS renders the POS screen with an optional search filter.
func (h *Handler) ShowPOS(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	screen := h.pos.ShowPOS(sessionFrom(r.Context()), r.URL.Query().Get("query"))
	web.RespondJSON(w, mLogger, http.StatusOK, screen)
}

type promptOpenRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Edit      bool  `json:"edit"`
}

// OpenPrompt opens the quantity dialog for a product.
func (h *Handler) OpenPrompt(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req promptOpenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !h.validateStruct(w, r, mLogger, req) {
		return
	}
	prompt, err := h.pos.OpenPrompt(sessionFrom(r.Context()), req.ProductID, req.Edit)
	if err != nil {
		h.respondPOSError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, prompt)
}

type promptConfirmRequest struct {
	// Quantity is the raw input field content; parsing is part of the
	// validation contract.
	Quantity string `json:"quantity"`
}

// ConfirmPrompt commits the prompt's quantity into the cart.
func (h *Handler) ConfirmPrompt(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req promptConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	screen, err := h.pos.ConfirmPrompt(sessionFrom(r.Context()), req.Quantity)
	if err != nil {
		h.respondPOSError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, screen)
}

// CancelPrompt discards the pending prompt.
func (h *Handler) CancelPrompt(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	screen := h.pos.CancelPrompt(sessionFrom(r.Context()))
	web.RespondJSON(w, mLogger, http.StatusOK, screen)
}

// RemoveLine removes a line from the bill.
func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	screen := h.pos.RemoveLine(sessionFrom(r.Context()), id)
	web.RespondJSON(w, mLogger, http.StatusOK, screen)
}

// Checkout submits the current bill.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	screen, err := h.pos.Checkout(r.Context(), sessionFrom(r.Context()))
	if err != nil {
		h.respondPOSError(w, r, mLogger, err)
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, screen)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// respondPOSError maps cart and checkout errors to user-facing responses.
// None of these are fatal; the cart state is unchanged unless the
// operation says otherwise.
func (h *Handler) respondPOSError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrNoPrompt):
		mLogger.WarnContext(r.Context(), "Rejected POS operation", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, userMessage(err))
	case errors.Is(err, cart.ErrStockExceeded),
		errors.Is(err, pos.ErrCheckoutInFlight):
		mLogger.WarnContext(r.Context(), "Rejected POS operation", "error", err)
		web.RespondError(w, mLogger, http.StatusConflict, userMessage(err))
	case errors.Is(err, pos.ErrProductNotFound):
		mLogger.WarnContext(r.Context(), "Product not found", "error", err)
		web.RespondError(w, mLogger, http.StatusNotFound, userMessage(err))
	default:
		mLogger.ErrorContext(r.Context(), "POS operation failed", "error", err)
		web.RespondError(w, mLogger, http.StatusBadGateway, "Billing service unavailable")
	}
}

// userMessage strips wrapping context and returns the sentinel's message,
// which is what the operator should see.
func userMessage(err error) string {
	for _, sentinel := range []error{
		cart.ErrInvalidQuantity,
		cart.ErrStockExceeded,
		cart.ErrEmptyCart,
		cart.ErrNoPrompt,
		pos.ErrProductNotFound,
		pos.ErrCheckoutInFlight,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// validateStruct runs struct validation and writes a per-field error map
// on failure. Returns true when the payload is valid.
func (h *Handler) validateStruct(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, payload any) bool {
	if err := h.validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID, _ := web.GetRequestID(r.Context())
	return h.logger.With("request_id", reqID)
}

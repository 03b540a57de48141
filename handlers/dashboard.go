package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"scribebackend/appctx"
	"scribebackend/core"
	"scribebackend/middleware"
	"scribebackend/models/api"
	"scribebackend/services"
	"scribebackend/usecases/dashboard"
)

const (
	dashboardTimeout          = 10 * time.Second
	defaultNotificationsLimit = 20
)

type DashboardHTTPHandler struct {
	dashboardUseCase     *dashboard.DashboardUseCase
	notificationsService services.NotificationsService
}

func NewDashboardHTTPHandler(
	dashboardUseCase *dashboard.DashboardUseCase,
	notificationsService services.NotificationsService,
) *DashboardHTTPHandler {
	return &DashboardHTTPHandler{
		dashboardUseCase:     dashboardUseCase,
		notificationsService: notificationsService,
	}
}

func (h *DashboardHTTPHandler) HandleUserAuthenticate(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 User authentication request received from %s", r.RemoteAddr)

	// Get user entity from context (set by authentication middleware)
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	log.Printf("✅ User data retrieved from context: %s", user.ID)
	writeJSONResponse(w, http.StatusOK, api.DomainUserToAPIUser(user))
}

func (h *DashboardHTTPHandler) HandleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	log.Printf("👤 Get user profile request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	log.Printf("✅ User profile retrieved from context: %s (email: %s)", user.ID, user.Email)
	writeJSONResponse(w, http.StatusOK, api.DomainUserToAPIUser(user))
}

func (h *DashboardHTTPHandler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	log.Printf("📊 Dashboard request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	// The dashboard fans out to every table; a slow sub-fetch must not pin
	// the connection indefinitely.
	ctx, cancel := context.WithTimeout(r.Context(), dashboardTimeout)
	defer cancel()

	data := h.dashboardUseCase.GetDashboard(ctx, user)
	writeJSONResponse(w, http.StatusOK, data)
}

func (h *DashboardHTTPHandler) HandleListNotifications(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔔 List notifications request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	limit := parseLimitParam(r, defaultNotificationsLimit)
	notifications, err := h.notificationsService.ListNotifications(r.Context(), user.ID, limit)
	if err != nil {
		log.Printf("❌ Failed to list notifications: %v", err)
		writeErrorResponse(w, "failed to list notifications", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, notifications)
}

func (h *DashboardHTTPHandler) HandleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔔 Mark notification read request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	notificationID, ok := vars["id"]
	if !ok || !core.IsValidID(notificationID) {
		log.Printf("❌ Missing or invalid notification ID in URL path")
		writeErrorResponse(w, "notification ID must be a valid prefixed ULID", http.StatusBadRequest)
		return
	}

	if err := h.notificationsService.MarkNotificationRead(r.Context(), notificationID, user.ID); err != nil {
		log.Printf("❌ Failed to mark notification read: %v", err)
		if core.IsNotFoundError(err) {
			writeErrorResponse(w, "notification not found", http.StatusNotFound)
		} else {
			writeErrorResponse(w, "failed to mark notification read", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Notification marked read: %s", notificationID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *DashboardHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SupabaseAuthMiddleware) {
	router.HandleFunc("/users/authenticate", authMiddleware.WithAuth(h.HandleUserAuthenticate)).Methods("POST")
	log.Printf("✅ POST /users/authenticate endpoint registered")

	router.HandleFunc("/users/profile", authMiddleware.WithAuth(h.HandleGetUserProfile)).Methods("GET")
	log.Printf("✅ GET /users/profile endpoint registered")

	router.HandleFunc("/dashboard", authMiddleware.WithAuth(h.HandleGetDashboard)).Methods("GET")
	log.Printf("✅ GET /dashboard endpoint registered")

	router.HandleFunc("/notifications", authMiddleware.WithAuth(h.HandleListNotifications)).Methods("GET")
	log.Printf("✅ GET /notifications endpoint registered")

	router.HandleFunc("/notifications/{id}/read", authMiddleware.WithAuth(h.HandleMarkNotificationRead)).
		Methods("PUT")
	log.Printf("✅ PUT /notifications/{id}/read endpoint registered")
}

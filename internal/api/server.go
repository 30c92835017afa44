package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/hamzakamil/personelplus/internal/controllers"
	"github.com/hamzakamil/personelplus/internal/entity"
)

type Server struct {
	deps        *controllers.Dependens
	Controllers *controllers.Controllers
}

func NewServer(deps *controllers.Dependens) *Server {
	return &Server{
		deps:        deps,
		Controllers: controllers.NewControllers(deps),
	}
}

// RegisterRoutes attaches all handlers to the router built in main.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.AuthLogin)
		r.Post("/auth/logout", s.AuthLogout)
		r.Post("/auth/refresh", s.AuthRefresh)
		r.Get("/auth/verify", s.AuthVerify)

		r.Route("/companies", func(r chi.Router) {
			r.Get("/", s.GetCompanies)
			r.Post("/", s.CreateCompany)
			r.Get("/{id}", s.GetCompanyByID)
			r.Put("/{id}", s.UpdateCompany)
			r.Delete("/{id}", s.DeleteCompany)
			r.Post("/{id}/approval-chains/resolve", s.ResolveCompanyChains)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", s.GetEmployees)
			r.Post("/", s.CreateEmployee)
			r.Get("/{id}", s.GetEmployeesByID)
			r.Put("/{id}", s.UpdateEmployee)
			r.Delete("/{id}", s.DeleteEmployee)
			r.Get("/{id}/approval-chain", s.GetApprovalChain)
			r.Post("/{id}/approval-chain/resolve", s.ResolveApprovalChain)
		})

		r.Route("/departments", func(r chi.Router) {
			r.Get("/", s.GetDepartments)
			r.Post("/", s.CreateDepartment)
			r.Get("/{id}", s.GetDepartmentByID)
			r.Put("/{id}", s.UpdateDepartment)
			r.Delete("/{id}", s.DeleteDepartment)
		})

		r.Route("/workplaces", func(r chi.Router) {
			r.Get("/", s.GetWorkplaces)
			r.Post("/", s.CreateWorkplace)
			r.Get("/{id}", s.GetWorkplaceByID)
			r.Put("/{id}", s.UpdateWorkplace)
			r.Delete("/{id}", s.DeleteWorkplace)
		})

		r.Route("/sections", func(r chi.Router) {
			r.Get("/", s.GetSections)
			r.Post("/", s.CreateSection)
			r.Get("/{id}", s.GetSectionByID)
			r.Put("/{id}", s.UpdateSection)
			r.Delete("/{id}", s.DeleteSection)
		})

		r.Route("/advances", func(r chi.Router) {
			r.Get("/", s.GetAdvances)
			r.Post("/", s.CreateAdvance)
			r.Get("/{id}", s.GetAdvanceByID)
			r.Post("/{id}/approve", s.ApproveAdvance)
			r.Post("/{id}/reject", s.RejectAdvance)
			r.Post("/{id}/cancel", s.CancelAdvance)
			r.Get("/{id}/installments", s.GetInstallments)
		})

		r.Route("/prerecords", func(r chi.Router) {
			r.Get("/", s.GetPrerecords)
			r.Post("/", s.CreatePrerecord)
			r.Get("/{id}", s.GetPrerecordByID)
			r.Post("/{id}/approve", s.ApprovePrerecord)
			r.Post("/{id}/reject", s.RejectPrerecord)
			r.Post("/{id}/request-revision", s.RequestRevision)
			r.Post("/{id}/resubmit", s.ResubmitPrerecord)
			r.Post("/{id}/request-cancellation", s.RequestCancellation)
			r.Post("/{id}/resolve-cancellation", s.ResolveCancellation)
			r.Post("/{id}/cancel", s.CancelPrerecord)
			r.Get("/{id}/events", s.GetPrerecordEvents)
		})
	})
}

// getUserFromToken extracts user information from the token.
func (s *Server) getUserFromToken(r *http.Request) (*entity.Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.deps.Logger.Error("Authorization header missing")
		return nil, errors.New("authorization header missing")
	}

	claims, err := s.Controllers.AuthController.CheckUserToken(authHeader)
	if err != nil {
		s.deps.Logger.Error("Error checking token", slog.String("error", err.Error()))
		return nil, err
	}

	return claims, nil
}

// checkAuthUser validates the bearer token and returns the caller's claims,
// used as the actor identity by the workflow handlers.
func (s *Server) checkAuthUser(r *http.Request) (*entity.Claims, error) {
	user, err := s.getUserFromToken(r)
	if err != nil {
		s.deps.Logger.Warn("Unauthorized request attempt", slog.String("error", err.Error()))
		return nil, errors.New("error getting user from token")
	}

	return user, nil
}

// AuthLogin authenticates a user and returns a JWT token.
func (s *Server) AuthLogin(w http.ResponseWriter, r *http.Request) {
	var req entity.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.deps.Logger.Error("Error decoding request body", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"}, "error")
		return
	}

	accessToken, refreshToken, err := s.Controllers.AuthController.AuthLogin(&req)
	if err != nil {
		s.deps.Logger.Error("Error logging in", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, map[string]string{"error": err.Error()}, "error")
		return
	}

	s.httpResponse(w, http.StatusOK, entity.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, "success")
}

// AuthLogout make logout user.
func (s *Server) AuthLogout(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

	ctx := context.Background()
	if err := s.deps.Redis.Del(ctx, "access_token:"+tokenStr).Err(); err != nil {
		s.deps.Logger.Error("Error deleting access token from Redis", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusInternalServerError, "Failed to logout", "error")
		return
	}

	if err := s.deps.Redis.Del(ctx, "refresh_token:*").Err(); err != nil {
		s.deps.Logger.Error("Error deleting refresh tokens from Redis", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusInternalServerError, "Failed to logout", "error")
		return
	}

	s.httpResponse(w, http.StatusOK, map[string]string{"message": "Logged out successfully"}, "success")
}

// AuthRefresh exchanges a refresh token for a new token pair.
func (s *Server) AuthRefresh(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.httpResponse(w, http.StatusUnauthorized, map[string]string{"error": "Authorization header missing"}, "error")
		return
	}

	accessToken, refreshToken, err := s.Controllers.AuthController.AuthRefresh(authHeader)
	if err != nil {
		s.deps.Logger.Error("Error refreshing token", slog.String("error", err.Error()))
		s.httpResponse(w, http.StatusUnauthorized, map[string]string{"error": err.Error()}, "error")
		return
	}

	s.httpResponse(w, http.StatusOK, entity.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, "success")
}

// AuthVerify returns the claims of a valid access token.
func (s *Server) AuthVerify(w http.ResponseWriter, r *http.Request) {
	user, err := s.checkAuthUser(r)
	if err != nil {
		s.httpResponse(w, http.StatusUnauthorized, map[string]string{"error": err.Error()}, "error")
		return
	}

	s.httpResponse(w, http.StatusOK, user, "success")
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (uint64, error) {
	return strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
}

func queryUint64(r *http.Request, key string) *uint64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil
	}

	return &v
}

func queryString(r *http.Request, key string) *string {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}

	return &raw
}

// controllerError maps the controller sentinel errors onto HTTP statuses.
func (s *Server) controllerError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, controllers.ErrNotFound):
		s.httpResponse(w, http.StatusNotFound, err.Error(), "error")
	case errors.Is(err, controllers.ErrPermission):
		s.httpResponse(w, http.StatusForbidden, err.Error(), "error")
	case errors.Is(err, controllers.ErrNotPending):
		s.httpResponse(w, http.StatusConflict, err.Error(), "error")
	default:
		s.httpResponse(w, http.StatusInternalServerError, fallback, "error")
	}
}

func (s *Server) httpResponse(w http.ResponseWriter, status int, data any, respType string) {
	resp := map[string]any{
		"status": status,
		"type":   respType,
		"data":   data,
	}

	respData, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		s.deps.Logger.Error("Error marshaling response", slog.String("error", marshalErr.Error()))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(respData); err != nil {
		s.deps.Logger.Error("Error writing response", slog.String("error", err.Error()))
	}
}

package mockapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/smarthealth/internal/middleware"
	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/pkg/httputil"
	"github.com/jwalitptl/smarthealth/pkg/security"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerBody struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Gender          string `json:"gender"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type passwordBody struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      Record    `json:"user"`
}

func (s *Server) login(c *gin.Context) {
	var body loginBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Email == "" || body.Password == "" {
		httputil.RespondWithError(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, ok := s.store.FindBy(collUsers, "email", body.Email, true)
	if !ok {
		httputil.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	hash, _ := u["passwordHash"].(string)
	if hash == "" || s.hasher.Compare(hash, body.Password) != nil {
		httputil.RespondWithError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if stringify(u["status"]) != model.UserStatusActive {
		httputil.RespondWithError(c, http.StatusForbidden, "Account is not active")
		return
	}

	s.respondToken(c, clone(u, false))
}

func (s *Server) register(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Password != body.ConfirmPassword {
		httputil.RespondWithError(c, http.StatusBadRequest, "Passwords do not match")
		return
	}
	rec := Record{
		"fullName": body.FullName,
		"email":    body.Email,
		"phone":    body.Phone,
		"gender":   body.Gender,
		"password": body.Password,
	}
	if err := s.preparePassword(collUsers, rec, true); err != nil {
		respondErr(c, err)
		return
	}

	u, err := s.store.Create(collUsers, rec, Record{"role": model.RolePatient})
	if err != nil {
		respondErr(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, u)
}

func (s *Server) account(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	u, err := s.store.Get(collUsers, claims.UserID(), nil)
	if err != nil {
		httputil.RespondWithError(c, http.StatusUnauthorized, "Account not found")
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, u)
}

func (s *Server) logout(c *gin.Context) {
	s.tokens.Revoke(middleware.ClaimsFrom(c))
	c.Status(http.StatusNoContent)
}

func (s *Server) refresh(c *gin.Context) {
	claims := middleware.ClaimsFrom(c)
	u, err := s.store.Get(collUsers, claims.UserID(), nil)
	if err != nil {
		httputil.RespondWithError(c, http.StatusUnauthorized, "Account not found")
		return
	}
	s.tokens.Revoke(claims)
	s.respondToken(c, u)
}

func (s *Server) changePassword(c *gin.Context) {
	var body passwordBody
	if err := c.ShouldBindJSON(&body); err != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := middleware.ClaimsFrom(c).UserID()
	u, ok := s.store.Secret(collUsers, id)
	if !ok {
		httputil.RespondWithError(c, http.StatusUnauthorized, "Account not found")
		return
	}
	hash, _ := u["passwordHash"].(string)
	if hash == "" || s.hasher.Compare(hash, body.CurrentPassword) != nil {
		httputil.RespondWithError(c, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	if body.NewPassword != body.ConfirmPassword {
		httputil.RespondWithError(c, http.StatusBadRequest, "Passwords do not match")
		return
	}

	patch := Record{"password": body.NewPassword}
	if err := s.preparePassword(collUsers, patch, true); err != nil {
		respondErr(c, err)
		return
	}
	if _, err := s.store.Update(collUsers, id, patch, nil); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) respondToken(c *gin.Context, u Record) {
	id, _ := toID(u["id"])
	token, exp, err := s.tokens.GenerateAccessToken(id, stringify(u["role"]))
	if err != nil {
		respondErr(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, tokenResponse{Token: token, ExpiresAt: exp.UTC(), User: u})
}

// preparePassword replaces a plain password in body with its bcrypt hash.
// Other collections only get client-supplied hashes stripped.
func (s *Server) preparePassword(coll string, body Record, required bool) error {
	plain, _ := body["password"].(string)
	delete(body, "password")
	delete(body, "confirmPassword")
	delete(body, "passwordHash")
	if coll != collUsers {
		return nil
	}
	if plain == "" {
		if required {
			return errBadRequest("password is required")
		}
		return nil
	}

	hash, err := s.hasher.Hash(plain)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooWeak) {
			return errBadRequest("Password must be at least %d characters long", security.MinPasswordLen)
		}
		return err
	}
	body["passwordHash"] = hash
	return nil
}

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"
	"unicode"

	"github.com/healthsync/healthsync/internal/common"
	"github.com/healthsync/healthsync/internal/server/models"
	"github.com/healthsync/healthsync/internal/server/services"
)

const (
	minPasswordLength = 8
	maxTimezoneLength = 50
	dateLayout        = "2006-01-02"
)

// AuthHandler serves account registration and login.
type AuthHandler struct {
	accounts *services.AccountService
}

func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type registerRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	BirthDate *string `json:"birth_date"`
	Timezone  string  `json:"timezone"`
}

type accountView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Age       *int      `json:"age"`
	IsActive  bool      `json:"is_active"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
}

func newAccountView(a *models.Account) accountView {
	view := accountView{
		ID:        a.ID,
		Email:     a.Email,
		IsActive:  a.IsActive,
		Timezone:  a.Timezone,
		CreatedAt: a.CreatedAt,
	}
	if age, ok := a.Age(time.Now().UTC()); ok {
		view.Age = &age
	}
	return view
}

func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) error {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ErrBadRequest("invalid request payload")
	}
	defer r.Body.Close()

	if err := validateEmail(req.Email); err != nil {
		return ErrBadRequest(err.Error())
	}
	if err := validatePassword(req.Password); err != nil {
		return ErrBadRequest(err.Error())
	}

	var birthDate *time.Time
	if req.BirthDate != nil && *req.BirthDate != "" {
		parsed, err := time.Parse(dateLayout, *req.BirthDate)
		if err != nil {
			return ErrBadRequest("birth_date must be formatted as YYYY-MM-DD")
		}
		birthDate = &parsed
	}

	if req.Timezone != "" {
		if err := validateTimezone(req.Timezone); err != nil {
			return ErrBadRequest(err.Error())
		}
	}

	account, err := h.accounts.Register(r.Context(), services.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		BirthDate: birthDate,
		Timezone:  req.Timezone,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return ErrBadRequest("email already registered")
		}
		return err
	}

	return RespondWithJSON(w, http.StatusCreated, newAccountView(account))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) error {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return ErrBadRequest("invalid request payload")
	}
	defer r.Body.Close()

	token, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return ErrUnauthorized("incorrect email or password")
		}
		return err
	}

	return RespondWithJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("email is not a valid address")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.New("password must contain an uppercase letter, a lowercase letter, and a digit")
	}
	return nil
}

func validateTimezone(tz string) error {
	if len(tz) > maxTimezoneLength {
		return errors.New("timezone must be at most 50 characters")
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return errors.New("timezone is not a recognized IANA zone")
	}
	return nil
}

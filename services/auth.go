package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vihaanharrison/portfolio-backend/config"
	"github.com/vihaanharrison/portfolio-backend/database"
	"github.com/vihaanharrison/portfolio-backend/errs"
	"github.com/vihaanharrison/portfolio-backend/models"
)

// AuthService owns admin sign-in, on-the-fly provisioning, role
// materialization and session tokens. The allow-list is the single source
// of truth for which emails may ever hold the admin role; it is re-checked
// server-side on every grant.
type AuthService struct {
	accounts *database.AccountRepo
	roles    *database.RoleRepo

	allowedEmails    []string
	fallbackPassword string
	accessCode       string
	jwtSecret        []byte
	tokenTTL         time.Duration
}

// NewAuthService wires the service from config. Required keys:
// ADMIN_ALLOWED_EMAILS (comma-separated), ADMIN_FALLBACK_PASSWORD,
// JWT_SECRET. Optional: ADMIN_ACCESS_CODE, TOKEN_TTL_HOURS.
func NewAuthService(db database.Database, cfg map[string]string) (*AuthService, error) {
	allowed := config.GetStrings(cfg, "ADMIN_ALLOWED_EMAILS")
	if len(allowed) == 0 {
		return nil, fmt.Errorf("ADMIN_ALLOWED_EMAILS environment variable is required")
	}
	for i, email := range allowed {
		allowed[i] = strings.ToLower(email)
	}

	fallback := config.GetString(cfg, "ADMIN_FALLBACK_PASSWORD", "")
	if fallback == "" {
		return nil, fmt.Errorf("ADMIN_FALLBACK_PASSWORD environment variable is required")
	}
	secret := config.GetString(cfg, "JWT_SECRET", "")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	return &AuthService{
		accounts:         db.AccountRepo(),
		roles:            db.RoleRepo(),
		allowedEmails:    allowed,
		fallbackPassword: fallback,
		accessCode:       config.GetString(cfg, "ADMIN_ACCESS_CODE", ""),
		jwtSecret:        []byte(secret),
		tokenTTL:         time.Duration(config.GetInt(cfg, "TOKEN_TTL_HOURS", 24)) * time.Hour,
	}, nil
}

// EmailAllowed reports whether an email may ever hold the admin role.
func (a *AuthService) EmailAllowed(email string) bool {
	normalized := strings.ToLower(strings.TrimSpace(email))
	for _, allowed := range a.allowedEmails {
		if allowed == normalized {
			return true
		}
	}
	return false
}

// SignIn authenticates an admin by email and password.
//
// The refusal for a disallowed email is distinct from a wrong password: a
// disallowed email is refused before any credential check, even if the
// password matches the fallback secret. An allow-listed email with no
// account yet is provisioned on the fly with the fallback secret and
// signed in, so the first successful sign-in self-registers that admin.
func (a *AuthService) SignIn(email, password string) (*models.Account, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if !a.EmailAllowed(normalized) {
		return nil, errs.NewEmailNotAllowedError()
	}

	account, err := a.accounts.FindByEmail(normalized)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "account", err)
	}

	if account == nil {
		account, err = a.provision(normalized)
		if err != nil {
			return nil, err
		}
	} else if account.CheckPassword(password) != nil {
		return nil, errs.NewBadCredentialsError()
	}

	if err := a.EnsureAdminRole(account); err != nil {
		return nil, err
	}
	return account, nil
}

// SignInWithCode authenticates via the shared access code, signing in as
// the designated fallback admin identity (the first allow-listed email).
func (a *AuthService) SignInWithCode(code string) (*models.Account, error) {
	if a.accessCode == "" {
		return nil, errs.NewInternalError("access code not configured")
	}
	if code != a.accessCode {
		return nil, errs.NewInvalidCodeError()
	}

	email := a.allowedEmails[0]
	account, err := a.accounts.FindByEmail(email)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "account", err)
	}
	if account == nil {
		account, err = a.provision(email)
		if err != nil {
			return nil, err
		}
	}

	if err := a.EnsureAdminRole(account); err != nil {
		return nil, err
	}
	return account, nil
}

// EnsureAdminRole re-checks the allow-list server-side and idempotently
// grants the admin role. It never trusts a client-side admin claim.
func (a *AuthService) EnsureAdminRole(account *models.Account) error {
	if !a.EmailAllowed(account.Email) {
		return errs.NewEmailNotAllowedError()
	}
	if err := a.roles.Grant(account.ID, models.RoleAdmin); err != nil {
		return errs.NewDatabaseError("grant", "role", err)
	}
	return nil
}

// GrantByCode grants the admin role to an already-authenticated account if
// the supplied code matches the server-held secret.
func (a *AuthService) GrantByCode(account *models.Account, code string) error {
	if a.accessCode == "" {
		return errs.NewInternalError("access code not configured")
	}
	if code != a.accessCode {
		return errs.NewInvalidCodeError()
	}
	if err := a.roles.Grant(account.ID, models.RoleAdmin); err != nil {
		return errs.NewDatabaseError("grant", "role", err)
	}
	return nil
}

// IsAdmin re-derives the admin predicate from the role table.
func (a *AuthService) IsAdmin(accountID uuid.UUID) (bool, error) {
	return a.roles.Has(accountID, models.RoleAdmin)
}

// IssueToken signs a session token for an account.
func (a *AuthService) IssueToken(account *models.Account) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   account.ID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ParseToken validates a session token and returns the account it belongs
// to, or nil if the account no longer exists.
func (a *AuthService) ParseToken(tokenString string) (*models.Account, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return a.jwtSecret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, errs.NewInvalidTokenError()
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, errs.NewInvalidTokenError()
	}
	accountID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, errs.NewInvalidTokenError()
	}

	account, err := a.accounts.FindByID(accountID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "account", err)
	}
	if account == nil {
		return nil, errs.NewInvalidTokenError()
	}
	return account, nil
}

// provision creates an account for an allow-listed email using the
// fallback secret.
func (a *AuthService) provision(email string) (*models.Account, error) {
	account := &models.Account{
		ID:        uuid.New(),
		Email:     email,
		CreatedAt: time.Now(),
	}
	if err := account.SetPassword(a.fallbackPassword); err != nil {
		return nil, errs.NewInternalErrorWithCause("failed to provision account", err)
	}
	if err := a.accounts.Add(account); err != nil {
		return nil, errs.NewDatabaseError("create", "account", err)
	}
	log.Info().Str("email", email).Msg("Provisioned admin account")
	return account, nil
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/keywordiq-backend/internal/data/db"
	"github.com/yungbote/keywordiq-backend/internal/data/repos"
	types "github.com/yungbote/keywordiq-backend/internal/domain"
	domainbilling "github.com/yungbote/keywordiq-backend/internal/domain/billing"
	domainuser "github.com/yungbote/keywordiq-backend/internal/domain/user"
	"github.com/yungbote/keywordiq-backend/internal/platform/apierr"
	"github.com/yungbote/keywordiq-backend/internal/platform/ctxutil"
	"github.com/yungbote/keywordiq-backend/internal/platform/dbctx"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

const minPasswordLength = 8

var ErrInvalidToken = errors.New("invalid token")

// CreditGranter credits the signup bonus inside the registration transaction.
type CreditGranter interface {
	Grant(dbc dbctx.Context, userID uuid.UUID, points int, reason string) (*types.Purchase, error)
}

type Config struct {
	JWTSecretKey       string
	AccessTokenTTL     time.Duration
	SignupCreditPoints int
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

type Token struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*Token, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
}

type JWTClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	log     *logger.Logger
	tx      db.TxRunner
	users   repos.UserRepo
	credits CreditGranter
	cfg     Config
}

func NewAuthService(log *logger.Logger, tx db.TxRunner, users repos.UserRepo, credits CreditGranter, cfg Config) AuthService {
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = time.Hour
	}
	return &authService{
		log:     log.With("service", "AuthService"),
		tx:      tx,
		users:   users,
		credits: credits,
		cfg:     cfg,
	}
}

func (as *authService) AccessTTL() time.Duration { return as.cfg.AccessTokenTTL }

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" {
		return nil, apierr.BadRequest("missing_email", fmt.Errorf("an email is required to register"))
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apierr.BadRequest("invalid_email", fmt.Errorf("email is not valid"))
	}
	if len(in.Password) < minPasswordLength {
		return nil, apierr.BadRequest("invalid_password", fmt.Errorf("password must be at least %d characters", minPasswordLength))
	}

	exists, err := as.users.EmailExists(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "email_check_failed", err)
	}
	if exists {
		return nil, apierr.New(http.StatusConflict, "email_taken", fmt.Errorf("email is already in use"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "hash_failed", err)
	}
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		Name:     name,
		Status:   domainuser.StatusActive,
	}
	err = as.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := as.users.Create(dbc, []*types.User{u}); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if as.credits != nil && as.cfg.SignupCreditPoints > 0 {
			if _, err := as.credits.Grant(dbc, u.ID, as.cfg.SignupCreditPoints, domainbilling.ReasonSignup); err != nil {
				return fmt.Errorf("signup credit: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, apierr.New(http.StatusConflict, "email_taken", fmt.Errorf("email is already in use"))
		}
		return nil, apierr.New(http.StatusInternalServerError, "registration_failed", err)
	}
	as.log.Info("User registered", "user_id", u.ID, "signup_points", as.cfg.SignupCreditPoints)
	return u, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*Token, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apierr.BadRequest("missing_credentials", fmt.Errorf("email and password are required"))
	}
	u, err := as.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "login_failed", err)
	}
	if u == nil || u.Status != domainuser.StatusActive {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("invalid email or password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", fmt.Errorf("invalid email or password"))
	}
	tok, err := as.generateAccessToken(u)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "token_failed", err)
	}
	return &Token{AccessToken: tok, ExpiresIn: int(as.cfg.AccessTokenTTL.Seconds())}, nil
}

// SetContextFromToken verifies an access token and attaches the caller to
// ctx's request data.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(as.cfg.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return ctx, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, ErrInvalidToken
	}
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		rd = &ctxutil.RequestData{}
	} else {
		cp := *rd
		rd = &cp
	}
	rd.TokenString = tokenString
	rd.UserID = userID
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) generateAccessToken(u *types.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.cfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.cfg.JWTSecretKey))
}

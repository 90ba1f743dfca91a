package approver

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "cardapp-backend/internal/domain/approver"
	"cardapp-backend/pkg/id"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Usecase struct {
	repo     domain.Repository
	secret   []byte
	tokenTTL time.Duration
}

func NewUsecase(repo domain.Repository, secret []byte, tokenTTL time.Duration) *Usecase {
	if tokenTTL <= 0 {
		tokenTTL = 2 * time.Hour
	}
	return &Usecase{repo: repo, secret: secret, tokenTTL: tokenTTL}
}

// Login checks the bcrypt hash and issues an HS256 token. Unknown email and
// wrong password both surface the same error so the endpoint does not leak
// which accounts exist.
func (u *Usecase) Login(ctx context.Context, in LoginInput) (*LoginDTO, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	a, err := u.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  a.ApproverID,
		"role": a.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(u.tokenTTL).Unix(),
	})
	signed, err := token.SignedString(u.secret)
	if err != nil {
		return nil, err
	}

	return &LoginDTO{
		Token: signed,
		Approver: ApproverDTO{
			ApproverID: a.ApproverID,
			Name:       a.Name,
			Email:      a.Email,
			Role:       a.Role,
		},
	}, nil
}

// EnsureSeed creates the bootstrap approver account when it does not exist
// yet. Called at startup with credentials from the environment.
func (u *Usecase) EnsureSeed(ctx context.Context, name, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	if _, err := u.repo.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return u.repo.Create(ctx, &domain.Approver{
		ApproverID:   id.NewID32(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleApprover,
	})
}

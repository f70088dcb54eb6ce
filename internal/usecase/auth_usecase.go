package usecase

import (
	"context"

	"hospital-queue/internal/delivery/dto"
	"hospital-queue/internal/domain/entity"
	"hospital-queue/internal/service"
	"hospital-queue/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OperatorSubject is the token subject issued to the operator.
const OperatorSubject = "operator"

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	passwordHash string
	jwtService   *jwt.JWTService
	auditService service.AuditService
}

// NewAuthUsecase checks operator passwords against passwordHash, a bcrypt
// hash. An empty hash disables login.
func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	passwordHash string,
	jwtService *jwt.JWTService,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		passwordHash: passwordHash,
		jwtService:   jwtService,
		auditService: auditService,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if u.passwordHash == "" {
		u.log.Warn("Operator login attempted but no password hash is configured")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.passwordHash), []byte(req.Password)); err != nil {
		u.log.Warnf("Operator login rejected: %v", err)
		return nil, ErrInvalidCredentials
	}

	token, tokenID, err := u.jwtService.GenerateAccessToken(OperatorSubject, jwt.RoleOperator)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogEvent(ctx, u.db, OperatorSubject, entity.AuditActionOperatorLogin, entity.JSON{"token_id": tokenID}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

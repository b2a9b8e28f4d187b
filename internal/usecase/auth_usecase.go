package usecase

import (
	"context"
	"log"
	"time"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/domain/repository"
	"teachersgallery/pkg/errors"
)

type AuthUseCase struct {
	authClient FirebaseAuthClient
	userRepo   repository.UserRepository
}

func NewAuthUseCase(authClient FirebaseAuthClient, userRepo repository.UserRepository) *AuthUseCase {
	return &AuthUseCase{
		authClient: authClient,
		userRepo:   userRepo,
	}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	Role     string `json:"role" validate:"required,oneof=teacher student parent"`

	ChildName  string `json:"child_name"`
	ChildGrade string `json:"child_grade"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	if existing, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		log.Printf("Register Error: Email %s already registered", input.Email)
		return nil, errors.Conflict("Email is already registered")
	}

	uid, err := uc.authClient.CreateUser(ctx, input.Email, input.Password, input.FullName)
	if err != nil {
		log.Printf("Register Error: Failed to create auth user for %s: %v", input.Email, err)
		return nil, errors.Internal("Failed to create user account", err)
	}

	user := &entity.User{
		ID:         uid,
		Email:      input.Email,
		FullName:   input.FullName,
		Phone:      input.Phone,
		Role:       input.Role,
		Status:     "active",
		ChildName:  input.ChildName,
		ChildGrade: input.ChildGrade,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		log.Printf("Register Error: Failed to store user record for %s: %v", uid, err)
		return nil, err
	}

	token, err := uc.authClient.GenerateToken(ctx, uid)
	if err != nil {
		log.Printf("Register Error: Failed to generate token for %s: %v", uid, err)
		return nil, errors.Internal("Failed to generate token", err)
	}

	return &AuthResponse{User: user, Token: token}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	idToken, err := uc.authClient.SignInWithEmailPassword(input.Email, input.Password)
	if err != nil {
		log.Printf("Login Error: Sign-in failed for %s: %v", input.Email, err)
		return nil, errors.Unauthorized("Invalid email or password", err)
	}

	uid, err := uc.authClient.VerifyToken(ctx, idToken)
	if err != nil {
		log.Printf("Login Error: Token verification failed for %s: %v", input.Email, err)
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		log.Printf("Login Error: No user record for uid %s: %v", uid, err)
		return nil, errors.NotFound("User", err)
	}

	return &AuthResponse{User: user, Token: idToken}, nil
}

func (uc *AuthUseCase) VerifyToken(ctx context.Context, token string) (string, error) {
	uid, err := uc.authClient.VerifyToken(ctx, token)
	if err != nil {
		return "", errors.Unauthorized("Invalid or expired token", err)
	}
	return uid, nil
}

func (uc *AuthUseCase) ChangePassword(ctx context.Context, uid, oldPassword, newPassword string) error {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		log.Printf("ChangePassword Error: User %s not found: %v", uid, err)
		return errors.NotFound("User", err)
	}

	if _, err := uc.authClient.SignInWithEmailPassword(user.Email, oldPassword); err != nil {
		log.Printf("ChangePassword Error: Old password verification failed for %s: %v", uid, err)
		return errors.Unauthorized("Current password is incorrect", err)
	}

	if err := uc.authClient.UpdateUserPassword(ctx, uid, newPassword); err != nil {
		log.Printf("ChangePassword Error: Failed to update password for %s: %v", uid, err)
		return errors.Internal("Failed to update password", err)
	}

	return nil
}

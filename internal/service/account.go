package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"petstore/internal/core/session"
	"petstore/internal/domain"
	"petstore/pkg/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("incorrect current password")
)

type Account struct {
	users    domain.UserRepository
	sessions *session.Store
	log      *zap.Logger
}

func NewAccount(users domain.UserRepository, sessions *session.Store, log *zap.Logger) *Account {
	return &Account{users: users, sessions: sessions, log: log}
}

type RegisterInput struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register creates the account and signs the new user in on the same session.
func (s *Account) Register(ctx context.Context, sess *session.Session, in RegisterInput) (*domain.User, FieldErrors, error) {
	if errs, err := s.duplicateErrors(ctx, in.Username, in.Email); err != nil || errs != nil {
		return nil, errs, err
	}

	u := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: utils.HashPassword(in.Password),
		FullName:     in.Username,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// concurrent registration can still trip the unique indexes
		if errs, derr := s.duplicateErrors(ctx, in.Username, in.Email); derr == nil && errs != nil {
			return nil, errs, nil
		}
		return nil, nil, err
	}

	sess.SetUser(u.ID, u.Username, u.Role)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, nil, err
	}
	s.log.Info("user registered", zap.Uint("user_id", u.ID), zap.String("username", u.Username))
	return u, nil, nil
}

func (s *Account) duplicateErrors(ctx context.Context, username, email string) (FieldErrors, error) {
	dup, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if dup == nil {
		return nil, nil
	}
	errs := FieldErrors{}
	if dup.Username == username {
		errs["username"] = "Username already exists."
	}
	if dup.Email == email {
		errs["email"] = "Email already exists."
	}
	return errs, nil
}

// Login accepts username or email in the single login field.
func (s *Account) Login(ctx context.Context, sess *session.Session, login, password string) (*domain.User, error) {
	u, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	sess.SetUser(u.ID, u.Username, u.Role)
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return u, nil
}

// Logout evicts the whole session, cart reference included.
func (s *Account) Logout(ctx context.Context, sess *session.Session) error {
	sess.Reset()
	return s.sessions.Delete(ctx, sess.ID)
}

func (s *Account) Profile(ctx context.Context, userID uint) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile changes contact fields only; the username is fixed.
func (s *Account) UpdateProfile(ctx context.Context, userID uint, fullName, email, phone string) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	u.FullName = fullName
	u.Email = email
	u.PhoneNumber = phone
	return s.users.Update(ctx, u)
}

func (s *Account) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	if !utils.CheckPassword(current, u.PasswordHash) {
		return ErrWrongPassword
	}
	u.PasswordHash = utils.HashPassword(next)
	return s.users.Update(ctx, u)
}

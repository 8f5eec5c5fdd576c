// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

// Package shop orchestrates the seller lifecycle: registration request,
// activation token issuance and mail dispatch, token-verified account
// creation, login, and profile maintenance.
package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Jayam07/UrbanComm/internal/models"
	"github.com/Jayam07/UrbanComm/internal/repository"
	"github.com/Jayam07/UrbanComm/internal/services/token"
	"github.com/Jayam07/UrbanComm/internal/uploads"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrSellerExists       = errors.New("seller already exists")
	ErrSellerNotFound     = errors.New("seller not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("missing required fields")
	ErrInvalidPhone       = errors.New("invalid phone number")
)

// dummyHash is used for constant-time login to prevent timing attacks.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Mailer delivers the activation link. Failure is surfaced to the caller so
// registration never reports success for mail that was never sent.
type Mailer interface {
	SendActivation(ctx context.Context, name, toEmail, tokenString string) error
}

// Service implements the seller activation workflow.
type Service struct {
	repo   *repository.Repository
	codec  *token.Codec
	mailer Mailer
	files  *uploads.Store
}

// NewService wires the workflow dependencies.
func NewService(repo *repository.Repository, codec *token.Codec, mailer Mailer, files *uploads.Store) *Service {
	return &Service{
		repo:   repo,
		codec:  codec,
		mailer: mailer,
		files:  files,
	}
}

// RegisterParams holds the submitted profile. Avatar is the filename the
// upload store assigned to the already-saved file.
type RegisterParams struct {
	Name        string
	Email       string
	Password    string
	Avatar      string
	Address     string
	PhoneNumber string
	ZipCode     string
	Longitude   float64
	Latitude    float64
}

func (p RegisterParams) validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 0)),
		validation.Field(&p.Avatar, validation.Required),
	)
}

// normalizePhone validates a submitted phone number and rewrites it to E.164.
// Empty numbers pass through, the storefront treats the field as optional.
func normalizePhone(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	num, err := phonenumbers.Parse(raw, "US")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// Register handles a new shop request: reject duplicates (deleting the
// just-uploaded avatar so nothing orphans), issue the activation token, and
// dispatch the activation mail. No seller row is written here; the pending
// profile lives only inside the token until activation.
func (s *Service) Register(ctx context.Context, params RegisterParams) error {
	if err := params.validate(); err != nil {
		s.files.DeleteIfExists(params.Avatar)
		return fmt.Errorf("%w: %s", ErrMissingFields, err)
	}

	phone, err := normalizePhone(params.PhoneNumber)
	if err != nil {
		s.files.DeleteIfExists(params.Avatar)
		return err
	}
	params.PhoneNumber = phone

	exists, err := s.repo.SellerEmailExists(ctx, params.Email)
	if err != nil {
		s.files.DeleteIfExists(params.Avatar)
		return fmt.Errorf("failed to check existing seller: %w", err)
	}
	if exists {
		s.files.DeleteIfExists(params.Avatar)
		return ErrSellerExists
	}

	tokenString, err := s.codec.Issue(token.PendingSeller{
		Name:        params.Name,
		Email:       params.Email,
		Password:    params.Password,
		Avatar:      params.Avatar,
		Address:     params.Address,
		PhoneNumber: params.PhoneNumber,
		ZipCode:     params.ZipCode,
		Longitude:   params.Longitude,
		Latitude:    params.Latitude,
	})
	if err != nil {
		s.files.DeleteIfExists(params.Avatar)
		return fmt.Errorf("failed to issue activation token: %w", err)
	}

	if err := s.mailer.SendActivation(ctx, params.Name, params.Email, tokenString); err != nil {
		s.files.DeleteIfExists(params.Avatar)
		return fmt.Errorf("failed to send activation mail: %w", err)
	}

	slog.Info("register_requested", "email", params.Email)
	return nil
}

// Activate verifies an activation token and creates the seller record. The
// duplicate check runs again here: a second registration may have completed
// while the token was in flight, and the unique index backstops the window
// between check and create.
func (s *Service) Activate(ctx context.Context, tokenString string) (*models.Seller, error) {
	pending, err := s.codec.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.SellerEmailExists(ctx, pending.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing seller: %w", err)
	}
	if exists {
		return nil, ErrSellerExists
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(pending.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	seller := &models.Seller{
		Name:         pending.Name,
		Email:        pending.Email,
		PasswordHash: string(passwordHash),
		Avatar:       pending.Avatar,
		Address:      pending.Address,
		PhoneNumber:  pending.PhoneNumber,
		ZipCode:      pending.ZipCode,
		Longitude:    pending.Longitude,
		Latitude:     pending.Latitude,
	}

	if err := s.repo.CreateSeller(ctx, seller); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrSellerExists
		}
		return nil, fmt.Errorf("failed to create seller: %w", err)
	}

	slog.Info("seller_activated", "seller_id", seller.ID, "email", seller.Email)
	return seller, nil
}

// Login authenticates a seller by email and password.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Seller, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	seller, err := s.repo.GetSellerByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform a bcrypt comparison.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "seller_not_found")
			return nil, ErrSellerNotFound
		}
		return nil, fmt.Errorf("failed to get seller: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(seller.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	slog.Info("login_success", "seller_id", seller.ID, "email", email)
	return seller, nil
}

// GetSeller loads a seller by id.
func (s *Service) GetSeller(ctx context.Context, id int64) (*models.Seller, error) {
	seller, err := s.repo.GetSellerByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

// UpdateInfoParams mirrors the storefront's edit form. All five fields are
// overwritten on every call; the client always submits the full set.
type UpdateInfoParams struct {
	Name        string
	Description string
	Address     string
	PhoneNumber string
	ZipCode     string
}

// UpdateInfo overwrites the editable profile fields.
func (s *Service) UpdateInfo(ctx context.Context, sellerID int64, params UpdateInfoParams) (*models.Seller, error) {
	if params.Name == "" {
		return nil, ErrMissingFields
	}

	phone, err := normalizePhone(params.PhoneNumber)
	if err != nil {
		return nil, err
	}

	seller, err := s.repo.UpdateSellerInfo(ctx, sellerID, params.Name, params.Description, params.Address, phone, params.ZipCode)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

// UpdateAvatar swaps the stored avatar: the prior file is deleted from disk
// before the record points at the new one, so replacements never orphan.
func (s *Service) UpdateAvatar(ctx context.Context, sellerID int64, newFilename string) (*models.Seller, error) {
	existing, err := s.repo.GetSellerByID(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}

	if existing.Avatar != "" && existing.Avatar != newFilename {
		s.files.DeleteIfExists(existing.Avatar)
	}

	return s.repo.UpdateSellerAvatar(ctx, sellerID, newFilename)
}

// UpdateWithdrawMethod sets payout details.
func (s *Service) UpdateWithdrawMethod(ctx context.Context, sellerID int64, method models.JSONMap) (*models.Seller, error) {
	seller, err := s.repo.UpdateWithdrawMethod(ctx, sellerID, method)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

// DeleteWithdrawMethod clears payout details.
func (s *Service) DeleteWithdrawMethod(ctx context.Context, sellerID int64) (*models.Seller, error) {
	seller, err := s.repo.ClearWithdrawMethod(ctx, sellerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return seller, nil
}

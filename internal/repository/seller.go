// Copyright 2025 UrbanComm Authors
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/Jayam07/UrbanComm/internal/models"
)

// CreateSeller inserts a new seller row. The unique email index maps a
// concurrent duplicate to ErrDuplicateEmail.
func (r *Repository) CreateSeller(ctx context.Context, seller *models.Seller) error {
	if seller.Role == "" {
		seller.Role = "Seller"
	}
	now := time.Now().UTC()
	seller.CreatedAt = now
	seller.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO sellers (name, email, password_hash, description, avatar, address, phone_number, zip_code, longitude, latitude, role, withdraw_method, available_balance, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seller.Name, seller.Email, seller.PasswordHash, seller.Description, seller.Avatar,
		seller.Address, seller.PhoneNumber, seller.ZipCode, seller.Longitude, seller.Latitude,
		seller.Role, seller.WithdrawMethod, seller.Balance, seller.CreatedAt, seller.UpdatedAt)
	if err != nil {
		return wrapError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	seller.ID = id
	return nil
}

// GetSellerByID retrieves a seller by primary key.
func (r *Repository) GetSellerByID(ctx context.Context, id int64) (*models.Seller, error) {
	var seller models.Seller
	err := r.db.GetContext(ctx, &seller, `SELECT * FROM sellers WHERE id = ?`, id)
	if err != nil {
		return nil, wrapError(err)
	}
	return &seller, nil
}

// GetSellerByEmail retrieves a seller by email address.
func (r *Repository) GetSellerByEmail(ctx context.Context, email string) (*models.Seller, error) {
	var seller models.Seller
	err := r.db.GetContext(ctx, &seller, `SELECT * FROM sellers WHERE email = ?`, email)
	if err != nil {
		return nil, wrapError(err)
	}
	return &seller, nil
}

// SellerEmailExists checks if a seller with the given email exists.
func (r *Repository) SellerEmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sellers WHERE email = ?`, email)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateSellerInfo overwrites the profile fields a seller may edit. Overwrite
// semantics are intentional: the storefront always submits every field.
func (r *Repository) UpdateSellerInfo(ctx context.Context, id int64, name, description, address, phoneNumber, zipCode string) (*models.Seller, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sellers SET name = ?, description = ?, address = ?, phone_number = ?, zip_code = ?, updated_at = ? WHERE id = ?`,
		name, description, address, phoneNumber, zipCode, time.Now().UTC(), id)
	if err != nil {
		return nil, wrapError(err)
	}
	return r.GetSellerByID(ctx, id)
}

// UpdateSellerAvatar replaces the stored avatar filename.
func (r *Repository) UpdateSellerAvatar(ctx context.Context, id int64, avatar string) (*models.Seller, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sellers SET avatar = ?, updated_at = ? WHERE id = ?`,
		avatar, time.Now().UTC(), id)
	if err != nil {
		return nil, wrapError(err)
	}
	return r.GetSellerByID(ctx, id)
}

// UpdateWithdrawMethod sets the seller's payout details.
func (r *Repository) UpdateWithdrawMethod(ctx context.Context, id int64, method models.JSONMap) (*models.Seller, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sellers SET withdraw_method = ?, updated_at = ? WHERE id = ?`,
		method, time.Now().UTC(), id)
	if err != nil {
		return nil, wrapError(err)
	}
	return r.GetSellerByID(ctx, id)
}

// ClearWithdrawMethod removes the seller's payout details.
func (r *Repository) ClearWithdrawMethod(ctx context.Context, id int64) (*models.Seller, error) {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sellers SET withdraw_method = NULL, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	if err != nil {
		return nil, wrapError(err)
	}
	return r.GetSellerByID(ctx, id)
}

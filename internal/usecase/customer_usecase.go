package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"kainpos/internal/domain/membership"
	"kainpos/internal/domain/model"
	repo "kainpos/internal/repository"
)

type CustomerUsecase struct {
	tx repo.TransactionManager
}

func NewCustomerUsecase(tx repo.TransactionManager) *CustomerUsecase {
	return &CustomerUsecase{tx: tx}
}

type CreateCustomerInput struct {
	Name  string
	Phone string
	Email string
}

// CreateCustomer は顧客を登録する。
// 名前（大文字小文字を区別しない）・電話・メールはそれぞれ一意。
func (u *CustomerUsecase) CreateCustomer(ctx context.Context, in CreateCustomerInput) (model.Customer, error) {
	name := strings.TrimSpace(in.Name)
	phone := strings.TrimSpace(in.Phone)
	email := strings.TrimSpace(strings.ToLower(in.Email))

	if name == "" {
		return model.Customer{}, NewAppError(KindInvalidInput, "name required")
	}
	if phone == "" {
		return model.Customer{}, NewAppError(KindInvalidInput, "phone required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return model.Customer{}, NewAppError(KindInvalidInput, "invalid email")
	}

	var created model.Customer

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//一意性チェック
		if exists, err := r.Customers().ExistsName(ctx, name); err != nil {
			return NewAppError(KindInternal, "db error")
		} else if exists {
			return NewAppError(KindConflict, "name already registered")
		}
		if exists, err := r.Customers().ExistsPhone(ctx, phone); err != nil {
			return NewAppError(KindInternal, "db error")
		} else if exists {
			return NewAppError(KindConflict, "phone already registered")
		}
		if exists, err := r.Customers().ExistsEmail(ctx, email); err != nil {
			return NewAppError(KindInternal, "db error")
		} else if exists {
			return NewAppError(KindConflict, "email already registered")
		}

		now := time.Now()
		var err error
		created, err = r.Customers().Create(ctx, model.Customer{
			Name:      name,
			Phone:     phone,
			Email:     email,
			Tier:      membership.TierDefault,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return model.Customer{}, err
	}
	return created, nil
}

type CustomerListOutput struct {
	Items []model.Customer `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *CustomerUsecase) ListCustomers(ctx context.Context, page int, limit int) (CustomerListOutput, error) {
	if page < 1 {
		return CustomerListOutput{}, NewAppError(KindInvalidInput, "invalid page")
	}
	if limit < 1 || limit > 100 {
		return CustomerListOutput{}, NewAppError(KindInvalidInput, "invalid limit")
	}

	var out CustomerListOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, total, err := r.Customers().List(ctx, page, limit)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		out = CustomerListOutput{Items: items, Total: total, Page: page, Limit: limit}
		return nil
	})
	if err != nil {
		return CustomerListOutput{}, err
	}
	return out, nil
}

func (u *CustomerUsecase) GetCustomer(ctx context.Context, customerID int64) (model.Customer, error) {
	if customerID <= 0 {
		return model.Customer{}, NewAppError(KindInvalidInput, "invalid customer id")
	}

	var c model.Customer
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		found, err := r.Customers().FindByID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewAppError(KindNotFound, "customer not found")
		}
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		c = found
		return nil
	})
	if err != nil {
		return model.Customer{}, err
	}
	return c, nil
}

// LoyaltyHistoryByCustomer は顧客のロイヤルティ履歴（新しい順）。
func (u *CustomerUsecase) LoyaltyHistoryByCustomer(ctx context.Context, customerID int64) ([]model.LoyaltyHistory, error) {
	if customerID <= 0 {
		return nil, NewAppError(KindInvalidInput, "invalid customer id")
	}

	var items []model.LoyaltyHistory
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		items, err = r.LoyaltyHistories().ListByCustomer(ctx, customerID)
		if err != nil {
			return NewAppError(KindInternal, "db error")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

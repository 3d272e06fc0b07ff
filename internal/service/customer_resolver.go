package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Leganyst/dj-booking/internal/model"
	"github.com/Leganyst/dj-booking/internal/repository"
)

// Контакты клиента из заявки.
type ContactInfo struct {
	Name    string
	Email   string
	Phone   string
	Company *string
	// Адрес и город берём из площадки, только при создании клиента.
	Address *string
	City    *string
}

// ResolveCustomer ищет клиента по точному email. Нашли: перезаписываем
// имя, телефон и компанию. Не нашли: создаём. Вызывается внутри транзакции брони.
func ResolveCustomer(ctx context.Context, customers repository.CustomerRepository, info ContactInfo) (*model.Customer, error) {
	first, last := splitName(info.Name)

	existing, err := customers.FindByEmail(ctx, info.Email)
	switch {
	case err == nil:
		existing.FirstName = first
		existing.LastName = last
		existing.Phone = info.Phone
		existing.Company = info.Company
		if err := customers.UpdateContacts(ctx, existing); err != nil {
			return nil, fmt.Errorf("update customer: %w", err)
		}
		return existing, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("find customer: %w", err)
	}

	c := &model.Customer{
		FirstName: first,
		LastName:  last,
		Email:     info.Email,
		Phone:     info.Phone,
		Company:   info.Company,
		Address:   info.Address,
		City:      info.City,
	}
	if err := customers.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// splitName делит по первому пробелу: "Jan Maria Kowalski" -> "Jan", "Maria Kowalski".
func splitName(name string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	first := parts[0]
	if first == "" {
		first = model.DefaultFirstName
	}
	last := ""
	if len(parts) > 1 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

package repository

import "github.com/invorya/ledger-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP). Solo
// expone lo que registro y login necesitan; no hay administración de
// usuarios más allá del alta.
type UserRepository interface {
	Create(user *entity.User) error
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}

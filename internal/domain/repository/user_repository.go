package repository

import "github.com/jhoicas/stocksync/internal/domain/entity"

// UserRepository puerto de lectura de cuentas para auth.
type UserRepository interface {
	// FindByUsername retorna (nil, nil) si la cuenta no existe.
	FindByUsername(username string) (*entity.User, error)
}

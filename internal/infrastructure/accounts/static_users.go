package accounts

import (
	"fmt"
	"strings"

	"github.com/jhoicas/stocksync/internal/domain/entity"
)

// StaticUserRepository cuentas definidas por configuración (AUTH_USERS).
type StaticUserRepository struct {
	users map[string]entity.User
}

// Parse interpreta "usuario:rol:hash,usuario:rol:hash". Los hashes bcrypt no contienen ':' ni ','.
func Parse(raw string) (*StaticUserRepository, error) {
	repo := &StaticUserRepository{users: make(map[string]entity.User)}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
			return nil, fmt.Errorf("accounts: entrada inválida %q (usuario:rol:hash)", entry)
		}
		if !entity.ValidRole(parts[1]) {
			return nil, fmt.Errorf("accounts: rol %q no reconocido para %s", parts[1], parts[0])
		}
		if _, dup := repo.users[parts[0]]; dup {
			return nil, fmt.Errorf("accounts: usuario duplicado %s", parts[0])
		}
		repo.users[parts[0]] = entity.User{Username: parts[0], Role: parts[1], PasswordHash: parts[2]}
	}
	return repo, nil
}

// FindByUsername implementa repository.UserRepository.
func (r *StaticUserRepository) FindByUsername(username string) (*entity.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// Len cantidad de cuentas cargadas.
func (r *StaticUserRepository) Len() int { return len(r.users) }

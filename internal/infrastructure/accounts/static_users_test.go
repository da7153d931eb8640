package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync/internal/infrastructure/accounts"
)

const hash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z2kG2B2m9p0bS0F3xH3u1vW."

func TestParse_LoadsAccounts(t *testing.T) {
	repo, err := accounts.Parse(" ana:admin:" + hash + ", luis:bodeguero:" + hash + ",")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Len())

	u, err := repo.FindByUsername("luis")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "bodeguero", u.Role)
	assert.Equal(t, hash, u.PasswordHash)

	missing, err := repo.FindByUsername("nadie")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestParse_Empty(t *testing.T) {
	repo, err := accounts.Parse("")
	require.NoError(t, err)
	assert.Equal(t, 0, repo.Len())
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"sin hash":      "ana:admin",
		"rol invalido":  "ana:vendedor:" + hash,
		"usuario vacio": ":admin:" + hash,
		"duplicado":     "ana:admin:" + hash + ",ana:consulta:" + hash,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := accounts.Parse(raw)
			assert.Error(t, err)
		})
	}
}

package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Sincronización con el backend remoto.
	ErrTransport           = errors.New("backend remoto inalcanzable")
	ErrRemoteRejected      = errors.New("el backend remoto rechazó la operación")
	ErrSyncInProgress      = errors.New("sincronización en curso")
	ErrRemoteNotConfigured = errors.New("URL del backend remoto no configurada")
)

// RemoteError lleva el motivo informado por el backend remoto (success=false).
// errors.Is(err, ErrRemoteRejected) es verdadero para cualquier RemoteError.
type RemoteError struct {
	Reason string
}

func (e *RemoteError) Error() string {
	if e.Reason == "" {
		return ErrRemoteRejected.Error()
	}
	return ErrRemoteRejected.Error() + ": " + e.Reason
}

func (e *RemoteError) Unwrap() error { return ErrRemoteRejected }

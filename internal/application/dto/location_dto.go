package dto

// CreateLocationRequest entrada para crear una ubicación.
type CreateLocationRequest struct {
	ID          string `json:"id" validate:"required,max=100"`
	Name        string `json:"name" validate:"required,max=200"`
	Address     string `json:"address" validate:"required,max=300"`
	Description string `json:"description"`
}

// UpdateLocationRequest entrada para editar una ubicación. El ID no se puede cambiar.
type UpdateLocationRequest struct {
	ID          *string `json:"id,omitempty"`
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Address     *string `json:"address" validate:"omitempty,max=300"`
	Description *string `json:"description"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

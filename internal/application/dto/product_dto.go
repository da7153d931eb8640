package dto

// CreateProductRequest entrada para crear un producto. El ID lo elige el usuario.
type CreateProductRequest struct {
	ID          string `json:"id" validate:"required,max=100"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description"`
	Unit        string `json:"unit" validate:"required,max=50"`
	Category    string `json:"category"`
}

// UpdateProductRequest entrada para editar un producto. El ID no se puede cambiar.
type UpdateProductRequest struct {
	ID          *string `json:"id,omitempty"`
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	Unit        *string `json:"unit" validate:"omitempty,max=50"`
	Category    *string `json:"category"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	Category    string `json:"category,omitempty"`
}

package models

// Product representa un producto del catálogo
//
// El precio se maneja en la unidad monetaria menor (enteros),
// nunca en punto flotante.
type Product struct {
	PrdID    int    `json:"prd_id" db:"prd_id"`
	PrdCode  string `json:"prd_code" db:"code"`
	PrdName  string `json:"prd_name" db:"name"`
	PrdPrice int    `json:"prd_price" db:"price"`
}

// SearchProductRequest representa el request de búsqueda por código
type SearchProductRequest struct {
	Code string `json:"code"`
}

// SearchProductResponse representa la respuesta de búsqueda
//
// Un código inexistente no es un error: product viaja como null.
type SearchProductResponse struct {
	Product *Product `json:"product"`
}

package products

// CreateForm is the POST /products request body. An expiration date, when
// present, uses the YYYY-MM-DD layout.
type CreateForm struct {
	Name           string `json:"name" validate:"required,max=255"`
	SKU            string `json:"sku" validate:"required,max=100"`
	CategoryID     *int64 `json:"category_id" validate:"omitempty,gt=0"`
	SupplierID     *int64 `json:"supplier_id" validate:"omitempty,gt=0"`
	Unit           string `json:"unit" validate:"required,oneof=kg sack pack pcs bottle box"`
	Quantity       int64  `json:"quantity" validate:"gte=0"`
	ExpirationDate string `json:"expiration_date" validate:"omitempty,datetime=2006-01-02"`
}

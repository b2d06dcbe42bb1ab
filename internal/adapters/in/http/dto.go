package http

// ErrorResponse is the common error body returned by all endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// LocationDTO carries a geographic coordinate in requests and responses.
type LocationDTO struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OrderItemDTO is one ordered line item in a create order request.
type OrderItemDTO struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unitPrice"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	CustomerID         string         `json:"customerId"`
	RestaurantID       string         `json:"restaurantId"`
	RestaurantLocation LocationDTO    `json:"restaurantLocation"`
	Items              []OrderItemDTO `json:"items"`
}

// CreateOrderResponse returns the identifier of the newly placed order.
type CreateOrderResponse struct {
	ID string `json:"id"`
}

// CancelOrderResponse returns the penalty charged for the cancellation.
type CancelOrderResponse struct {
	Penalty int `json:"penalty"`
}

// RegisterDriverRequest is the body of POST /api/v1/drivers.
type RegisterDriverRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Vehicle string `json:"vehicle"`
}

// RegisterDriverResponse returns the identifier of the newly registered driver.
type RegisterDriverResponse struct {
	ID string `json:"id"`
}

// UpdateDriverLocationRequest is the body of PUT /api/v1/drivers/:id/location.
type UpdateDriverLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DriverResponse is one available driver in GET /api/v1/drivers.
type DriverResponse struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Vehicle  string      `json:"vehicle"`
	Location LocationDTO `json:"location"`
}

// OrderResponse is one active order in GET /api/v1/orders.
type OrderResponse struct {
	ID                 string      `json:"id"`
	Status             string      `json:"status"`
	RestaurantLocation LocationDTO `json:"restaurantLocation"`
}

package transport

import "github.com/google/uuid"

// RestaurantResponse represents a restaurant in API responses.
type RestaurantResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	PhoneNumber      string    `json:"phoneNumber"`
	AgentPhoneNumber string    `json:"agentPhoneNumber"`
	TaxRate          float64   `json:"taxRate"`
	DeliveryFee      float64   `json:"deliveryFee"`
	DeliveryEnabled  bool      `json:"deliveryEnabled"`
	NotifyEmail      *string   `json:"notifyEmail,omitempty"`
	Timezone         string    `json:"timezone"`
	CreatedAt        string    `json:"createdAt"`
	UpdatedAt        string    `json:"updatedAt"`
}

// UpdateRestaurantRequest contains data for updating restaurant settings.
// All fields are optional; omitted fields are left unchanged.
type UpdateRestaurantRequest struct {
	Name            *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	PhoneNumber     *string  `json:"phoneNumber,omitempty" validate:"omitempty,max=20"`
	TaxRate         *float64 `json:"taxRate,omitempty" validate:"omitempty,gte=0,lte=0.3"`
	DeliveryFee     *float64 `json:"deliveryFee,omitempty" validate:"omitempty,gte=0"`
	DeliveryEnabled *bool    `json:"deliveryEnabled,omitempty"`
	NotifyEmail     *string  `json:"notifyEmail,omitempty" validate:"omitempty,email"`
	Timezone        *string  `json:"timezone,omitempty" validate:"omitempty,max=50"`
}

package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShipmentStatus string

const (
	StatusPending    ShipmentStatus = "pending"
	StatusPaid       ShipmentStatus = "paid"
	StatusProcessing ShipmentStatus = "processing"
	StatusPickup     ShipmentStatus = "pickup"
	StatusInTransit  ShipmentStatus = "in_transit"
	StatusDelivered  ShipmentStatus = "delivered"
	StatusCancelled  ShipmentStatus = "cancelled"
)

var statusOrder = map[ShipmentStatus]int{
	StatusPending:    0,
	StatusPaid:       1,
	StatusProcessing: 2,
	StatusPickup:     3,
	StatusInTransit:  4,
	StatusDelivered:  5,
}

func (s ShipmentStatus) Valid() bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusOrder[s]
	return ok
}

// CanTransition reports whether a shipment may move from one status to
// the next. The main line only moves forward one step at a time;
// cancelled is terminal and reachable from any state before delivered.
func CanTransition(from, to ShipmentStatus) bool {
	if from == StatusCancelled || from == StatusDelivered {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	fromOrd, okFrom := statusOrder[from]
	toOrd, okTo := statusOrder[to]
	if !okFrom || !okTo {
		return false
	}
	return toOrd == fromOrd+1
}

// NewTrackingNumber returns a "HER-" prefixed 8-hex-digit tracking number.
func NewTrackingNumber() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return "HER-" + strings.ToUpper(hex.EncodeToString(b))
}

// ShipmentAddress is a snapshot of sender or receiver contact details,
// embedded at booking time and never linked back to the address book.
type ShipmentAddress struct {
	Type       string `bson:"type" json:"type"`
	Name       string `bson:"name" json:"name"`
	Email      string `bson:"email" json:"email"`
	Phone      string `bson:"phone" json:"phone"`
	Country    string `bson:"country" json:"country"`
	State      string `bson:"state" json:"state"`
	City       string `bson:"city" json:"city"`
	Address    string `bson:"address" json:"address"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
}

// ShipmentPackage is one physical parcel line on a shipment.
type ShipmentPackage struct {
	Category    string  `bson:"category" json:"category"`
	Description string  `bson:"description" json:"description"`
	Weight      float64 `bson:"weight" json:"weight"`
	Length      float64 `bson:"length" json:"length"`
	Width       float64 `bson:"width" json:"width"`
	Height      float64 `bson:"height" json:"height"`
	Value       float64 `bson:"value" json:"value"`
	Quantity    int     `bson:"quantity" json:"quantity"`
}

// Shipment is created once at booking. ShippingFee and InsuranceFee keep
// their unrounded values; TotalPrice is the rounded sum. Price fields are
// immutable after creation.
type Shipment struct {
	ID                   primitive.ObjectID  `bson:"_id" json:"_id"`
	TrackingNumber       string              `bson:"tracking_number" json:"tracking_number"`
	UserID               *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Status               ShipmentStatus      `bson:"status" json:"status"`
	ServiceType          ServiceType         `bson:"service_type" json:"service_type"`
	ShipmentOptionID     primitive.ObjectID  `bson:"shipment_option_id" json:"shipment_option_id"`
	InsurancePolicyID    *primitive.ObjectID `bson:"insurance_policy_id,omitempty" json:"insurance_policy_id,omitempty"`
	PickupCountryID      primitive.ObjectID  `bson:"pickup_country_id" json:"pickup_country_id"`
	DestinationCountryID primitive.ObjectID  `bson:"destination_country_id" json:"destination_country_id"`
	PickupCityID         *primitive.ObjectID `bson:"pickup_city_id,omitempty" json:"pickup_city_id,omitempty"`
	DestinationCityID    *primitive.ObjectID `bson:"destination_city_id,omitempty" json:"destination_city_id,omitempty"`
	ChargeableWeight     float64             `bson:"chargeable_weight" json:"chargeable_weight"`
	ShippingFee          float64             `bson:"shipping_fee" json:"shipping_fee"`
	InsuranceFee         float64             `bson:"insurance_fee" json:"insurance_fee"`
	TotalPrice           float64             `bson:"total_price" json:"total_price"`
	Currency             string              `bson:"currency" json:"currency"`
	PaymentMethod        PaymentSnapshot     `bson:"payment_method" json:"payment_method"`
	Addresses            []ShipmentAddress   `bson:"addresses" json:"addresses"`
	Packages             []ShipmentPackage   `bson:"packages" json:"packages"`
	CreatedAt            time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time           `bson:"updated_at" json:"updated_at"`
}

// ShipmentStatusHistory rows are insert-only; tracking and audit views
// read them in order.
type ShipmentStatusHistory struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	ShipmentID  primitive.ObjectID `bson:"shipment_id" json:"shipment_id"`
	Status      ShipmentStatus     `bson:"status" json:"status"`
	Description string             `bson:"description" json:"description"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

func NewStatusHistory(shipmentID primitive.ObjectID, status ShipmentStatus, description string) ShipmentStatusHistory {
	return ShipmentStatusHistory{
		ID:          primitive.NewObjectID(),
		ShipmentID:  shipmentID,
		Status:      status,
		Description: description,
		CreatedAt:   time.Now(),
	}
}

type ShipmentAddressRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Country    string `json:"country" validate:"required"`
	State      string `json:"state"`
	City       string `json:"city"`
	Address    string `json:"address" validate:"required"`
	PostalCode string `json:"postal_code"`
}

type ShipmentPackageRequest struct {
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Weight      float64 `json:"weight" validate:"required,gt=0"`
	Length      float64 `json:"length" validate:"gte=0"`
	Width       float64 `json:"width" validate:"gte=0"`
	Height      float64 `json:"height" validate:"gte=0"`
	Value       float64 `json:"value" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
}

type BookShipmentRequest struct {
	Sender               ShipmentAddressRequest   `json:"sender" validate:"required"`
	Receiver             ShipmentAddressRequest   `json:"receiver" validate:"required"`
	Packages             []ShipmentPackageRequest `json:"packages" validate:"required,min=1,dive"`
	ServiceOptionID      string                   `json:"service_option_id" validate:"required"`
	InsurancePolicyID    string                   `json:"insurance_policy_id"`
	ServiceType          string                   `json:"service_type" validate:"required,oneof=import export"`
	PickupCountryID      string                   `json:"pickup_country_id" validate:"required"`
	DestinationCountryID string                   `json:"destination_country_id" validate:"required"`
	PickupCityID         string                   `json:"pickup_city_id"`
	DestinationCityID    string                   `json:"destination_city_id"`
	PaymentMethodID      string                   `json:"payment_method_id"`
	SaveSenderAddress    bool                     `json:"save_sender_address"`
	SaveReceiverAddress  bool                     `json:"save_receiver_address"`
}

type QuoteRequest struct {
	ServiceType          string  `json:"service_type" validate:"required,oneof=import export"`
	PickupCountryID      string  `json:"pickup_country_id" validate:"required"`
	DestinationCountryID string  `json:"destination_country_id" validate:"required"`
	PickupCityID         string  `json:"pickup_city_id"`
	DestinationCityID    string  `json:"destination_city_id"`
	Weight               float64 `json:"weight"`
	Length               float64 `json:"length"`
	Width                float64 `json:"width"`
	Height               float64 `json:"height"`
	IsVolumetric         bool    `json:"is_volumetric"`
	Value                float64 `json:"value"`
}

type UpdateShipmentStatusRequest struct {
	Status      string `json:"status" validate:"required"`
	Description string `json:"description"`
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InsuranceFeeType string

const (
	InsuranceFeeFlat       InsuranceFeeType = "flat"
	InsuranceFeePercentage InsuranceFeeType = "percentage"
)

// InsurancePolicy prices cover from the declared package value. MinFee
// floors percentage fees only; flat fees are already a fixed amount and
// are never floored.
type InsurancePolicy struct {
	ID                 primitive.ObjectID `bson:"_id" json:"_id"`
	Name               string             `bson:"name" json:"name"`
	Description        string             `bson:"description" json:"description"`
	FeeType            InsuranceFeeType   `bson:"fee_type" json:"fee_type"`
	FeeAmount          float64            `bson:"fee_amount" json:"fee_amount"`
	MinFee             float64            `bson:"min_fee" json:"min_fee"`
	CoveragePercentage float64            `bson:"coverage_percentage" json:"coverage_percentage"`
	IsActive           bool               `bson:"is_active" json:"is_active"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

type InsurancePolicyRequest struct {
	Name               string  `json:"name" validate:"required"`
	Description        string  `json:"description"`
	FeeType            string  `json:"fee_type" validate:"required,oneof=flat percentage"`
	FeeAmount          float64 `json:"fee_amount" validate:"required,gt=0"`
	MinFee             float64 `json:"min_fee" validate:"gte=0"`
	CoveragePercentage float64 `json:"coverage_percentage" validate:"gte=0,lte=100"`
	IsActive           *bool   `json:"is_active"`
}

type InsurancePolicyUpdateRequest struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	FeeType            *string  `json:"fee_type"`
	FeeAmount          *float64 `json:"fee_amount"`
	MinFee             *float64 `json:"min_fee"`
	CoveragePercentage *float64 `json:"coverage_percentage"`
	IsActive           *bool    `json:"is_active"`
}

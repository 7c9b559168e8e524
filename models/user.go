package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type User struct {
	ID         primitive.ObjectID  `bson:"_id" json:"_id"`
	FirstName  string              `bson:"first_name" json:"first_name"`
	LastName   string              `bson:"last_name" json:"last_name"`
	Email      string              `bson:"email" json:"email"`
	Phone      string              `bson:"phone" json:"phone"`
	Role       UserRole            `bson:"role" json:"role"`
	TierID     *primitive.ObjectID `bson:"tier_id,omitempty" json:"tier_id,omitempty"`
	IsVerified bool                `bson:"is_verified" json:"is_verified"`
	Auth       UserAuthData        `bson:"auth,omitempty" json:"-"`
	CreatedAt  time.Time           `bson:"created_at" json:"created_at"`
	ModifiedAt time.Time           `bson:"modified_at" json:"modified_at"`
}

type UserAuthData struct {
	PasswordDigest string    `bson:"password_digest,omitempty" json:"-"`
	ModifiedAt     time.Time `bson:"modified_at"`
}

// VerificationCode is an email OTP with expiry, stored until consumed.
type VerificationCode struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Code      string             `bson:"code" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

type UserRegistrationBody struct {
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone"`
	Password  string `json:"password" validate:"required"`
}

// UpdateProfileBody patches name and phone only. Email and role are
// identity and never change through this path.
type UpdateProfileBody struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=2"`
	LastName  *string `json:"last_name" validate:"omitempty,min=2"`
	Phone     *string `json:"phone"`
}

// ProfileUpdate builds the $set document for the fields actually sent.
// An empty map means there is nothing to write.
func (b UpdateProfileBody) ProfileUpdate() bson.M {
	set := bson.M{}
	if b.FirstName != nil {
		set["first_name"] = *b.FirstName
	}
	if b.LastName != nil {
		set["last_name"] = *b.LastName
	}
	if b.Phone != nil {
		set["phone"] = *b.Phone
	}
	return set
}

type UserLoginBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyOtpBody struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6"`
}

// Address is an address-book entry owned by a user; bookings may copy
// into it best-effort but never reference it live.
type Address struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Type       string             `bson:"type" json:"type"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone" json:"phone"`
	Country    string             `bson:"country" json:"country"`
	State      string             `bson:"state" json:"state"`
	City       string             `bson:"city" json:"city"`
	Address    string             `bson:"address" json:"address"`
	PostalCode string             `bson:"postal_code" json:"postal_code"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

type AddressRequest struct {
	Type       string `json:"type" validate:"required,oneof=sender receiver"`
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required"`
	Country    string `json:"country" validate:"required"`
	State      string `json:"state"`
	City       string `json:"city"`
	Address    string `json:"address" validate:"required"`
	PostalCode string `json:"postal_code"`
}

// Notification is one feed entry for a user. Writes are best-effort and
// never fail the flow that produced them.
type Notification struct {
	ID        primitive.ObjectID     `bson:"_id" json:"_id"`
	UserID    primitive.ObjectID     `bson:"user_id" json:"user_id"`
	Title     string                 `bson:"title" json:"title"`
	Body      string                 `bson:"body" json:"body"`
	Type      string                 `bson:"type" json:"type"`
	Status    string                 `bson:"status" json:"status"`
	MetaData  map[string]interface{} `bson:"metadata" json:"metadata"`
	CreatedAt time.Time              `bson:"created_at" json:"created_at"`
}

type ContactMessage struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Subject   string             `bson:"subject" json:"subject"`
	Message   string             `bson:"message" json:"message"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type ContactMessageRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}

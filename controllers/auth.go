package controllers

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hermexpress-io/api/configs"
	"hermexpress-io/api/email"
	"hermexpress-io/api/helper"
	"hermexpress-io/api/models"
)

func newOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Register creates an account and mails a verification code. The email
// is normalized to lower case; duplicates fail on the unique index.
func Register() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.UserRegistrationBody
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}
		if err := helper.ValidateEmail(req.Email); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}
		if err := helper.ValidatePassword(req.Password); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
		count, err := UserCollection.CountDocuments(ctx, bson.M{"email": emailAddr})
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create account")
			return
		}
		if count > 0 {
			helper.HandleError(c, http.StatusConflict, errors.New("email already registered"), "Email already registered")
			return
		}

		digest, err := helper.HashPassword(req.Password)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create account")
			return
		}

		now := time.Now()
		user := models.User{
			ID:         primitive.NewObjectID(),
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      emailAddr,
			Phone:      req.Phone,
			Role:       models.RoleUser,
			IsVerified: false,
			Auth: models.UserAuthData{
				PasswordDigest: digest,
				ModifiedAt:     now,
			},
			CreatedAt:  now,
			ModifiedAt: now,
		}
		if _, err := UserCollection.InsertOne(ctx, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				helper.HandleError(c, http.StatusConflict, err, "Email already registered")
				return
			}
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to create account")
			return
		}

		if err := issueVerificationCode(ctx, user); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Account created but verification code could not be sent")
			return
		}

		user.Auth.PasswordDigest = ""
		helper.HandleSuccess(c, http.StatusCreated, "Account created, please verify your email", user)
	}
}

func issueVerificationCode(ctx context.Context, user models.User) error {
	code, err := newOtpCode()
	if err != nil {
		return err
	}

	// One live code per user; a resend replaces the previous one.
	if _, err := VerificationCodeCollection.DeleteMany(ctx, bson.M{"user_id": user.ID}); err != nil {
		return err
	}
	verification := models.VerificationCode{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(OTP_EXPIRATION_TIME),
		CreatedAt: time.Now(),
	}
	if _, err := VerificationCodeCollection.InsertOne(ctx, verification); err != nil {
		return err
	}

	EmailPool.Enqueue(email.EmailJob{Type: "otp", Data: email.HermesEmailData{
		SenderName:  user.FirstName,
		SenderEmail: user.Email,
		Code:        code,
	}})
	return nil
}

// VerifyOtp consumes a verification code and marks the account verified.
func VerifyOtp() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.VerifyOtpBody
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		var user models.User
		emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
		if err := UserCollection.FindOne(ctx, bson.M{"email": emailAddr}).Decode(&user); err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Account not found")
			return
		}

		var verification models.VerificationCode
		err := VerificationCodeCollection.FindOne(ctx, bson.M{
			"user_id":    user.ID,
			"code":       req.Code,
			"expires_at": bson.M{"$gt": time.Now()},
		}).Decode(&verification)
		if err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid or expired verification code")
			return
		}

		if _, err := UserCollection.UpdateOne(ctx, bson.M{"_id": user.ID},
			bson.M{"$set": bson.M{"is_verified": true, "modified_at": time.Now()}}); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to verify account")
			return
		}
		if _, err := VerificationCodeCollection.DeleteOne(ctx, bson.M{"_id": verification.ID}); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to verify account")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Email verified successfully", nil)
	}
}

// ResendOtp issues a fresh verification code for an unverified account.
func ResendOtp() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req struct {
			Email string `json:"email" validate:"required,email"`
		}
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		var user models.User
		emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
		if err := UserCollection.FindOne(ctx, bson.M{"email": emailAddr}).Decode(&user); err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "Account not found")
			return
		}
		if user.IsVerified {
			helper.HandleError(c, http.StatusBadRequest, errors.New("account already verified"), "Account already verified")
			return
		}

		if err := issueVerificationCode(ctx, user); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to send verification code")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Verification code sent", nil)
	}
}

// Login issues an access and refresh token pair.
func Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		var req models.UserLoginBody
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		var user models.User
		emailAddr := strings.ToLower(strings.TrimSpace(req.Email))
		if err := UserCollection.FindOne(ctx, bson.M{"email": emailAddr}).Decode(&user); err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid email or password")
			return
		}
		if err := helper.CheckPassword(user.Auth.PasswordDigest, req.Password); err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid email or password")
			return
		}
		if !user.IsVerified {
			helper.HandleError(c, http.StatusForbidden, errors.New("email not verified"), "Please verify your email before logging in")
			return
		}

		token, expiresAt, err := configs.GenerateJWT(user.ID.Hex(), user.Email, string(user.Role))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to login")
			return
		}
		refreshToken, err := configs.GenerateRefreshJWT(user.ID.Hex(), user.Email, string(user.Role))
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to login")
			return
		}

		user.Auth.PasswordDigest = ""
		helper.HandleSuccess(c, http.StatusOK, "Login successful", gin.H{
			"user":          user,
			"token":         token,
			"refresh_token": refreshToken,
			"expires_at":    expiresAt,
		})
	}
}

// RefreshToken swaps a valid refresh token for a new access token.
func RefreshToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RefreshToken string `json:"refresh_token" validate:"required"`
		}
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		claims, err := configs.ValidateRefreshToken(req.RefreshToken)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid refresh token")
			return
		}

		token, expiresAt, err := configs.GenerateJWT(claims.Id, claims.Email, claims.Role)
		if err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to refresh token")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Token refreshed", gin.H{
			"token":      token,
			"expires_at": expiresAt,
		})
	}
}

// Logout blacklists the presented token for the rest of its lifetime.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := configs.ExtractToken(c)
		if tokenString == "" {
			helper.HandleError(c, http.StatusBadRequest, errors.New("no token presented"), "No token presented")
			return
		}
		if err := helper.InvalidateToken(configs.REDIS, tokenString); err != nil {
			helper.HandleError(c, http.StatusInternalServerError, err, "Unable to logout")
			return
		}

		helper.HandleSuccess(c, http.StatusOK, "Logged out successfully", nil)
	}
}

// UpdateProfile patches the caller's name and phone.
func UpdateProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}

		var req models.UpdateProfileBody
		if err := c.BindJSON(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, "Invalid request body")
			return
		}
		if err := Validate.Struct(&req); err != nil {
			helper.HandleError(c, http.StatusBadRequest, err, err.Error())
			return
		}

		set := req.ProfileUpdate()
		if len(set) == 0 {
			helper.HandleError(c, http.StatusBadRequest, errors.New("nothing to update"), "Nothing to update")
			return
		}
		set["modified_at"] = time.Now()

		var user models.User
		err = UserCollection.FindOneAndUpdate(ctx, bson.M{"_id": userID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&user)
		if err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "User not found")
			return
		}
		user.Auth.PasswordDigest = ""

		helper.HandleSuccess(c, http.StatusOK, "Profile updated", user)
	}
}

// CurrentUser returns the authenticated account.
func CurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), REQ_TIMEOUT_SECS)
		defer cancel()

		userID, err := currentUserObjectId(c)
		if err != nil {
			helper.HandleError(c, http.StatusUnauthorized, err, "Invalid user token")
			return
		}

		var user models.User
		if err := UserCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			helper.HandleError(c, http.StatusNotFound, err, "User not found")
			return
		}
		user.Auth.PasswordDigest = ""

		helper.HandleSuccess(c, http.StatusOK, "success", user)
	}
}

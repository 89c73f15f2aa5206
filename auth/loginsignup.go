package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"telecare/db"
	"telecare/filemgr"
	"telecare/globals"
	"telecare/middleware"
	"telecare/models"
	"telecare/rdx"
	"telecare/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

// Identity document form fields accepted at signup.
var signupImageFields = []string{"avatar", "idCardFront", "idCardBack", "holdingIdCard", "diploma"}

func signupHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")
	gender := r.FormValue("gender")

	if username == "" || email == "" || password == "" || gender == "" {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"message": "All fields are required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var existing models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": email}).Decode(&existing)
	if err == nil {
		utils.RespondWithJSON(w, http.StatusConflict, utils.M{"message": "User already exists"})
		return
	}
	if err != mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		UserID:      utils.NewUserID(),
		Username:    username,
		Email:       email,
		Password:    string(hashed),
		Gender:      gender,
		Roles:       r.FormValue("roles"),
		Description: r.FormValue("description"),
		Active:      false,
		CreatedAt:   time.Now(),
	}
	if user.Roles == "" {
		user.Roles = "sick"
	}

	// Identity documents are optional; a failed save is logged and skipped
	// so signup still completes with whatever was stored.
	saved := map[string]string{}
	for _, field := range signupImageFields {
		names, err := filemgr.SaveFormFiles(r.MultipartForm, field, filemgr.EntityUser, filemgr.PicPhoto, false)
		if err != nil {
			log.Printf("signup: saving %s for %s: %v", field, user.UserID, err)
			continue
		}
		if len(names) > 0 {
			saved[field] = "/" + filemgr.ResolvePath(filemgr.EntityUser, filemgr.PicPhoto) + "/" + names[0]
		}
	}
	user.Avatar = saved["avatar"]
	user.IDCardFront = saved["idCardFront"]
	user.IDCardBack = saved["idCardBack"]
	user.HoldingIDCard = saved["holdingIdCard"]
	user.Diploma = saved["diploma"]

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	if err := rdx.RdxSet(fmt.Sprintf("users:%s", user.UserID), user.Username); err != nil {
		log.Printf("signup: failed to cache username: %v", err)
	}

	token, err := issueToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"id":       user.UserID,
		"username": user.Username,
		"email":    user.Email,
		"roles":    user.Roles,
		"token":    token,
	})
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusNotFound, utils.M{"message": "User not found"})
		return
	}

	if !user.Active {
		utils.RespondWithJSON(w, http.StatusForbidden, utils.M{"message": "Account is not activated yet"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondWithJSON(w, http.StatusBadRequest, utils.M{"message": "Invalid credentials"})
		return
	}

	token, err := issueToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	if err := rdx.RdxHset("tokki", user.UserID, token); err != nil {
		log.Printf("login: redis token storage failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"id":       user.UserID,
		"username": user.Username,
		"gender":   user.Gender,
		"email":    user.Email,
		"roles":    user.Roles,
		"avatar":   user.Avatar,
		"token":    token,
	})
}

func logoutHandler(w http.ResponseWriter, r *http.Request) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	if _, err := rdx.RdxHdel("tokki", claims.UserID); err != nil {
		log.Printf("logout: error removing token from redis: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Logged out"})
}

func issueToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Role:     user.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

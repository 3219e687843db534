package controllers

import (
	"errors"
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"

	"genapi/router"
	"genapi/services"
)

const minPasswordLength = 6

type AuthController struct {
	authService services.AuthService
}

func NewAuthController(authService services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type LoginInput struct {
	Identifier string `json:"identifier" description:"Username or email"`
	Password   string `json:"password"`
}

type PasswordResetRequestInput struct {
	Email string `json:"email"`
}

type PasswordResetInput struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// RegisterRoutes sets up the /auth routes. The gate decides which of these
// need a token; only login, register and the reset pair are public.
func (ctl *AuthController) RegisterRoutes(ws *restful.WebService) {
	tags := []string{"auth"}

	ws.Route(ws.POST("/auth/login").To(ctl.login).
		Doc("Authenticate with username or email and receive a token").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(LoginInput{}).
		Returns(http.StatusOK, "Login successful", Envelope{}).
		Returns(http.StatusUnauthorized, "Invalid credentials", Envelope{}))

	ws.Route(ws.POST("/auth/register").To(ctl.register).
		Doc("Register a new account").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.RegisterInput{}).
		Returns(http.StatusCreated, "User registered", Envelope{}).
		Returns(http.StatusBadRequest, "Invalid input or duplicate user", Envelope{}))

	ws.Route(ws.POST("/auth/logout").To(ctl.logout).
		Doc("Revoke the current session").
		Metadata(restfulspec.KeyOpenAPITags, tags))

	ws.Route(ws.GET("/auth/me").To(ctl.me).
		Doc("Current user profile").
		Metadata(restfulspec.KeyOpenAPITags, tags))

	ws.Route(ws.PUT("/auth/profile").To(ctl.updateProfile).
		Doc("Update the current user's profile").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(services.ProfileUpdateInput{}))

	ws.Route(ws.POST("/auth/request-reset").To(ctl.requestPasswordReset).
		Doc("Request a password reset token").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(PasswordResetRequestInput{}))

	ws.Route(ws.POST("/auth/reset-password").To(ctl.resetPassword).
		Doc("Reset the password with a reset token").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(PasswordResetInput{}))

	ws.Route(ws.POST("/auth/change-password").To(ctl.changePassword).
		Doc("Change the password, verifying the current one").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Reads(ChangePasswordInput{}))
}

func (ctl *AuthController) login(req *restful.Request, resp *restful.Response) {
	input := new(LoginInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := requireFields(
		requiredField{"identifier", input.Identifier},
		requiredField{"password", input.Password},
	); len(errs) > 0 {
		writeError(resp, http.StatusBadRequest, "Validation failed", errs...)
		return
	}

	user, err := ctl.authService.Authenticate(input.Identifier, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(resp, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		handleServiceError(resp, err)
		return
	}

	token, err := ctl.authService.GenerateToken(user)
	if err != nil {
		writeError(resp, http.StatusInternalServerError, "Could not generate token")
		return
	}
	if err := ctl.authService.CreateSession(user.ID, token); err != nil {
		writeError(resp, http.StatusInternalServerError, "Failed to create session")
		return
	}

	writeSuccess(resp, http.StatusOK, "Login successful", map[string]any{
		"token": token,
		"user":  user,
	})
}

func (ctl *AuthController) register(req *restful.Request, resp *restful.Response) {
	input := new(services.RegisterInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := requireFields(
		requiredField{"username", input.Username},
		requiredField{"email", input.Email},
		requiredField{"password", input.Password},
	); len(errs) > 0 {
		writeError(resp, http.StatusBadRequest, "Validation failed", errs...)
		return
	}
	if !validEmail(input.Email) {
		writeError(resp, http.StatusBadRequest, "Invalid email format")
		return
	}
	if len(input.Password) < minPasswordLength {
		writeError(resp, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	userID, err := ctl.authService.Register(input)
	if err != nil {
		writeError(resp, http.StatusBadRequest, "Failed to register user. Username or email may already exist.")
		return
	}

	writeSuccess(resp, http.StatusCreated, "User registered successfully", map[string]any{
		"user_id": userID,
	})
}

func (ctl *AuthController) logout(req *restful.Request, resp *restful.Response) {
	token, ok := router.TokenFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if err := ctl.authService.DestroySession(token); err != nil {
		writeError(resp, http.StatusInternalServerError, "Failed to logout")
		return
	}
	writeSuccess(resp, http.StatusOK, "Logout successful", nil)
}

func (ctl *AuthController) me(req *restful.Request, resp *restful.Response) {
	claims, ok := router.ClaimsFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}
	user, err := ctl.authService.GetUserByID(claims.UserID)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Success", user)
}

func (ctl *AuthController) updateProfile(req *restful.Request, resp *restful.Response) {
	claims, ok := router.ClaimsFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}

	input := new(services.ProfileUpdateInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}
	if input.Email != nil && !validEmail(*input.Email) {
		writeError(resp, http.StatusBadRequest, "Invalid email format")
		return
	}

	user, err := ctl.authService.UpdateProfile(claims.UserID, input)
	if err != nil {
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Profile updated successfully", user)
}

func (ctl *AuthController) requestPasswordReset(req *restful.Request, resp *restful.Response) {
	input := new(PasswordResetRequestInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := requireFields(requiredField{"email", input.Email}); len(errs) > 0 {
		writeError(resp, http.StatusBadRequest, "Validation failed", errs...)
		return
	}
	if !validEmail(input.Email) {
		writeError(resp, http.StatusBadRequest, "Invalid email format")
		return
	}

	// The token would be delivered by mail. The response must not reveal
	// whether the address exists.
	if _, err := ctl.authService.GeneratePasswordResetToken(input.Email); err != nil {
		writeError(resp, http.StatusInternalServerError, "An internal error occurred")
		return
	}
	writeSuccess(resp, http.StatusOK, "If the email exists, a reset link has been sent", nil)
}

func (ctl *AuthController) resetPassword(req *restful.Request, resp *restful.Response) {
	input := new(PasswordResetInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := requireFields(
		requiredField{"token", input.Token},
		requiredField{"password", input.Password},
	); len(errs) > 0 {
		writeError(resp, http.StatusBadRequest, "Validation failed", errs...)
		return
	}
	if len(input.Password) < minPasswordLength {
		writeError(resp, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	if err := ctl.authService.ResetPasswordWithToken(input.Token, input.Password); err != nil {
		if errors.Is(err, services.ErrResetTokenInvalid) {
			writeError(resp, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Password reset successful", nil)
}

func (ctl *AuthController) changePassword(req *restful.Request, resp *restful.Response) {
	claims, ok := router.ClaimsFrom(req)
	if !ok {
		writeError(resp, http.StatusUnauthorized, "Unauthorized")
		return
	}
	token, _ := router.TokenFrom(req)

	input := new(ChangePasswordInput)
	if err := req.ReadEntity(input); err != nil {
		writeError(resp, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := requireFields(
		requiredField{"current_password", input.CurrentPassword},
		requiredField{"new_password", input.NewPassword},
	); len(errs) > 0 {
		writeError(resp, http.StatusBadRequest, "Validation failed", errs...)
		return
	}
	if len(input.NewPassword) < minPasswordLength {
		writeError(resp, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	err := ctl.authService.ChangePassword(claims.UserID, input.CurrentPassword, input.NewPassword, token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(resp, http.StatusUnauthorized, "Invalid current password")
			return
		}
		handleServiceError(resp, err)
		return
	}
	writeSuccess(resp, http.StatusOK, "Password changed successfully", nil)
}

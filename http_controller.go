package auth

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
)

// AuthController exposes the credential lifecycle under /authorize
type AuthController struct {
	Debug  bool
	Logger Logger
	Auther Authenticator
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(auther Authenticator, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Auther: auther,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the /authorize endpoints
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) {
	authorize := app.Group("/authorize")

	authorize.Post("/signup", controller.Signup)
	authorize.Post("/login", controller.Login)
	authorize.Post("/token/refresh", controller.RefreshToken)
	authorize.Post("/login/resetPassword", controller.ResetPassword)
	authorize.Post("/login/resetPassword/savePassword", controller.SavePassword)
}

// SignupPayload is the registration body
type SignupPayload struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	DisplayName     string `json:"display_name"`
}

// Validate will run validation rules
func (r SignupPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.DisplayName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.Length(8, 100),
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

func (a *AuthController) Signup(ctx *fiber.Ctx) error {
	payload := new(SignupPayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload", "error", err)
		return badRequest(ctx, "Error parsing body")
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload", "error", err)
		return ctx.Status(fiber.StatusBadRequest).JSON(NewValidationErrorResponse(err))
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("==========================")
	}

	pair, err := a.Auther.Signup(ctx.Context(), SignupRequest{
		Email:           payload.Email,
		Password:        payload.Password,
		ConfirmPassword: payload.ConfirmPassword,
		DisplayName:     payload.DisplayName,
	})
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(pair)
}

// LoginPayload is the login body
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) Login(ctx *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return badRequest(ctx, "Error parsing body")
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(NewValidationErrorResponse(err))
	}

	pair, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(pair)
}

// RefreshPayload carries the bearer refresh token
type RefreshPayload struct {
	RefreshToken string `json:"refresh_token"`
}

// Validate will run validation rules
func (r RefreshPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

func (a *AuthController) RefreshToken(ctx *fiber.Ctx) error {
	payload := new(RefreshPayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("refresh parse payload", "error", err)
		return badRequest(ctx, "Error parsing body")
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(NewValidationErrorResponse(err))
	}

	pair, err := a.Auther.Refresh(ctx.Context(), payload.RefreshToken)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(pair)
}

// ResetPasswordPayload carries the account email
type ResetPasswordPayload struct {
	Email string `json:"email"`
}

// Validate will run validation rules
func (r ResetPasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

func (a *AuthController) ResetPassword(ctx *fiber.Ctx) error {
	payload := new(ResetPasswordPayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("reset password parse payload", "error", err)
		return badRequest(ctx, "Error parsing body")
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(NewValidationErrorResponse(err))
	}

	confirmation, err := a.Auther.RequestPasswordReset(ctx.Context(), payload.Email)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(confirmation)
}

// SavePasswordPayload carries the reset token and the replacement password
type SavePasswordPayload struct {
	ResetToken  string `json:"reset_token"`
	NewPassword string `json:"new_password"`
}

// Validate will run validation rules
func (r SavePasswordPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ResetToken, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) SavePassword(ctx *fiber.Ctx) error {
	payload := new(SavePasswordPayload)

	if err := ctx.BodyParser(payload); err != nil {
		a.Logger.Error("save password parse payload", "error", err)
		return badRequest(ctx, "Error parsing body")
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(NewValidationErrorResponse(err))
	}

	pair, err := a.Auther.ConfirmPasswordReset(ctx.Context(), payload.ResetToken, payload.NewPassword)
	if err != nil {
		return a.renderError(ctx, err)
	}

	return ctx.Status(fiber.StatusOK).JSON(pair)
}

func (a *AuthController) renderError(ctx *fiber.Ctx, err error) error {
	resp := NewErrorResponse(err)
	if resp.Status >= fiber.StatusInternalServerError {
		a.Logger.Error("auth controller error", "error", err)
	}
	return ctx.Status(resp.Status).JSON(resp)
}

func badRequest(ctx *fiber.Ctx, message string) error {
	return ctx.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Status:  fiber.StatusBadRequest,
		Message: message,
	})
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

package accounts

import (
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// CreateUserPayload is the registration body
type CreateUserPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Memo     string `json:"memo"`
}

func (r CreateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 32)),
		validation.Field(&r.Email, validation.Required, validation.Length(0, 64), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 32)),
	)
}

// LoginPayload is the login body
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// UpdateUserPayload carries optional self-service changes
type UpdateUserPayload struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r UpdateUserPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(2, 32)),
		validation.Field(&r.Password, validation.Length(8, 32)),
	)
}

// UserResponse is the public account shape
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// ListUsersResponse is the paginated account listing
type ListUsersResponse struct {
	TotalCount int            `json:"total_count"`
	Page       int            `json:"page"`
	Users      []UserResponse `json:"users"`
}

// TokenResponse is the login result
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AccountControllerRoutes struct {
	Users string
	Login string
}

// AccountController exposes the account use cases over HTTP
type AccountController struct {
	Debug        bool
	Logger       Logger
	Service      *Service
	Routes       *AccountControllerRoutes
	ErrorHandler router.ErrorHandler
}

type AccountControllerOption func(*AccountController) *AccountController

func NewAccountController(service *Service, opts ...AccountControllerOption) *AccountController {
	c := &AccountController{
		Logger:  defLogger{},
		Service: service,
		Routes: &AccountControllerRoutes{
			Users: "/users",
			Login: "/users/login",
		},
	}
	c.ErrorHandler = c.renderError

	for _, opt := range opts {
		if opt != nil {
			c = opt(c)
		}
	}

	return c
}

func (a *AccountController) WithLogger(logger Logger) *AccountController {
	if logger != nil {
		a.Logger = logger
	}
	return a
}

// RegisterAccountRoutes mounts the account endpoints. The protected
// middleware gates every capability that needs a self-scoped identity.
func RegisterAccountRoutes[T any](app router.Router[T], controller *AccountController, protected router.MiddlewareFunc) {
	app.Post(controller.Routes.Users, controller.Create).
		SetName("users.create")

	app.Post(controller.Routes.Login, controller.Login).
		SetName("users.login")

	app.Get(controller.Routes.Users, controller.Index, protected).
		SetName("users.index")

	app.Get(controller.Routes.Users+"/:email", controller.Show, protected).
		SetName("users.show")

	app.Put(controller.Routes.Users, controller.Update, protected).
		SetName("users.update")

	app.Delete(controller.Routes.Users, controller.Delete, protected).
		SetName("users.delete")
}

// Create handles registration
func (a *AccountController) Create(ctx router.Context) error {
	payload := CreateUserPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload"))
	}

	if a.Debug {
		a.Logger.Debug("register payload %s", print.MaybePrettyJSON(map[string]string{
			"name":  payload.Name,
			"email": payload.Email,
		}))
	}

	user, err := a.Service.Register(ctx.Context(), payload.Name, payload.Email, payload.Password, payload.Memo)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, userResponse(user))
}

// Login handles credential verification and token issuance
func (a *AccountController) Login(ctx router.Context) error {
	payload := LoginPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid login payload"))
	}

	token, err := a.Service.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// Show looks up a single account by email
func (a *AccountController) Show(ctx router.Context) error {
	email := ctx.Param("email")

	user, err := a.Service.Get(ctx.Context(), email)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, userResponse(user))
}

// Index returns one page of accounts
func (a *AccountController) Index(ctx router.Context) error {
	page := ctx.QueryInt("page", 1)
	perPage := ctx.QueryInt("items_per_page", 10)

	total, records, err := a.Service.List(ctx.Context(), page, perPage)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	users := make([]UserResponse, 0, len(records))
	for _, record := range records {
		users = append(users, userResponse(record))
	}

	return ctx.JSON(http.StatusOK, ListUsersResponse{
		TotalCount: total,
		Page:       page,
		Users:      users,
	})
}

// Update mutates the authenticated account
func (a *AccountController) Update(ctx router.Context) error {
	principal, ok := PrincipalFromContext(ctx.Context())
	if !ok {
		return AuthErrorHandler(ctx, guardMissingPrincipal)
	}

	payload := UpdateUserPayload{}
	if err := ctx.Bind(&payload); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryBadInput, "malformed request body"))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid update payload"))
	}

	user, err := a.Service.Update(ctx.Context(), principal, payload.Name, payload.Password)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(http.StatusOK, userResponse(user))
}

// Delete removes the authenticated account
func (a *AccountController) Delete(ctx router.Context) error {
	principal, ok := PrincipalFromContext(ctx.Context())
	if !ok {
		return AuthErrorHandler(ctx, guardMissingPrincipal)
	}

	if err := a.Service.Delete(ctx.Context(), principal); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (a *AccountController) renderError(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	a.Logger.Error("Request error",
		"error", richErr.Message,
		"category", richErr.Category,
		"text_code", richErr.TextCode,
	)

	status := HTTPStatus(richErr)
	body := map[string]string{"error": richErr.Message}
	if richErr.TextCode != "" {
		body["code"] = richErr.TextCode
	}

	// Auth failures stay uniform; no detail about which check failed.
	if status == http.StatusUnauthorized {
		body = map[string]string{"error": "invalid credentials", "code": TextCodeInvalidCreds}
	}

	return ctx.JSON(status, body)
}

func userResponse(user *User) UserResponse {
	out := UserResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	}
	if user.CreatedAt != nil {
		out.CreatedAt = user.CreatedAt.Format(time.RFC3339)
	}
	if user.UpdatedAt != nil {
		out.UpdatedAt = user.UpdatedAt.Format(time.RFC3339)
	}
	return out
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cotiza-api/internal/application/admin"
	"github.com/jhoicas/Cotiza-api/internal/application/dto"
)

// AdminHandler vendedores, catálogo, roles, usuarios y ajustes de la organización.
type AdminHandler struct {
	salespeople *admin.SalespersonUseCase
	catalog     *admin.CatalogUseCase
	roles       *admin.RoleUseCase
	users       *admin.UserUseCase
	settings    *admin.SettingsUseCase
	errs        *ErrorResponder
}

// AdminDeps casos de uso administrativos.
type AdminDeps struct {
	Salespeople *admin.SalespersonUseCase
	Catalog     *admin.CatalogUseCase
	Roles       *admin.RoleUseCase
	Users       *admin.UserUseCase
	Settings    *admin.SettingsUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(deps AdminDeps, errs *ErrorResponder) *AdminHandler {
	return &AdminHandler{
		salespeople: deps.Salespeople,
		catalog:     deps.Catalog,
		roles:       deps.Roles,
		users:       deps.Users,
		settings:    deps.Settings,
		errs:        errs,
	}
}

// ── Vendedores ──────────────────────────────────────────────────────────────

// CreateSalesperson godoc
// @Summary      Crear vendedor
// @Tags         salespeople
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SalespersonRequest  true  "vendedor"
// @Success      201   {object}  dto.SalespersonResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/salespeople [post]
func (h *AdminHandler) CreateSalesperson(c *fiber.Ctx) error {
	var in dto.SalespersonRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.salespeople.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateSalesperson PUT /api/salespeople/:id
func (h *AdminHandler) UpdateSalesperson(c *fiber.Ctx) error {
	var in dto.SalespersonRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.salespeople.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// GetSalesperson GET /api/salespeople/:id
func (h *AdminHandler) GetSalesperson(c *fiber.Ctx) error {
	out, err := h.salespeople.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// ListSalespeople GET /api/salespeople
func (h *AdminHandler) ListSalespeople(c *fiber.Ctx) error {
	out, err := h.salespeople.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// ── Catálogo ────────────────────────────────────────────────────────────────

// CreateCatalogItem godoc
// @Summary      Crear servicio del catálogo
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CatalogItemRequest  true  "servicio"
// @Success      201   {object}  dto.CatalogItemResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/catalog [post]
func (h *AdminHandler) CreateCatalogItem(c *fiber.Ctx) error {
	var in dto.CatalogItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.catalog.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateCatalogItem PUT /api/catalog/:id
func (h *AdminHandler) UpdateCatalogItem(c *fiber.Ctx) error {
	var in dto.CatalogItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.catalog.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// ListCatalog GET /api/catalog
func (h *AdminHandler) ListCatalog(c *fiber.Ctx) error {
	out, err := h.catalog.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// ── Roles ───────────────────────────────────────────────────────────────────

// CreateRole godoc
// @Summary      Crear rol
// @Tags         roles
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RoleRequest  true  "nombre y permisos"
// @Success      201   {object}  dto.RoleResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/roles [post]
func (h *AdminHandler) CreateRole(c *fiber.Ctx) error {
	var in dto.RoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.roles.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateRole PUT /api/roles/:id
func (h *AdminHandler) UpdateRole(c *fiber.Ctx) error {
	var in dto.RoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.roles.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// ListRoles GET /api/roles
func (h *AdminHandler) ListRoles(c *fiber.Ctx) error {
	out, err := h.roles.List(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// ListPermissions GET /api/roles/permissions
func (h *AdminHandler) ListPermissions(c *fiber.Ctx) error {
	return c.JSON(h.roles.Permissions())
}

// ── Usuarios ────────────────────────────────────────────────────────────────

// CreateUser godoc
// @Summary      Crear usuario
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/users [post]
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.users.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateUser PUT /api/users/:id
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	var in dto.UpdateUserRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.users.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// ListUsers GET /api/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	out, err := h.users.List(c.UserContext(), pageFrom(c))
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// ── Ajustes ─────────────────────────────────────────────────────────────────

// GetSettings godoc
// @Summary      Ajustes de la organización
// @Tags         settings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Router       /api/settings [get]
func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	out, err := h.settings.Get(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}

// UpdateSettings godoc
// @Summary      Actualizar moneda base, tasas y marca
// @Tags         settings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettingsRequest  true  "ajustes"
// @Success      200   {object}  dto.SettingsResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/settings [put]
func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var in dto.SettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.settings.Update(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return c.JSON(out)
}
